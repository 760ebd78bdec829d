// Package feed 组装信息流查询：帖子 + 互动聚合 + 排序 + 分页
package feed

import (
	"context"
	"time"

	imageModel "social_feed/internal/domain/image/model"
	"social_feed/internal/domain/post/engagement"
	"social_feed/internal/domain/post/ranking"
	"social_feed/internal/pkg/errs"
	"social_feed/pkg/database"
	"social_feed/pkg/utils"

	"gorm.io/gorm"
)

// Kind 信息流类型
type Kind string

const (
	KindLatest      Kind = "latest"
	KindRecommended Kind = "recommended"
	KindAuthor      Kind = "author"
)

const (
	postColumns = "p.id, p.title, p.text, p.author_id, p.created_at, p.modified_at"

	latestOrder      = "p.created_at DESC, p.id DESC"
	recommendedOrder = "score DESC, " + latestOrder
)

// PostWithEngagement 信息流中的一条帖子
type PostWithEngagement struct {
	ID         int64     `gorm:"column:id" json:"id"`
	Title      string    `gorm:"column:title" json:"title"`
	Text       string    `gorm:"column:text" json:"text"`
	AuthorID   int64     `gorm:"column:author_id" json:"user_id"`
	CreatedAt  time.Time `gorm:"column:created_at" json:"created_at"`
	ModifiedAt time.Time `gorm:"column:modified_at" json:"modified_at"`
	engagement.Snapshot
	Score  *float64          `gorm:"column:score" json:"score,omitempty"`
	Images []imageModel.View `gorm:"-" json:"images"`
}

// Request 信息流请求，AuthorID 仅在 KindAuthor 时使用
type Request struct {
	Kind     Kind
	ViewerID int64
	AuthorID int64
	Page     utils.Page
}

// ImageLoader 批量加载帖子图片
type ImageLoader interface {
	PostViews(ctx context.Context, postIDs []int64) (map[int64][]imageModel.View, error)
}

// Observer 记录查询耗时
type Observer interface {
	ObserveFeedQuery(kind string, d time.Duration, err error)
}

// Composer 信息流查询组装器，本身不重试
type Composer struct {
	db       *gorm.DB
	ranker   *ranking.Ranker
	images   ImageLoader
	observer Observer
}

func NewComposer(db *gorm.DB, ranker *ranking.Ranker, images ImageLoader, observer Observer) *Composer {
	return &Composer{db: db, ranker: ranker, images: images, observer: observer}
}

// plan 分页前的查询、排序及当前页的补充
type plan struct {
	base     *gorm.DB
	order    string
	withPage []database.PageDecorator
}

// Feed 按类型返回一页帖子及总数
func (c *Composer) Feed(ctx context.Context, req Request) (result utils.PageResult[PostWithEngagement], err error) {
	if c.observer != nil {
		start := time.Now()
		defer func() { c.observer.ObserveFeedQuery(string(req.Kind), time.Since(start), err) }()
	}

	q, err := c.query(ctx, req)
	if err != nil {
		return result, err
	}

	result, err = database.Paginate[PostWithEngagement](q.base, q.order, req.Page, q.withPage...)
	if err != nil {
		return result, err
	}
	if err := c.attachImages(ctx, result.Items); err != nil {
		return result, err
	}
	return result, nil
}

func (c *Composer) query(ctx context.Context, req Request) (plan, error) {
	switch req.Kind {
	case KindLatest:
		return c.chronological(ctx, c.visible(ctx), req.ViewerID), nil
	case KindAuthor:
		return c.chronological(ctx, c.visible(ctx).Where("p.author_id = ?", req.AuthorID), req.ViewerID), nil
	case KindRecommended:
		return plan{base: c.recommended(ctx, req.ViewerID), order: recommendedOrder}, nil
	default:
		return plan{}, errs.Validationf("unknown feed kind %q", req.Kind)
	}
}

// Latest 最新流
func (c *Composer) Latest(ctx context.Context, viewerID int64, page utils.Page) (utils.PageResult[PostWithEngagement], error) {
	return c.Feed(ctx, Request{Kind: KindLatest, ViewerID: viewerID, Page: page})
}

// Recommended 推荐流
func (c *Composer) Recommended(ctx context.Context, viewerID int64, page utils.Page) (utils.PageResult[PostWithEngagement], error) {
	return c.Feed(ctx, Request{Kind: KindRecommended, ViewerID: viewerID, Page: page})
}

// ByAuthor 某个用户的帖子
func (c *Composer) ByAuthor(ctx context.Context, authorID, viewerID int64, page utils.Page) (utils.PageResult[PostWithEngagement], error) {
	return c.Feed(ctx, Request{Kind: KindAuthor, AuthorID: authorID, ViewerID: viewerID, Page: page})
}

// visible 未删除帖子，只取帖子列
func (c *Composer) visible(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).
		Table("posts p").
		Select(postColumns).
		Where("p.is_deleted = ?", false)
}

// chronological 按时间倒序分页；互动计数在截取后的当前页上计算，仍是同一条查询
func (c *Composer) chronological(ctx context.Context, base *gorm.DB, viewerID int64) plan {
	withEngagement := func(page *gorm.DB) *gorm.DB {
		return c.db.WithContext(ctx).
			Table("(?) AS p", page).
			Select(postColumns+", "+engagement.Columns).
			Joins(engagement.ViewerLikeJoin, viewerID).
			Order(latestOrder)
	}
	return plan{base: base, order: latestOrder, withPage: []database.PageDecorator{withEngagement}}
}

// recommended 窗口内的帖子连同互动计数与得分，按得分排序必须在库里完成
func (c *Composer) recommended(ctx context.Context, viewerID int64) *gorm.DB {
	now := c.ranker.Now()
	dialect := c.db.Dialector.Name()

	scoreSQL, scoreArgs := c.ranker.Expr(dialect, engagement.LikeCountCol, engagement.CommentCountCol, "p.created_at", now)
	filterSQL, filterArgs := c.ranker.WindowFilter(dialect, "p.created_at", now)

	return c.db.WithContext(ctx).
		Table("posts p").
		Select(postColumns+", "+engagement.Columns+", "+scoreSQL+" AS score", scoreArgs...).
		Joins(engagement.ViewerLikeJoin, viewerID).
		Where("p.is_deleted = ?", false).
		Where(filterSQL, filterArgs...)
}

func postIDs(items []PostWithEngagement) []int64 {
	ids := make([]int64, len(items))
	for i := range items {
		ids[i] = items[i].ID
	}
	return ids
}

func (c *Composer) attachImages(ctx context.Context, items []PostWithEngagement) error {
	if len(items) == 0 {
		return nil
	}
	views, err := c.images.PostViews(ctx, postIDs(items))
	if err != nil {
		return err
	}
	for i := range items {
		items[i].Images = views[items[i].ID]
		if items[i].Images == nil {
			items[i].Images = []imageModel.View{}
		}
	}
	return nil
}
