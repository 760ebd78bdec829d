// Package engagement 聚合帖子的点赞数、评论数以及当前用户是否点赞
package engagement

import (
	"context"

	"social_feed/pkg/database"

	"github.com/jmoiron/sqlx"
)

// Snapshot 单个帖子在查询时刻的互动快照，每次查询现算，不缓存
type Snapshot struct {
	PostID       int64 `db:"post_id" gorm:"-" json:"-"`
	LikeCount    int64 `db:"like_count" gorm:"column:like_count" json:"like_count"`
	CommentCount int64 `db:"comment_count" gorm:"column:comment_count" json:"comment_count"`
	IsLiked      bool  `db:"is_liked" gorm:"column:is_liked" json:"is_liked"`
}

// 以下片段供 feed 查询直接拼进主查询，帖子表别名须为 p
// 计数均为按 p.id 关联的子查询，只对候选帖子走索引，不扫整张 likes / comments

// ViewerLikeJoin 当前用户的点赞记录，参数为 viewer id
const ViewerLikeJoin = "LEFT JOIN likes vl ON vl.post_id = p.id AND vl.user_id = ?"

const (
	LikeCountCol    = "(SELECT COUNT(DISTINCT l.user_id) FROM likes l WHERE l.post_id = p.id)"
	CommentCountCol = "(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id AND NOT c.is_deleted)"
	IsLikedCol      = "(vl.user_id IS NOT NULL)"
)

// Columns 主查询的 SELECT 列
const Columns = LikeCountCol + " AS like_count, " + CommentCountCol + " AS comment_count, " + IsLikedCol + " AS is_liked"

const snapshotQuery = `
SELECT p.id AS post_id, ` + Columns + `
FROM posts p
` + ViewerLikeJoin + `
WHERE p.id IN (?)`

// Aggregator 批量计算互动快照
type Aggregator struct {
	db *sqlx.DB
}

func NewAggregator(db *sqlx.DB) *Aggregator {
	return &Aggregator{db: db}
}

// Snapshots 一次查询返回全部 postIDs 的快照，不存在的帖子不出现在结果中
func (a *Aggregator) Snapshots(ctx context.Context, postIDs []int64, viewerID int64) (map[int64]Snapshot, error) {
	out := make(map[int64]Snapshot, len(postIDs))
	if len(postIDs) == 0 {
		return out, nil
	}

	query, args, err := sqlx.In(snapshotQuery, viewerID, postIDs)
	if err != nil {
		return nil, err
	}

	var rows []Snapshot
	if err := a.db.SelectContext(ctx, &rows, a.db.Rebind(query), args...); err != nil {
		return nil, database.Classify(err)
	}
	for _, s := range rows {
		out[s.PostID] = s
	}
	return out, nil
}

// Snapshot 单个帖子的快照，帖子不存在时返回零值快照
func (a *Aggregator) Snapshot(ctx context.Context, postID, viewerID int64) (Snapshot, error) {
	m, err := a.Snapshots(ctx, []int64{postID}, viewerID)
	if err != nil {
		return Snapshot{}, err
	}
	s, ok := m[postID]
	if !ok {
		return Snapshot{PostID: postID}, nil
	}
	return s, nil
}
