// Package ranking 计算推荐流的时间衰减互动分
//
//	score = LikeWeight*likes + CommentWeight*comments - DecayPerSecond*age_seconds
//
// 同一组权重既用于内存中的 Score，也用于生成 SQL 排序表达式，保证两边排序一致。
package ranking

import (
	"fmt"
	"time"

	"social_feed/internal/pkg/config"
	"social_feed/pkg/database"
)

// Weights 排序权重，均为非负数
type Weights struct {
	LikeWeight     float64
	CommentWeight  float64
	DecayPerSecond float64
}

// Score 计算单个帖子的得分
func (w Weights) Score(likes, comments int64, age time.Duration) float64 {
	if age < 0 {
		age = 0
	}
	return w.LikeWeight*float64(likes) +
		w.CommentWeight*float64(comments) -
		w.DecayPerSecond*age.Seconds()
}

// Ranker 推荐流排序器
type Ranker struct {
	Weights
	Window time.Duration
	now    func() time.Time
}

func NewRanker(cfg config.FeedConfig) *Ranker {
	return &Ranker{
		Weights: Weights{
			LikeWeight:     cfg.LikeWeight,
			CommentWeight:  cfg.CommentWeight,
			DecayPerSecond: cfg.DecayPerSecond,
		},
		Window: cfg.RecommendWindow,
		now:    time.Now,
	}
}

// WithClock 替换时钟，测试用
func (r *Ranker) WithClock(now func() time.Time) *Ranker {
	nr := *r
	nr.now = now
	return &nr
}

// Now 当前时间
func (r *Ranker) Now() time.Time {
	return r.now()
}

// Cutoff 推荐窗口的起点，早于它的帖子不进入推荐流
func (r *Ranker) Cutoff(now time.Time) time.Time {
	return now.Add(-r.Window)
}

// Expr 生成得分的 SQL 表达式及其参数
//
// likeCol/commentCol 为已聚合的计数列，createdCol 为创建时间列。
// 权重以参数传入并显式转成浮点，避免 postgres 按整数推断参数类型。
// 与 Score 一致，未来时间的帖子年龄按 0 计。
func (r *Ranker) Expr(dialect, likeCol, commentCol, createdCol string, now time.Time) (string, []interface{}) {
	age := database.GreatestExpr(dialect,
		"CAST(0 AS DOUBLE PRECISION)",
		fmt.Sprintf("CAST(? AS DOUBLE PRECISION) - %s", database.EpochExpr(dialect, createdCol)),
	)
	sql := fmt.Sprintf(
		"(CAST(? AS DOUBLE PRECISION) * %s + CAST(? AS DOUBLE PRECISION) * %s - CAST(? AS DOUBLE PRECISION) * %s)",
		likeCol, commentCol, age,
	)
	nowEpoch := float64(now.UnixNano()) / float64(time.Second)
	return sql, []interface{}{r.LikeWeight, r.CommentWeight, r.DecayPerSecond, nowEpoch}
}

// WindowFilter 生成推荐窗口过滤条件
func (r *Ranker) WindowFilter(dialect, createdCol string, now time.Time) (string, []interface{}) {
	cutoff := r.Cutoff(now)
	if dialect == database.DialectSQLite {
		// sqlite 以文本存时间，比较前统一换算成 unix 秒
		return database.EpochExpr(dialect, createdCol) + " >= ?", []interface{}{float64(cutoff.Unix())}
	}
	return createdCol + " >= ?", []interface{}{cutoff}
}
