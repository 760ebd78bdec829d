package ranking

import (
	"testing"
	"time"

	"social_feed/internal/pkg/config"
	"social_feed/pkg/database"

	"github.com/stretchr/testify/assert"
)

func TestScoreMonotonic(t *testing.T) {
	w := Weights{LikeWeight: 2, CommentWeight: 1, DecayPerSecond: 1.0 / 3600}

	base := w.Score(3, 1, time.Hour)
	assert.GreaterOrEqual(t, w.Score(4, 1, time.Hour), base, "more likes never lowers the score")
	assert.GreaterOrEqual(t, w.Score(3, 2, time.Hour), base, "more comments never lowers the score")
	assert.LessOrEqual(t, w.Score(3, 1, 2*time.Hour), base, "older posts never score higher")
}

func TestScoreTie(t *testing.T) {
	w := Weights{LikeWeight: 2, CommentWeight: 1}

	p1 := w.Score(3, 1, time.Minute)
	p2 := w.Score(1, 5, 10*time.Minute)
	assert.Equal(t, 7.0, p1)
	assert.Equal(t, p1, p2)
}

func TestScoreNegativeAge(t *testing.T) {
	w := Weights{LikeWeight: 1, DecayPerSecond: 1}
	assert.Equal(t, 1.0, w.Score(1, 0, -time.Minute))
}

func TestWindow(t *testing.T) {
	r := NewRanker(config.FeedConfig{RecommendWindow: 7 * 24 * time.Hour})
	now := time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

	assert.Equal(t, now.Add(-7*24*time.Hour), r.Cutoff(now))

	filter, args := r.WindowFilter(database.DialectSQLite, "p.created_at", now)
	assert.Equal(t, "CAST(strftime('%s', p.created_at) AS DOUBLE PRECISION) >= ?", filter)
	assert.Equal(t, []interface{}{float64(now.Add(-7 * 24 * time.Hour).Unix())}, args)
}

func TestExpr(t *testing.T) {
	r := NewRanker(config.FeedConfig{LikeWeight: 2, CommentWeight: 1, DecayPerSecond: 0.5, RecommendWindow: time.Hour})
	now := time.Unix(1000, 0)

	sql, args := r.Expr(database.DialectPostgres, "lc", "cc", "p.created_at", now)
	assert.Contains(t, sql, "EXTRACT(EPOCH FROM p.created_at)")
	assert.Contains(t, sql, "GREATEST(CAST(0 AS DOUBLE PRECISION), ")
	assert.Equal(t, []interface{}{2.0, 1.0, 0.5, 1000.0}, args)

	sql, _ = r.Expr(database.DialectSQLite, "lc", "cc", "p.created_at", now)
	assert.Contains(t, sql, "strftime('%s', p.created_at)")
	assert.Contains(t, sql, "MAX(CAST(0 AS DOUBLE PRECISION), ")

	filter, fargs := r.WindowFilter(database.DialectPostgres, "p.created_at", now)
	assert.Equal(t, "p.created_at >= ?", filter)
	assert.Equal(t, []interface{}{now.Add(-time.Hour)}, fargs)
}
