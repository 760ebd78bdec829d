package database

import (
	"fmt"
	"testing"

	"social_feed/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

type entry struct {
	ID        int64 `gorm:"primaryKey"`
	Bucket    int
	IsDeleted bool
}

func openEntries(t *testing.T, n int) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{
		Logger: gormlogger.Discard,
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(&entry{}))
	for i := 1; i <= n; i++ {
		// 每 5 条一组相同 bucket，检验按 id 兜底的稳定排序
		require.NoError(t, db.Create(&entry{ID: int64(i), Bucket: i / 5, IsDeleted: i%7 == 0}).Error)
	}
	return db
}

func visible(db *gorm.DB) *gorm.DB {
	return db.Table("entries e").Select("e.id, e.bucket").Where("e.is_deleted = ?", false)
}

func TestPaginateCoverage(t *testing.T) {
	db := openEntries(t, 23)
	const order = "e.bucket DESC, e.id DESC"

	var all []entry
	require.NoError(t, visible(db).Order(order).Scan(&all).Error)
	require.Len(t, all, 20)

	seen := make([]int64, 0, len(all))
	for p := 1; p <= 7; p++ {
		page, err := utils.NewPage(p, 3)
		require.NoError(t, err)

		res, err := Paginate[entry](visible(db), order, page)
		require.NoError(t, err)
		assert.Equal(t, int64(20), res.Count, "count must not depend on page")
		assert.LessOrEqual(t, len(res.Items), 3)
		for _, it := range res.Items {
			seen = append(seen, it.ID)
		}
	}

	want := make([]int64, 0, len(all))
	for _, it := range all {
		want = append(want, it.ID)
	}
	assert.Equal(t, want, seen)
}

func TestPaginateZeroPerPage(t *testing.T) {
	db := openEntries(t, 10)
	page, err := utils.NewPage(1, 0)
	require.NoError(t, err)

	res, err := Paginate[entry](visible(db), "e.id DESC", page)
	require.NoError(t, err)
	assert.Equal(t, int64(9), res.Count)
	assert.NotNil(t, res.Items)
	assert.Empty(t, res.Items)
}

func TestPaginatePastEnd(t *testing.T) {
	db := openEntries(t, 4)
	page, err := utils.NewPage(5, 10)
	require.NoError(t, err)

	res, err := Paginate[entry](visible(db), "e.id DESC", page)
	require.NoError(t, err)
	assert.Equal(t, int64(4), res.Count)
	assert.Empty(t, res.Items)
}

func TestPaginateDecoratesPageOnly(t *testing.T) {
	db := openEntries(t, 12)
	page, err := utils.NewPage(2, 4)
	require.NoError(t, err)

	type tagged struct {
		ID  int64
		Tag int
	}
	res, err := Paginate[tagged](visible(db), "e.id DESC", page, func(q *gorm.DB) *gorm.DB {
		return db.Table("(?) AS e", q).Select("e.id, e.bucket * 10 AS tag").Order("e.id DESC")
	})
	require.NoError(t, err)
	assert.Equal(t, int64(11), res.Count)
	// 可见 id：12,11,10,9,8,6,5,4,3,2,1，第二页为 8,6,5,4
	ids := make([]int64, 0, len(res.Items))
	for _, it := range res.Items {
		ids = append(ids, it.ID)
		assert.Equal(t, int(it.ID/5)*10, it.Tag)
	}
	assert.Equal(t, []int64{8, 6, 5, 4}, ids)
}
