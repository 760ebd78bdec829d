// Package testutil 提供基于内存 SQLite 的测试数据库
package testutil

import (
	"fmt"
	"strings"
	"testing"
	"time"

	imageModel "social_feed/internal/domain/image/model"
	postModel "social_feed/internal/domain/post/model"
	userModel "social_feed/internal/domain/user/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// OpenDB 打开一个独立的内存库并建好全部表
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         gormlogger.Discard,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	// 内存库只能共享一个连接
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&userModel.User{},
		&imageModel.Image{},
		&imageModel.PostImage{},
		&imageModel.UserImage{},
		&postModel.Post{},
		&postModel.Like{},
		&postModel.Comment{},
	))
	return db
}

// CreateUser 插入一个用户
func CreateUser(t *testing.T, db *gorm.DB, login string) *userModel.User {
	t.Helper()
	u := &userModel.User{Login: login, Name: login, Password: "x"}
	require.NoError(t, db.Create(u).Error)
	return u
}

// CreatePost 插入一个指定创建时间的帖子
func CreatePost(t *testing.T, db *gorm.DB, authorID int64, title string, at time.Time) *postModel.Post {
	t.Helper()
	p := &postModel.Post{Title: title, Text: title, AuthorID: authorID}
	p.CreatedAt = at.UTC()
	p.ModifiedAt = at.UTC()
	require.NoError(t, db.Create(p).Error)
	return p
}

// Like 插入一条点赞
func Like(t *testing.T, db *gorm.DB, postID, userID int64) {
	t.Helper()
	require.NoError(t, db.Create(&postModel.Like{PostID: postID, UserID: userID, CreatedAt: time.Now().UTC()}).Error)
}

// Comment 插入一条评论
func Comment(t *testing.T, db *gorm.DB, postID, authorID int64, deleted bool) *postModel.Comment {
	t.Helper()
	c := &postModel.Comment{PostID: postID, AuthorID: authorID, Text: "comment"}
	require.NoError(t, db.Create(c).Error)
	if deleted {
		require.NoError(t, db.Model(c).Update("is_deleted", true).Error)
	}
	return c
}
