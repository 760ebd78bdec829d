package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	imageModel "social_feed/internal/domain/image/model"
	imageRepository "social_feed/internal/domain/image/repository"
	"social_feed/internal/domain/user/model"
	"social_feed/internal/pkg/errs"
	"social_feed/internal/pkg/testutil"
	"social_feed/pkg/utils"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func TestUserRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	alice := &model.User{Login: "alice", Name: "Alice", Password: "h"}
	require.NoError(t, repo.Create(ctx, alice))
	require.NotZero(t, alice.ID)

	t.Run("duplicate login", func(t *testing.T) {
		err := repo.Create(ctx, &model.User{Login: "alice", Name: "x", Password: "h"})
		assert.ErrorIs(t, err, errs.ErrLoginTaken)
	})

	t.Run("lookup", func(t *testing.T) {
		got, err := repo.GetByLogin(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, got.ID)

		_, err = repo.GetByID(ctx, 9999)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})

	t.Run("partial profile update", func(t *testing.T) {
		about := "hello"
		require.NoError(t, repo.UpdateProfile(ctx, alice.ID, ProfileUpdate{About: &about}))
		got, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice", got.Name)
		require.NotNil(t, got.About)
		assert.Equal(t, "hello", *got.About)

		require.NoError(t, repo.UpdateProfile(ctx, alice.ID, ProfileUpdate{}))
	})

	t.Run("profile with image", func(t *testing.T) {
		a := &imageModel.Image{Hash: "a.png", Width: 1, Height: 1, OwnerID: alice.ID}
		b := &imageModel.Image{Hash: "b.png", Width: 1, Height: 1, OwnerID: alice.ID}
		require.NoError(t, db.Create(a).Error)
		require.NoError(t, db.Create(b).Error)
		images := imageRepository.NewImageRepository(db)

		name := "Alice A."
		require.NoError(t, repo.UpdateProfile(ctx, alice.ID, ProfileUpdate{Name: &name, ImageID: &a.ID}))
		got, err := repo.GetByID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alice A.", got.Name)

		current, err := images.CurrentForUsers(ctx, []int64{alice.ID})
		require.NoError(t, err)
		assert.Equal(t, "a.png", current[alice.ID].Hash)

		// 重新选中旧头像时刷新时间，不新增记录
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, repo.UpdateProfile(ctx, alice.ID, ProfileUpdate{ImageID: &b.ID}))
		time.Sleep(10 * time.Millisecond)
		require.NoError(t, repo.UpdateProfile(ctx, alice.ID, ProfileUpdate{ImageID: &a.ID}))
		current, err = images.CurrentForUsers(ctx, []int64{alice.ID})
		require.NoError(t, err)
		assert.Equal(t, "a.png", current[alice.ID].Hash)

		var n int64
		require.NoError(t, db.Model(&imageModel.UserImage{}).Where("user_id = ?", alice.ID).Count(&n).Error)
		assert.Equal(t, int64(2), n)
	})

	t.Run("list skips deleted users", func(t *testing.T) {
		bob := testutil.CreateUser(t, db, "bob")
		gone := testutil.CreateUser(t, db, "gone")
		require.NoError(t, db.Model(gone).Update("is_deleted", true).Error)

		pg, err := utils.NewPage(1, 10)
		require.NoError(t, err)
		res, err := repo.List(ctx, pg)
		require.NoError(t, err)
		assert.Equal(t, int64(2), res.Count)
		require.Len(t, res.Items, 2)
		assert.Equal(t, alice.ID, res.Items[0].ID)
		assert.Equal(t, bob.ID, res.Items[1].ID)

		_, err = repo.GetByID(ctx, gone.ID)
		assert.ErrorIs(t, err, errs.ErrUserNotFound)
	})
}

func TestUpdateProfileRollsBack(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer sqlDB.Close()

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)
	repo := NewUserRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "users" SET`).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`UPDATE "user_images" SET`).WillReturnError(errors.New("write failed"))
	mock.ExpectRollback()

	name, imageID := "Alice", int64(3)
	err = repo.UpdateProfile(context.Background(), 1, ProfileUpdate{Name: &name, ImageID: &imageID})
	assert.True(t, errs.Is(err, errs.KindInternal))
	assert.NoError(t, mock.ExpectationsWereMet())
}
