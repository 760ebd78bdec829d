package repository

import (
	"context"
	"testing"
	"time"

	"social_feed/internal/domain/image/model"
	"social_feed/internal/pkg/errs"
	"social_feed/internal/pkg/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImageRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewImageRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "owner")
	post := testutil.CreatePost(t, db, owner.ID, "p", time.Now())

	a := &model.Image{Hash: "a.png", Width: 1, Height: 1, OwnerID: owner.ID}
	b := &model.Image{Hash: "b.png", Width: 2, Height: 2, OwnerID: owner.ID}
	require.NoError(t, repo.Create(ctx, a))
	require.NoError(t, repo.Create(ctx, b))

	t.Run("get by hash", func(t *testing.T) {
		img, err := repo.GetByHash(ctx, "a.png")
		require.NoError(t, err)
		assert.Equal(t, a.ID, img.ID)

		_, err = repo.GetByHash(ctx, "missing.png")
		assert.ErrorIs(t, err, errs.ErrImageNotFound)
	})

	t.Run("post images keep position", func(t *testing.T) {
		require.NoError(t, db.Create(&model.PostImage{PostID: post.ID, ImageID: b.ID, Position: 0}).Error)
		require.NoError(t, db.Create(&model.PostImage{PostID: post.ID, ImageID: a.ID, Position: 1}).Error)

		got, err := repo.ListForPosts(ctx, []int64{post.ID, 999})
		require.NoError(t, err)
		require.Len(t, got[post.ID], 2)
		assert.Equal(t, "b.png", got[post.ID][0].Hash)
		assert.Equal(t, "a.png", got[post.ID][1].Hash)
		assert.Empty(t, got[999])
	})

	t.Run("latest profile image wins", func(t *testing.T) {
		now := time.Now().UTC()
		require.NoError(t, db.Create(&model.UserImage{UserID: owner.ID, ImageID: a.ID, CreatedAt: now.Add(-time.Minute)}).Error)
		require.NoError(t, db.Create(&model.UserImage{UserID: owner.ID, ImageID: b.ID, CreatedAt: now}).Error)

		got, err := repo.CurrentForUsers(ctx, []int64{owner.ID, 999})
		require.NoError(t, err)
		assert.Equal(t, "b.png", got[owner.ID].Hash)
		_, ok := got[999]
		assert.False(t, ok)
	})
}
