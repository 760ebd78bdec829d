package service

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"testing"
	"time"

	"social_feed/internal/domain/image/model"
	"social_feed/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockImageRepository struct {
	mock.Mock
}

func (m *MockImageRepository) Create(ctx context.Context, img *model.Image) error {
	args := m.Called(ctx, img)
	return args.Error(0)
}

func (m *MockImageRepository) GetByHash(ctx context.Context, hash string) (*model.Image, error) {
	args := m.Called(ctx, hash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *MockImageRepository) GetByHashes(ctx context.Context, hashes []string) ([]model.Image, error) {
	args := m.Called(ctx, hashes)
	return args.Get(0).([]model.Image), args.Error(1)
}

func (m *MockImageRepository) ListForPosts(ctx context.Context, postIDs []int64) (map[int64][]model.Image, error) {
	args := m.Called(ctx, postIDs)
	return args.Get(0).(map[int64][]model.Image), args.Error(1)
}

func (m *MockImageRepository) CurrentForUsers(ctx context.Context, userIDs []int64) (map[int64]model.Image, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).(map[int64]model.Image), args.Error(1)
}

type MockUploader struct {
	mock.Mock
}

func (m *MockUploader) Put(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, key, r, size, contentType)
	return args.Error(0)
}

func (m *MockUploader) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

func (m *MockUploader) PublicURL(key string) string {
	return "https://cdn.test/images/" + key
}

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.White)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestUpload(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects extension", func(t *testing.T) {
		svc := NewImageService(new(MockImageRepository), new(MockUploader), time.Hour, 0)
		_, err := svc.Upload(ctx, 1, "doc.gif", 10, bytes.NewReader([]byte("x")))
		assert.ErrorIs(t, err, errs.ErrFileNotAllowed)
	})

	t.Run("rejects non-image content", func(t *testing.T) {
		svc := NewImageService(new(MockImageRepository), new(MockUploader), time.Hour, 0)
		_, err := svc.Upload(ctx, 1, "photo.png", 4, bytes.NewReader([]byte("nope")))
		assert.True(t, errs.Is(err, errs.KindValidation))
	})

	t.Run("rejects oversized file", func(t *testing.T) {
		svc := NewImageService(new(MockImageRepository), new(MockUploader), time.Hour, 10)
		_, err := svc.Upload(ctx, 1, "photo.png", 11, bytes.NewReader([]byte("x")))
		assert.True(t, errs.Is(err, errs.KindValidation))
	})

	t.Run("stores object and record", func(t *testing.T) {
		repo := new(MockImageRepository)
		store := new(MockUploader)
		svc := NewImageService(repo, store, time.Hour, 0)
		data := pngBytes(t, 40, 30)

		store.On("Put", ctx, mock.MatchedBy(func(key string) bool { return len(key) > 4 && key[len(key)-4:] == ".png" }),
			mock.Anything, int64(len(data)), "image/png").Return(nil)
		repo.On("Create", ctx, mock.MatchedBy(func(img *model.Image) bool {
			return img.OwnerID == 7 && img.Width == 40 && img.Height == 30
		})).Return(nil)

		res, err := svc.Upload(ctx, 7, "Photo.PNG", int64(len(data)), bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, 40, res.Width)
		assert.Equal(t, 30, res.Height)
		store.AssertExpectations(t)
		repo.AssertExpectations(t)
	})

	t.Run("storage failure is unavailable", func(t *testing.T) {
		repo := new(MockImageRepository)
		store := new(MockUploader)
		svc := NewImageService(repo, store, time.Hour, 0)
		data := pngBytes(t, 2, 2)

		store.On("Put", ctx, mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return(errors.New("dial tcp"))

		_, err := svc.Upload(ctx, 7, "a.png", int64(len(data)), bytes.NewReader(data))
		assert.True(t, errs.Is(err, errs.KindUnavailable))
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})
}

func TestResolve(t *testing.T) {
	ctx := context.Background()
	repo := new(MockImageRepository)
	svc := NewImageService(repo, new(MockUploader), time.Hour, 0)

	repo.On("GetByHashes", ctx, []string{"b.png", "a.png"}).Return([]model.Image{
		{ID: 1, Hash: "a.png", OwnerID: 5},
		{ID: 2, Hash: "b.png", OwnerID: 5},
	}, nil)
	repo.On("GetByHashes", ctx, []string{"a.png", "c.png"}).Return([]model.Image{
		{ID: 1, Hash: "a.png", OwnerID: 5},
	}, nil)
	repo.On("GetByHashes", ctx, []string{"x.png"}).Return([]model.Image{
		{ID: 9, Hash: "x.png", OwnerID: 6},
	}, nil)

	t.Run("keeps request order and dedupes", func(t *testing.T) {
		images, err := svc.Resolve(ctx, 5, []string{"b.png", "a.png", "b.png"})
		require.NoError(t, err)
		require.Len(t, images, 2)
		assert.Equal(t, int64(2), images[0].ID)
		assert.Equal(t, int64(1), images[1].ID)
	})

	t.Run("unknown hash", func(t *testing.T) {
		_, err := svc.Resolve(ctx, 5, []string{"a.png", "c.png"})
		assert.True(t, errs.Is(err, errs.KindValidation))
	})

	t.Run("foreign image", func(t *testing.T) {
		_, err := svc.Resolve(ctx, 5, []string{"x.png"})
		assert.True(t, errs.Is(err, errs.KindPermissionDenied))
	})

	t.Run("empty", func(t *testing.T) {
		images, err := svc.Resolve(ctx, 5, nil)
		require.NoError(t, err)
		assert.Empty(t, images)
	})
}

func TestPresignedURL(t *testing.T) {
	ctx := context.Background()
	repo := new(MockImageRepository)
	store := new(MockUploader)
	svc := NewImageService(repo, store, time.Hour, 0)

	repo.On("GetByHash", ctx, "a.png").Return(&model.Image{Hash: "a.png"}, nil)
	repo.On("GetByHash", ctx, "gone.png").Return(nil, errs.ErrImageNotFound)
	store.On("PresignGet", ctx, "a.png", time.Hour).Return("https://signed", nil)

	url, err := svc.PresignedURL(ctx, "a.png")
	require.NoError(t, err)
	assert.Equal(t, "https://signed", url)

	_, err = svc.PresignedURL(ctx, "gone.png")
	assert.ErrorIs(t, err, errs.ErrImageNotFound)
}

func TestPostViews(t *testing.T) {
	ctx := context.Background()
	repo := new(MockImageRepository)
	svc := NewImageService(repo, new(MockUploader), time.Hour, 0)

	repo.On("ListForPosts", ctx, []int64{1, 2}).Return(map[int64][]model.Image{
		1: {{Hash: "a.png", Width: 1, Height: 2}},
	}, nil)

	views, err := svc.PostViews(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, []model.View{{Hash: "a.png", URL: "https://cdn.test/images/a.png", Width: 1, Height: 2}}, views[1])
	assert.Empty(t, views[2])
}
