package mocks

import (
	"context"
	"io"

	imageModel "social_feed/internal/domain/image/model"
	imageService "social_feed/internal/domain/image/service"

	"github.com/stretchr/testify/mock"
)

// MockImageService 供其他领域的服务测试使用
type MockImageService struct {
	mock.Mock
}

func (m *MockImageService) Upload(ctx context.Context, ownerID int64, filename string, size int64, src io.ReadSeeker) (*imageService.UploadResult, error) {
	args := m.Called(ctx, ownerID, filename, size, src)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*imageService.UploadResult), args.Error(1)
}

func (m *MockImageService) PresignedURL(ctx context.Context, hash string) (string, error) {
	args := m.Called(ctx, hash)
	return args.String(0), args.Error(1)
}

func (m *MockImageService) Resolve(ctx context.Context, ownerID int64, hashes []string) ([]imageModel.Image, error) {
	args := m.Called(ctx, ownerID, hashes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]imageModel.Image), args.Error(1)
}

func (m *MockImageService) PostViews(ctx context.Context, postIDs []int64) (map[int64][]imageModel.View, error) {
	args := m.Called(ctx, postIDs)
	return args.Get(0).(map[int64][]imageModel.View), args.Error(1)
}

func (m *MockImageService) UserViews(ctx context.Context, userIDs []int64) (map[int64]imageModel.View, error) {
	args := m.Called(ctx, userIDs)
	return args.Get(0).(map[int64]imageModel.View), args.Error(1)
}
