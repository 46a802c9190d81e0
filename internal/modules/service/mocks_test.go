package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/archfolio/archfolio/internal/infra/blob"
	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/archfolio/archfolio/internal/modules/repo"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockBlobStore struct{ mock.Mock }

func (m *mockBlobStore) UploadFormFile(ctx context.Context, fh *multipart.FileHeader, prefix string) (*blob.UploadResult, error) {
	args := m.Called(ctx, fh, prefix)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*blob.UploadResult), args.Error(1)
}

func (m *mockBlobStore) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockBlobStore) DeleteMany(ctx context.Context, keys []string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockBlobStore) PresignGet(ctx context.Context, key string, expire time.Duration) (string, error) {
	args := m.Called(ctx, key, expire)
	return args.String(0), args.Error(1)
}

type mockUploader struct{ mock.Mock }

func (m *mockUploader) UploadOne(ctx context.Context, fh *multipart.FileHeader, projectID uuid.UUID, isMain bool) (*model.Image, error) {
	args := m.Called(ctx, fh, projectID, isMain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *mockUploader) UploadMany(ctx context.Context, fhs []*multipart.FileHeader, projectID uuid.UUID) ([]*model.Image, error) {
	args := m.Called(ctx, fhs, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Image), args.Error(1)
}

func (m *mockUploader) DeleteOne(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *mockUploader) DeleteMany(ctx context.Context, keys []string) error {
	return m.Called(ctx, keys).Error(0)
}

func (m *mockUploader) DownloadURL(ctx context.Context, key string) (string, error) {
	args := m.Called(ctx, key)
	return args.String(0), args.Error(1)
}

type mockProjectRepo struct{ mock.Mock }

func (m *mockProjectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *mockProjectRepo) GetAllPaged(ctx context.Context, pageNumber, pageSize int) ([]model.Project, error) {
	args := m.Called(ctx, pageNumber, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Project), args.Error(1)
}

func (m *mockProjectRepo) Add(ctx context.Context, p *model.Project) error {
	return m.Called(ctx, p).Error(0)
}

func (m *mockProjectRepo) Update(ctx context.Context, id uuid.UUID, updated *model.Project) (*model.Project, error) {
	args := m.Called(ctx, id, updated)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Project), args.Error(1)
}

func (m *mockProjectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

type mockImageRepo struct{ mock.Mock }

func (m *mockImageRepo) GetByID(ctx context.Context, id string) (*model.Image, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *mockImageRepo) GetAllPaged(ctx context.Context, pageNumber, pageSize int) ([]model.Image, error) {
	args := m.Called(ctx, pageNumber, pageSize)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Image), args.Error(1)
}

func (m *mockImageRepo) GetAllByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Image, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Image), args.Error(1)
}

func (m *mockImageRepo) GetMain(ctx context.Context, projectID uuid.UUID) (*model.Image, error) {
	args := m.Called(ctx, projectID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Image), args.Error(1)
}

func (m *mockImageRepo) Add(ctx context.Context, img *model.Image) error {
	return m.Called(ctx, img).Error(0)
}

func (m *mockImageRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

type mockUnitOfWork struct {
	mock.Mock
	projects *mockProjectRepo
	images   *mockImageRepo
}

func newMockUnitOfWork() *mockUnitOfWork {
	return &mockUnitOfWork{projects: new(mockProjectRepo), images: new(mockImageRepo)}
}

func (m *mockUnitOfWork) Projects() repo.ProjectRepository { return m.projects }
func (m *mockUnitOfWork) Images() repo.ImageRepository     { return m.images }

func (m *mockUnitOfWork) Begin(ctx context.Context) error    { return m.Called(ctx).Error(0) }
func (m *mockUnitOfWork) Commit(ctx context.Context) error   { return m.Called(ctx).Error(0) }
func (m *mockUnitOfWork) Rollback(ctx context.Context) error { return m.Called(ctx).Error(0) }
func (m *mockUnitOfWork) SaveChanges(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

type mockFactory struct{ uow *mockUnitOfWork }

func (f *mockFactory) New() repo.UnitOfWork { return f.uow }

type mockPublisher struct{ mock.Mock }

func (m *mockPublisher) PublishJSON(ctx context.Context, routingKey string, body any) error {
	return m.Called(ctx, routingKey, body).Error(0)
}
