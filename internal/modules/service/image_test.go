package service

import (
	"context"
	"errors"
	"mime/multipart"
	"testing"

	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestAddImages(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("unknown project", func(t *testing.T) {
		uow := newMockUnitOfWork()
		svc := NewImageService(&mockFactory{uow: uow}, new(mockUploader), nil, nil, zap.NewNop())
		uow.projects.On("GetByID", ctx, projectID).Return(nil, nil)

		_, err := svc.AddImages(ctx, projectID, []*multipart.FileHeader{fh("a.jpg")})
		assert.ErrorIs(t, err, ErrProjectNotFound)
	})

	t.Run("records survivors", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uploader := new(mockUploader)
		svc := NewImageService(&mockFactory{uow: uow}, uploader, nil, nil, zap.NewNop())

		files := []*multipart.FileHeader{fh("a.jpg"), fh("b.jpg")}
		uow.projects.On("GetByID", ctx, projectID).Return(&model.Project{ID: projectID}, nil)
		uploader.On("UploadMany", ctx, files, projectID).
			Return([]*model.Image{imageFor("k-a", false), imageFor("k-b", false)}, nil)
		uow.images.On("Add", ctx, mock.Anything).Return(nil).Times(2)
		uow.On("SaveChanges", ctx).Return(nil)

		got, err := svc.AddImages(ctx, projectID, files)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, "k-a", got[0].ID)
		uow.AssertExpectations(t)
	})

	t.Run("compensates on persistence failure", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uploader := new(mockUploader)
		svc := NewImageService(&mockFactory{uow: uow}, uploader, nil, nil, zap.NewNop())

		files := []*multipart.FileHeader{fh("a.jpg")}
		dbErr := errors.New("disk full")
		uow.projects.On("GetByID", ctx, projectID).Return(&model.Project{ID: projectID}, nil)
		uploader.On("UploadMany", ctx, files, projectID).
			Return([]*model.Image{imageFor("k-a", false)}, nil)
		uow.images.On("Add", ctx, mock.Anything).Return(nil)
		uow.On("SaveChanges", ctx).Return(dbErr)
		uploader.On("DeleteMany", ctx, []string{"k-a"}).Return(nil)

		_, err := svc.AddImages(ctx, projectID, files)
		var comp *CompensatedError
		require.ErrorAs(t, err, &comp)
		assert.ErrorIs(t, err, dbErr)
		uploader.AssertCalled(t, "DeleteMany", ctx, []string{"k-a"})
	})
}

func TestReplaceMainImage(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()
	file := fh("new-main.jpg")

	t.Run("swaps record then deletes old object", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uploader := new(mockUploader)
		svc := NewImageService(&mockFactory{uow: uow}, uploader, nil, nil, zap.NewNop())

		old := &model.Image{ID: "k-old", IsMain: true, ProjectID: projectID}
		uow.projects.On("GetByID", ctx, projectID).Return(&model.Project{ID: projectID}, nil)
		uow.images.On("GetMain", ctx, projectID).Return(old, nil)
		uploader.On("UploadOne", ctx, file, projectID, true).
			Return(imageFor("k-new", true), nil)
		uow.images.On("Delete", ctx, "k-old").Return(nil)
		uow.images.On("Add", ctx, mock.Anything).Return(nil)
		uow.On("SaveChanges", ctx).Return(nil)
		uploader.On("DeleteOne", ctx, "k-old").Return(nil)

		got, err := svc.ReplaceMainImage(ctx, projectID, file)
		require.NoError(t, err)
		assert.Equal(t, "k-new", got.ID)
		assert.True(t, got.IsMain)
		uow.AssertExpectations(t)
		uploader.AssertCalled(t, "DeleteOne", ctx, "k-old")
	})

	t.Run("no previous main", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uploader := new(mockUploader)
		svc := NewImageService(&mockFactory{uow: uow}, uploader, nil, nil, zap.NewNop())

		uow.projects.On("GetByID", ctx, projectID).Return(&model.Project{ID: projectID}, nil)
		uow.images.On("GetMain", ctx, projectID).Return(nil, nil)
		uploader.On("UploadOne", ctx, file, projectID, true).
			Return(imageFor("k-new", true), nil)
		uow.images.On("Add", ctx, mock.Anything).Return(nil)
		uow.On("SaveChanges", ctx).Return(nil)

		got, err := svc.ReplaceMainImage(ctx, projectID, file)
		require.NoError(t, err)
		assert.Equal(t, "k-new", got.ID)
		uow.images.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
		uploader.AssertNotCalled(t, "DeleteOne", mock.Anything, mock.Anything)
	})

	t.Run("compensates new upload on persistence failure", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uploader := new(mockUploader)
		svc := NewImageService(&mockFactory{uow: uow}, uploader, nil, nil, zap.NewNop())

		dbErr := errors.New("serialization failure")
		uow.projects.On("GetByID", ctx, projectID).Return(&model.Project{ID: projectID}, nil)
		uow.images.On("GetMain", ctx, projectID).Return(&model.Image{ID: "k-old"}, nil)
		uploader.On("UploadOne", ctx, file, projectID, true).
			Return(imageFor("k-new", true), nil)
		uow.images.On("Delete", ctx, "k-old").Return(nil)
		uow.images.On("Add", ctx, mock.Anything).Return(nil)
		uow.On("SaveChanges", ctx).Return(dbErr)
		uploader.On("DeleteMany", ctx, []string{"k-new"}).Return(nil)

		_, err := svc.ReplaceMainImage(ctx, projectID, file)
		var comp *CompensatedError
		require.ErrorAs(t, err, &comp)
		// The previous main object stays: its row still exists.
		uploader.AssertNotCalled(t, "DeleteOne", mock.Anything, "k-old")
	})
}

func TestDeleteImages(t *testing.T) {
	ctx := context.Background()
	projectID := uuid.New()

	t.Run("unknown ids are skipped", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uploader := new(mockUploader)
		svc := NewImageService(&mockFactory{uow: uow}, uploader, nil, nil, zap.NewNop())
		uow.images.On("GetByID", ctx, "k-missing").Return(nil, nil)

		assert.NoError(t, svc.DeleteImages(ctx, []string{"k-missing"}))
		uow.images.AssertNotCalled(t, "Delete", ctx, "k-missing")
		uow.AssertNotCalled(t, "SaveChanges", ctx)
		uploader.AssertNotCalled(t, "DeleteMany", ctx, mock.Anything)
	})

	t.Run("known ids survive an unknown one", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uploader := new(mockUploader)
		svc := NewImageService(&mockFactory{uow: uow}, uploader, nil, nil, zap.NewNop())

		uow.images.On("GetByID", ctx, "k-a").Return(&model.Image{ID: "k-a", ProjectID: projectID}, nil)
		uow.images.On("GetByID", ctx, "k-missing").Return(nil, nil)
		uow.images.On("Delete", ctx, "k-a").Return(nil)
		uow.On("SaveChanges", ctx).Return(nil)
		uploader.On("DeleteMany", ctx, []string{"k-a"}).Return(nil)

		require.NoError(t, svc.DeleteImages(ctx, []string{"k-a", "k-missing"}))
		uploader.AssertCalled(t, "DeleteMany", ctx, []string{"k-a"})
	})

	t.Run("deletes rows then objects", func(t *testing.T) {
		uow := newMockUnitOfWork()
		uploader := new(mockUploader)
		svc := NewImageService(&mockFactory{uow: uow}, uploader, nil, nil, zap.NewNop())

		uow.images.On("GetByID", ctx, "k-a").Return(&model.Image{ID: "k-a", ProjectID: projectID}, nil)
		uow.images.On("GetByID", ctx, "k-b").Return(&model.Image{ID: "k-b", ProjectID: projectID}, nil)
		uow.images.On("Delete", ctx, "k-a").Return(nil)
		uow.images.On("Delete", ctx, "k-b").Return(nil)
		uow.On("SaveChanges", ctx).Return(nil)
		uploader.On("DeleteMany", ctx, []string{"k-a", "k-b"}).Return(nil)

		require.NoError(t, svc.DeleteImages(ctx, []string{"k-a", "k-b"}))
		uploader.AssertCalled(t, "DeleteMany", ctx, []string{"k-a", "k-b"})
	})

	t.Run("empty is a no-op", func(t *testing.T) {
		uow := newMockUnitOfWork()
		svc := NewImageService(&mockFactory{uow: uow}, new(mockUploader), nil, nil, zap.NewNop())
		require.NoError(t, svc.DeleteImages(ctx, nil))
	})
}
