package service

import (
	"context"
	"mime/multipart"

	"github.com/archfolio/archfolio/internal/infra/cache"
	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/archfolio/archfolio/internal/modules/repo"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ImageService interface {
	// AddImages uploads a batch of collection images for an existing project
	// and records the survivors.
	AddImages(ctx context.Context, projectID uuid.UUID, fhs []*multipart.FileHeader) ([]model.Image, error)
	// ReplaceMainImage uploads the new main image, then swaps the record for
	// the old one in a single transaction, then deletes the old object.
	ReplaceMainImage(ctx context.Context, projectID uuid.UUID, fh *multipart.FileHeader) (*model.Image, error)
	DeleteImages(ctx context.Context, ids []string) error
	GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Image, error)
	GetByID(ctx context.Context, id string) (*model.Image, error)
	// GetDownloadURL mints a short-lived presigned URL for the image object.
	GetDownloadURL(ctx context.Context, id string) (string, error)
}

type imageService struct {
	uows     repo.Factory
	uploader ImageUploader
	cache    *cache.ProjectCache
	events   EventPublisher
	log      *zap.Logger
}

func NewImageService(uows repo.Factory, uploader ImageUploader, pc *cache.ProjectCache, events EventPublisher, log *zap.Logger) ImageService {
	return &imageService{uows: uows, uploader: uploader, cache: pc, events: events, log: log}
}

type imageEvent struct {
	ProjectID string   `json:"project_id"`
	ImageIDs  []string `json:"image_ids"`
}

func (s *imageService) AddImages(ctx context.Context, projectID uuid.UUID, fhs []*multipart.FileHeader) ([]model.Image, error) {
	uow := s.uows.New()
	project, err := uow.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}

	uploaded, err := s.uploader.UploadMany(ctx, fhs, projectID)
	if err != nil {
		return nil, err
	}

	for _, img := range uploaded {
		if err := uow.Images().Add(ctx, img); err != nil {
			return nil, s.compensateImages(ctx, uploaded, err)
		}
	}
	if err := uow.SaveChanges(ctx); err != nil {
		return nil, s.compensateImages(ctx, uploaded, err)
	}

	out := make([]model.Image, len(uploaded))
	ids := make([]string, len(uploaded))
	for i, img := range uploaded {
		out[i] = *img
		ids[i] = img.ID
	}
	s.cache.Invalidate(ctx, projectID)
	s.publish(ctx, "image.added", imageEvent{ProjectID: projectID.String(), ImageIDs: ids})
	return out, nil
}

func (s *imageService) ReplaceMainImage(ctx context.Context, projectID uuid.UUID, fh *multipart.FileHeader) (*model.Image, error) {
	uow := s.uows.New()
	project, err := uow.Projects().GetByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	old, err := uow.Images().GetMain(ctx, projectID)
	if err != nil {
		return nil, err
	}

	next, err := s.uploader.UploadOne(ctx, fh, projectID, true)
	if err != nil {
		return nil, err
	}

	if old != nil {
		if err := uow.Images().Delete(ctx, old.ID); err != nil {
			return nil, s.compensateImages(ctx, []*model.Image{next}, err)
		}
	}
	if err := uow.Images().Add(ctx, next); err != nil {
		return nil, s.compensateImages(ctx, []*model.Image{next}, err)
	}
	if err := uow.SaveChanges(ctx); err != nil {
		return nil, s.compensateImages(ctx, []*model.Image{next}, err)
	}

	// The old object only goes once its row is gone. Failure here orphans an
	// object, never a row.
	if old != nil {
		if err := s.uploader.DeleteOne(ctx, old.ID); err != nil {
			s.log.Error("failed to delete replaced main image object",
				zap.String("image_id", old.ID), zap.Error(err))
		}
	}

	s.cache.Invalidate(ctx, projectID)
	s.publish(ctx, "image.main_replaced", imageEvent{ProjectID: projectID.String(), ImageIDs: []string{next.ID}})
	return next, nil
}

func (s *imageService) DeleteImages(ctx context.Context, ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	uow := s.uows.New()

	var (
		keys      []string
		projectID uuid.UUID
	)
	for _, id := range ids {
		img, err := uow.Images().GetByID(ctx, id)
		if err != nil {
			return err
		}
		if img == nil {
			// Deletes are idempotent from the caller's perspective; unknown
			// ids are skipped, not an error.
			s.log.Debug("skipping unknown image id on delete", zap.String("image_id", id))
			continue
		}
		if err := uow.Images().Delete(ctx, id); err != nil {
			return err
		}
		keys = append(keys, img.ID)
		projectID = img.ProjectID
	}
	if len(keys) == 0 {
		return nil
	}
	if err := uow.SaveChanges(ctx); err != nil {
		return err
	}

	if err := s.uploader.DeleteMany(ctx, keys); err != nil {
		s.log.Error("failed to delete image objects", zap.Strings("keys", keys), zap.Error(err))
	}

	s.cache.Invalidate(ctx, projectID)
	s.publish(ctx, "image.deleted", imageEvent{ProjectID: projectID.String(), ImageIDs: keys})
	return nil
}

func (s *imageService) GetByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Image, error) {
	return s.uows.New().Images().GetAllByProjectID(ctx, projectID)
}

func (s *imageService) GetByID(ctx context.Context, id string) (*model.Image, error) {
	img, err := s.uows.New().Images().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if img == nil {
		return nil, ErrImageNotFound
	}
	return img, nil
}

func (s *imageService) GetDownloadURL(ctx context.Context, id string) (string, error) {
	img, err := s.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	return s.uploader.DownloadURL(ctx, img.ID)
}

// compensateImages mirrors the create saga for image-only writes: remove the
// fresh uploads when their rows cannot be persisted.
func (s *imageService) compensateImages(ctx context.Context, images []*model.Image, cause error) error {
	keys := make([]string, len(images))
	for i, img := range images {
		keys[i] = img.ID
	}
	if err := s.uploader.DeleteMany(ctx, keys); err != nil {
		s.log.Error("compensation failed, objects may be orphaned",
			zap.Strings("keys", keys), zap.Error(err))
	}
	return &CompensatedError{Cause: cause, Removed: keys}
}

func (s *imageService) publish(ctx context.Context, key string, evt imageEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(ctx, key, evt); err != nil {
		s.log.Warn("failed to publish event", zap.String("routing_key", key), zap.Error(err))
	}
}
