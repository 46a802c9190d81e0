package service

import (
	"context"
	"mime/multipart"
	"time"

	"github.com/archfolio/archfolio/internal/config"
	"github.com/archfolio/archfolio/internal/infra/blob"
	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/datatypes"
)

const uploadConcurrency = 4

// BlobStore is the slice of the object store the uploader needs.
type BlobStore interface {
	UploadFormFile(ctx context.Context, fh *multipart.FileHeader, prefix string) (*blob.UploadResult, error)
	Delete(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	PresignGet(ctx context.Context, key string, expire time.Duration) (string, error)
}

// ImageUploader moves form files in and out of blob storage and shapes the
// results as image records. It never touches the database.
type ImageUploader interface {
	// UploadOne uploads a single file. Failure is always an *UploadError,
	// regardless of the batch policy.
	UploadOne(ctx context.Context, fh *multipart.FileHeader, projectID uuid.UUID, isMain bool) (*model.Image, error)
	// UploadMany uploads a batch. Under the best-effort policy failed items
	// are dropped and the survivors returned; under the strict policy any
	// failure removes the batch's uploaded objects and returns *UploadError.
	UploadMany(ctx context.Context, fhs []*multipart.FileHeader, projectID uuid.UUID) ([]*model.Image, error)
	DeleteOne(ctx context.Context, key string) error
	DeleteMany(ctx context.Context, keys []string) error
	// DownloadURL mints a presigned GET for a stored object, for buckets
	// without public read access.
	DownloadURL(ctx context.Context, key string) (string, error)
}

type imageUploader struct {
	store      BlobStore
	policy     string
	presignTTL time.Duration
	log        *zap.Logger
}

func NewImageUploader(store BlobStore, cfg *config.Config, log *zap.Logger) ImageUploader {
	ttl := time.Duration(cfg.S3.PresignExpireSec) * time.Second
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	return &imageUploader{store: store, policy: cfg.Upload.Policy, presignTTL: ttl, log: log}
}

func (s *imageUploader) UploadOne(ctx context.Context, fh *multipart.FileHeader, projectID uuid.UUID, isMain bool) (*model.Image, error) {
	res, err := s.store.UploadFormFile(ctx, fh, keyPrefix(projectID))
	if err != nil {
		return nil, &UploadError{Err: err}
	}
	return imageFromUpload(res, projectID, isMain), nil
}

func (s *imageUploader) UploadMany(ctx context.Context, fhs []*multipart.FileHeader, projectID uuid.UUID) ([]*model.Image, error) {
	if len(fhs) == 0 {
		return nil, nil
	}

	results := make([]*model.Image, len(fhs))
	errs := make([]error, len(fhs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadConcurrency)
	for i, fh := range fhs {
		g.Go(func() error {
			res, err := s.store.UploadFormFile(gctx, fh, keyPrefix(projectID))
			if err != nil {
				errs[i] = err
				return nil
			}
			results[i] = imageFromUpload(res, projectID, false)
			return nil
		})
	}
	_ = g.Wait()

	var (
		uploaded []*model.Image
		failed   error
	)
	for i, img := range results {
		if img != nil {
			uploaded = append(uploaded, img)
			continue
		}
		if failed == nil {
			failed = errs[i]
		}
		s.log.Warn("image upload failed in batch",
			zap.String("filename", fhs[i].Filename),
			zap.Error(errs[i]))
	}

	if failed != nil && s.policy == config.UploadPolicyStrict {
		keys := make([]string, len(uploaded))
		for i, img := range uploaded {
			keys[i] = img.ID
		}
		if err := s.store.DeleteMany(ctx, keys); err != nil {
			s.log.Error("failed to remove uploads of aborted batch", zap.Error(err))
		}
		return nil, &UploadError{Err: failed}
	}
	return uploaded, nil
}

func (s *imageUploader) DeleteOne(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}

func (s *imageUploader) DeleteMany(ctx context.Context, keys []string) error {
	if len(keys) == 0 {
		return nil
	}
	return s.store.DeleteMany(ctx, keys)
}

func (s *imageUploader) DownloadURL(ctx context.Context, key string) (string, error) {
	return s.store.PresignGet(ctx, key, s.presignTTL)
}

func keyPrefix(projectID uuid.UUID) string {
	return "projects/" + projectID.String()
}

func imageFromUpload(res *blob.UploadResult, projectID uuid.UUID, isMain bool) *model.Image {
	return &model.Image{
		ID:        res.Key,
		URL:       res.URL,
		IsMain:    isMain,
		ProjectID: projectID,
		Asset: datatypes.NewJSONType(model.Asset{
			Bucket: res.Bucket,
			Key:    res.Key,
			ETag:   res.ETag,
			MIME:   res.MIME,
			SizeB:  res.SizeB,
		}),
	}
}
