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

// EventPublisher fans domain events out to the message broker.
type EventPublisher interface {
	PublishJSON(ctx context.Context, routingKey string, body any) error
}

// ProjectInput carries the writable scalar fields of a project.
type ProjectInput struct {
	Name         string
	BuildingType string
	Area         float64
	Year         int
	Month        int
	City         string
	Street       string
	Description  string
}

type ProjectService interface {
	// Create uploads the images first and only then writes the project and
	// its image rows in one transaction. When that transaction fails the
	// uploaded objects are deleted again and a *CompensatedError is returned,
	// so a failed create leaves neither store changed. mainImage may be nil;
	// the project is then created without a main image.
	Create(ctx context.Context, in ProjectInput, mainImage *multipart.FileHeader, collection []*multipart.FileHeader) (*model.Project, error)
	Update(ctx context.Context, id uuid.UUID, in ProjectInput) (*model.Project, error)
	Delete(ctx context.Context, id uuid.UUID) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	List(ctx context.Context, pageNumber, pageSize int) ([]model.Project, error)
}

type projectService struct {
	uows     repo.Factory
	uploader ImageUploader
	cache    *cache.ProjectCache
	events   EventPublisher
	log      *zap.Logger
}

func NewProjectService(uows repo.Factory, uploader ImageUploader, pc *cache.ProjectCache, events EventPublisher, log *zap.Logger) ProjectService {
	return &projectService{uows: uows, uploader: uploader, cache: pc, events: events, log: log}
}

type projectEvent struct {
	ProjectID  string `json:"project_id"`
	Name       string `json:"name,omitempty"`
	ImageCount int    `json:"image_count,omitempty"`
}

func (s *projectService) Create(ctx context.Context, in ProjectInput, mainImage *multipart.FileHeader, collection []*multipart.FileHeader) (*model.Project, error) {
	project := projectFromInput(in)
	project.ID = uuid.New()

	var images []*model.Image
	if mainImage != nil {
		main, err := s.uploader.UploadOne(ctx, mainImage, project.ID, true)
		if err != nil {
			return nil, err
		}
		images = append(images, main)
	}

	batch, err := s.uploader.UploadMany(ctx, collection, project.ID)
	if err != nil {
		// Strict batch policy: the batch cleaned up after itself, the main
		// object has not.
		if len(images) > 0 {
			if derr := s.uploader.DeleteOne(ctx, images[0].ID); derr != nil {
				s.log.Error("failed to remove main image of aborted create",
					zap.String("image_id", images[0].ID), zap.Error(derr))
			}
		}
		return nil, err
	}
	images = append(images, batch...)

	uow := s.uows.New()
	if err := uow.Begin(ctx); err != nil {
		return nil, s.compensate(ctx, uow, images, err, false)
	}
	if err := uow.Projects().Add(ctx, project); err != nil {
		return nil, s.compensate(ctx, uow, images, err, true)
	}
	for _, img := range images {
		if err := uow.Images().Add(ctx, img); err != nil {
			return nil, s.compensate(ctx, uow, images, err, true)
		}
	}
	if err := uow.SaveChanges(ctx); err != nil {
		return nil, s.compensate(ctx, uow, images, err, true)
	}
	if err := uow.Commit(ctx); err != nil {
		return nil, s.compensate(ctx, uow, images, err, false)
	}

	for _, img := range images {
		project.Images = append(project.Images, *img)
	}

	s.cache.Invalidate(ctx, project.ID)
	s.publish(ctx, "project.created", projectEvent{
		ProjectID:  project.ID.String(),
		Name:       project.Name,
		ImageCount: len(images),
	})
	s.log.Info("project created",
		zap.String("project_id", project.ID.String()),
		zap.Int("images", len(images)))
	return project, nil
}

// compensate removes the uploaded objects, rolls the transaction back and
// wraps cause so callers can see the create failed closed.
func (s *projectService) compensate(ctx context.Context, uow repo.UnitOfWork, images []*model.Image, cause error, rollback bool) error {
	keys := make([]string, len(images))
	for i, img := range images {
		keys[i] = img.ID
	}
	if err := s.uploader.DeleteMany(ctx, keys); err != nil {
		s.log.Error("compensation failed, objects may be orphaned",
			zap.Strings("keys", keys), zap.Error(err))
	}
	if rollback {
		if err := uow.Rollback(ctx); err != nil {
			s.log.Error("rollback failed", zap.Error(err))
		}
	}
	return &CompensatedError{Cause: cause, Removed: keys}
}

func (s *projectService) Update(ctx context.Context, id uuid.UUID, in ProjectInput) (*model.Project, error) {
	uow := s.uows.New()
	updated, err := uow.Projects().Update(ctx, id, projectFromInput(in))
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrProjectNotFound
	}
	if err := uow.SaveChanges(ctx); err != nil {
		return nil, err
	}

	s.cache.Invalidate(ctx, id)
	s.publish(ctx, "project.updated", projectEvent{ProjectID: id.String(), Name: updated.Name})
	return updated, nil
}

func (s *projectService) Delete(ctx context.Context, id uuid.UUID) error {
	uow := s.uows.New()
	project, err := uow.Projects().GetByID(ctx, id)
	if err != nil {
		return err
	}
	if project == nil {
		// Deleting an unknown project is a no-op, same as the repositories'
		// treatment of absence.
		return nil
	}

	if err := uow.Projects().Delete(ctx, id); err != nil {
		return err
	}
	if err := uow.SaveChanges(ctx); err != nil {
		return err
	}

	// Blob deletion runs after the commit: an orphaned object is recoverable,
	// a row pointing at a deleted object is not.
	keys := make([]string, len(project.Images))
	for i, img := range project.Images {
		keys[i] = img.ID
	}
	if err := s.uploader.DeleteMany(ctx, keys); err != nil {
		s.log.Error("failed to delete project objects",
			zap.String("project_id", id.String()), zap.Error(err))
	}

	s.cache.Invalidate(ctx, id)
	s.publish(ctx, "project.deleted", projectEvent{ProjectID: id.String(), ImageCount: len(keys)})
	return nil
}

func (s *projectService) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	if p, ok := s.cache.GetProject(ctx, id); ok {
		return p, nil
	}
	project, err := s.uows.New().Projects().GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrProjectNotFound
	}
	s.cache.SetProject(ctx, project)
	return project, nil
}

func (s *projectService) List(ctx context.Context, pageNumber, pageSize int) ([]model.Project, error) {
	if page, ok := s.cache.GetPage(ctx, pageNumber, pageSize); ok {
		return page, nil
	}
	projects, err := s.uows.New().Projects().GetAllPaged(ctx, pageNumber, pageSize)
	if err != nil {
		return nil, err
	}
	s.cache.SetPage(ctx, pageNumber, pageSize, projects)
	return projects, nil
}

func (s *projectService) publish(ctx context.Context, key string, evt projectEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishJSON(ctx, key, evt); err != nil {
		s.log.Warn("failed to publish event", zap.String("routing_key", key), zap.Error(err))
	}
}

func projectFromInput(in ProjectInput) *model.Project {
	return &model.Project{
		Name:         in.Name,
		BuildingType: in.BuildingType,
		Area:         in.Area,
		Date:         model.Date{Year: in.Year, Month: in.Month},
		Address:      model.Address{City: in.City, Street: in.Street},
		Description:  in.Description,
	}
}
