package repo

import (
	"context"
	"errors"

	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/google/uuid"
)

var (
	ErrTransactionOpen = errors.New("a transaction is already open on this unit of work")
	ErrNoTransaction   = errors.New("no open transaction")
)

// ProjectRepository is keyed CRUD over projects. Absence is a nil result,
// never an error; errors mean the store itself failed. Writes are staged on
// the owning unit of work and hit the database at SaveChanges.
type ProjectRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error)
	// GetAllPaged returns page pageNumber (zero-based) of pageSize projects.
	GetAllPaged(ctx context.Context, pageNumber, pageSize int) ([]model.Project, error)
	Add(ctx context.Context, p *model.Project) error
	// Update replaces the scalar fields of the row matching id and returns the
	// updated entity, or nil when no such project exists. Images and id are
	// never touched.
	Update(ctx context.Context, id uuid.UUID, updated *model.Project) (*model.Project, error)
	// Delete removes the project row; image rows go with it via cascade.
	// Unknown ids are a no-op.
	Delete(ctx context.Context, id uuid.UUID) error
}

// ImageRepository is keyed CRUD over image records. Images have no in-place
// update: replacement is delete + insert.
type ImageRepository interface {
	GetByID(ctx context.Context, id string) (*model.Image, error)
	GetAllPaged(ctx context.Context, pageNumber, pageSize int) ([]model.Image, error)
	GetAllByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Image, error)
	// GetMain returns the project's main image, or nil when it has none.
	GetMain(ctx context.Context, projectID uuid.UUID) (*model.Image, error)
	Add(ctx context.Context, img *model.Image) error
	Delete(ctx context.Context, id string) error
}

// UnitOfWork bounds one transactional unit of database work and exposes the
// repositories participating in it. Repository writes are staged; SaveChanges
// flushes them as one statement batch. Begin/Commit/Rollback bracket a unit
// spanning multiple repository calls; at most one transaction may be open per
// instance, and the caller owns rollback on failure. Without an explicit
// Begin, SaveChanges runs its batch in an implicit transaction of its own.
type UnitOfWork interface {
	Projects() ProjectRepository
	Images() ImageRepository

	Begin(ctx context.Context) error
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
	SaveChanges(ctx context.Context) error
}

// Factory builds one UnitOfWork per request/operation; instances are never
// shared across concurrent requests.
type Factory interface {
	New() UnitOfWork
}
