package repo

import (
	"context"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type mutation func(tx *gorm.DB) error

type gormFactory struct {
	db  *gorm.DB
	log *zap.Logger
}

// NewFactory returns a Factory producing gorm-backed units of work over db.
func NewFactory(db *gorm.DB, log *zap.Logger) Factory {
	return &gormFactory{db: db, log: log}
}

func (f *gormFactory) New() UnitOfWork {
	u := &gormUnitOfWork{db: f.db, log: f.log}
	u.projects = &projectRepo{u: u, log: f.log}
	u.images = &imageRepo{u: u, log: f.log}
	return u
}

type gormUnitOfWork struct {
	db  *gorm.DB
	log *zap.Logger

	tx      *gorm.DB
	pending []mutation

	projects ProjectRepository
	images   ImageRepository
}

func (u *gormUnitOfWork) Projects() ProjectRepository { return u.projects }
func (u *gormUnitOfWork) Images() ImageRepository     { return u.images }

// conn is the handle reads go through: the open transaction when there is
// one, the shared pool otherwise.
func (u *gormUnitOfWork) conn() *gorm.DB {
	if u.tx != nil {
		return u.tx
	}
	return u.db
}

func (u *gormUnitOfWork) stage(m mutation) {
	u.pending = append(u.pending, m)
}

func (u *gormUnitOfWork) Begin(ctx context.Context) error {
	if u.tx != nil {
		return ErrTransactionOpen
	}
	tx := u.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return tx.Error
	}
	u.tx = tx
	return nil
}

func (u *gormUnitOfWork) Commit(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Commit().Error
	u.tx = nil
	return err
}

func (u *gormUnitOfWork) Rollback(ctx context.Context) error {
	if u.tx == nil {
		return ErrNoTransaction
	}
	err := u.tx.Rollback().Error
	u.tx = nil
	u.pending = nil
	return err
}

// SaveChanges flushes the staged mutations in order. Inside an explicit
// transaction the statements run on it and durability waits for Commit;
// otherwise the whole batch runs in an implicit transaction. The pending
// queue is cleared either way, so a failed implicit flush leaves nothing
// half-staged.
func (u *gormUnitOfWork) SaveChanges(ctx context.Context) error {
	if len(u.pending) == 0 {
		return nil
	}
	batch := u.pending
	u.pending = nil

	if u.tx != nil {
		for _, m := range batch {
			if err := m(u.tx.WithContext(ctx)); err != nil {
				return err
			}
		}
		return nil
	}
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, m := range batch {
			if err := m(tx); err != nil {
				return err
			}
		}
		return nil
	})
}
