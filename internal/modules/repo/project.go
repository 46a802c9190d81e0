package repo

import (
	"context"
	"errors"

	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type projectRepo struct {
	u   *gormUnitOfWork
	log *zap.Logger
}

func (r *projectRepo) GetByID(ctx context.Context, id uuid.UUID) (*model.Project, error) {
	var p model.Project
	err := r.u.conn().WithContext(ctx).
		Preload("Images").
		First(&p, "project_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Debug("project not found", zap.String("project_id", id.String()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *projectRepo) GetAllPaged(ctx context.Context, pageNumber, pageSize int) ([]model.Project, error) {
	if pageNumber < 0 {
		pageNumber = 0
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	var projects []model.Project
	err := r.u.conn().WithContext(ctx).
		Preload("Images").
		Order("created_at DESC").
		Offset(pageNumber * pageSize).
		Limit(pageSize).
		Find(&projects).Error
	if err != nil {
		return nil, err
	}
	return projects, nil
}

func (r *projectRepo) Add(ctx context.Context, p *model.Project) error {
	r.u.stage(func(tx *gorm.DB) error {
		// Images ride their own repository; creating them here as an
		// association would bypass staging order.
		return tx.Omit(clause.Associations).Create(p).Error
	})
	return nil
}

func (r *projectRepo) Update(ctx context.Context, id uuid.UUID, updated *model.Project) (*model.Project, error) {
	var existing model.Project
	err := r.u.conn().WithContext(ctx).First(&existing, "project_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Debug("project not found for update", zap.String("project_id", id.String()))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	existing.Name = updated.Name
	existing.BuildingType = updated.BuildingType
	existing.Area = updated.Area
	existing.Date = updated.Date
	existing.Address = updated.Address
	existing.Description = updated.Description

	// A map keeps zero values (area 0, empty description) in the statement.
	fields := map[string]any{
		"name":          updated.Name,
		"building_type": updated.BuildingType,
		"area":          updated.Area,
		"year":          updated.Date.Year,
		"month":         updated.Date.Month,
		"city":          updated.Address.City,
		"street":        updated.Address.Street,
		"description":   updated.Description,
	}
	r.u.stage(func(tx *gorm.DB) error {
		return tx.Model(&model.Project{}).Where("project_id = ?", id).Updates(fields).Error
	})
	return &existing, nil
}

func (r *projectRepo) Delete(ctx context.Context, id uuid.UUID) error {
	r.u.stage(func(tx *gorm.DB) error {
		// Unknown ids affect zero rows and are not an error.
		return tx.Where("project_id = ?", id).Delete(&model.Project{}).Error
	})
	return nil
}
