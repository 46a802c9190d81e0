package repo

import (
	"context"
	"errors"

	"github.com/archfolio/archfolio/internal/modules/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type imageRepo struct {
	u   *gormUnitOfWork
	log *zap.Logger
}

func (r *imageRepo) GetByID(ctx context.Context, id string) (*model.Image, error) {
	var img model.Image
	err := r.u.conn().WithContext(ctx).First(&img, "image_id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		r.log.Debug("image not found", zap.String("image_id", id))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepo) GetAllPaged(ctx context.Context, pageNumber, pageSize int) ([]model.Image, error) {
	if pageNumber < 0 {
		pageNumber = 0
	}
	if pageSize <= 0 {
		pageSize = 10
	}
	var images []model.Image
	err := r.u.conn().WithContext(ctx).
		Order("created_at DESC").
		Offset(pageNumber * pageSize).
		Limit(pageSize).
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepo) GetAllByProjectID(ctx context.Context, projectID uuid.UUID) ([]model.Image, error) {
	var images []model.Image
	err := r.u.conn().WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("created_at ASC").
		Find(&images).Error
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *imageRepo) GetMain(ctx context.Context, projectID uuid.UUID) (*model.Image, error) {
	var img model.Image
	err := r.u.conn().WithContext(ctx).
		First(&img, "project_id = ? AND is_main = ?", projectID, true).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &img, nil
}

func (r *imageRepo) Add(ctx context.Context, img *model.Image) error {
	r.u.stage(func(tx *gorm.DB) error {
		return tx.Create(img).Error
	})
	return nil
}

func (r *imageRepo) Delete(ctx context.Context, id string) error {
	r.u.stage(func(tx *gorm.DB) error {
		return tx.Where("image_id = ?", id).Delete(&model.Image{}).Error
	})
	return nil
}
