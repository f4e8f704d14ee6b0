package repository

import (
	"context"

	"app/internal/domain/model"

	"gorm.io/gorm"
)

type AuditLogGormRepository struct {
	db *gorm.DB
}

func NewAuditLogGormRepository(db *gorm.DB) *AuditLogGormRepository {
	return &AuditLogGormRepository{db: db}
}

func (r *AuditLogGormRepository) Create(ctx context.Context, log model.AuditLog) error {
	return r.db.WithContext(ctx).Create(&log).Error
}

func (r *AuditLogGormRepository) ListByResource(ctx context.Context, rt model.AuditResourceType, resourceID int64) ([]model.AuditLog, error) {
	var items []model.AuditLog
	err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", rt, resourceID).
		Order("id desc").
		Find(&items).Error
	if err != nil {
		return []model.AuditLog{}, err
	}
	return items, nil
}
