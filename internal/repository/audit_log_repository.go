package repository

import (
	"context"

	"app/internal/domain/model"
)

type AuditLogRepository interface {
	Create(ctx context.Context, log model.AuditLog) error
	ListByResource(ctx context.Context, rt model.AuditResourceType, resourceID int64) ([]model.AuditLog, error)
}
