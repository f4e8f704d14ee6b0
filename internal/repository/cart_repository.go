package repository

import (
	"context"

	"app/internal/domain/model"
)

type CartRepository interface {
	ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error)
	//(userID, menuItemID, variantName) で1行
	FindLine(ctx context.Context, userID int64, menuItemID int64, variantName string) (model.CartLine, error)
	Create(ctx context.Context, line model.CartLine) (int64, error)
	//所有チェック込み（他人の行はErrNotFound）
	UpdateQuantity(ctx context.Context, lineID int64, userID int64, quantity int64) error
	DeleteByID(ctx context.Context, lineID int64, userID int64) error
	//決済確定時のカート全消し
	DeleteByUserID(ctx context.Context, userID int64) error
}
