package repository

import (
	"context"

	"app/internal/domain/model"
)

// 公開メニュー一覧の絞り込み
type MenuItemListFilter struct {
	RestaurantID  int64
	CategoryID    *int64
	IsVeg         *bool
	MaxSpiceLevel *int
	Search        string
	AvailableOnly bool
}

type MenuItemRepository interface {
	//variantsも一緒に保存する
	Create(ctx context.Context, item model.MenuItem) (int64, error)
	//variantsをPreloadして返す
	FindByID(ctx context.Context, itemID int64) (model.MenuItem, error)
	List(ctx context.Context, f MenuItemListFilter) ([]model.MenuItem, error)
	CountByRestaurantID(ctx context.Context, restaurantID int64) (int64, error)
}
