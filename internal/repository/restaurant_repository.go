package repository

import (
	"context"

	"app/internal/domain/model"
)

type RestaurantRepository interface {
	Create(ctx context.Context, r model.Restaurant) (int64, error)
	FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error)
	FindBySlug(ctx context.Context, slug string) (model.Restaurant, error)
	FindByOwnerID(ctx context.Context, ownerID int64) (model.Restaurant, error)
	ListByStatus(ctx context.Context, status model.RestaurantStatus) ([]model.Restaurant, error)
	//プロフィール項目のみ更新（status/commission_rateは触らない）
	UpdateProfile(ctx context.Context, r model.Restaurant) error
	UpdateStatus(ctx context.Context, restaurantID int64, status model.RestaurantStatus) error

	//集計（運営ダッシュボード用）
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status model.RestaurantStatus) (int64, error)
}
