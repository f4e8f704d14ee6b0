package repository

import (
	"context"

	"app/internal/domain/model"
)

type CategoryRepository interface {
	Create(ctx context.Context, c model.Category) (int64, error)
	FindByID(ctx context.Context, categoryID int64) (model.Category, error)
	ListByRestaurantID(ctx context.Context, restaurantID int64) ([]model.Category, error)
}
