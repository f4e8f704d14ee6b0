package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type RestaurantGormRepository struct {
	db *gorm.DB
}

func NewRestaurantGormRepository(db *gorm.DB) *RestaurantGormRepository {
	return &RestaurantGormRepository{db: db}
}

func (r *RestaurantGormRepository) Create(ctx context.Context, rest model.Restaurant) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&rest).Error; err != nil {
		return 0, err
	}
	return rest.ID, nil
}

func (r *RestaurantGormRepository) FindByID(ctx context.Context, restaurantID int64) (model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).Where("id = ?", restaurantID).First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return rest, nil
}

func (r *RestaurantGormRepository) FindBySlug(ctx context.Context, slug string) (model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return rest, nil
}

func (r *RestaurantGormRepository) FindByOwnerID(ctx context.Context, ownerID int64) (model.Restaurant, error) {
	var rest model.Restaurant
	err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).First(&rest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Restaurant{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Restaurant{}, err
	}
	return rest, nil
}

func (r *RestaurantGormRepository) ListByStatus(ctx context.Context, status model.RestaurantStatus) ([]model.Restaurant, error) {
	var items []model.Restaurant
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("id").
		Find(&items).Error
	if err != nil {
		return []model.Restaurant{}, err
	}
	return items, nil
}

func (r *RestaurantGormRepository) UpdateProfile(ctx context.Context, rest model.Restaurant) error {
	res := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("id = ?", rest.ID).
		Updates(map[string]interface{}{
			"name":          rest.Name,
			"description":   rest.Description,
			"cuisine_types": rest.CuisineTypes,
			"address":       rest.Address,
			"phone":         rest.Phone,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *RestaurantGormRepository) UpdateStatus(ctx context.Context, restaurantID int64, status model.RestaurantStatus) error {
	res := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("id = ?", restaurantID).
		Update("status", status)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *RestaurantGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Restaurant{}).Count(&total).Error
	return total, err
}

func (r *RestaurantGormRepository) CountByStatus(ctx context.Context, status model.RestaurantStatus) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Restaurant{}).
		Where("status = ?", status).
		Count(&total).Error
	return total, err
}
