package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type MenuItemGormRepository struct {
	db *gorm.DB
}

func NewMenuItemGormRepository(db *gorm.DB) *MenuItemGormRepository {
	return &MenuItemGormRepository{db: db}
}

func (r *MenuItemGormRepository) Create(ctx context.Context, item model.MenuItem) (int64, error) {
	//variantsはhas-manyなのでまとめてINSERTされる
	if err := r.db.WithContext(ctx).Create(&item).Error; err != nil {
		return 0, err
	}
	return item.ID, nil
}

func (r *MenuItemGormRepository) FindByID(ctx context.Context, itemID int64) (model.MenuItem, error) {
	var item model.MenuItem
	err := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, id")
		}).
		Where("id = ?", itemID).
		First(&item).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.MenuItem{}, repo.ErrNotFound
	}
	if err != nil {
		return model.MenuItem{}, err
	}
	return item, nil
}

func (r *MenuItemGormRepository) List(ctx context.Context, f repo.MenuItemListFilter) ([]model.MenuItem, error) {
	q := r.db.WithContext(ctx).
		Preload("Variants", func(db *gorm.DB) *gorm.DB {
			return db.Order("position, id")
		}).
		Where("restaurant_id = ?", f.RestaurantID)

	if f.AvailableOnly {
		q = q.Where("is_available = ?", true)
	}
	if f.CategoryID != nil {
		q = q.Where("category_id = ?", *f.CategoryID)
	}
	if f.IsVeg != nil {
		q = q.Where("is_veg = ?", *f.IsVeg)
	}
	if f.MaxSpiceLevel != nil {
		q = q.Where("spice_level <= ?", *f.MaxSpiceLevel)
	}
	if f.Search != "" {
		like := "%" + f.Search + "%"
		q = q.Where("name ILIKE ? OR description ILIKE ?", like, like)
	}

	var items []model.MenuItem
	if err := q.Order("id").Find(&items).Error; err != nil {
		return []model.MenuItem{}, err
	}
	return items, nil
}

func (r *MenuItemGormRepository) CountByRestaurantID(ctx context.Context, restaurantID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.MenuItem{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&total).Error
	return total, err
}
