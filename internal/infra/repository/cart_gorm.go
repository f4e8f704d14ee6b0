package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) ListByUserID(ctx context.Context, userID int64) ([]model.CartLine, error) {
	var lines []model.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id").
		Find(&lines).Error
	if err != nil {
		return []model.CartLine{}, err
	}
	return lines, nil
}

func (r *CartGormRepository) FindLine(ctx context.Context, userID int64, menuItemID int64, variantName string) (model.CartLine, error) {
	var line model.CartLine
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND menu_item_id = ? AND variant_name = ?", userID, menuItemID, variantName).
		First(&line).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.CartLine{}, repo.ErrNotFound
	}
	if err != nil {
		return model.CartLine{}, err
	}
	return line, nil
}

func (r *CartGormRepository) Create(ctx context.Context, line model.CartLine) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&line).Error; err != nil {
		return 0, err
	}
	return line.ID, nil
}

func (r *CartGormRepository) UpdateQuantity(ctx context.Context, lineID int64, userID int64, quantity int64) error {
	res := r.db.WithContext(ctx).Model(&model.CartLine{}).
		Where("id = ? AND user_id = ?", lineID, userID).
		Update("quantity", quantity)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) DeleteByID(ctx context.Context, lineID int64, userID int64) error {
	res := r.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", lineID, userID).
		Delete(&model.CartLine{})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

func (r *CartGormRepository) DeleteByUserID(ctx context.Context, userID int64) error {
	//0行でもエラーにしない（空カートのクリアは正常）
	return r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&model.CartLine{}).Error
}
