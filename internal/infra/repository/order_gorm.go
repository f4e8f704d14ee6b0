package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type OrderGormRepository struct {
	db *gorm.DB
}

func NewOrderGormRepository(db *gorm.DB) *OrderGormRepository {
	return &OrderGormRepository{db: db}
}

func (r *OrderGormRepository) Create(ctx context.Context, order model.Order) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&order).Error; err != nil {
		return 0, err
	}
	return order.ID, nil
}

func (r *OrderGormRepository) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	var o model.Order
	err := r.db.WithContext(ctx).Where("id = ?", orderID).First(&o).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.Order{}, repo.ErrNotFound
	}
	if err != nil {
		return model.Order{}, err
	}
	return o, nil
}

func (r *OrderGormRepository) ListByUserID(ctx context.Context, userID int64, limit int) ([]model.Order, error) {
	if limit <= 0 || limit > 100 {
		limit = 100
	}

	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

func (r *OrderGormRepository) ListByRestaurantID(ctx context.Context, restaurantID int64, limit int) ([]model.Order, error) {
	if limit <= 0 || limit > 1000 {
		limit = 1000
	}

	var items []model.Order
	err := r.db.WithContext(ctx).
		Where("restaurant_id = ?", restaurantID).
		Order("id desc").
		Limit(limit).
		Find(&items).Error
	if err != nil {
		return []model.Order{}, err
	}
	return items, nil
}

// 遷移元statusを条件に含める。0行更新＝並行して別の遷移が勝った。
func (r *OrderGormRepository) UpdateStatusFrom(ctx context.Context, orderID int64, from model.OrderStatus, to model.OrderStatus) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ?", orderID, from).
		Update("status", to)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// 支払確定と競合した場合はWHEREで弾かれて0行になる
func (r *OrderGormRepository) CancelPendingUnpaid(ctx context.Context, orderID int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND status = ? AND payment_status <> ?",
			orderID, model.OrderStatusPending, model.PaymentStatusPaid).
		Update("status", model.OrderStatusCancelled)

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) SetIntentRef(ctx context.Context, orderID int64, intentRef string) error {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("gateway_intent_ref", intentRef)

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

// 条件付き更新。paidへの遷移は1回しか成立しない。
func (r *OrderGormRepository) MarkPaid(ctx context.Context, orderID int64, paymentRef string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, model.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"payment_status":      model.PaymentStatusPaid,
			"gateway_payment_ref": paymentRef,
			//pendingのときだけconfirmedへ自動前進
			"status": gorm.Expr(
				"CASE WHEN status = ? THEN ? ELSE status END",
				model.OrderStatusPending, model.OrderStatusConfirmed,
			),
		})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *OrderGormRepository) UpdatePaymentStatus(ctx context.Context, orderID int64, ps model.PaymentStatus) error {
	//既にpaidなら書き換えない（0行更新でも正常）
	res := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, model.PaymentStatusPaid).
		Update("payment_status", ps)
	return res.Error
}

func (r *OrderGormRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).Count(&total).Error
	return total, err
}

func (r *OrderGormRepository) CountByRestaurantID(ctx context.Context, restaurantID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("restaurant_id = ?", restaurantID).
		Count(&total).Error
	return total, err
}

func (r *OrderGormRepository) CountPaidByRestaurantID(ctx context.Context, restaurantID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Where("restaurant_id = ? AND payment_status = ?", restaurantID, model.PaymentStatusPaid).
		Count(&total).Error
	return total, err
}

func (r *OrderGormRepository) SumPaidAmounts(ctx context.Context) (int64, int64, error) {
	type sums struct {
		Total      int64
		Commission int64
	}
	var s sums
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(total_amount),0) AS total, COALESCE(SUM(commission_amount),0) AS commission").
		Where("payment_status = ?", model.PaymentStatusPaid).
		Scan(&s).Error
	if err != nil {
		return 0, 0, err
	}
	return s.Total, s.Commission, nil
}

func (r *OrderGormRepository) SumPaidRestaurantAmount(ctx context.Context, restaurantID int64) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&model.Order{}).
		Select("COALESCE(SUM(restaurant_amount),0)").
		Where("restaurant_id = ? AND payment_status = ?", restaurantID, model.PaymentStatusPaid).
		Scan(&total).Error
	return total, err
}
