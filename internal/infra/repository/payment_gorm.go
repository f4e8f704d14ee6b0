package repository

import (
	"context"
	"errors"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Create(ctx context.Context, pt model.PaymentTransaction) (int64, error) {
	if err := r.db.WithContext(ctx).Create(&pt).Error; err != nil {
		return 0, err
	}
	return pt.ID, nil
}

func (r *PaymentGormRepository) FindByIntentRef(ctx context.Context, intentRef string) (model.PaymentTransaction, error) {
	var pt model.PaymentTransaction
	err := r.db.WithContext(ctx).Where("intent_ref = ?", intentRef).First(&pt).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.PaymentTransaction{}, repo.ErrNotFound
	}
	if err != nil {
		return model.PaymentTransaction{}, err
	}
	return pt, nil
}

// 条件付き更新。pollとwebhookの競合は先勝ち。
func (r *PaymentGormRepository) MarkPaid(ctx context.Context, intentRef string, paymentRef string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("intent_ref = ? AND payment_status <> ?", intentRef, model.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"state":               model.GatewayStateCompleted,
			"payment_status":      model.PaymentStatusPaid,
			"gateway_payment_ref": paymentRef,
		})

	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *PaymentGormRepository) UpdateState(ctx context.Context, intentRef string, state model.GatewayState, ps model.PaymentStatus) error {
	//paid行は不変。0行更新でも正常（既に確定済み）。
	res := r.db.WithContext(ctx).Model(&model.PaymentTransaction{}).
		Where("intent_ref = ? AND payment_status <> ?", intentRef, model.PaymentStatusPaid).
		Updates(map[string]interface{}{
			"state":          state,
			"payment_status": ps,
		})
	return res.Error
}
