package repository

import (
	"context"

	repo "app/internal/repository"

	"gorm.io/gorm"
)

type TxManagerGorm struct {
	db *gorm.DB
}

func NewTxManagerGorm(db *gorm.DB) *TxManagerGorm {
	return &TxManagerGorm{db: db}
}

// fnがerrorを返したらrollback、nilならcommit。
func (m *TxManagerGorm) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&txReposGorm{tx: tx})
	})
}

// Tx内リポジトリ束。全て同じ*gorm.DB(tx)を共有する。
type txReposGorm struct {
	tx *gorm.DB
}

func (r *txReposGorm) Users() repo.UserRepository {
	return NewUserGormRepository(r.tx)
}

func (r *txReposGorm) Restaurants() repo.RestaurantRepository {
	return NewRestaurantGormRepository(r.tx)
}

func (r *txReposGorm) MenuItems() repo.MenuItemRepository {
	return NewMenuItemGormRepository(r.tx)
}

func (r *txReposGorm) Carts() repo.CartRepository {
	return NewCartGormRepository(r.tx)
}

func (r *txReposGorm) Orders() repo.OrderRepository {
	return NewOrderGormRepository(r.tx)
}

func (r *txReposGorm) OrderLines() repo.OrderLineRepository {
	return NewOrderLineGormRepository(r.tx)
}

func (r *txReposGorm) Payments() repo.PaymentRepository {
	return NewPaymentGormRepository(r.tx)
}

func (r *txReposGorm) AuditLogs() repo.AuditLogRepository {
	return NewAuditLogGormRepository(r.tx)
}
