package model

import "time"

type OrderStatus string

const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusPreparing      OrderStatus = "preparing"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// 有効なステータス値かどうか
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusPreparing,
		OrderStatusOutForDelivery, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// delivered / cancelled からはもう動かせない
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// 注文。金額3つ（total/commission/restaurant）は作成時に確定して以後不変。
type Order struct {
	ID           int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64 `gorm:"not null;index" json:"user_id"`
	RestaurantID int64 `gorm:"not null;index" json:"restaurant_id"`

	TotalAmount      int64 `gorm:"not null" json:"total_amount"`
	CommissionAmount int64 `gorm:"not null" json:"commission_amount"`
	RestaurantAmount int64 `gorm:"not null" json:"restaurant_amount"`

	DeliveryAddress string `gorm:"type:text;not null" json:"delivery_address"`

	Status        OrderStatus   `gorm:"type:varchar(20);not null;index;default:'pending'" json:"status"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"payment_status"`

	//ゲートウェイ側のハンドル（追跡用）
	GatewayIntentRef  string `gorm:"type:varchar(255);index" json:"gateway_intent_ref,omitempty"`
	GatewayPaymentRef string `gorm:"type:varchar(255)" json:"gateway_payment_ref,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
