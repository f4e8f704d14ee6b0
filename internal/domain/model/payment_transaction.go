package model

import "time"

// ゲートウェイ側の状態（正規化済み）
type GatewayState string

const (
	GatewayStateInitiated GatewayState = "initiated"
	GatewayStateCompleted GatewayState = "completed"
	GatewayStateFailed    GatewayState = "failed"
	GatewayStateExpired   GatewayState = "expired"
)

// 決済試行1回につき1行。intent_refはゲートウェイ発行のハンドル。
// 支払状態の正。Orderはこの投影にすぎない。
type PaymentTransaction struct {
	ID        int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	IntentRef string `gorm:"type:varchar(255);not null;uniqueIndex" json:"intent_ref"`
	UserID    int64  `gorm:"not null;index" json:"user_id"`

	//orderIdに一意制約は張らない（期限切れ後の再試行で同一注文に複数行できる）
	OrderID int64 `gorm:"not null;index" json:"order_id"`

	Amount   int64  `gorm:"not null" json:"amount"`
	Currency string `gorm:"type:varchar(10);not null" json:"currency"`

	State         GatewayState  `gorm:"type:varchar(20);not null;default:'initiated'" json:"state"`
	PaymentStatus PaymentStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"payment_status"`

	GatewayPaymentRef string `gorm:"type:varchar(255)" json:"gateway_payment_ref,omitempty"`

	//JSON文字列で保存する
	Metadata string `gorm:"type:text" json:"metadata,omitempty"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
