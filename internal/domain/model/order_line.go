package model

import "time"

// 注文明細。名前と単価は注文作成時点のスナップショットで、
// 後からカタログ価格が変わっても既存注文には影響しない。
type OrderLine struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID      int64     `gorm:"not null;index" json:"order_id"`
	MenuItemID   int64     `gorm:"not null;index" json:"menu_item_id"`
	MenuItemName string    `gorm:"type:varchar(255);not null" json:"menu_item_name"`
	VariantName  string    `gorm:"type:varchar(100);not null" json:"variant_name"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	UnitPrice    int64     `gorm:"not null" json:"unit_price"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
