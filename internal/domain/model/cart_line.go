package model

import "time"

// カート明細。(user_id, menu_item_id, variant_name)で一意、再追加は数量加算。
// restaurant_idは追加時点のメニューから写して以後引き直さない。
type CartLine struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID       int64     `gorm:"not null;index:idx_cart_user_item_variant,unique" json:"user_id"`
	RestaurantID int64     `gorm:"not null;index" json:"restaurant_id"`
	MenuItemID   int64     `gorm:"not null;index:idx_cart_user_item_variant,unique" json:"menu_item_id"`
	VariantName  string    `gorm:"type:varchar(100);not null;index:idx_cart_user_item_variant,unique" json:"variant_name"`
	Quantity     int64     `gorm:"not null" json:"quantity"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
