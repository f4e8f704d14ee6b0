package model

import "time"

type RestaurantStatus string

const (
	RestaurantStatusPending   RestaurantStatus = "pending"
	RestaurantStatusActive    RestaurantStatus = "active"
	RestaurantStatusSuspended RestaurantStatus = "suspended"
)

// テナント（店舗）。commission_rateは注文作成時に読むだけで履歴は持たない。
type Restaurant struct {
	ID           int64            `gorm:"primaryKey;autoIncrement" json:"id"`
	OwnerID      int64            `gorm:"not null;index" json:"owner_id"`
	Name         string           `gorm:"type:varchar(255);not null" json:"name"`
	Slug         string           `gorm:"type:varchar(255);not null;uniqueIndex" json:"slug"`
	Description  string           `gorm:"type:text" json:"description"`
	CuisineTypes string           `gorm:"type:text" json:"cuisine_types"` // カンマ区切り
	Address      string           `gorm:"type:text" json:"address"`
	Phone        string           `gorm:"type:varchar(30)" json:"phone"`
	Status       RestaurantStatus `gorm:"type:varchar(20);not null;index;default:'pending'" json:"status"`

	//プラットフォーム手数料率（0〜100）
	CommissionRate float64 `gorm:"not null;default:10" json:"commission_rate"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
