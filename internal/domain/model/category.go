package model

import "time"

// 店舗ごとのメニューカテゴリ
type Category struct {
	ID           int64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64     `gorm:"not null;index" json:"restaurant_id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Description  string    `gorm:"type:text" json:"description"`
	Position     int       `gorm:"not null;default:0" json:"position"`
	CreatedAt    time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
