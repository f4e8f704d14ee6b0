package model

import "time"

// サイズ・分量の選択肢。価格は最小通貨単位（パイサ）のint64。
type MenuItemVariant struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"-"`
	MenuItemID  int64  `gorm:"not null;index:idx_variant_item_name,unique" json:"-"`
	Name        string `gorm:"type:varchar(100);not null;index:idx_variant_item_name,unique" json:"name"`
	PriceAmount int64  `gorm:"not null" json:"price_amount"`
	Available   bool   `gorm:"not null;default:true" json:"available"`
	Position    int    `gorm:"not null;default:0" json:"-"`
}

type MenuItem struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	RestaurantID int64  `gorm:"not null;index" json:"restaurant_id"`
	CategoryID   int64  `gorm:"not null;index" json:"category_id"`
	CategoryName string `gorm:"type:varchar(255);not null" json:"category_name"` // 作成時点のスナップショット
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Description  string `gorm:"type:text" json:"description"`
	IsVeg        bool   `gorm:"not null;default:false" json:"is_veg"`
	SpiceLevel   int    `gorm:"not null;default:0" json:"spice_level"`
	PrepTime     int    `gorm:"not null;default:20" json:"prep_time"`
	IsAvailable  bool   `gorm:"not null;default:true" json:"is_available"`

	//最低1件。名前はアイテム内で一意。
	Variants []MenuItemVariant `gorm:"foreignKey:MenuItemID;constraint:OnDelete:CASCADE" json:"variants"`

	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
