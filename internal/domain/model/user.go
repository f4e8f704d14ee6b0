package model

import "time"

type Role string

const (
	RoleCustomer        Role = "customer"
	RoleRestaurantOwner Role = "restaurant_owner"
	RoleSuperAdmin      Role = "super_admin"
)

// 登録時に名乗れるロールかどうか（super_adminは自己申告不可）
func (r Role) SelfAssignable() bool {
	return r == RoleCustomer || r == RoleRestaurantOwner
}

type User struct {
	ID           int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	Email        string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"column:password_hash;not null" json:"-"`
	Name         string `gorm:"type:varchar(255);not null" json:"name"`
	Phone        string `gorm:"type:varchar(30);not null" json:"phone"`
	Role         Role   `gorm:"type:varchar(30);not null;default:'customer'" json:"role"`

	//restaurant_ownerが店舗を作った時点で入る
	RestaurantID *int64 `gorm:"index" json:"restaurant_id,omitempty"`

	IsActive  bool      `gorm:"not null;default:true" json:"-"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
