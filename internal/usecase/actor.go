package usecase

import "app/internal/domain/model"

// Actorは認証済みユーザー（JWTから復元される）
type Actor struct {
	UserID       int64
	Role         model.Role
	RestaurantID *int64
}

// 店舗の管理操作ができるか。super_adminは常に可、
// restaurant_ownerは自分の店舗だけ。
func (a Actor) CanManageRestaurant(restaurantID int64) bool {
	if a.Role == model.RoleSuperAdmin {
		return true
	}
	return a.Role == model.RoleRestaurantOwner &&
		a.RestaurantID != nil &&
		*a.RestaurantID == restaurantID
}

func (a Actor) IsSuperAdmin() bool {
	return a.Role == model.RoleSuperAdmin
}
