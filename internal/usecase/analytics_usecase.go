package usecase

import (
	"context"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type AnalyticsUsecase struct {
	restaurants repo.RestaurantRepository
	orders      repo.OrderRepository
	menuItems   repo.MenuItemRepository
}

func NewAnalyticsUsecase(
	restaurants repo.RestaurantRepository,
	orders repo.OrderRepository,
	menuItems repo.MenuItemRepository,
) *AnalyticsUsecase {
	return &AnalyticsUsecase{
		restaurants: restaurants,
		orders:      orders,
		menuItems:   menuItems,
	}
}

// 運営ダッシュボード。金額は最小単位(paise)。
type PlatformAnalytics struct {
	TotalRestaurants   int64 `json:"total_restaurants"`
	PendingRestaurants int64 `json:"pending_restaurants"`
	ActiveRestaurants  int64 `json:"active_restaurants"`
	TotalOrders        int64 `json:"total_orders"`
	GrossAmount        int64 `json:"gross_amount"`
	CommissionAmount   int64 `json:"commission_amount"`
}

type RestaurantAnalytics struct {
	TotalOrders int64 `json:"total_orders"`
	PaidOrders  int64 `json:"paid_orders"`
	Revenue     int64 `json:"revenue"`
	MenuItems   int64 `json:"menu_items"`
}

func (u *AnalyticsUsecase) Platform(ctx context.Context, actor Actor) (PlatformAnalytics, error) {
	if !actor.IsSuperAdmin() {
		return PlatformAnalytics{}, NewHTTPError(http.StatusForbidden, "super admin role required")
	}

	var out PlatformAnalytics
	var err error

	if out.TotalRestaurants, err = u.restaurants.Count(ctx); err != nil {
		return PlatformAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.PendingRestaurants, err = u.restaurants.CountByStatus(ctx, model.RestaurantStatusPending); err != nil {
		return PlatformAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.ActiveRestaurants, err = u.restaurants.CountByStatus(ctx, model.RestaurantStatusActive); err != nil {
		return PlatformAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.TotalOrders, err = u.orders.Count(ctx); err != nil {
		return PlatformAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.GrossAmount, out.CommissionAmount, err = u.orders.SumPaidAmounts(ctx); err != nil {
		return PlatformAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return out, nil
}

func (u *AnalyticsUsecase) Restaurant(ctx context.Context, actor Actor, restaurantID int64) (RestaurantAnalytics, error) {
	if !actor.CanManageRestaurant(restaurantID) {
		return RestaurantAnalytics{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	var out RestaurantAnalytics
	var err error

	if out.TotalOrders, err = u.orders.CountByRestaurantID(ctx, restaurantID); err != nil {
		return RestaurantAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.PaidOrders, err = u.orders.CountPaidByRestaurantID(ctx, restaurantID); err != nil {
		return RestaurantAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.Revenue, err = u.orders.SumPaidRestaurantAmount(ctx, restaurantID); err != nil {
		return RestaurantAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if out.MenuItems, err = u.menuItems.CountByRestaurantID(ctx, restaurantID); err != nil {
		return RestaurantAnalytics{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return out, nil
}
