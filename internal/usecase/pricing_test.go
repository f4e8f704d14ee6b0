package usecase_test

import (
	"testing"

	"app/internal/domain/model"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
)

func TestComputeTotals_Basic(t *testing.T) {
	lines := []usecase.PricedLine{
		{UnitPrice: 10000, Quantity: 2},
		{UnitPrice: 5000, Quantity: 1},
	}

	totals, err := usecase.ComputeTotals(lines, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(25000), totals.Total)
	assert.Equal(t, int64(2500), totals.Commission)
	assert.Equal(t, int64(22500), totals.Restaurant)
}

func TestComputeTotals_RoundsHalfUp(t *testing.T) {
	//15 * 12.5% = 1.875 → 2
	lines := []usecase.PricedLine{{UnitPrice: 15, Quantity: 1}}

	totals, err := usecase.ComputeTotals(lines, 12.5)
	assert.NoError(t, err)
	assert.Equal(t, int64(15), totals.Total)
	assert.Equal(t, int64(2), totals.Commission)
	assert.Equal(t, int64(13), totals.Restaurant)
}

func TestComputeTotals_SumIsExact(t *testing.T) {
	lines := []usecase.PricedLine{
		{UnitPrice: 333, Quantity: 3},
		{UnitPrice: 101, Quantity: 7},
	}

	for _, rate := range []float64{0, 2.5, 10, 33.3, 100} {
		totals, err := usecase.ComputeTotals(lines, rate)
		assert.NoError(t, err)
		assert.Equal(t, totals.Total, totals.Commission+totals.Restaurant)
	}
}

func TestComputeTotals_ZeroRate(t *testing.T) {
	lines := []usecase.PricedLine{{UnitPrice: 100, Quantity: 1}}

	totals, err := usecase.ComputeTotals(lines, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), totals.Commission)
	assert.Equal(t, int64(100), totals.Restaurant)
}

func TestComputeTotals_InvalidRate(t *testing.T) {
	lines := []usecase.PricedLine{{UnitPrice: 100, Quantity: 1}}

	_, err := usecase.ComputeTotals(lines, -1)
	assert.ErrorIs(t, err, usecase.ErrInvalidCommissionRate)

	_, err = usecase.ComputeTotals(lines, 101)
	assert.ErrorIs(t, err, usecase.ErrInvalidCommissionRate)
}

func TestResolveVariant(t *testing.T) {
	item := model.MenuItem{
		Variants: []model.MenuItemVariant{
			{Name: "Half", PriceAmount: 10000, Available: true},
			{Name: "Full", PriceAmount: 18000, Available: true},
		},
	}

	v, err := usecase.ResolveVariant(item, "Full")
	assert.NoError(t, err)
	assert.Equal(t, int64(18000), v.PriceAmount)

	_, err = usecase.ResolveVariant(item, "Mega")
	assert.ErrorIs(t, err, usecase.ErrVariantNotFound)
}

func TestActor_CanManageRestaurant(t *testing.T) {
	rid := int64(5)

	owner := usecase.Actor{UserID: 1, Role: model.RoleRestaurantOwner, RestaurantID: &rid}
	assert.True(t, owner.CanManageRestaurant(5))
	assert.False(t, owner.CanManageRestaurant(6))

	admin := usecase.Actor{UserID: 2, Role: model.RoleSuperAdmin}
	assert.True(t, admin.CanManageRestaurant(5))

	customer := usecase.Actor{UserID: 3, Role: model.RoleCustomer, RestaurantID: &rid}
	assert.False(t, customer.CanManageRestaurant(5))

	ownerNoShop := usecase.Actor{UserID: 4, Role: model.RoleRestaurantOwner}
	assert.False(t, ownerNoShop.CanManageRestaurant(5))
}
