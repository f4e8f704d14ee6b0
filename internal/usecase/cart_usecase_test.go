package usecase_test

import (
	"context"
	"testing"

	"app/internal/domain/model"
	repo "app/internal/repository"
	"app/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type cartFixture struct {
	uc          *usecase.CartUsecase
	carts       *CartRepoMock
	menuItems   *MenuItemRepoMock
	restaurants *RestaurantRepoMock
}

func newCartFixture() *cartFixture {
	carts := new(CartRepoMock)
	menuItems := new(MenuItemRepoMock)
	restaurants := new(RestaurantRepoMock)

	uc := usecase.NewCartUsecase(carts, menuItems, restaurants)
	return &cartFixture{uc: uc, carts: carts, menuItems: menuItems, restaurants: restaurants}
}

func TestCartUsecase_Add_NewLine(t *testing.T) {
	f := newCartFixture()

	f.menuItems.On("FindByID", mock.Anything, int64(7)).Return(biryaniItem(), nil)
	f.restaurants.On("FindByID", mock.Anything, int64(5)).Return(model.Restaurant{
		ID: 5, Status: model.RestaurantStatusActive,
	}, nil)

	//カートは空
	f.carts.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartLine{}, nil).Once()
	f.carts.On("FindLine", mock.Anything, int64(10), int64(7), "Half").Return(model.CartLine{}, repo.ErrNotFound)
	f.carts.On("Create", mock.Anything, mock.MatchedBy(func(l model.CartLine) bool {
		return l.UserID == 10 && l.MenuItemID == 7 && l.VariantName == "Half" &&
			l.Quantity == 2 && l.RestaurantID == 5
	})).Return(int64(1), nil)

	//追加後の再取得
	f.carts.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartLine{
		{ID: 1, UserID: 10, RestaurantID: 5, MenuItemID: 7, VariantName: "Half", Quantity: 2},
	}, nil)

	out, err := f.uc.Add(context.Background(), 10, usecase.AddCartInput{
		MenuItemID: 7, VariantName: "Half", Quantity: 2,
	})
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(20000), out.Total)

	f.carts.AssertExpectations(t)
}

func TestCartUsecase_Add_MergesQuantity(t *testing.T) {
	f := newCartFixture()

	f.menuItems.On("FindByID", mock.Anything, int64(7)).Return(biryaniItem(), nil)
	f.restaurants.On("FindByID", mock.Anything, int64(5)).Return(model.Restaurant{
		ID: 5, Status: model.RestaurantStatusActive,
	}, nil)

	existing := model.CartLine{ID: 1, UserID: 10, RestaurantID: 5, MenuItemID: 7, VariantName: "Half", Quantity: 2}
	f.carts.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartLine{existing}, nil).Once()
	f.carts.On("FindLine", mock.Anything, int64(10), int64(7), "Half").Return(existing, nil)

	//2 + 3 = 5
	f.carts.On("UpdateQuantity", mock.Anything, int64(1), int64(10), int64(5)).Return(nil)

	merged := existing
	merged.Quantity = 5
	f.carts.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartLine{merged}, nil)

	out, err := f.uc.Add(context.Background(), 10, usecase.AddCartInput{
		MenuItemID: 7, VariantName: "Half", Quantity: 3,
	})
	assert.NoError(t, err)
	assert.Equal(t, int64(5), out.Items[0].Quantity)

	f.carts.AssertExpectations(t)
	f.carts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCartUsecase_Add_OtherRestaurantRejected(t *testing.T) {
	f := newCartFixture()

	f.menuItems.On("FindByID", mock.Anything, int64(7)).Return(biryaniItem(), nil)
	f.restaurants.On("FindByID", mock.Anything, int64(5)).Return(model.Restaurant{
		ID: 5, Status: model.RestaurantStatusActive,
	}, nil)

	//別店舗のアイテムが入っている
	f.carts.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartLine{
		{ID: 9, UserID: 10, RestaurantID: 99, MenuItemID: 42, VariantName: "Regular", Quantity: 1},
	}, nil)

	_, err := f.uc.Add(context.Background(), 10, usecase.AddCartInput{
		MenuItemID: 7, VariantName: "Half", Quantity: 1,
	})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 409, he.Status)
}

func TestCartUsecase_Add_UnknownVariant(t *testing.T) {
	f := newCartFixture()

	f.menuItems.On("FindByID", mock.Anything, int64(7)).Return(biryaniItem(), nil)

	_, err := f.uc.Add(context.Background(), 10, usecase.AddCartInput{
		MenuItemID: 7, VariantName: "Mega", Quantity: 1,
	})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestCartUsecase_Add_InactiveRestaurant(t *testing.T) {
	f := newCartFixture()

	f.menuItems.On("FindByID", mock.Anything, int64(7)).Return(biryaniItem(), nil)
	f.restaurants.On("FindByID", mock.Anything, int64(5)).Return(model.Restaurant{
		ID: 5, Status: model.RestaurantStatusPending,
	}, nil)

	_, err := f.uc.Add(context.Background(), 10, usecase.AddCartInput{
		MenuItemID: 7, VariantName: "Half", Quantity: 1,
	})
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 400, he.Status)
}

func TestCartUsecase_UpdateLine_NotFound(t *testing.T) {
	f := newCartFixture()

	f.carts.On("UpdateQuantity", mock.Anything, int64(1), int64(10), int64(3)).Return(repo.ErrNotFound)

	_, err := f.uc.UpdateLine(context.Background(), 10, 1, 3)
	he, ok := usecase.AsHTTPError(err)
	assert.True(t, ok)
	assert.Equal(t, 404, he.Status)
}

func TestCartUsecase_Get_DropsDeletedItems(t *testing.T) {
	f := newCartFixture()

	f.carts.On("ListByUserID", mock.Anything, int64(10)).Return([]model.CartLine{
		{ID: 1, UserID: 10, RestaurantID: 5, MenuItemID: 7, VariantName: "Half", Quantity: 1},
		{ID: 2, UserID: 10, RestaurantID: 5, MenuItemID: 8, VariantName: "Regular", Quantity: 1},
	}, nil)
	f.menuItems.On("FindByID", mock.Anything, int64(7)).Return(biryaniItem(), nil)
	f.menuItems.On("FindByID", mock.Anything, int64(8)).Return(model.MenuItem{}, repo.ErrNotFound)

	out, err := f.uc.Get(context.Background(), 10)
	assert.NoError(t, err)
	assert.Len(t, out.Items, 1)
	assert.Equal(t, int64(10000), out.Total)
}
