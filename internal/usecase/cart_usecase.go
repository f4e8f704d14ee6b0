package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type CartUsecase struct {
	carts       repo.CartRepository
	menuItems   repo.MenuItemRepository
	restaurants repo.RestaurantRepository
}

func NewCartUsecase(
	carts repo.CartRepository,
	menuItems repo.MenuItemRepository,
	restaurants repo.RestaurantRepository,
) *CartUsecase {
	return &CartUsecase{
		carts:       carts,
		menuItems:   menuItems,
		restaurants: restaurants,
	}
}

type AddCartInput struct {
	MenuItemID  int64  `json:"menu_item_id"`
	VariantName string `json:"variant_name"`
	Quantity    int64  `json:"quantity"`
}

type CartLineDTO struct {
	ID           int64  `json:"id"`
	MenuItemID   int64  `json:"menu_item_id"`
	MenuItemName string `json:"menu_item_name"`
	VariantName  string `json:"variant_name"`
	UnitPrice    int64  `json:"unit_price"`
	Quantity     int64  `json:"quantity"`
}

type CartResponse struct {
	RestaurantID int64         `json:"restaurant_id,omitempty"`
	Items        []CartLineDTO `json:"items"`
	Total        int64         `json:"total"`
}

// Getはカート取得。単価は現在のカタログ価格を引き直して返す
// （確定するのは注文作成時）。
func (u *CartUsecase) Get(ctx context.Context, userID int64) (CartResponse, error) {
	lines, err := u.carts.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return u.buildResponse(ctx, lines)
}

// Addはカート追加。同じ(アイテム, variant)は数量加算でマージする。
// カートは1店舗分だけ持てる。
func (u *CartUsecase) Add(ctx context.Context, userID int64, in AddCartInput) (CartResponse, error) {
	if in.MenuItemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid menu_item_id")
	}
	if strings.TrimSpace(in.VariantName) == "" {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "variant_name is required")
	}
	if in.Quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	item, err := u.menuItems.FindByID(ctx, in.MenuItemID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "menu item not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if !item.IsAvailable {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "menu item not available")
	}

	variant, err := ResolveVariant(item, in.VariantName)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid variant")
	}
	if !variant.Available {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "variant not available")
	}

	//停止中の店舗には注文を積ませない
	r, err := u.restaurants.FindByID(ctx, item.RestaurantID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if r.Status != model.RestaurantStatusActive {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "restaurant not active")
	}

	lines, err := u.carts.ListByUserID(ctx, userID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if len(lines) > 0 && lines[0].RestaurantID != item.RestaurantID {
		return CartResponse{}, NewHTTPError(http.StatusConflict, "cart holds items from another restaurant")
	}

	//同一(アイテム, variant)は加算
	existing, err := u.carts.FindLine(ctx, userID, in.MenuItemID, variant.Name)
	switch err {
	case nil:
		if err := u.carts.UpdateQuantity(ctx, existing.ID, userID, existing.Quantity+in.Quantity); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	case repo.ErrNotFound:
		line := model.CartLine{
			UserID:       userID,
			RestaurantID: item.RestaurantID,
			MenuItemID:   in.MenuItemID,
			VariantName:  variant.Name,
			Quantity:     in.Quantity,
		}
		if _, err := u.carts.Create(ctx, line); err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}
	default:
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, userID)
}

func (u *CartUsecase) UpdateLine(ctx context.Context, userID int64, lineID int64, quantity int64) (CartResponse, error) {
	if quantity < 1 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	err := u.carts.UpdateQuantity(ctx, lineID, userID, quantity)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, userID)
}

func (u *CartUsecase) RemoveLine(ctx context.Context, userID int64, lineID int64) (CartResponse, error) {
	err := u.carts.DeleteByID(ctx, lineID, userID)
	if err == repo.ErrNotFound {
		return CartResponse{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return u.Get(ctx, userID)
}

func (u *CartUsecase) Clear(ctx context.Context, userID int64) error {
	if err := u.carts.DeleteByUserID(ctx, userID); err != nil {
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

func (u *CartUsecase) buildResponse(ctx context.Context, lines []model.CartLine) (CartResponse, error) {
	resp := CartResponse{Items: []CartLineDTO{}}
	for _, l := range lines {
		item, err := u.menuItems.FindByID(ctx, l.MenuItemID)
		if err == repo.ErrNotFound {
			//消されたアイテムは表示から落とす
			continue
		}
		if err != nil {
			return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "db error")
		}

		var unitPrice int64
		if v, err := ResolveVariant(item, l.VariantName); err == nil {
			unitPrice = v.PriceAmount
		}

		resp.RestaurantID = l.RestaurantID
		resp.Items = append(resp.Items, CartLineDTO{
			ID:           l.ID,
			MenuItemID:   l.MenuItemID,
			MenuItemName: item.Name,
			VariantName:  l.VariantName,
			UnitPrice:    unitPrice,
			Quantity:     l.Quantity,
		})
		resp.Total += unitPrice * l.Quantity
	}
	return resp, nil
}
