package usecase

import (
	"context"
	"net/http"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

type MenuUsecase struct {
	restaurants repo.RestaurantRepository
	categories  repo.CategoryRepository
	menuItems   repo.MenuItemRepository
}

func NewMenuUsecase(
	restaurants repo.RestaurantRepository,
	categories repo.CategoryRepository,
	menuItems repo.MenuItemRepository,
) *MenuUsecase {
	return &MenuUsecase{
		restaurants: restaurants,
		categories:  categories,
		menuItems:   menuItems,
	}
}

type CreateCategoryInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Position    int    `json:"position"`
}

type VariantInput struct {
	Name        string `json:"name"`
	PriceAmount int64  `json:"price_amount"`
	Available   *bool  `json:"available"`
	Position    int    `json:"position"`
}

type CreateMenuItemInput struct {
	CategoryID  int64          `json:"category_id"`
	Name        string         `json:"name"`
	Description string         `json:"description"`
	IsVeg       bool           `json:"is_veg"`
	SpiceLevel  int            `json:"spice_level"`
	PrepTime    int            `json:"prep_time"`
	Variants    []VariantInput `json:"variants"`
}

// 公開メニューの絞り込み（query由来）
type ListMenuInput struct {
	CategoryID    *int64
	IsVeg         *bool
	MaxSpiceLevel *int
	Search        string
}

func (u *MenuUsecase) CreateCategory(ctx context.Context, actor Actor, restaurantID int64, in CreateCategoryInput) (model.Category, error) {
	if !actor.CanManageRestaurant(restaurantID) {
		return model.Category{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.Category{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	c := model.Category{
		RestaurantID: restaurantID,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		Position:     in.Position,
	}

	id, err := u.categories.Create(ctx, c)
	if err != nil {
		return model.Category{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	c.ID = id
	return c, nil
}

func (u *MenuUsecase) ListCategories(ctx context.Context, restaurantID int64) ([]model.Category, error) {
	items, err := u.categories.ListByRestaurantID(ctx, restaurantID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// CreateMenuItemはvariant必須（最低1件、名前はアイテム内で一意、価格は非負）。
// カテゴリ名は作成時点のスナップショットを保存する。
func (u *MenuUsecase) CreateMenuItem(ctx context.Context, actor Actor, restaurantID int64, in CreateMenuItemInput) (model.MenuItem, error) {
	if !actor.CanManageRestaurant(restaurantID) {
		return model.MenuItem{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Name) == "" {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if in.SpiceLevel < 0 || in.SpiceLevel > 5 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "spice_level must be 0-5")
	}
	if len(in.Variants) == 0 {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "at least one variant is required")
	}

	seen := map[string]bool{}
	variants := make([]model.MenuItemVariant, 0, len(in.Variants))
	for i, v := range in.Variants {
		name := strings.TrimSpace(v.Name)
		if name == "" {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "variant name is required")
		}
		if seen[name] {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "duplicate variant name")
		}
		seen[name] = true
		//0円（無料トッピング等）は許容、負値だけ弾く
		if v.PriceAmount < 0 {
			return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "variant price must not be negative")
		}

		available := true
		if v.Available != nil {
			available = *v.Available
		}
		position := v.Position
		if position == 0 {
			position = i
		}
		variants = append(variants, model.MenuItemVariant{
			Name:        name,
			PriceAmount: v.PriceAmount,
			Available:   available,
			Position:    position,
		})
	}

	//カテゴリは自店舗のものだけ
	category, err := u.categories.FindByID(ctx, in.CategoryID)
	if err == repo.ErrNotFound {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if category.RestaurantID != restaurantID {
		return model.MenuItem{}, NewHTTPError(http.StatusBadRequest, "invalid category")
	}

	prepTime := in.PrepTime
	if prepTime <= 0 {
		prepTime = 20
	}

	item := model.MenuItem{
		RestaurantID: restaurantID,
		CategoryID:   category.ID,
		CategoryName: category.Name,
		Name:         strings.TrimSpace(in.Name),
		Description:  in.Description,
		IsVeg:        in.IsVeg,
		SpiceLevel:   in.SpiceLevel,
		PrepTime:     prepTime,
		IsAvailable:  true,
		Variants:     variants,
	}

	id, err := u.menuItems.Create(ctx, item)
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	created, err := u.menuItems.FindByID(ctx, id)
	if err != nil {
		return model.MenuItem{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return created, nil
}

// ListPublicMenuは公開メニュー。店舗がactiveでなければ404、
// 非公開アイテムは出さない。
func (u *MenuUsecase) ListPublicMenu(ctx context.Context, restaurantID int64, in ListMenuInput) ([]model.MenuItem, error) {
	r, err := u.restaurants.FindByID(ctx, restaurantID)
	if err == repo.ErrNotFound {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if r.Status != model.RestaurantStatusActive {
		return nil, NewHTTPError(http.StatusNotFound, "not found")
	}

	items, err := u.menuItems.List(ctx, repo.MenuItemListFilter{
		RestaurantID:  restaurantID,
		CategoryID:    in.CategoryID,
		IsVeg:         in.IsVeg,
		MaxSpiceLevel: in.MaxSpiceLevel,
		Search:        strings.TrimSpace(in.Search),
		AvailableOnly: true,
	})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

// ListManagedMenuはオーナー用。非公開アイテムも含めて返す。
func (u *MenuUsecase) ListManagedMenu(ctx context.Context, actor Actor, restaurantID int64) ([]model.MenuItem, error) {
	if !actor.CanManageRestaurant(restaurantID) {
		return nil, NewHTTPError(http.StatusForbidden, "forbidden")
	}

	items, err := u.menuItems.List(ctx, repo.MenuItemListFilter{RestaurantID: restaurantID})
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}
