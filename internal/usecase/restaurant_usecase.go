package usecase

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"app/internal/domain/model"
	repo "app/internal/repository"
)

var slugPattern = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)

type RestaurantUsecase struct {
	restaurants repo.RestaurantRepository
	users       repo.UserRepository
}

func NewRestaurantUsecase(restaurants repo.RestaurantRepository, users repo.UserRepository) *RestaurantUsecase {
	return &RestaurantUsecase{restaurants: restaurants, users: users}
}

type CreateRestaurantInput struct {
	Name         string   `json:"name"`
	Slug         string   `json:"slug"`
	Description  string   `json:"description"`
	CuisineTypes []string `json:"cuisine_types"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
}

type UpdateRestaurantInput struct {
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CuisineTypes []string `json:"cuisine_types"`
	Address      string   `json:"address"`
	Phone        string   `json:"phone"`
}

type RestaurantDTO struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Slug         string                 `json:"slug"`
	Description  string                 `json:"description"`
	CuisineTypes []string               `json:"cuisine_types"`
	Address      string                 `json:"address"`
	Phone        string                 `json:"phone"`
	Status       model.RestaurantStatus `json:"status"`
}

// オーナー/管理者向け（手数料率も見せる）
type RestaurantAdminDTO struct {
	RestaurantDTO
	OwnerID        int64   `json:"owner_id"`
	CommissionRate float64 `json:"commission_rate"`
}

// Createは店舗登録。1オーナー1店舗、作成直後はpendingで
// super_adminの承認が下りるまで公開されない。
func (u *RestaurantUsecase) Create(ctx context.Context, actor Actor, in CreateRestaurantInput) (RestaurantAdminDTO, error) {
	if actor.Role != model.RoleRestaurantOwner {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusForbidden, "restaurant owner role required")
	}
	if actor.RestaurantID != nil {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusConflict, "restaurant already registered")
	}
	if strings.TrimSpace(in.Name) == "" {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}
	if !slugPattern.MatchString(in.Slug) {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusBadRequest, "invalid slug")
	}
	if strings.TrimSpace(in.Address) == "" {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusBadRequest, "address is required")
	}

	//slug重複チェック
	if _, err := u.restaurants.FindBySlug(ctx, in.Slug); err == nil {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusConflict, "slug already taken")
	} else if err != repo.ErrNotFound {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	r := model.Restaurant{
		OwnerID:        actor.UserID,
		Name:           strings.TrimSpace(in.Name),
		Slug:           in.Slug,
		Description:    in.Description,
		CuisineTypes:   strings.Join(in.CuisineTypes, ","),
		Address:        strings.TrimSpace(in.Address),
		Phone:          strings.TrimSpace(in.Phone),
		Status:         model.RestaurantStatusPending,
		CommissionRate: 10,
	}

	id, err := u.restaurants.Create(ctx, r)
	if err != nil {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusConflict, "slug already taken")
	}
	r.ID = id

	//オーナーに店舗を紐づける
	if err := u.users.SetRestaurantID(ctx, actor.UserID, id); err != nil {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toRestaurantAdminDTO(r), nil
}

// ListActiveは公開一覧。activeな店舗だけ返す。
func (u *RestaurantUsecase) ListActive(ctx context.Context) ([]RestaurantDTO, error) {
	items, err := u.restaurants.ListByStatus(ctx, model.RestaurantStatusActive)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]RestaurantDTO, 0, len(items))
	for _, r := range items {
		out = append(out, toRestaurantDTO(r))
	}
	return out, nil
}

// GetBySlugは公開詳細。active以外は存在を隠す。
func (u *RestaurantUsecase) GetBySlug(ctx context.Context, slug string) (RestaurantDTO, error) {
	r, err := u.restaurants.FindBySlug(ctx, slug)
	if err == repo.ErrNotFound {
		return RestaurantDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return RestaurantDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if r.Status != model.RestaurantStatusActive {
		return RestaurantDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	return toRestaurantDTO(r), nil
}

// GetMineはオーナー用（pending/suspendedでも見える）
func (u *RestaurantUsecase) GetMine(ctx context.Context, actor Actor) (RestaurantAdminDTO, error) {
	r, err := u.restaurants.FindByOwnerID(ctx, actor.UserID)
	if err == repo.ErrNotFound {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return toRestaurantAdminDTO(r), nil
}

// UpdateProfileはプロフィール項目のみ。status/commission_rateはここでは触れない。
func (u *RestaurantUsecase) UpdateProfile(ctx context.Context, actor Actor, restaurantID int64, in UpdateRestaurantInput) (RestaurantAdminDTO, error) {
	if !actor.CanManageRestaurant(restaurantID) {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusForbidden, "forbidden")
	}
	if strings.TrimSpace(in.Name) == "" {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusBadRequest, "name is required")
	}

	r, err := u.restaurants.FindByID(ctx, restaurantID)
	if err == repo.ErrNotFound {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusNotFound, "not found")
	}
	if err != nil {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	r.Name = strings.TrimSpace(in.Name)
	r.Description = in.Description
	r.CuisineTypes = strings.Join(in.CuisineTypes, ",")
	r.Address = strings.TrimSpace(in.Address)
	r.Phone = strings.TrimSpace(in.Phone)

	if err := u.restaurants.UpdateProfile(ctx, r); err != nil {
		if err == repo.ErrNotFound {
			return RestaurantAdminDTO{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toRestaurantAdminDTO(r), nil
}

func toRestaurantDTO(r model.Restaurant) RestaurantDTO {
	return RestaurantDTO{
		ID:           r.ID,
		Name:         r.Name,
		Slug:         r.Slug,
		Description:  r.Description,
		CuisineTypes: splitCuisineTypes(r.CuisineTypes),
		Address:      r.Address,
		Phone:        r.Phone,
		Status:       r.Status,
	}
}

func toRestaurantAdminDTO(r model.Restaurant) RestaurantAdminDTO {
	return RestaurantAdminDTO{
		RestaurantDTO:  toRestaurantDTO(r),
		OwnerID:        r.OwnerID,
		CommissionRate: r.CommissionRate,
	}
}

func splitCuisineTypes(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.Split(s, ",")
}
