package usecase

import (
	"context"
	"encoding/json"
	"net/http"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"go.uber.org/zap"
)

// AdminUsecaseは運営（super_admin）専用の店舗管理
type AdminUsecase struct {
	txm         repo.TransactionManager
	restaurants repo.RestaurantRepository
	auditLogs   repo.AuditLogRepository
	logger      *zap.Logger
}

func NewAdminUsecase(
	txm repo.TransactionManager,
	restaurants repo.RestaurantRepository,
	auditLogs repo.AuditLogRepository,
	logger *zap.Logger,
) *AdminUsecase {
	return &AdminUsecase{
		txm:         txm,
		restaurants: restaurants,
		auditLogs:   auditLogs,
		logger:      logger,
	}
}

// ApproveRestaurantはpending/suspendedの店舗をactiveへ。
// ステータス変更と監査ログは同一トランザクションで書く。
func (u *AdminUsecase) ApproveRestaurant(ctx context.Context, actor Actor, restaurantID int64) (RestaurantAdminDTO, error) {
	return u.changeStatus(ctx, actor, restaurantID, model.RestaurantStatusActive, model.AuditActionApproveRestaurant)
}

// SuspendRestaurantはactiveの店舗をsuspendedへ
func (u *AdminUsecase) SuspendRestaurant(ctx context.Context, actor Actor, restaurantID int64) (RestaurantAdminDTO, error) {
	return u.changeStatus(ctx, actor, restaurantID, model.RestaurantStatusSuspended, model.AuditActionSuspendRestaurant)
}

func (u *AdminUsecase) changeStatus(ctx context.Context, actor Actor, restaurantID int64, to model.RestaurantStatus, action model.AuditAction) (RestaurantAdminDTO, error) {
	if !actor.IsSuperAdmin() {
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusForbidden, "super admin role required")
	}

	var out RestaurantAdminDTO
	err := u.txm.WithinTx(ctx, func(r repo.TxRepos) error {
		rest, err := r.Restaurants().FindByID(ctx, restaurantID)
		if err != nil {
			return err
		}

		if rest.Status == to {
			return NewHTTPError(http.StatusConflict, "restaurant already in requested status")
		}
		if to == model.RestaurantStatusSuspended && rest.Status != model.RestaurantStatusActive {
			return NewHTTPError(http.StatusConflict, "only active restaurants can be suspended")
		}

		before := rest.Status
		if err := r.Restaurants().UpdateStatus(ctx, restaurantID, to); err != nil {
			return err
		}

		log := model.AuditLog{
			ActorUserID:  actor.UserID,
			Action:       action,
			ResourceType: model.AuditResourceRestaurant,
			ResourceID:   restaurantID,
			BeforeJSON:   statusJSON(string(before)),
			AfterJSON:    statusJSON(string(to)),
		}
		if err := r.AuditLogs().Create(ctx, log); err != nil {
			return err
		}

		rest.Status = to
		out = toRestaurantAdminDTO(rest)
		return nil
	})
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return RestaurantAdminDTO{}, err
		}
		if err == repo.ErrNotFound {
			return RestaurantAdminDTO{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return RestaurantAdminDTO{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	u.logger.Info("restaurant status changed",
		zap.Int64("restaurant_id", restaurantID),
		zap.String("status", string(to)),
		zap.Int64("actor_user_id", actor.UserID),
	)
	return out, nil
}

// ListRestaurantsはステータス別の店舗一覧（審査キューなど）
func (u *AdminUsecase) ListRestaurants(ctx context.Context, actor Actor, status model.RestaurantStatus) ([]RestaurantAdminDTO, error) {
	if !actor.IsSuperAdmin() {
		return nil, NewHTTPError(http.StatusForbidden, "super admin role required")
	}

	switch status {
	case model.RestaurantStatusPending, model.RestaurantStatusActive, model.RestaurantStatusSuspended:
	default:
		return nil, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	items, err := u.restaurants.ListByStatus(ctx, status)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	out := make([]RestaurantAdminDTO, 0, len(items))
	for _, it := range items {
		out = append(out, toRestaurantAdminDTO(it))
	}
	return out, nil
}

// ListAuditLogsは対象リソースの操作履歴
func (u *AdminUsecase) ListAuditLogs(ctx context.Context, actor Actor, rt model.AuditResourceType, resourceID int64) ([]model.AuditLog, error) {
	if !actor.IsSuperAdmin() {
		return nil, NewHTTPError(http.StatusForbidden, "super admin role required")
	}

	items, err := u.auditLogs.ListByResource(ctx, rt, resourceID)
	if err != nil {
		return nil, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return items, nil
}

func statusJSON(status string) string {
	b, _ := json.Marshal(map[string]string{"status": status})
	return string(b)
}
