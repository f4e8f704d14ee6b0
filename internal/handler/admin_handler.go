package handler

import (
	"net/http"
	"strconv"

	"app/internal/config"
	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/repository"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

// 運営（super_admin）専用API
type AdminHandler struct {
	uc        *usecase.AdminUsecase
	analytics *usecase.AnalyticsUsecase
}

func NewAdminHandler(uc *usecase.AdminUsecase, analytics *usecase.AnalyticsUsecase) *AdminHandler {
	return &AdminHandler{uc: uc, analytics: analytics}
}

func (h *AdminHandler) RegisterRoutes(e *echo.Echo, cfg config.Config, userRepo repository.UserRepository) {
	g := e.Group("/admin")
	g.Use(middleware.AuthJWT(cfg))
	g.Use(middleware.ActiveUserGuard(userRepo))
	g.Use(middleware.RoleGuard(model.RoleSuperAdmin))

	g.GET("/restaurants", h.listRestaurants)
	g.POST("/restaurants/:id/approve", h.approve)
	g.POST("/restaurants/:id/suspend", h.suspend)
	g.GET("/analytics", h.platformAnalytics)
	g.GET("/audit-logs", h.listAuditLogs)
}

func (h *AdminHandler) listRestaurants(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	status := model.RestaurantStatus(c.QueryParam("status"))
	if status == "" {
		status = model.RestaurantStatusPending
	}

	out, err := h.uc.ListRestaurants(c.Request().Context(), actor, status)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) approve(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	restaurantID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.ApproveRestaurant(c.Request().Context(), actor, restaurantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) suspend(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	restaurantID, err := parseIDParam(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid id"})
	}

	out, err := h.uc.SuspendRestaurant(c.Request().Context(), actor, restaurantID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) platformAnalytics(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	out, err := h.analytics.Platform(c.Request().Context(), actor)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *AdminHandler) listAuditLogs(c echo.Context) error {
	actor, ok := getActorFromContext(c)
	if !ok {
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "unauthorized"})
	}

	rt := model.AuditResourceType(c.QueryParam("resource_type"))
	if rt != model.AuditResourceRestaurant && rt != model.AuditResourceOrder {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_type"})
	}

	resourceID, err := strconv.ParseInt(c.QueryParam("resource_id"), 10, 64)
	if err != nil || resourceID <= 0 {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid resource_id"})
	}

	out, err := h.uc.ListAuditLogs(c.Request().Context(), actor, rt, resourceID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
