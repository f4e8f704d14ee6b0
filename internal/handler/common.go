package handler

import (
	"net/http"

	"app/internal/domain/model"
	"app/internal/middleware"
	"app/internal/usecase"

	"github.com/labstack/echo/v4"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: he.Message})
	}

	//500
	return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	userID, ok := c.Get(middleware.CtxUserIDKey).(int64)
	if !ok || userID <= 0 {
		return 0, false
	}
	return userID, true
}

// AuthJWT + ActiveUserGuardが入れた値からActorを組み立てる
func getActorFromContext(c echo.Context) (usecase.Actor, bool) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return usecase.Actor{}, false
	}

	role, ok := c.Get(middleware.CtxUserRoleKey).(string)
	if !ok || role == "" {
		return usecase.Actor{}, false
	}

	restaurantID, _ := c.Get(middleware.CtxRestaurantIDKey).(*int64)

	return usecase.Actor{
		UserID:       userID,
		Role:         model.Role(role),
		RestaurantID: restaurantID,
	}, true
}
