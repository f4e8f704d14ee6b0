package server

import (
	"net/http"

	"app/internal/config"
	"app/internal/handler"
	"app/internal/repository"

	"github.com/labstack/echo/v4"
)

// 全handlerの束
type Deps struct {
	Users repository.UserRepository

	Auth        *handler.AuthHandler
	Restaurants *handler.RestaurantHandler
	Menus       *handler.MenuHandler
	Carts       *handler.CartHandler
	Orders      *handler.OrderHandler
	Payments    *handler.PaymentHandler
	Admin       *handler.AdminHandler
}

func RegisterRoutes(e *echo.Echo, cfg config.Config, deps Deps) {
	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	deps.Auth.RegisterRoutes(e, cfg, deps.Users)
	deps.Restaurants.RegisterRoutes(e, cfg, deps.Users)
	deps.Menus.RegisterRoutes(e, cfg, deps.Users)
	deps.Carts.RegisterRoutes(e, cfg, deps.Users)
	deps.Orders.RegisterRoutes(e, cfg, deps.Users)
	deps.Payments.RegisterRoutes(e, cfg, deps.Users)
	deps.Admin.RegisterRoutes(e, cfg, deps.Users)
}
