package server

import (
	"net/http"

	"app/internal/config"
	mw "app/internal/middleware"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

// Newはechoを組み立てて返す。ルート登録はroutes.goで行う。
func New(cfg config.Config, logger *zap.Logger, deps Deps) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(mw.RequestLogger(logger))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FEURL},
		AllowMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut,
			http.MethodPatch, http.MethodDelete, http.MethodOptions,
		},
		AllowHeaders: []string{
			echo.HeaderContentType, echo.HeaderAuthorization,
		},
	}))

	RegisterRoutes(e, cfg, deps)
	return e
}

func Start(e *echo.Echo, port string) error {
	return e.Start(":" + port)
}
