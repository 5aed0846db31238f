package router

import (
	"github.com/labstack/echo/v4"
)

func New(
	e *echo.Echo,
	kbCtrl interface {
		Search(echo.Context) error
		Refresh(echo.Context) error
		Stats(echo.Context) error
	},
	webhook interface{ Callback(echo.Context) error },
	healthCtrl interface{ Health(echo.Context) error },
) *echo.Echo {
	e.GET("/healthz", healthCtrl.Health)

	// VK Callback API entry point
	e.POST("/vk/callback", webhook.Callback)

	// KB admin endpoints
	e.GET("/kb/search", kbCtrl.Search)
	e.POST("/kb/refresh", kbCtrl.Refresh)
	e.GET("/kb/stats", kbCtrl.Stats)

	return e
}
