package server

import (
	"restaurant/internal/handler"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	User       *handler.UserHandler
	Payment    *handler.PaymentHandler
	Order      *handler.OrderHandler
	Cart       *handler.CartHandler
	Table      *handler.TableHandler
	Dish       *handler.DishHandler
	AdminOrder *handler.AdminOrderHandler
	AdminUser  *handler.AdminUserHandler
}

type Middlewares struct {
	// JWT必須 + 有効ユーザー
	Authed []echo.MiddlewareFunc
	// Authed + ADMIN限定
	Admin        []echo.MiddlewareFunc
	LoginLimiter echo.MiddlewareFunc
}

func RegisterRoutes(e *echo.Echo, h Handlers, mw Middlewares) {
	h.User.RegisterRoutes(e, mw.LoginLimiter, mw.Authed...)
	h.Payment.RegisterRoutes(e)
	h.Order.RegisterRoutes(e)
	h.Cart.RegisterRoutes(e)
	h.Dish.RegisterRoutes(e)
	h.Table.RegisterRoutes(e, mw.Admin...)
	h.AdminOrder.RegisterRoutes(e, mw.Admin...)
	h.AdminUser.RegisterRoutes(e, mw.Admin...)
}
