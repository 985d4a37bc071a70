package middleware

import (
	"restaurant/internal/repository"

	"github.com/labstack/echo/v4"
)

// JWTが有効でも、削除済みユーザーは通さない。
func UserActiveGuard(userRepo repository.UserRepository) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			//AuthJWTが入れたuser_id を取得する
			userID, ok := c.Get(CtxUserIDKey).(int64)
			if !ok || userID <= 0 {
				return unauthorized(c)
			}

			//DBから最新のuserを取得する
			user, err := userRepo.FindByID(c.Request().Context(), userID)
			if err != nil || user == nil || user.IsDeleted {
				return unauthorized(c)
			}

			return next(c)
		}
	}
}
