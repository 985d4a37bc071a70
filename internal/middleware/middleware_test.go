package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/middleware"
	"restaurant/internal/repository"

	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "mw-secret"

func sign(t *testing.T, method jwt.SigningMethod, key interface{}, claims jwt.MapClaims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return s
}

func validClaims(sub interface{}, role string) jwt.MapClaims {
	return jwt.MapClaims{
		"sub":  sub,
		"role": role,
		"exp":  time.Now().Add(time.Hour).Unix(),
	}
}

// 認証後のcontextの中身を返すだけのハンドラ
func echoIdentity(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"user_id": c.Get(middleware.CtxUserIDKey),
		"role":    c.Get(middleware.CtxUserRoleKey),
	})
}

func run(t *testing.T, req *http.Request, h echo.HandlerFunc, mws ...echo.MiddlewareFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.GET("/", h, mws...)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestAuthJWT_Cookie(t *testing.T) {
	raw := sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims("12", "USER"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: middleware.SessionCookieName, Value: raw})

	rec := run(t, req, echoIdentity, middleware.AuthJWT(secret))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":12,"role":"USER"}`, rec.Body.String())
}

func TestAuthJWT_BearerFallback(t *testing.T) {
	// 数値のsubも受け付ける
	raw := sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims(float64(3), "ADMIN"))
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer "+raw)

	rec := run(t, req, echoIdentity, middleware.AuthJWT(secret))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"user_id":3,"role":"ADMIN"}`, rec.Body.String())
}

func TestAuthJWT_Rejects(t *testing.T) {
	expired := jwt.MapClaims{"sub": "1", "role": "USER", "exp": time.Now().Add(-time.Minute).Unix()}

	cases := []struct {
		name  string
		token string
	}{
		{"missing", ""},
		{"garbage", "not-a-jwt"},
		{"wrong secret", sign(t, jwt.SigningMethodHS256, []byte("other"), validClaims("1", "USER"))},
		{"wrong alg", sign(t, jwt.SigningMethodHS512, []byte(secret), validClaims("1", "USER"))},
		{"expired", sign(t, jwt.SigningMethodHS256, []byte(secret), expired)},
		{"no role", sign(t, jwt.SigningMethodHS256, []byte(secret), jwt.MapClaims{"sub": "1", "exp": time.Now().Add(time.Hour).Unix()})},
		{"bad sub", sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims("abc", "USER"))},
		{"zero sub", sign(t, jwt.SigningMethodHS256, []byte(secret), validClaims("0", "USER"))},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.token != "" {
				req.Header.Set("Authorization", "Bearer "+tc.token)
			}
			rec := run(t, req, echoIdentity, middleware.AuthJWT(secret))

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.JSONEq(t, `{"error":"UNAUTHORIZED","message":"unauthorized"}`, rec.Body.String())
		})
	}
}

func withIdentity(id interface{}, role interface{}) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if id != nil {
				c.Set(middleware.CtxUserIDKey, id)
			}
			if role != nil {
				c.Set(middleware.CtxUserRoleKey, role)
			}
			return next(c)
		}
	}
}

func TestAdminRoleGuard(t *testing.T) {
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	cases := []struct {
		name string
		role interface{}
		want int
	}{
		{"admin", "ADMIN", http.StatusNoContent},
		{"user", "USER", http.StatusForbidden},
		{"missing", nil, http.StatusUnauthorized},
		{"wrong type", 1, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := run(t, req, ok, withIdentity(int64(1), tc.role), middleware.AdminRoleGuard())
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}

type userStub struct {
	users map[int64]*model.User
}

func (s *userStub) Create(ctx context.Context, user *model.User) error { return nil }
func (s *userStub) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	u, ok := s.users[userID]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}
func (s *userStub) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, repository.ErrUserNotFound
}
func (s *userStub) UpdateLoginState(ctx context.Context, userID int64, failedAttempts int, lockedUntil *time.Time) error {
	return nil
}
func (s *userStub) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error { return nil }

func TestUserActiveGuard(t *testing.T) {
	users := &userStub{users: map[int64]*model.User{
		1: {ID: 1, Role: model.RoleUser},
		2: {ID: 2, Role: model.RoleUser, IsDeleted: true},
	}}
	ok := func(c echo.Context) error { return c.NoContent(http.StatusNoContent) }

	cases := []struct {
		name string
		id   interface{}
		want int
	}{
		{"active", int64(1), http.StatusNoContent},
		{"deleted", int64(2), http.StatusUnauthorized},
		{"unknown", int64(9), http.StatusUnauthorized},
		{"no identity", nil, http.StatusUnauthorized},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := run(t, req, ok, withIdentity(tc.id, "USER"), middleware.UserActiveGuard(users))
			assert.Equal(t, tc.want, rec.Code)
		})
	}
}
