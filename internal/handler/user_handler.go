package handler

import (
	"errors"
	"math"
	"net/http"
	"time"

	"restaurant/internal/middleware"
	"restaurant/internal/usecase"
	auth "restaurant/internal/usecase/auth_usecase"

	"github.com/labstack/echo/v4"
)

type UserHandler struct {
	registerUC   *auth.RegisterUserUsecase // 会員登録usecase
	loginUC      *auth.LoginUsecase        // ログインusecase
	meUC         *auth.CurrentUserUsecase
	cookieSecure bool
}

// DIコンストラクタ
func NewUserHandler(
	registerUC *auth.RegisterUserUsecase,
	loginUC *auth.LoginUsecase,
	meUC *auth.CurrentUserUsecase,
	cookieSecure bool,
) *UserHandler {
	return &UserHandler{
		registerUC:   registerUC,
		loginUC:      loginUC,
		meUC:         meUC,
		cookieSecure: cookieSecure,
	}
}

// POST /user のリクエストボディ。
type registerRequest struct {
	Name     string `json:"user_name"`
	Email    string `json:"user_email"`
	Password string `json:"user_password"`
}

// POST /user/login のリクエストボディ。
type loginRequest struct {
	Email    string `json:"user_email"`
	Password string `json:"user_password"`
}

// login には IP単位のレート制限を前段に挟む。me は JWT 必須。
func (h *UserHandler) RegisterRoutes(e *echo.Echo, loginLimiter echo.MiddlewareFunc, authed ...echo.MiddlewareFunc) {
	e.POST("/user", h.register)
	e.POST("/user/login", h.login, loginLimiter)
	e.POST("/user/logout", h.logout)
	e.GET("/auth/me", h.me, authed...)
}

func (h *UserHandler) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.registerUC.Execute(c.Request().Context(), auth.RegisterUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidEmailFormat),
			errors.Is(err, auth.ErrInvalidName),
			errors.Is(err, auth.ErrPasswordTooShort),
			errors.Is(err, auth.ErrWeakPassword):
			return badRequest(c, err.Error())
		case errors.Is(err, auth.ErrEmailAlreadyExists):
			return errorJSON(c, http.StatusConflict, usecase.KindConflict, err.Error())
		default:
			return writeError(c, err)
		}
	}

	return c.JSON(http.StatusCreated, out.User)
}

func (h *UserHandler) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.loginUC.Execute(c.Request().Context(), auth.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return writeLoginError(c, err)
	}

	//HTTP-only Cookie にJWT
	c.SetCookie(h.sessionCookie(out.Token, out.ExpiresAt))
	return c.JSON(http.StatusOK, out)
}

func (h *UserHandler) logout(c echo.Context) error {
	ck := h.sessionCookie("", time.Unix(0, 0))
	ck.MaxAge = -1
	c.SetCookie(ck)
	return c.NoContent(http.StatusNoContent)
}

func (h *UserHandler) me(c echo.Context) error {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return errorJSON(c, http.StatusUnauthorized, usecase.KindUnauthorized, "unauthorized")
	}
	u, err := h.meUC.Execute(c.Request().Context(), userID)
	if err != nil {
		if errors.Is(err, auth.ErrUserInactive) {
			return errorJSON(c, http.StatusUnauthorized, usecase.KindUnauthorized, "unauthorized")
		}
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, u)
}

func (h *UserHandler) sessionCookie(value string, expires time.Time) *http.Cookie {
	return &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   h.cookieSecure,
		SameSite: http.SameSiteLaxMode,
	}
}

// ログイン失敗は 401。種別と残り回数/残り時間を返す。
func writeLoginError(c echo.Context, err error) error {
	var locked *auth.LockedError
	var rejected *auth.RejectedError

	switch {
	case errors.As(err, &locked):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   string(locked.Kind),
			Message: locked.Error(),
			Details: map[string]any{
				"remainingSeconds": int(math.Ceil(locked.Remaining.Seconds())),
				"lockedUntil":      locked.LockedUntil.UTC().Format(time.RFC3339),
			},
		})
	case errors.As(err, &rejected):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{
			Error:   "INVALID_CREDENTIALS",
			Message: rejected.Error(),
			Details: map[string]any{"attemptsRemaining": rejected.AttemptsRemaining},
		})
	case errors.Is(err, auth.ErrInvalidCredentials):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "INVALID_CREDENTIALS", Message: "invalid email or password"})
	case errors.Is(err, auth.ErrUserInactive):
		return c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "INVALID_CREDENTIALS", Message: "invalid email or password"})
	default:
		return writeError(c, err)
	}
}
