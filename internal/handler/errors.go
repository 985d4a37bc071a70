package handler

import (
	"net/http"
	"strconv"

	"restaurant/internal/middleware"
	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

// エラーレスポンスの形は全APIで共通
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

func errorJSON(c echo.Context, status int, kind usecase.ErrorKind, msg string) error {
	return c.JSON(status, ErrorResponse{Error: string(kind), Message: msg})
}

func badRequest(c echo.Context, msg string) error {
	return errorJSON(c, http.StatusBadRequest, usecase.KindValidation, msg)
}

func writeError(c echo.Context, err error) error {
	if err == nil {
		return nil
	}
	if he, ok := usecase.AsHTTPError(err); ok {
		return c.JSON(he.Status, ErrorResponse{Error: string(he.Code), Message: he.Message, Details: he.Details})
	}

	//500
	c.Logger().Error(err)
	return errorJSON(c, http.StatusInternalServerError, usecase.KindInternal, "internal error")
}

func getUserIDFromContext(c echo.Context) (int64, bool) {
	v := c.Get(middleware.CtxUserIDKey)
	if v == nil {
		return 0, false
	}

	id, ok := v.(int64)
	if !ok {
		return 0, false
	}

	return id, true
}

func parseIDParam(c echo.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
