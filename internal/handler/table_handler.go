package handler

import (
	"net/http"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

type TableHandler struct {
	uc *usecase.TableUsecase
}

func NewTableHandler(uc *usecase.TableUsecase) *TableHandler {
	return &TableHandler{uc: uc}
}

type TableCreateRequest struct {
	Name string `json:"name"`
}

// 作成と一覧は管理者のみ
func (h *TableHandler) RegisterRoutes(e *echo.Echo, admin ...echo.MiddlewareFunc) {
	e.GET("/table/secure/:encryptedId", h.getSecure)

	g := e.Group("/table", admin...)
	g.POST("", h.create)
	g.GET("", h.list)
}

func (h *TableHandler) getSecure(c echo.Context) error {
	out, err := h.uc.GetByToken(c.Request().Context(), c.Param("encryptedId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *TableHandler) create(c echo.Context) error {
	var req TableCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	out, err := h.uc.Create(c.Request().Context(), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, out)
}

func (h *TableHandler) list(c echo.Context) error {
	out, err := h.uc.List(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
