package handler

import (
	"net/http"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

// メニューの公開API
type DishHandler struct {
	uc *usecase.MenuUsecase
}

// DI
func NewDishHandler(uc *usecase.MenuUsecase) *DishHandler {
	return &DishHandler{uc: uc}
}

func (h *DishHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/dishes", h.list)
	e.GET("/dishes/:id", h.detail)
}

func (h *DishHandler) list(c echo.Context) error {
	out, err := h.uc.ListDishes(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *DishHandler) detail(c echo.Context) error {
	id, ok := parseIDParam(c, "id")
	if !ok {
		return badRequest(c, "invalid id")
	}
	out, err := h.uc.GetDish(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
