package handler

import (
	"net/http"
	"strconv"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	uc *usecase.CartUsecase
}

func NewCartHandler(uc *usecase.CartUsecase) *CartHandler {
	return &CartHandler{uc: uc}
}

type UpdateCartItemRequest struct {
	Quantity int64 `json:"quantity"`
}

type AddCartItemRequest struct {
	DishID   int64  `json:"dish_id"`
	Size     string `json:"size"`
	Quantity int64  `json:"quantity"`
}

// お客様向け。パスのIDはすべて暗号化トークン。
func (h *CartHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/cart/table/:encryptedTableId", h.openForTable)
	e.GET("/cart/secure/:encryptedCartId", h.get)
	e.POST("/cart/secure/:encryptedCartId/items", h.addItem)
	e.PATCH("/cart/secure/:encryptedCartId/items/:itemId", h.updateItem)
	e.DELETE("/cart/secure/:encryptedCartId/items/:itemId", h.removeItem)
}

func (h *CartHandler) openForTable(c echo.Context) error {
	out, err := h.uc.OpenForTable(c.Request().Context(), c.Param("encryptedTableId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) get(c echo.Context) error {
	out, err := h.uc.GetByToken(c.Request().Context(), c.Param("encryptedCartId"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) addItem(c echo.Context) error {
	var req AddCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.AddItem(c.Request().Context(), c.Param("encryptedCartId"), usecase.AddCartItemInput{
		DishID:   req.DishID,
		Size:     req.Size,
		Quantity: req.Quantity,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) updateItem(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid item id")
	}
	var req UpdateCartItemRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}

	out, err := h.uc.UpdateItemQuantity(c.Request().Context(), c.Param("encryptedCartId"), itemID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}

func (h *CartHandler) removeItem(c echo.Context) error {
	itemID, err := strconv.ParseInt(c.Param("itemId"), 10, 64)
	if err != nil {
		return badRequest(c, "invalid item id")
	}

	out, err := h.uc.RemoveItem(c.Request().Context(), c.Param("encryptedCartId"), itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
