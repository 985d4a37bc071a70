package handler

import (
	"net/http"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type OrderHandler struct {
	uc *usecase.OrderUsecase
}

func NewOrderHandler(uc *usecase.OrderUsecase) *OrderHandler {
	return &OrderHandler{uc: uc}
}

type PaymentRequest struct {
	CustomerName      string `json:"customer_name"`
	CustomerEmail     string `json:"customer_email"`
	ProviderReference string `json:"provider_reference"`
}

type OrderCreateRequest struct {
	CartID     string           `json:"cart_id"`
	TotalPrice *decimal.Decimal `json:"total_price"`
	Payment    *PaymentRequest  `json:"payment"`
}

func (h *OrderHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/order", h.create)
}

func (h *OrderHandler) create(c echo.Context) error {
	var req OrderCreateRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.TotalPrice == nil {
		return badRequest(c, "total_price is required")
	}
	if req.Payment == nil {
		return badRequest(c, "payment is required")
	}

	out, err := h.uc.CreateOrder(c.Request().Context(), usecase.CreateOrderInput{
		CartToken:  req.CartID,
		TotalPrice: *req.TotalPrice,
		Payment: usecase.PaymentInput{
			CustomerName:      req.Payment.CustomerName,
			CustomerEmail:     req.Payment.CustomerEmail,
			ProviderReference: req.Payment.ProviderReference,
		},
	})
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(http.StatusCreated, out)
}
