package handler

import (
	"net/http"

	"restaurant/internal/usecase"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type PaymentHandler struct {
	uc *usecase.PaymentIntentUsecase
}

func NewPaymentHandler(uc *usecase.PaymentIntentUsecase) *PaymentHandler {
	return &PaymentHandler{uc: uc}
}

// cartId は不透明トークン。生のIDは受け付けない。
type CreatePaymentIntentRequest struct {
	CartID      string           `json:"cartId"`
	Currency    string           `json:"currency"`
	TotalAmount *decimal.Decimal `json:"totalAmount"`
}

func (h *PaymentHandler) RegisterRoutes(e *echo.Echo) {
	e.POST("/payments/create-payment-intent", h.createPaymentIntent)
}

func (h *PaymentHandler) createPaymentIntent(c echo.Context) error {
	var req CreatePaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		return badRequest(c, "invalid body")
	}
	if req.TotalAmount == nil {
		return badRequest(c, "totalAmount is required")
	}

	out, err := h.uc.CreatePaymentIntent(c.Request().Context(), usecase.CreatePaymentIntentInput{
		CartToken:   req.CartID,
		Currency:    req.Currency,
		TotalAmount: *req.TotalAmount,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, out)
}
