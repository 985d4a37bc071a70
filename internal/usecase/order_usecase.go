package usecase

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

type OrderOptions struct {
	// 注文作成時に合計を再検証する
	ReverifyOnOrder bool
	PriceTolerance  decimal.Decimal
}

type OrderUsecase struct {
	tx      repo.TransactionManager
	ids     IDCipher
	auditor SecurityAuditor
	opts    OrderOptions
	logger  *slog.Logger
	now     func() time.Time
}

func NewOrderUsecase(
	tx repo.TransactionManager,
	ids IDCipher,
	auditor SecurityAuditor,
	opts OrderOptions,
	logger *slog.Logger,
) *OrderUsecase {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderUsecase{
		tx:      tx,
		ids:     ids,
		auditor: auditor,
		opts:    opts,
		logger:  logger,
		now:     time.Now,
	}
}

type PaymentInput struct {
	CustomerName      string
	CustomerEmail     string
	ProviderReference string
}

// POST /order の入力
type CreateOrderInput struct {
	CartToken  string
	TotalPrice decimal.Decimal
	Payment    PaymentInput
}

type OrderOutput struct {
	model.Order
	Payment model.Payment `json:"payment"`
}

// CreateOrder は支払い記録と注文を1つのトランザクションで作る。
// 注文が作れなければ支払い記録もロールバックされる。
func (u *OrderUsecase) CreateOrder(ctx context.Context, in CreateOrderInput) (OrderOutput, error) {
	name := strings.TrimSpace(in.Payment.CustomerName)
	email := strings.TrimSpace(in.Payment.CustomerEmail)
	if name == "" || len(name) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid customer_name")
	}
	if _, err := mail.ParseAddress(email); err != nil || len(email) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid customer_email")
	}
	if !validOrderTotal(in.TotalPrice) {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid total_price")
	}
	if len(strings.TrimSpace(in.Payment.ProviderReference)) > 255 {
		return OrderOutput{}, NewHTTPError(http.StatusBadRequest, "invalid provider_reference")
	}

	//復号はDBに触れないので先にやる（失敗時は何も書かない）
	cartID, err := decodeToken(ctx, u.ids, u.auditor, in.CartToken, model.AuditResourceCart)
	if err != nil {
		return OrderOutput{}, err
	}

	var out OrderOutput
	var paymentID int64
	var mismatch *PriceCheck

	err = u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		//支払い記録（カートとは独立）
		payment, err := r.Payments().Create(ctx, model.Payment{
			CustomerName:      name,
			CustomerEmail:     email,
			ProviderReference: strings.TrimSpace(in.Payment.ProviderReference),
		})
		if err != nil {
			return errDB(err)
		}
		paymentID = payment.ID

		//1カート1注文
		if _, found, err := r.Orders().FindByCartID(ctx, cartID); err != nil {
			return errDB(err)
		} else if found {
			return NewKindError(http.StatusConflict, KindConflict, "order already exists for this cart")
		}

		if _, err := r.Carts().FindCheckoutable(ctx, cartID); err != nil {
			if isNotFound(err) {
				return NewKindError(http.StatusNotFound, KindCartNotFound, "cart not found or inactive")
			}
			return errDB(err)
		}

		if u.opts.ReverifyOnOrder {
			check, err := u.reverify(ctx, r, cartID, in.TotalPrice)
			if err != nil {
				return err
			}
			if !check.OK() {
				mismatch = &check
				return mismatchError(check)
			}
		}

		order, err := r.Orders().Create(ctx, model.Order{
			OrderStatus: model.OrderStatusPending,
			OrderTime:   u.now(),
			PaymentID:   payment.ID,
			CartID:      cartID,
			TotalPrice:  in.TotalPrice,
		})
		if err != nil {
			if errors.Is(err, repo.ErrConflict) {
				return NewKindError(http.StatusConflict, KindConflict, "order already exists for this cart")
			}
			return u.linkFailure(ctx, payment.ID, cartID, err)
		}

		if err := r.Carts().MarkCheckedOut(ctx, cartID); err != nil {
			return u.linkFailure(ctx, payment.ID, cartID, err)
		}

		out = OrderOutput{Order: order, Payment: payment}
		return nil
	})
	// ロールバック後に記録（監査ログはトランザクションの外）
	if mismatch != nil {
		u.recordMismatch(ctx, cartID, *mismatch)
	}
	if err != nil {
		if _, ok := AsHTTPError(err); ok {
			return OrderOutput{}, err
		}
		// commit 失敗
		if paymentID != 0 {
			return OrderOutput{}, u.linkFailure(ctx, paymentID, cartID, err)
		}
		return OrderOutput{}, errDB(err)
	}
	return out, nil
}

// orders.totale_price は numeric(10,2)
var maxOrderTotal = decimal.RequireFromString("99999999.99")

// 列に入らない値をDBまで持ち込まない（INSERT失敗を紐付け失敗と誤認しないため）
func validOrderTotal(v decimal.Decimal) bool {
	if v.IsNegative() || v.GreaterThan(maxOrderTotal) {
		return false
	}
	return v.Equal(v.Truncate(2))
}

func (u *OrderUsecase) reverify(ctx context.Context, r repo.TxRepos, cartID int64, claimed decimal.Decimal) (PriceCheck, error) {
	v := NewPriceVerifier(r.Carts(), r.CartItems(), r.DishPrices(), u.opts.PriceTolerance, u.logger)
	check, err := v.Verify(ctx, cartID, claimed)
	if err != nil {
		return PriceCheck{}, priceErrorToHTTP(err)
	}
	return check, nil
}

func (u *OrderUsecase) recordMismatch(ctx context.Context, cartID int64, check PriceCheck) {
	u.auditor.Record(ctx, model.AuditLog{
		Action:       model.AuditActionPriceMismatch,
		Severity:     model.AuditSeverityWarn,
		ResourceType: model.AuditResourceCart,
		ResourceID:   cartID,
		Detail: mustJSON(map[string]string{
			"authoritative": check.Authoritative.StringFixed(2),
			"claimed":       check.Claimed.String(),
			"stage":         "order",
		}),
	})
}

// 支払い作成後に注文と紐付けられなかった。照合用に payment_id を残す。
func (u *OrderUsecase) linkFailure(ctx context.Context, paymentID, cartID int64, cause error) error {
	u.logger.ErrorContext(ctx, "order link failure",
		slog.Int64("payment_id", paymentID),
		slog.Int64("cart_id", cartID),
		slog.String("error", cause.Error()),
	)
	return NewKindError(http.StatusUnprocessableEntity, KindOrderLinkFailure, "failed to link payment to order").
		WithDetails(map[string]any{"paymentId": paymentID}).
		WithCause(cause)
}
