package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

type PaymentIntentUsecase struct {
	ids      IDCipher
	verifier *PriceVerifier
	provider PaymentProvider
	auditor  SecurityAuditor
}

func NewPaymentIntentUsecase(
	ids IDCipher,
	verifier *PriceVerifier,
	provider PaymentProvider,
	auditor SecurityAuditor,
) *PaymentIntentUsecase {
	return &PaymentIntentUsecase{
		ids:      ids,
		verifier: verifier,
		provider: provider,
		auditor:  auditor,
	}
}

// POST /payments/create-payment-intent の入力
type CreatePaymentIntentInput struct {
	CartToken   string
	Currency    string
	TotalAmount decimal.Decimal
}

type PaymentIntentOutput struct {
	ClientSecret string `json:"clientSecret"`
	// サーバー計算の合計（表示用、通貨の通常単位）
	Amount decimal.Decimal `json:"amount"`
	// プロバイダへ請求した額（minor unit）
	AmountMinor int64 `json:"amountMinor"`
	CartID      int64 `json:"cartId"`
}

// CreatePaymentIntent は全ての検査を通ったときだけプロバイダを呼ぶ。
func (u *PaymentIntentUsecase) CreatePaymentIntent(ctx context.Context, in CreatePaymentIntentInput) (PaymentIntentOutput, error) {
	currency := strings.ToLower(strings.TrimSpace(in.Currency))
	if len(currency) != 3 || strings.Trim(currency, "abcdefghijklmnopqrstuvwxyz") != "" {
		return PaymentIntentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid currency")
	}
	if in.TotalAmount.IsNegative() {
		return PaymentIntentOutput{}, NewHTTPError(http.StatusBadRequest, "invalid totalAmount")
	}

	//トークン復号
	cartID, err := decodeToken(ctx, u.ids, u.auditor, in.CartToken, model.AuditResourceCart)
	if err != nil {
		return PaymentIntentOutput{}, err
	}

	//サーバー側で合計を再計算して比較
	check, err := u.verifier.Verify(ctx, cartID, in.TotalAmount)
	if err != nil {
		return PaymentIntentOutput{}, priceErrorToHTTP(err)
	}
	if !check.OK() {
		u.auditor.Record(ctx, model.AuditLog{
			Action:       model.AuditActionPriceMismatch,
			Severity:     model.AuditSeverityWarn,
			ResourceType: model.AuditResourceCart,
			ResourceID:   cartID,
			Detail: mustJSON(map[string]string{
				"authoritative": check.Authoritative.StringFixed(2),
				"claimed":       check.Claimed.String(),
				"currency":      currency,
			}),
		})
		return PaymentIntentOutput{}, mismatchError(check)
	}

	//最小決済額
	amount := ToMinorUnits(check.Authoritative, currency)
	if minimum := MinimumChargeMinor(currency); amount < minimum {
		return PaymentIntentOutput{}, NewKindError(http.StatusBadRequest, KindAmountTooSmall, "amount is below the minimum charge").
			WithDetails(map[string]any{"amount": amount, "minimum": minimum})
	}

	res, err := u.provider.CreatePaymentIntent(ctx, PaymentIntentRequest{
		AmountMinor: amount,
		Currency:    currency,
		Metadata:    map[string]string{"cartId": strconv.FormatInt(cartID, 10)},
	})
	if err != nil {
		return PaymentIntentOutput{}, NewKindError(http.StatusBadRequest, KindPaymentProviderError, err.Error()).WithCause(err)
	}

	return PaymentIntentOutput{
		ClientSecret: res.ClientSecret,
		Amount:       check.Authoritative,
		AmountMinor:  amount,
		CartID:       cartID,
	}, nil
}

// 復号失敗は INVALID_TOKEN（400）。監査ログにはトークンそのものは残さない。
func decodeToken(ctx context.Context, ids IDCipher, auditor SecurityAuditor, token string, rt model.AuditResourceType) (int64, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return 0, NewKindError(http.StatusBadRequest, KindInvalidToken, "token is required")
	}
	id, err := ids.Decode(token)
	if err != nil {
		if auditor != nil {
			auditor.Record(ctx, model.AuditLog{
				Action:       model.AuditActionInvalidToken,
				Severity:     model.AuditSeverityWarn,
				ResourceType: rt,
				Detail:       mustJSON(map[string]int{"token_length": len(token)}),
			})
		}
		return 0, NewKindError(http.StatusBadRequest, KindInvalidToken, "invalid token").WithCause(err)
	}
	return id, nil
}

func mismatchError(check PriceCheck) *HTTPError {
	return NewKindError(http.StatusBadRequest, KindPriceMismatch, "price mismatch").
		WithDetails(map[string]any{
			"expected": check.Authoritative.StringFixed(2),
			"received": check.Claimed.String(),
		})
}

func mustJSON(v any) string {
	b, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(b)
}

func isNotFound(err error) bool {
	return errors.Is(err, repo.ErrNotFound)
}
