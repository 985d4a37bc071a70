package payment

import (
	"fmt"

	"restaurant/internal/usecase"
)

// PAYMENT_PROVIDER の値から実装を選ぶ
func New(kind, stripeSecretKey string) (usecase.PaymentProvider, error) {
	switch kind {
	case "stripe":
		return NewStripeProvider(stripeSecretKey)
	case "mock", "":
		return NewMockProvider(), nil
	default:
		return nil, fmt.Errorf("unknown payment provider %q", kind)
	}
}
