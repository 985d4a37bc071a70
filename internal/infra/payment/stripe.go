package payment

import (
	"context"
	"errors"
	"fmt"

	"restaurant/internal/usecase"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/client"
)

// Stripe の PaymentIntent を作る。リトライはしない。
type StripeProvider struct {
	api *client.API
}

func NewStripeProvider(secretKey string) (*StripeProvider, error) {
	if secretKey == "" {
		return nil, errors.New("stripe secret key is required")
	}
	return &StripeProvider{api: client.New(secretKey, nil)}, nil
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, req usecase.PaymentIntentRequest) (usecase.PaymentIntentResult, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(req.AmountMinor),
		Currency: stripe.String(req.Currency),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx
	for k, v := range req.Metadata {
		params.AddMetadata(k, v)
	}

	pi, err := p.api.PaymentIntents.New(params)
	if err != nil {
		var se *stripe.Error
		if errors.As(err, &se) && se.Msg != "" {
			return usecase.PaymentIntentResult{}, fmt.Errorf("stripe: %s", se.Msg)
		}
		return usecase.PaymentIntentResult{}, fmt.Errorf("stripe: %w", err)
	}
	return usecase.PaymentIntentResult{ID: pi.ID, ClientSecret: pi.ClientSecret}, nil
}
