package payment

import (
	"context"
	"sync"

	"restaurant/internal/usecase"

	"github.com/google/uuid"
)

// 開発・テスト用。呼ばれた内容を記録する。
type MockProvider struct {
	mu    sync.Mutex
	calls []usecase.PaymentIntentRequest
	// 設定されていればこのエラーを返す
	Err error
}

func NewMockProvider() *MockProvider {
	return &MockProvider{}
}

func (p *MockProvider) CreatePaymentIntent(ctx context.Context, req usecase.PaymentIntentRequest) (usecase.PaymentIntentResult, error) {
	p.mu.Lock()
	p.calls = append(p.calls, req)
	err := p.Err
	p.mu.Unlock()

	if err != nil {
		return usecase.PaymentIntentResult{}, err
	}
	if err := ctx.Err(); err != nil {
		return usecase.PaymentIntentResult{}, err
	}

	id := "pi_mock_" + uuid.NewString()
	return usecase.PaymentIntentResult{ID: id, ClientSecret: id + "_secret_mock"}, nil
}

func (p *MockProvider) Calls() []usecase.PaymentIntentRequest {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]usecase.PaymentIntentRequest, len(p.calls))
	copy(out, p.calls)
	return out
}
