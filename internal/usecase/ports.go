package usecase

import (
	"context"

	"restaurant/internal/domain/model"
)

// 外部の決済プロバイダへ渡す内容。Amount は必ずサーバー計算値。
type PaymentIntentRequest struct {
	AmountMinor int64
	Currency    string
	Metadata    map[string]string
}

type PaymentIntentResult struct {
	ID           string
	ClientSecret string
}

// 決済プロバイダ（Stripe / mock）
type PaymentProvider interface {
	CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (PaymentIntentResult, error)
}

// 不透明トークンとIDの相互変換
type IDCipher interface {
	Encode(id int64) (string, error)
	Decode(token string) (int64, error)
}

// セキュリティ監査ログ。書き込み失敗は呼び出し側に返さない。
type SecurityAuditor interface {
	Record(ctx context.Context, entry model.AuditLog)
}
