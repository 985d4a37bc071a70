package repository

import "context"

// トランザクション内で使う約束
type TxRepos interface {
	Payments() PaymentRepository
	Orders() OrderRepository
	Carts() CartRepository
	CartItems() CartItemRepository
	DishPrices() DishPriceRepository
	// 状態変更と同じトランザクションで監査ログを書く
	AuditLogs() AuditLogRepository
}

// UsecaseからTxの開始/commit/rollbackを隠す。
type TransactionManager interface {
	WithinTx(ctx context.Context, fn func(r TxRepos) error) error
}
