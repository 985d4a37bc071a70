package model

import "time"

// 何が起きたか
type AuditAction string

const (
	//注文ステータスを更新した操作。
	AuditActionUpdateOrderStatus AuditAction = "UPDATE_ORDER_STATUS"
	//管理者がロックを解除した操作。
	AuditActionUnlockUser AuditAction = "UNLOCK_USER"

	//クライアント申告の合計とサーバー計算が一致しない。
	AuditActionPriceMismatch AuditAction = "PRICE_MISMATCH"
	//ログイン失敗が閾値に達してロックした。
	AuditActionAccountLocked AuditAction = "ACCOUNT_LOCKED"
	//復号できない識別子トークンが来た。
	AuditActionInvalidToken AuditAction = "INVALID_TOKEN"
)

type AuditSeverity string

const (
	AuditSeverityInfo  AuditSeverity = "info"
	AuditSeverityWarn  AuditSeverity = "warn"
	AuditSeverityError AuditSeverity = "error"
)

// 何に対する操作か
type AuditResourceType string

const (
	AuditResourceOrder AuditResourceType = "order"
	AuditResourceUser  AuditResourceType = "user"
	AuditResourceCart  AuditResourceType = "cart"
	AuditResourceTable AuditResourceType = "table"
)

// 監査ログ（管理者操作＋セキュリティイベント）。
type AuditLog struct {
	ID int64 `gorm:"primaryKey;autoIncrement" json:"id"`

	//ログ基盤と突き合わせるためのID
	EventID string `gorm:"type:varchar(36);not null;uniqueIndex" json:"event_id"`

	Action   AuditAction   `gorm:"type:varchar(50);not null;index" json:"action"`
	Severity AuditSeverity `gorm:"type:varchar(10);not null" json:"severity"`

	//操作者。セキュリティイベントではnil。
	ActorUserID *int64 `gorm:"index" json:"actor_user_id"`

	ResourceType AuditResourceType `gorm:"type:varchar(50);not null;index" json:"resource_type"`
	ResourceID   int64             `gorm:"not null;index" json:"resource_id"`

	//JSON文字列で保存する。
	Detail string `gorm:"type:text" json:"detail"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}
