package auth

import (
	"context"
	"time"

	"restaurant/internal/domain/model"
)

// 入力パスワードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// 平文パスワードからハッシュへ。
type PasswordHasher interface {
	Hash(plain string) (string, error)
}

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(userID int64, role model.Role, now time.Time) (token string, expiresAt time.Time, err error)
}

// 現在の時間
type Clock interface {
	Now() time.Time
}

// ロック発生などを監査ログへ。失敗しても呼び出し側には返さない。
type SecurityAuditor interface {
	Record(ctx context.Context, entry model.AuditLog)
}
