package repository

import (
	"context"
	"errors"
	"time"

	"restaurant/internal/domain/model"
)

// ユーザーが見つかりませんを統一
var ErrUserNotFound = errors.New("user not found")

// 保存・取得を約束
type UserRepository interface {
	//新規ユーザー作成
	Create(ctx context.Context, user *model.User) error
	// IDからユーザーを1件取得する。論理削除済みも返す。
	FindByID(ctx context.Context, userID int64) (*model.User, error)
	//メールからユーザーを一件取得する。
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	// ログイン失敗回数とロック時刻だけを書き換える
	UpdateLoginState(ctx context.Context, userID int64, failedAttempts int, lockedUntil *time.Time) error
	//最終ログイン時刻
	TouchLastLogin(ctx context.Context, userID int64, at time.Time) error
}
