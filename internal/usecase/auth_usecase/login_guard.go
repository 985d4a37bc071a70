package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/repository"
)

type OutcomeKind string

const (
	OutcomeAllowed     OutcomeKind = "ALLOWED"
	OutcomeStillLocked OutcomeKind = "STILL_LOCKED"
	OutcomeLockedNow   OutcomeKind = "LOCKED_NOW"
	OutcomeRejected    OutcomeKind = "REJECTED"
)

// 1回のログイン試行の判定結果
type LoginOutcome struct {
	Kind OutcomeKind
	// StillLocked のときのロック残り時間
	Remaining time.Duration
	// Rejected のときの残り試行回数
	AttemptsRemaining int
	LockedUntil       *time.Time
}

const (
	DefaultMaxAttempts = 3
	DefaultLockWindow  = time.Minute
)

// LoginGuard はアカウント単位の失敗回数とロック期間を管理する。
// 同じアカウントへの同時試行は直列化しない（カウンタは競合しうる）。
type LoginGuard struct {
	users       repository.UserRepository
	verifier    PasswordVerifier
	auditor     SecurityAuditor
	maxAttempts int
	lockWindow  time.Duration
}

func NewLoginGuard(
	users repository.UserRepository,
	verifier PasswordVerifier,
	auditor SecurityAuditor,
	maxAttempts int,
	lockWindow time.Duration,
) *LoginGuard {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if lockWindow <= 0 {
		lockWindow = DefaultLockWindow
	}
	return &LoginGuard{
		users:       users,
		verifier:    verifier,
		auditor:     auditor,
		maxAttempts: maxAttempts,
		lockWindow:  lockWindow,
	}
}

// Evaluate はロック確認、パスワード照合、カウンタ更新の順で判定する。
// 状態を変えた場合は保存してから結果を返す。user も更新後の値になる。
func (g *LoginGuard) Evaluate(ctx context.Context, user *model.User, password string, now time.Time) (LoginOutcome, error) {
	//ロック中はパスワードを見ない
	if user.LockedUntil != nil && now.Before(*user.LockedUntil) {
		until := *user.LockedUntil
		return LoginOutcome{
			Kind:        OutcomeStillLocked,
			Remaining:   until.Sub(now),
			LockedUntil: &until,
		}, nil
	}

	dirty := false
	//ロック期限切れ: 一度もロックされていない状態へ戻す
	if user.LockedUntil != nil {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		dirty = true
	}

	if !g.verifier.Verify(password, user.PasswordHash) {
		user.FailedLoginAttempts++
		if user.FailedLoginAttempts >= g.maxAttempts {
			until := now.Add(g.lockWindow)
			user.LockedUntil = &until
			if err := g.persist(ctx, user); err != nil {
				return LoginOutcome{}, err
			}
			g.auditLocked(ctx, user, until)
			return LoginOutcome{
				Kind:        OutcomeLockedNow,
				Remaining:   g.lockWindow,
				LockedUntil: &until,
			}, nil
		}
		if err := g.persist(ctx, user); err != nil {
			return LoginOutcome{}, err
		}
		return LoginOutcome{
			Kind:              OutcomeRejected,
			AttemptsRemaining: g.maxAttempts - user.FailedLoginAttempts,
		}, nil
	}

	if user.FailedLoginAttempts > 0 {
		user.FailedLoginAttempts = 0
		user.LockedUntil = nil
		dirty = true
	}
	if dirty {
		if err := g.persist(ctx, user); err != nil {
			return LoginOutcome{}, err
		}
	}
	return LoginOutcome{Kind: OutcomeAllowed}, nil
}

func (g *LoginGuard) persist(ctx context.Context, user *model.User) error {
	if err := g.users.UpdateLoginState(ctx, user.ID, user.FailedLoginAttempts, user.LockedUntil); err != nil {
		return fmt.Errorf("persist login state: %w", err)
	}
	return nil
}

func (g *LoginGuard) auditLocked(ctx context.Context, user *model.User, until time.Time) {
	if g.auditor == nil {
		return
	}
	detail, _ := json.Marshal(map[string]any{
		"failed_login_attempts": user.FailedLoginAttempts,
		"locked_until":          until.UTC().Format(time.RFC3339),
	})
	g.auditor.Record(ctx, model.AuditLog{
		Action:       model.AuditActionAccountLocked,
		Severity:     model.AuditSeverityWarn,
		ResourceType: model.AuditResourceUser,
		ResourceID:   user.ID,
		Detail:       string(detail),
	})
}
