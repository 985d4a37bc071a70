package auth

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sync"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// handlerからusecaseに渡す入力
type LoginInput struct {
	Email    string
	Password string
}

// handlerがJSONにして返す
type LoginOutput struct {
	User      model.User `json:"user"`
	Token     string     `json:"-"`
	ExpiresAt time.Time  `json:"expires_at"`
}

// メールまたはパスワードが違う
var ErrInvalidCredentials = errors.New("invalid credentials")

// 停止済みユーザー
var ErrUserInactive = errors.New("user is inactive")

// ロック中 / 今回の失敗でロックした
type LockedError struct {
	Kind        OutcomeKind
	Remaining   time.Duration
	LockedUntil time.Time
}

func (e *LockedError) Error() string {
	secs := int(math.Ceil(e.Remaining.Seconds()))
	if e.Kind == OutcomeLockedNow {
		return fmt.Sprintf("too many failed attempts. account locked for %d seconds", secs)
	}
	return fmt.Sprintf("account is locked. try again in %d seconds", secs)
}

// パスワード違い（残り回数つき）。errors.Is で ErrInvalidCredentials に一致する。
type RejectedError struct {
	AttemptsRemaining int
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("invalid email or password. %d attempt(s) remaining", e.AttemptsRemaining)
}

func (e *RejectedError) Is(target error) bool { return target == ErrInvalidCredentials }

// 存在しないユーザーでも bcrypt を1回回して応答時間を揃える
var dummyHash = sync.OnceValue(func() string {
	h, err := bcrypt.GenerateFromPassword([]byte("not-a-real-password"), bcrypt.DefaultCost)
	if err != nil {
		return ""
	}
	return string(h)
})

type LoginUsecase struct {
	userRepo repository.UserRepository
	guard    *LoginGuard
	verifier PasswordVerifier
	issuer   AccessTokenIssuer
	clock    Clock
}

func NewLoginUsecase(
	userRepo repository.UserRepository,
	guard *LoginGuard,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
) *LoginUsecase {
	return &LoginUsecase{
		userRepo: userRepo,
		guard:    guard,
		verifier: verifier,
		issuer:   issuer,
		clock:    clock,
	}
}

// ログイン処理を実行する
func (u *LoginUsecase) Execute(ctx context.Context, in LoginInput) (LoginOutput, error) {
	var out LoginOutput

	email := normalizeEmail(in.Email)
	if email == "" || in.Password == "" {
		return out, ErrInvalidCredentials
	}

	//emailでユーザー取得
	user, err := u.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			u.verifier.Verify(in.Password, dummyHash())
			return out, ErrInvalidCredentials
		}
		return out, err
	}

	//停止ユーザーはログイン不可
	if user.IsDeleted {
		return out, ErrUserInactive
	}

	//ロック判定＋パスワード照合
	now := u.clock.Now()
	outcome, err := u.guard.Evaluate(ctx, user, in.Password, now)
	if err != nil {
		return out, err
	}
	switch outcome.Kind {
	case OutcomeStillLocked, OutcomeLockedNow:
		until := now.Add(outcome.Remaining)
		if outcome.LockedUntil != nil {
			until = *outcome.LockedUntil
		}
		return out, &LockedError{Kind: outcome.Kind, Remaining: outcome.Remaining, LockedUntil: until}
	case OutcomeRejected:
		return out, &RejectedError{AttemptsRemaining: outcome.AttemptsRemaining}
	}

	//AccessToken発行
	token, exp, err := u.issuer.Issue(user.ID, user.Role, now)
	if err != nil {
		return out, err
	}

	//最終ログイン時刻更新
	if err := u.userRepo.TouchLastLogin(ctx, user.ID, now); err != nil {
		return out, err
	}
	user.LastLoginAt = &now

	//出力（passwordは返さない）
	safeUser := *user
	safeUser.PasswordHash = ""

	out.User = safeUser
	out.Token = token
	out.ExpiresAt = exp
	return out, nil
}
