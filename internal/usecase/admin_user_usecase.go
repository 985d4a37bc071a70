package usecase

import (
	"context"
	"errors"
	"net/http"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type AdminUserUsecase struct {
	users     repo.UserRepository
	auditRepo repo.AuditLogRepository
}

func NewAdminUserUsecase(users repo.UserRepository, auditRepo repo.AuditLogRepository) *AdminUserUsecase {
	return &AdminUserUsecase{users: users, auditRepo: auditRepo}
}

type UnlockUserOutput struct {
	UserID              int64 `json:"user_id"`
	FailedLoginAttempts int   `json:"failed_login_attempts"`
	WasLocked           bool  `json:"was_locked"`
}

// Unlock はログイン失敗回数とロックを管理者が解除する。
func (u *AdminUserUsecase) Unlock(ctx context.Context, actorAdminUserID int64, userID int64) (UnlockUserOutput, error) {
	if actorAdminUserID <= 0 {
		return UnlockUserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if userID <= 0 {
		return UnlockUserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid user_id")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) || isNotFound(err) {
			return UnlockUserOutput{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return UnlockUserOutput{}, errDB(err)
	}

	now := time.Now()
	wasLocked := user.IsLockedAt(now)
	if err := u.users.UpdateLoginState(ctx, userID, 0, nil); err != nil {
		return UnlockUserOutput{}, errDB(err)
	}

	actor := actorAdminUserID
	if err := u.auditRepo.Create(ctx, model.AuditLog{
		ActorUserID:  &actor,
		Action:       model.AuditActionUnlockUser,
		Severity:     model.AuditSeverityInfo,
		ResourceType: model.AuditResourceUser,
		ResourceID:   userID,
		Detail: mustJSON(map[string]any{
			"failed_login_attempts": user.FailedLoginAttempts,
			"was_locked":            wasLocked,
		}),
		CreatedAt: now,
	}); err != nil {
		return UnlockUserOutput{}, errDB(err)
	}

	return UnlockUserOutput{UserID: userID, FailedLoginAttempts: 0, WasLocked: wasLocked}, nil
}

type AuditLogUsecase struct {
	auditRepo repo.AuditLogRepository
}

func NewAuditLogUsecase(auditRepo repo.AuditLogRepository) *AuditLogUsecase {
	return &AuditLogUsecase{auditRepo: auditRepo}
}

func (u *AuditLogUsecase) List(ctx context.Context, f repo.AuditLogFilter) ([]model.AuditLog, error) {
	if f.Limit < 1 || f.Limit > 200 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Offset < 0 {
		return nil, NewHTTPError(http.StatusBadRequest, "invalid offset")
	}
	logs, err := u.auditRepo.List(ctx, f)
	if err != nil {
		return nil, errDB(err)
	}
	if logs == nil {
		logs = []model.AuditLog{}
	}
	return logs, nil
}
