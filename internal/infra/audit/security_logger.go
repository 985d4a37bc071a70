package audit

import (
	"context"
	"log/slog"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/google/uuid"
)

const writeTimeout = 2 * time.Second

// SecurityLogger はセキュリティイベントを slog と audit_logs の両方へ出す。
// DBへの書き込みに失敗してもWARNを出すだけで呼び出し元には返さない。
type SecurityLogger struct {
	logger *slog.Logger
	repo   repo.AuditLogRepository
}

func NewSecurityLogger(logger *slog.Logger, auditRepo repo.AuditLogRepository) *SecurityLogger {
	if logger == nil {
		logger = slog.Default()
	}
	return &SecurityLogger{logger: logger.With(slog.String("component", "security")), repo: auditRepo}
}

func (l *SecurityLogger) Record(ctx context.Context, entry model.AuditLog) {
	if entry.EventID == "" {
		entry.EventID = uuid.NewString()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	attrs := []slog.Attr{
		slog.String("event_id", entry.EventID),
		slog.String("action", string(entry.Action)),
		slog.String("resource_type", string(entry.ResourceType)),
		slog.Int64("resource_id", entry.ResourceID),
		slog.String("detail", entry.Detail),
	}
	if entry.ActorUserID != nil {
		attrs = append(attrs, slog.Int64("actor_user_id", *entry.ActorUserID))
	}
	l.logger.LogAttrs(ctx, levelOf(entry.Severity), "security event", attrs...)

	if l.repo == nil {
		return
	}
	// リクエストがキャンセルされても監査ログは残す
	wctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), writeTimeout)
	defer cancel()
	if err := l.repo.Create(wctx, entry); err != nil {
		l.logger.WarnContext(ctx, "audit log write failed",
			slog.String("event_id", entry.EventID),
			slog.String("error", err.Error()),
		)
	}
}

func levelOf(s model.AuditSeverity) slog.Level {
	switch s {
	case model.AuditSeverityError:
		return slog.LevelError
	case model.AuditSeverityWarn:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}
