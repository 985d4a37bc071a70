package usecase

import (
	"context"
	"net/http"
	"strings"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type AdminOrderUsecase struct {
	tx repo.TransactionManager
}

func NewAdminOrderUsecase(tx repo.TransactionManager) *AdminOrderUsecase {
	return &AdminOrderUsecase{tx: tx}
}

type AdminUpdateOrderStatusInput struct {
	Status string
}

type AdminOrderListOutput struct {
	Items []model.Order `json:"items"`
	Total int64         `json:"total"`
	Page  int           `json:"page"`
	Limit int           `json:"limit"`
}

// 許可する遷移。Complete / Cancelled は終端。
var orderTransitions = map[model.OrderStatus][]model.OrderStatus{
	model.OrderStatusPending:   {model.OrderStatusPreparing, model.OrderStatusCancelled},
	model.OrderStatusPreparing: {model.OrderStatusComplete, model.OrderStatusCancelled},
}

// 注文一覧
func (u *AdminOrderUsecase) List(ctx context.Context, f repo.AdminOrderListFilter) (AdminOrderListOutput, error) {
	// page/limitの最低限チェック
	if f.Page < 1 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid page")
	}
	if f.Limit < 1 || f.Limit > 100 {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid limit")
	}
	if f.Status != "" && !isOrderStatus(model.OrderStatus(f.Status)) {
		return AdminOrderListOutput{}, NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	var out AdminOrderListOutput

	err := u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		orders, total, err := r.Orders().ListAdmin(ctx, f)
		if err != nil {
			return errDB(err)
		}
		if orders == nil {
			orders = []model.Order{}
		}
		out = AdminOrderListOutput{Items: orders, Total: total, Page: f.Page, Limit: f.Limit}
		return nil
	})

	if err != nil {
		return AdminOrderListOutput{}, err
	}
	return out, nil
}

// ステータス更新（終端からは変更不可）
func (u *AdminOrderUsecase) UpdateStatus(ctx context.Context, actorAdminUserID int64, orderID int64, in AdminUpdateOrderStatusInput) error {
	if actorAdminUserID <= 0 {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if orderID <= 0 {
		return NewHTTPError(http.StatusBadRequest, "invalid id")
	}

	newStatus := model.OrderStatus(strings.TrimSpace(in.Status))
	if !isOrderStatus(newStatus) {
		return NewHTTPError(http.StatusBadRequest, "invalid status")
	}

	return u.tx.WithinTx(ctx, func(r repo.TxRepos) error {
		// 注文取得
		o, err := r.Orders().FindByID(ctx, orderID)
		if isNotFound(err) {
			return NewHTTPError(http.StatusNotFound, "not found")
		}
		if err != nil {
			return errDB(err)
		}

		// すでに同じなら何もしない（200）
		if o.OrderStatus == newStatus {
			return nil
		}
		// 終端ガード
		if o.OrderStatus == model.OrderStatusCancelled {
			return NewHTTPError(http.StatusBadRequest, "cannot change cancelled order")
		}
		if o.OrderStatus == model.OrderStatusComplete {
			return NewHTTPError(http.StatusBadRequest, "cannot change completed order")
		}
		if !canTransition(o.OrderStatus, newStatus) {
			return NewHTTPError(http.StatusBadRequest, "invalid status transition")
		}

		// ステータス更新
		beforeStatus := o.OrderStatus
		if err := r.Orders().UpdateStatus(ctx, orderID, newStatus); err != nil {
			if isNotFound(err) {
				return NewHTTPError(http.StatusNotFound, "not found")
			}
			return errDB(err)
		}

		//監査ログ（UPDATE_ORDER_STATUS）。更新と一緒にcommit
		actor := actorAdminUserID
		if err := r.AuditLogs().Create(ctx, model.AuditLog{
			ActorUserID:  &actor,
			Action:       model.AuditActionUpdateOrderStatus,
			Severity:     model.AuditSeverityInfo,
			ResourceType: model.AuditResourceOrder,
			ResourceID:   orderID,
			Detail:       mustJSON(map[string]model.OrderStatus{"before": beforeStatus, "after": newStatus}),
			CreatedAt:    time.Now(),
		}); err != nil {
			return errDB(err)
		}

		return nil
	})
}

func isOrderStatus(s model.OrderStatus) bool {
	switch s {
	case model.OrderStatusPending, model.OrderStatusPreparing, model.OrderStatusComplete, model.OrderStatusCancelled:
		return true
	}
	return false
}

func canTransition(from, to model.OrderStatus) bool {
	for _, s := range orderTransitions[from] {
		if s == to {
			return true
		}
	}
	return false
}

// 期間パラメータでtime.Timeが必要なら、handlerでtime.Parseしてここに入れる
func ParseDateTimeRFC3339(s string) (*time.Time, bool) {
	if strings.TrimSpace(s) == "" {
		return nil, false
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, false
	}
	return &t, true
}
