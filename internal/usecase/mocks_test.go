package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/stretchr/testify/mock"
)

// =====================
// Repository mocks
// =====================

type CartRepoMock struct{ mock.Mock }

func (m *CartRepoMock) GetOrCreateActiveByTableID(ctx context.Context, tableID int64) (model.Cart, error) {
	args := m.Called(ctx, tableID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	args := m.Called(ctx, cartID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) FindCheckoutable(ctx context.Context, cartID int64) (model.Cart, error) {
	args := m.Called(ctx, cartID)
	c, _ := args.Get(0).(model.Cart)
	return c, args.Error(1)
}

func (m *CartRepoMock) MarkCheckedOut(ctx context.Context, cartID int64) error {
	args := m.Called(ctx, cartID)
	return args.Error(0)
}

type CartItemRepoMock struct{ mock.Mock }

func (m *CartItemRepoMock) ListActiveByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	args := m.Called(ctx, cartID)
	items, _ := args.Get(0).([]model.CartItem)
	return items, args.Error(1)
}

func (m *CartItemRepoMock) UpsertByCartDishSize(ctx context.Context, cartID int64, dishID int64, size string, addQty int64) error {
	args := m.Called(ctx, cartID, dishID, size, addQty)
	return args.Error(0)
}

func (m *CartItemRepoMock) UpdateQuantity(ctx context.Context, cartID int64, itemID int64, qty int64) error {
	args := m.Called(ctx, cartID, itemID, qty)
	return args.Error(0)
}

func (m *CartItemRepoMock) SoftDelete(ctx context.Context, cartID int64, itemID int64) error {
	args := m.Called(ctx, cartID, itemID)
	return args.Error(0)
}

type DishRepoMock struct{ mock.Mock }

func (m *DishRepoMock) ListMenu(ctx context.Context) ([]model.Dish, error) {
	args := m.Called(ctx)
	d, _ := args.Get(0).([]model.Dish)
	return d, args.Error(1)
}

func (m *DishRepoMock) FindByID(ctx context.Context, dishID int64) (model.Dish, error) {
	args := m.Called(ctx, dishID)
	d, _ := args.Get(0).(model.Dish)
	return d, args.Error(1)
}

type DishPriceRepoMock struct{ mock.Mock }

func (m *DishPriceRepoMock) FindForDish(ctx context.Context, dishID int64, size string) (model.DishPrice, error) {
	args := m.Called(ctx, dishID, size)
	p, _ := args.Get(0).(model.DishPrice)
	return p, args.Error(1)
}

func (m *DishPriceRepoMock) CountByDishID(ctx context.Context, dishID int64) (int64, error) {
	args := m.Called(ctx, dishID)
	return args.Get(0).(int64), args.Error(1)
}

type PaymentRepoMock struct{ mock.Mock }

func (m *PaymentRepoMock) Create(ctx context.Context, payment model.Payment) (model.Payment, error) {
	args := m.Called(ctx, payment)
	p, _ := args.Get(0).(model.Payment)
	return p, args.Error(1)
}

func (m *PaymentRepoMock) FindByID(ctx context.Context, paymentID int64) (model.Payment, error) {
	panic("not used in usecase tests")
}

type OrderRepoMock struct{ mock.Mock }

func (m *OrderRepoMock) FindByID(ctx context.Context, orderID int64) (model.Order, error) {
	args := m.Called(ctx, orderID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) FindByCartID(ctx context.Context, cartID int64) (model.Order, bool, error) {
	args := m.Called(ctx, cartID)
	o, _ := args.Get(0).(model.Order)
	return o, args.Bool(1), args.Error(2)
}

func (m *OrderRepoMock) Create(ctx context.Context, order model.Order) (model.Order, error) {
	args := m.Called(ctx, order)
	o, _ := args.Get(0).(model.Order)
	return o, args.Error(1)
}

func (m *OrderRepoMock) UpdateStatus(ctx context.Context, orderID int64, status model.OrderStatus) error {
	args := m.Called(ctx, orderID, status)
	return args.Error(0)
}

func (m *OrderRepoMock) ListAdmin(ctx context.Context, f repo.AdminOrderListFilter) ([]model.Order, int64, error) {
	args := m.Called(ctx, f)
	orders, _ := args.Get(0).([]model.Order)
	return orders, args.Get(1).(int64), args.Error(2)
}

type TableRepoMock struct{ mock.Mock }

func (m *TableRepoMock) Create(ctx context.Context, table model.Table) (model.Table, error) {
	args := m.Called(ctx, table)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) FindByID(ctx context.Context, tableID int64) (model.Table, error) {
	args := m.Called(ctx, tableID)
	t, _ := args.Get(0).(model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) List(ctx context.Context) ([]model.Table, error) {
	args := m.Called(ctx)
	t, _ := args.Get(0).([]model.Table)
	return t, args.Error(1)
}

func (m *TableRepoMock) UpdateQRCode(ctx context.Context, tableID int64, qrCode string) error {
	args := m.Called(ctx, tableID, qrCode)
	return args.Error(0)
}

type UserRepoMock struct{ mock.Mock }

func (m *UserRepoMock) Create(ctx context.Context, user *model.User) error {
	panic("not used in usecase tests")
}

func (m *UserRepoMock) FindByID(ctx context.Context, userID int64) (*model.User, error) {
	args := m.Called(ctx, userID)
	u, _ := args.Get(0).(*model.User)
	return u, args.Error(1)
}

func (m *UserRepoMock) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	panic("not used in usecase tests")
}

func (m *UserRepoMock) UpdateLoginState(ctx context.Context, userID int64, failedAttempts int, lockedUntil *time.Time) error {
	args := m.Called(ctx, userID, failedAttempts, lockedUntil)
	return args.Error(0)
}

func (m *UserRepoMock) TouchLastLogin(ctx context.Context, userID int64, at time.Time) error {
	panic("not used in usecase tests")
}

type AuditRepoMock struct{ mock.Mock }

func (m *AuditRepoMock) Create(ctx context.Context, log model.AuditLog) error {
	args := m.Called(ctx, log)
	return args.Error(0)
}

func (m *AuditRepoMock) List(ctx context.Context, filter repo.AuditLogFilter) ([]model.AuditLog, error) {
	args := m.Called(ctx, filter)
	logs, _ := args.Get(0).([]model.AuditLog)
	return logs, args.Error(1)
}

var (
	_ repo.CartRepository      = (*CartRepoMock)(nil)
	_ repo.CartItemRepository  = (*CartItemRepoMock)(nil)
	_ repo.DishRepository      = (*DishRepoMock)(nil)
	_ repo.DishPriceRepository = (*DishPriceRepoMock)(nil)
	_ repo.PaymentRepository   = (*PaymentRepoMock)(nil)
	_ repo.OrderRepository     = (*OrderRepoMock)(nil)
	_ repo.TableRepository     = (*TableRepoMock)(nil)
	_ repo.UserRepository      = (*UserRepoMock)(nil)
	_ repo.AuditLogRepository  = (*AuditRepoMock)(nil)
)

// =====================
// TxManager / TxRepos
// =====================

type TxReposMock struct {
	payments   repo.PaymentRepository
	orders     repo.OrderRepository
	carts      repo.CartRepository
	cartItems  repo.CartItemRepository
	dishPrices repo.DishPriceRepository
	auditLogs  repo.AuditLogRepository
}

func (r *TxReposMock) Payments() repo.PaymentRepository     { return r.payments }
func (r *TxReposMock) Orders() repo.OrderRepository         { return r.orders }
func (r *TxReposMock) Carts() repo.CartRepository           { return r.carts }
func (r *TxReposMock) CartItems() repo.CartItemRepository   { return r.cartItems }
func (r *TxReposMock) DishPrices() repo.DishPriceRepository { return r.dishPrices }
func (r *TxReposMock) AuditLogs() repo.AuditLogRepository   { return r.auditLogs }

// TxManagerMock は fn をそのまま実行する。CommitErr を入れると commit 失敗を再現する。
type TxManagerMock struct {
	Repos     repo.TxRepos
	CommitErr error
	calls     int
}

func (m *TxManagerMock) WithinTx(ctx context.Context, fn func(r repo.TxRepos) error) error {
	m.calls++
	if err := fn(m.Repos); err != nil {
		return err
	}
	return m.CommitErr
}

// =====================
// Port fakes
// =====================

// "tok-<id>" 形式の決定的な cipher
type fakeIDs struct{}

func (fakeIDs) Encode(id int64) (string, error) {
	if id < 0 {
		return "", errors.New("negative id")
	}
	return fmt.Sprintf("tok-%d", id), nil
}

func (fakeIDs) Decode(token string) (int64, error) {
	rest, ok := strings.CutPrefix(token, "tok-")
	if !ok {
		return 0, errors.New("invalid token")
	}
	return strconv.ParseInt(rest, 10, 64)
}

type auditorSpy struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (a *auditorSpy) Record(ctx context.Context, entry model.AuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func (a *auditorSpy) actions() []model.AuditAction {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]model.AuditAction, 0, len(a.entries))
	for _, e := range a.entries {
		out = append(out, e.Action)
	}
	return out
}

type providerStub struct {
	calls  []PaymentIntentRequest
	result PaymentIntentResult
	err    error
}

func (p *providerStub) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (PaymentIntentResult, error) {
	p.calls = append(p.calls, req)
	if p.err != nil {
		return PaymentIntentResult{}, p.err
	}
	return p.result, nil
}

type qrStub struct {
	contents []string
}

func (q *qrStub) DataURL(content string) (string, error) {
	q.contents = append(q.contents, content)
	return "data:image/png;base64,AAAA", nil
}
