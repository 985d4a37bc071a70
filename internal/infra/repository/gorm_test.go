package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"restaurant/internal/domain/model"
	"restaurant/internal/infra/db"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// テストごとに独立した in-memory SQLite
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := gdb.DB()
	require.NoError(t, err)
	// :memory: は接続ごとに別DBになるので1本に固定
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, gdb.AutoMigrate(db.Models()...))
	return gdb
}

func seedDish(t *testing.T, gdb *gorm.DB, prices ...model.DishPrice) model.Dish {
	t.Helper()
	d := model.Dish{Name: "Ramen"}
	require.NoError(t, gdb.Create(&d).Error)
	for i := range prices {
		prices[i].DishID = d.ID
		require.NoError(t, gdb.Create(&prices[i]).Error)
	}
	return d
}

func count(t *testing.T, gdb *gorm.DB, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, gdb.Model(m).Count(&n).Error)
	return n
}

// =====================
// Transaction
// =====================

func TestTxManager_RollbackLeavesNoPayment(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	boom := errors.New("order insert failed")

	err := NewTxManagerGorm(gdb).WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().Create(ctx, model.Payment{CustomerName: "A", CustomerEmail: "a@example.com"})
		require.NoError(t, err)
		require.NotZero(t, p.ID)
		return boom
	})

	assert.ErrorIs(t, err, boom)
	assert.Equal(t, int64(0), count(t, gdb, &model.Payment{}))
}

func TestTxManager_CommitPaymentOrderAndCheckout(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()

	cart, err := NewCartGormRepository(gdb).GetOrCreateActiveByTableID(ctx, 1)
	require.NoError(t, err)

	err = NewTxManagerGorm(gdb).WithinTx(ctx, func(r repo.TxRepos) error {
		p, err := r.Payments().Create(ctx, model.Payment{CustomerName: "A", CustomerEmail: "a@example.com"})
		if err != nil {
			return err
		}
		if _, err := r.Orders().Create(ctx, model.Order{
			OrderStatus: model.OrderStatusPending,
			OrderTime:   time.Now(),
			PaymentID:   p.ID,
			CartID:      cart.ID,
			TotalPrice:  decimal.RequireFromString("25.00"),
		}); err != nil {
			return err
		}
		return r.Carts().MarkCheckedOut(ctx, cart.ID)
	})
	require.NoError(t, err)

	o, found, err := NewOrderGormRepository(gdb).FindByCartID(ctx, cart.ID)
	require.NoError(t, err)
	require.True(t, found)
	assert.True(t, o.TotalPrice.Equal(decimal.RequireFromString("25")))

	_, err = NewCartGormRepository(gdb).FindCheckoutable(ctx, cart.ID)
	assert.ErrorIs(t, err, repo.ErrNotFound)

	got, err := NewCartGormRepository(gdb).FindByID(ctx, cart.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CartStatusCheckedOut, got.Status)
	assert.False(t, got.IsActive)
}

// =====================
// Orders
// =====================

func TestOrderCreate_DuplicateCartIsConflict(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	orders := NewOrderGormRepository(gdb)

	_, err := orders.Create(ctx, model.Order{OrderStatus: model.OrderStatusPending, OrderTime: time.Now(), PaymentID: 1, CartID: 1})
	require.NoError(t, err)

	_, err = orders.Create(ctx, model.Order{OrderStatus: model.OrderStatusPending, OrderTime: time.Now(), PaymentID: 2, CartID: 1})
	assert.ErrorIs(t, err, repo.ErrConflict)
}

func TestOrderUpdateStatusAndList(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	orders := NewOrderGormRepository(gdb)

	for i := int64(1); i <= 3; i++ {
		_, err := orders.Create(ctx, model.Order{OrderStatus: model.OrderStatusPending, OrderTime: time.Now(), PaymentID: i, CartID: i})
		require.NoError(t, err)
	}
	require.NoError(t, orders.UpdateStatus(ctx, 2, model.OrderStatusPreparing))
	assert.ErrorIs(t, orders.UpdateStatus(ctx, 99, model.OrderStatusPreparing), repo.ErrNotFound)

	items, total, err := orders.ListAdmin(ctx, repo.AdminOrderListFilter{Page: 1, Limit: 10, Status: "Pending"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, items, 2)
	assert.Equal(t, int64(3), items[0].ID)

	items, total, err = orders.ListAdmin(ctx, repo.AdminOrderListFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, items, 1)
}

// =====================
// Carts
// =====================

func TestCartGetOrCreateActive_ReusesUntilCheckedOut(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	carts := NewCartGormRepository(gdb)

	first, err := carts.GetOrCreateActiveByTableID(ctx, 5)
	require.NoError(t, err)
	again, err := carts.GetOrCreateActiveByTableID(ctx, 5)
	require.NoError(t, err)
	assert.Equal(t, first.ID, again.ID)

	require.NoError(t, carts.MarkCheckedOut(ctx, first.ID))

	next, err := carts.GetOrCreateActiveByTableID(ctx, 5)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, next.ID)
	assert.ErrorIs(t, carts.MarkCheckedOut(ctx, 999), repo.ErrNotFound)
}

func TestCartItemUpsert_AccumulatesPerDishAndSize(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	items := NewCartItemGormRepository(gdb)

	require.NoError(t, items.UpsertByCartDishSize(ctx, 1, 10, "L", 2))
	require.NoError(t, items.UpsertByCartDishSize(ctx, 1, 10, "L", 3))
	require.NoError(t, items.UpsertByCartDishSize(ctx, 1, 10, "S", 1))
	require.NoError(t, items.UpsertByCartDishSize(ctx, 2, 10, "L", 1))

	got, err := items.ListActiveByCartID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "L", got[0].Size)
	assert.Equal(t, int64(5), got[0].Quantity)
	assert.Equal(t, "S", got[1].Size)
	assert.Equal(t, int64(1), got[1].Quantity)
}

func TestCartItemUpdateAndSoftDelete(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	items := NewCartItemGormRepository(gdb)

	require.NoError(t, items.UpsertByCartDishSize(ctx, 1, 10, "L", 2))
	require.NoError(t, items.UpsertByCartDishSize(ctx, 1, 20, "", 1))
	got, err := items.ListActiveByCartID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	large, plain := got[0], got[1]

	require.NoError(t, items.UpdateQuantity(ctx, 1, large.ID, 5))
	require.NoError(t, items.SoftDelete(ctx, 1, plain.ID))

	got, err = items.ListActiveByCartID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, large.ID, got[0].ID)
	assert.Equal(t, int64(5), got[0].Quantity)

	// 別カートの明細・削除済み明細は触れない
	assert.ErrorIs(t, items.UpdateQuantity(ctx, 2, large.ID, 1), repo.ErrNotFound)
	assert.ErrorIs(t, items.SoftDelete(ctx, 2, large.ID), repo.ErrNotFound)
	assert.ErrorIs(t, items.SoftDelete(ctx, 1, plain.ID), repo.ErrNotFound)
	assert.ErrorIs(t, items.UpdateQuantity(ctx, 1, plain.ID, 3), repo.ErrNotFound)

	// 削除後の再追加は新しい行
	require.NoError(t, items.UpsertByCartDishSize(ctx, 1, 20, "", 2))
	got, err = items.ListActiveByCartID(ctx, 1)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.NotEqual(t, plain.ID, got[1].ID)
	assert.Equal(t, int64(2), got[1].Quantity)
	assert.Equal(t, int64(3), count(t, gdb, &model.CartItem{}))
}

// =====================
// Dishes / prices
// =====================

func TestDishPriceFindForDish(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	d := seedDish(t, gdb,
		model.DishPrice{Size: "L", Price: decimal.RequireFromString("12.50")},
		model.DishPrice{Size: "S", Price: decimal.RequireFromString("8.00")},
	)
	prices := NewDishPriceGormRepository(gdb)

	p, err := prices.FindForDish(ctx, d.ID, "S")
	require.NoError(t, err)
	assert.True(t, p.Price.Equal(decimal.RequireFromString("8")))

	// サイズ無しはid最小の行
	p, err = prices.FindForDish(ctx, d.ID, "")
	require.NoError(t, err)
	assert.Equal(t, "L", p.Size)

	_, err = prices.FindForDish(ctx, d.ID, "XL")
	assert.ErrorIs(t, err, repo.ErrNotFound)

	n, err := prices.CountByDishID(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

func TestDishListMenu_PreloadsPrices(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	seedDish(t, gdb, model.DishPrice{Size: "M", Price: decimal.RequireFromString("9.90")})
	seedDish(t, gdb)

	dishes, err := NewDishGormRepository(gdb).ListMenu(ctx)
	require.NoError(t, err)
	require.Len(t, dishes, 2)
	require.Len(t, dishes[0].Prices, 1)
	assert.Equal(t, "M", dishes[0].Prices[0].Size)
	assert.Empty(t, dishes[1].Prices)

	_, err = NewDishGormRepository(gdb).FindByID(ctx, 404)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

// =====================
// Users / tables / audit
// =====================

func TestUserRepository_LoginState(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	users := NewUserGormRepository(gdb)

	u := &model.User{Name: "A", Email: "a@example.com", PasswordHash: "x", Role: model.RoleUser}
	require.NoError(t, users.Create(ctx, u))
	assert.ErrorIs(t, users.Create(ctx, &model.User{Email: "a@example.com", PasswordHash: "y"}), repo.ErrConflict)

	until := time.Now().Add(time.Minute).UTC().Truncate(time.Second)
	require.NoError(t, users.UpdateLoginState(ctx, u.ID, 3, &until))

	got, err := users.FindByEmail(ctx, "a@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, got.FailedLoginAttempts)
	require.NotNil(t, got.LockedUntil)
	assert.True(t, got.LockedUntil.Equal(until))

	require.NoError(t, users.UpdateLoginState(ctx, u.ID, 0, nil))
	got, err = users.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, got.FailedLoginAttempts)
	assert.Nil(t, got.LockedUntil)

	_, err = users.FindByEmail(ctx, "nobody@example.com")
	assert.ErrorIs(t, err, repo.ErrUserNotFound)
	assert.ErrorIs(t, users.UpdateLoginState(ctx, 404, 0, nil), repo.ErrUserNotFound)
}

func TestTableRepository(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	tables := NewTableGormRepository(gdb)

	tb, err := tables.Create(ctx, model.Table{Name: "T1"})
	require.NoError(t, err)
	require.NoError(t, tables.UpdateQRCode(ctx, tb.ID, "data:image/png;base64,AA"))

	got, err := tables.FindByID(ctx, tb.ID)
	require.NoError(t, err)
	assert.Equal(t, "data:image/png;base64,AA", got.QRCode)

	assert.ErrorIs(t, tables.UpdateQRCode(ctx, 404, "x"), repo.ErrNotFound)
	_, err = tables.FindByID(ctx, 404)
	assert.ErrorIs(t, err, repo.ErrNotFound)
}

func TestAuditLogRepository_Filters(t *testing.T) {
	gdb := newTestDB(t)
	ctx := context.Background()
	audit := NewAuditLogGormRepository(gdb)

	admin := int64(1)
	require.NoError(t, audit.Create(ctx, model.AuditLog{
		Action: model.AuditActionUpdateOrderStatus, ActorUserID: &admin,
		ResourceType: model.AuditResourceOrder, ResourceID: 3,
	}))
	require.NoError(t, audit.Create(ctx, model.AuditLog{
		Action: model.AuditActionPriceMismatch, Severity: model.AuditSeverityWarn,
		ResourceType: model.AuditResourceCart, ResourceID: 7, Detail: `{"claimed":"24"}`,
	}))

	all, err := audit.List(ctx, repo.AuditLogFilter{Limit: 10})
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, model.AuditActionPriceMismatch, all[0].Action)
	assert.NotEmpty(t, all[1].EventID)
	assert.Equal(t, model.AuditSeverityInfo, all[1].Severity)
	assert.Equal(t, "{}", all[1].Detail)

	warn := model.AuditSeverityWarn
	got, err := audit.List(ctx, repo.AuditLogFilter{Severity: &warn, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].ResourceID)

	got, err = audit.List(ctx, repo.AuditLogFilter{ActorUserID: &admin, Limit: 10})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, model.AuditActionUpdateOrderStatus, got[0].Action)
}
