package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

var (
	ErrCartNotFound = errors.New("cart not found")
	ErrEmptyCart    = errors.New("cart is empty")
)

// 料理に価格行が無い
type PriceMissingError struct {
	DishID int64
	Size   string
}

func (e *PriceMissingError) Error() string {
	if e.Size != "" {
		return fmt.Sprintf("no price for dish %d size %q", e.DishID, e.Size)
	}
	return fmt.Sprintf("no price for dish %d", e.DishID)
}

type PriceCheckStatus string

const (
	PriceCheckOK       PriceCheckStatus = "OK"
	PriceCheckMismatch PriceCheckStatus = "MISMATCH"
)

type PriceCheck struct {
	Status        PriceCheckStatus
	Authoritative decimal.Decimal
	Claimed       decimal.Decimal
}

func (p PriceCheck) OK() bool { return p.Status == PriceCheckOK }

type QuoteLine struct {
	CartItemID int64           `json:"cart_item_id"`
	DishID     int64           `json:"dish_id"`
	Size       string          `json:"size,omitempty"`
	Quantity   int64           `json:"quantity"`
	UnitPrice  decimal.Decimal `json:"unit_price"`
	LineTotal  decimal.Decimal `json:"line_total"`
}

type Quote struct {
	CartID int64           `json:"-"`
	Lines  []QuoteLine     `json:"items"`
	Total  decimal.Decimal `json:"total"`
}

// PriceVerifier はカート明細と価格表だけから合計を計算し直す。
// クライアントが送ってきた単価や合計は一切使わない。
type PriceVerifier struct {
	carts     repo.CartRepository
	items     repo.CartItemRepository
	prices    repo.DishPriceRepository
	tolerance decimal.Decimal
	logger    *slog.Logger
}

func NewPriceVerifier(
	carts repo.CartRepository,
	items repo.CartItemRepository,
	prices repo.DishPriceRepository,
	tolerance decimal.Decimal,
	logger *slog.Logger,
) *PriceVerifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &PriceVerifier{
		carts:     carts,
		items:     items,
		prices:    prices,
		tolerance: tolerance.Abs(),
		logger:    logger,
	}
}

func (v *PriceVerifier) Quote(ctx context.Context, cartID int64) (Quote, error) {
	//is_active=true かつ is_deleted=false のカートのみ
	if _, err := v.carts.FindCheckoutable(ctx, cartID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return Quote{}, ErrCartNotFound
		}
		return Quote{}, err
	}

	items, err := v.items.ListActiveByCartID(ctx, cartID)
	if err != nil {
		return Quote{}, err
	}
	if len(items) == 0 {
		return Quote{}, ErrEmptyCart
	}

	q := Quote{CartID: cartID, Lines: make([]QuoteLine, 0, len(items)), Total: decimal.Zero}
	for _, it := range items {
		price, err := v.priceFor(ctx, it)
		if err != nil {
			return Quote{}, err
		}
		line := price.Mul(decimal.NewFromInt(it.Quantity))
		q.Lines = append(q.Lines, QuoteLine{
			CartItemID: it.ID,
			DishID:     it.DishID,
			Size:       it.Size,
			Quantity:   it.Quantity,
			UnitPrice:  price,
			LineTotal:  line,
		})
		q.Total = q.Total.Add(line)
	}
	return q, nil
}

func (v *PriceVerifier) ComputeAuthoritativeTotal(ctx context.Context, cartID int64) (decimal.Decimal, error) {
	q, err := v.Quote(ctx, cartID)
	if err != nil {
		return decimal.Zero, err
	}
	return q.Total, nil
}

// Verify は差が許容誤差を超えたら Mismatch。丸め誤差を吸収するため完全一致では比較しない。
func (v *PriceVerifier) Verify(ctx context.Context, cartID int64, claimed decimal.Decimal) (PriceCheck, error) {
	total, err := v.ComputeAuthoritativeTotal(ctx, cartID)
	if err != nil {
		return PriceCheck{}, err
	}
	check := PriceCheck{Status: PriceCheckOK, Authoritative: total, Claimed: claimed}
	if total.Sub(claimed).Abs().GreaterThan(v.tolerance) {
		check.Status = PriceCheckMismatch
	}
	return check, nil
}

func (v *PriceVerifier) priceFor(ctx context.Context, it model.CartItem) (decimal.Decimal, error) {
	p, err := v.prices.FindForDish(ctx, it.DishID, it.Size)
	if errors.Is(err, repo.ErrNotFound) {
		return decimal.Zero, &PriceMissingError{DishID: it.DishID, Size: it.Size}
	}
	if err != nil {
		return decimal.Zero, err
	}

	// サイズ未指定で複数サイズある料理は最小idの価格を使うが、要確認として残す
	if it.Size == "" {
		n, err := v.prices.CountByDishID(ctx, it.DishID)
		if err == nil && n > 1 {
			v.logger.WarnContext(ctx, "cart item without size on multi-size dish",
				slog.Int64("cart_id", it.CartID),
				slog.Int64("dish_id", it.DishID),
				slog.Int64("price_rows", n),
			)
		}
	}
	return p.Price, nil
}

// verifier のエラーを HTTP エラーへ
func priceErrorToHTTP(err error) error {
	var missing *PriceMissingError
	switch {
	case errors.Is(err, ErrCartNotFound):
		return NewKindError(http.StatusNotFound, KindCartNotFound, "cart not found or inactive")
	case errors.Is(err, ErrEmptyCart):
		return NewKindError(http.StatusBadRequest, KindEmptyCart, "cart has no items")
	case errors.As(err, &missing):
		return NewKindError(http.StatusBadRequest, KindPriceMissing, "price missing for dish").
			WithDetails(map[string]any{"dishId": missing.DishID})
	default:
		return errDB(err)
	}
}
