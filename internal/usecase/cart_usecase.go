package usecase

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"github.com/shopspring/decimal"
)

// CartUsecase はお客様側のカート操作。IDは常に不透明トークンでやり取りする。
type CartUsecase struct {
	ids       IDCipher
	tables    repo.TableRepository
	carts     repo.CartRepository
	cartItems repo.CartItemRepository
	dishes    repo.DishRepository
	prices    repo.DishPriceRepository
	verifier  *PriceVerifier
	auditor   SecurityAuditor
}

func NewCartUsecase(
	ids IDCipher,
	tables repo.TableRepository,
	carts repo.CartRepository,
	cartItems repo.CartItemRepository,
	dishes repo.DishRepository,
	prices repo.DishPriceRepository,
	verifier *PriceVerifier,
	auditor SecurityAuditor,
) *CartUsecase {
	return &CartUsecase{
		ids:       ids,
		tables:    tables,
		carts:     carts,
		cartItems: cartItems,
		dishes:    dishes,
		prices:    prices,
		verifier:  verifier,
		auditor:   auditor,
	}
}

type CartResponse struct {
	CartToken string           `json:"cart_id"`
	Status    model.CartStatus `json:"cart_status"`
	IsActive  bool             `json:"is_active"`
	Items     []QuoteLine      `json:"items"`
	Total     decimal.Decimal  `json:"total"`
}

type AddCartItemInput struct {
	DishID   int64
	Size     string
	Quantity int64
}

// OpenForTable はテーブルのACTIVEカートを返す（無ければ作成）。
func (u *CartUsecase) OpenForTable(ctx context.Context, tableToken string) (CartResponse, error) {
	tableID, err := decodeToken(ctx, u.ids, u.auditor, tableToken, model.AuditResourceTable)
	if err != nil {
		return CartResponse{}, err
	}

	if _, err := u.tables.FindByID(ctx, tableID); err != nil {
		if isNotFound(err) {
			return CartResponse{}, NewHTTPError(http.StatusNotFound, "table not found")
		}
		return CartResponse{}, errDB(err)
	}

	cart, err := u.carts.GetOrCreateActiveByTableID(ctx, tableID)
	if err != nil {
		return CartResponse{}, errDB(err)
	}
	return u.buildResponse(ctx, cart)
}

func (u *CartUsecase) GetByToken(ctx context.Context, cartToken string) (CartResponse, error) {
	cart, err := u.checkoutableCart(ctx, cartToken)
	if err != nil {
		return CartResponse{}, err
	}
	return u.buildResponse(ctx, cart)
}

// AddItem は同じ料理・同じサイズなら数量を加算する。
func (u *CartUsecase) AddItem(ctx context.Context, cartToken string, in AddCartItemInput) (CartResponse, error) {
	size := strings.TrimSpace(in.Size)
	if in.DishID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid dish_id")
	}
	if in.Quantity < 1 || in.Quantity > 99 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}
	if len(size) > 50 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid size")
	}

	cart, err := u.checkoutableCart(ctx, cartToken)
	if err != nil {
		return CartResponse{}, err
	}

	if _, err := u.dishes.FindByID(ctx, in.DishID); err != nil {
		if isNotFound(err) {
			return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid dish_id")
		}
		return CartResponse{}, errDB(err)
	}

	//指定サイズの価格行があるか（会計時に引けない明細は入れない）
	if _, err := u.prices.FindForDish(ctx, in.DishID, size); err != nil {
		if isNotFound(err) {
			return CartResponse{}, NewKindError(http.StatusBadRequest, KindPriceMissing, "no price for dish and size").
				WithDetails(map[string]any{"dishId": in.DishID, "size": size})
		}
		return CartResponse{}, errDB(err)
	}

	if err := u.cartItems.UpsertByCartDishSize(ctx, cart.ID, in.DishID, size, in.Quantity); err != nil {
		return CartResponse{}, errDB(err)
	}
	return u.buildResponse(ctx, cart)
}

// UpdateItemQuantity は明細の数量を置き換える（加算ではない）。
func (u *CartUsecase) UpdateItemQuantity(ctx context.Context, cartToken string, itemID int64, quantity int64) (CartResponse, error) {
	if itemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}
	if quantity < 1 || quantity > 99 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid quantity")
	}

	cart, err := u.checkoutableCart(ctx, cartToken)
	if err != nil {
		return CartResponse{}, err
	}
	if err := u.cartItems.UpdateQuantity(ctx, cart.ID, itemID, quantity); err != nil {
		return CartResponse{}, cartItemError(err)
	}
	return u.buildResponse(ctx, cart)
}

// RemoveItem は明細を論理削除する。以降の見積もり・価格検証には含まれない。
func (u *CartUsecase) RemoveItem(ctx context.Context, cartToken string, itemID int64) (CartResponse, error) {
	if itemID <= 0 {
		return CartResponse{}, NewHTTPError(http.StatusBadRequest, "invalid item id")
	}

	cart, err := u.checkoutableCart(ctx, cartToken)
	if err != nil {
		return CartResponse{}, err
	}
	if err := u.cartItems.SoftDelete(ctx, cart.ID, itemID); err != nil {
		return CartResponse{}, cartItemError(err)
	}
	return u.buildResponse(ctx, cart)
}

// 会計済み・無効なカートは編集させない
func (u *CartUsecase) checkoutableCart(ctx context.Context, cartToken string) (model.Cart, error) {
	cartID, err := decodeToken(ctx, u.ids, u.auditor, cartToken, model.AuditResourceCart)
	if err != nil {
		return model.Cart{}, err
	}
	cart, err := u.carts.FindCheckoutable(ctx, cartID)
	if err != nil {
		if isNotFound(err) {
			return model.Cart{}, NewKindError(http.StatusNotFound, KindCartNotFound, "cart not found or inactive")
		}
		return model.Cart{}, errDB(err)
	}
	return cart, nil
}

func cartItemError(err error) error {
	if isNotFound(err) {
		return NewHTTPError(http.StatusNotFound, "cart item not found")
	}
	return errDB(err)
}

func (u *CartUsecase) buildResponse(ctx context.Context, cart model.Cart) (CartResponse, error) {
	token, err := u.ids.Encode(cart.ID)
	if err != nil {
		return CartResponse{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	out := CartResponse{
		CartToken: token,
		Status:    cart.Status,
		IsActive:  cart.IsActive,
		Items:     []QuoteLine{},
		Total:     decimal.Zero,
	}

	q, err := u.verifier.Quote(ctx, cart.ID)
	if errors.Is(err, ErrEmptyCart) {
		return out, nil
	}
	if err != nil {
		return CartResponse{}, priceErrorToHTTP(err)
	}
	out.Items = q.Lines
	out.Total = q.Total
	return out, nil
}
