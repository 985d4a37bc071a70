package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type CartItemRepository interface {
	// is_deleted=false の明細をid順で返す
	ListActiveByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error)
	// 同一料理・同一サイズは数量加算
	UpsertByCartDishSize(ctx context.Context, cartID int64, dishID int64, size string, addQty int64) error
	// 数量を上書き。cart_idが違う・削除済みならErrNotFound
	UpdateQuantity(ctx context.Context, cartID int64, itemID int64, qty int64) error
	// 論理削除。cart_idが違う・削除済みならErrNotFound
	SoftDelete(ctx context.Context, cartID int64, itemID int64) error
}
