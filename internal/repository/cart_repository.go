package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type CartRepository interface {
	// テーブルのACTIVEカートを取得し、無ければ作成
	GetOrCreateActiveByTableID(ctx context.Context, tableID int64) (model.Cart, error)
	FindByID(ctx context.Context, cartID int64) (model.Cart, error)
	// is_active=true かつ is_deleted=false のカートだけ返す
	FindCheckoutable(ctx context.Context, cartID int64) (model.Cart, error)
	// 注文確定後: CHECKED_OUT かつ is_active=false にする
	MarkCheckedOut(ctx context.Context, cartID int64) error
}
