package repository

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type CartGormRepository struct {
	db *gorm.DB
}

// DI
func NewCartGormRepository(db *gorm.DB) *CartGormRepository {
	return &CartGormRepository{db: db}
}

func (r *CartGormRepository) activeByTable(tx *gorm.DB, tableID int64, cart *model.Cart) error {
	return tx.
		Where("table_id = ? AND is_active = ? AND is_deleted = ?", tableID, true, false).
		Order("id desc").
		First(cart).Error
}

// テーブルのACTIVEカートを取得し、無ければ作成
func (r *CartGormRepository) GetOrCreateActiveByTableID(ctx context.Context, tableID int64) (model.Cart, error) {
	var cart model.Cart

	//探す→無ければ作る
	findErr := r.activeByTable(r.db.WithContext(ctx), tableID, &cart)
	if findErr == nil {
		return cart, nil
	}
	if !errors.Is(findErr, gorm.ErrRecordNotFound) {
		return model.Cart{}, findErr
	}

	newCart := model.Cart{
		TableID:  tableID,
		Status:   model.CartStatusOpen,
		IsActive: true,
	}
	if err := r.db.WithContext(ctx).Create(&newCart).Error; err != nil {
		return model.Cart{}, err
	}
	return newCart, nil
}

func (r *CartGormRepository) FindByID(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).Where("id = ?", cartID).First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return cart, nil
}

// 会計・注文に使えるカートだけ返す
func (r *CartGormRepository) FindCheckoutable(ctx context.Context, cartID int64) (model.Cart, error) {
	var cart model.Cart
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_active = ? AND is_deleted = ?", cartID, true, false).
		First(&cart).Error
	if err != nil {
		return model.Cart{}, translate(err)
	}
	return cart, nil
}

func (r *CartGormRepository) MarkCheckedOut(ctx context.Context, cartID int64) error {
	res := r.db.WithContext(ctx).
		Model(&model.Cart{}).
		Where("id = ?", cartID).
		Updates(map[string]any{
			"cart_status": model.CartStatusCheckedOut,
			"is_active":   false,
		})

	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}

type CartItemGormRepository struct {
	db *gorm.DB
}

func NewCartItemGormRepository(db *gorm.DB) *CartItemGormRepository {
	return &CartItemGormRepository{db: db}
}

// 論理削除されていない明細をid順で
func (r *CartItemGormRepository) ListActiveByCartID(ctx context.Context, cartID int64) ([]model.CartItem, error) {
	var items []model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND is_deleted = ?", cartID, false).
		Order("id asc").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// 同一料理・同一サイズは数量加算
func (r *CartItemGormRepository) UpsertByCartDishSize(ctx context.Context, cartID int64, dishID int64, size string, addQty int64) error {
	db := r.db.WithContext(ctx)

	res := db.Model(&model.CartItem{}).
		Where("cart_id = ? AND dish_id = ? AND size = ? AND is_deleted = ?", cartID, dishID, size, false).
		UpdateColumn("quantity", gorm.Expr("quantity + ?", addQty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	item := model.CartItem{
		CartID:   cartID,
		DishID:   dishID,
		Size:     size,
		Quantity: addQty,
	}
	return db.Create(&item).Error
}

func (r *CartItemGormRepository) UpdateQuantity(ctx context.Context, cartID int64, itemID int64, qty int64) error {
	return r.updateActive(ctx, cartID, itemID, map[string]any{"quantity": qty})
}

// 行は残して is_deleted を立てる
func (r *CartItemGormRepository) SoftDelete(ctx context.Context, cartID int64, itemID int64) error {
	return r.updateActive(ctx, cartID, itemID, map[string]any{"is_deleted": true})
}

func (r *CartItemGormRepository) updateActive(ctx context.Context, cartID int64, itemID int64, cols map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&model.CartItem{}).
		Where("id = ? AND cart_id = ? AND is_deleted = ?", itemID, cartID, false).
		Updates(cols)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
