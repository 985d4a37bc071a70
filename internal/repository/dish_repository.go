package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

// 料理と価格の取得だけを約束。
type DishRepository interface {
	// Prices をeager loadして返す
	ListMenu(ctx context.Context) ([]model.Dish, error)
	FindByID(ctx context.Context, dishID int64) (model.Dish, error)
}

type DishPriceRepository interface {
	// size が空ならその料理のid最小の価格行、指定ありなら (dish, size) 一致の行。
	FindForDish(ctx context.Context, dishID int64, size string) (model.DishPrice, error)
	CountByDishID(ctx context.Context, dishID int64) (int64, error)
}
