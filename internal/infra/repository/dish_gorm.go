package repository

import (
	"context"

	"restaurant/internal/domain/model"

	"gorm.io/gorm"
)

type DishGormRepository struct {
	db *gorm.DB
}

func NewDishGormRepository(db *gorm.DB) *DishGormRepository {
	return &DishGormRepository{db: db}
}

// 価格はeager load（id順）
func (r *DishGormRepository) ListMenu(ctx context.Context) ([]model.Dish, error) {
	var dishes []model.Dish
	err := r.db.WithContext(ctx).
		Preload("Prices", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Order("id asc").
		Find(&dishes).Error
	if err != nil {
		return nil, err
	}
	return dishes, nil
}

func (r *DishGormRepository) FindByID(ctx context.Context, dishID int64) (model.Dish, error) {
	var d model.Dish
	err := r.db.WithContext(ctx).
		Preload("Prices", func(db *gorm.DB) *gorm.DB { return db.Order("id asc") }).
		Where("id = ?", dishID).
		First(&d).Error
	if err != nil {
		return model.Dish{}, translate(err)
	}
	return d, nil
}

type DishPriceGormRepository struct {
	db *gorm.DB
}

func NewDishPriceGormRepository(db *gorm.DB) *DishPriceGormRepository {
	return &DishPriceGormRepository{db: db}
}

// サイズ指定ありなら (dish, size) 一致、無しならid最小の行
func (r *DishPriceGormRepository) FindForDish(ctx context.Context, dishID int64, size string) (model.DishPrice, error) {
	q := r.db.WithContext(ctx).Where("dish_id = ?", dishID)
	if size != "" {
		q = q.Where("size = ?", size)
	}

	var p model.DishPrice
	if err := q.Order("id asc").First(&p).Error; err != nil {
		return model.DishPrice{}, translate(err)
	}
	return p, nil
}

func (r *DishPriceGormRepository) CountByDishID(ctx context.Context, dishID int64) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.DishPrice{}).Where("dish_id = ?", dishID).Count(&n).Error
	return n, err
}
