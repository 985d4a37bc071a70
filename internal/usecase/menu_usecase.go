package usecase

import (
	"context"
	"net/http"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"
)

type MenuUsecase struct {
	dishes repo.DishRepository
}

func NewMenuUsecase(dishes repo.DishRepository) *MenuUsecase {
	return &MenuUsecase{dishes: dishes}
}

func (u *MenuUsecase) ListDishes(ctx context.Context) ([]model.Dish, error) {
	dishes, err := u.dishes.ListMenu(ctx)
	if err != nil {
		return nil, errDB(err)
	}
	return dishes, nil
}

func (u *MenuUsecase) GetDish(ctx context.Context, dishID int64) (model.Dish, error) {
	if dishID <= 0 {
		return model.Dish{}, NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	d, err := u.dishes.FindByID(ctx, dishID)
	if err != nil {
		if isNotFound(err) {
			return model.Dish{}, NewHTTPError(http.StatusNotFound, "not found")
		}
		return model.Dish{}, errDB(err)
	}
	return d, nil
}
