package auth

import (
	"context"
	"errors"

	"restaurant/internal/domain/model"
	"restaurant/internal/repository"
)

type CurrentUserUsecase struct {
	userRepo repository.UserRepository
}

func NewCurrentUserUsecase(userRepo repository.UserRepository) *CurrentUserUsecase {
	return &CurrentUserUsecase{userRepo: userRepo}
}

// JWTのsubからユーザーを引く。削除済みは未認証扱い。
func (u *CurrentUserUsecase) Execute(ctx context.Context, userID int64) (model.User, error) {
	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) || errors.Is(err, repository.ErrNotFound) {
			return model.User{}, ErrUserInactive
		}
		return model.User{}, err
	}
	if user.IsDeleted {
		return model.User{}, ErrUserInactive
	}
	safe := *user
	safe.PasswordHash = ""
	return safe, nil
}
