package repository

import (
	"context"

	"restaurant/internal/domain/model"

	"gorm.io/gorm"
)

type PaymentGormRepository struct {
	db *gorm.DB
}

func NewPaymentGormRepository(db *gorm.DB) *PaymentGormRepository {
	return &PaymentGormRepository{db: db}
}

func (r *PaymentGormRepository) Create(ctx context.Context, payment model.Payment) (model.Payment, error) {
	payment.ID = 0
	if err := r.db.WithContext(ctx).Create(&payment).Error; err != nil {
		return model.Payment{}, translate(err)
	}
	return payment, nil
}

func (r *PaymentGormRepository) FindByID(ctx context.Context, paymentID int64) (model.Payment, error) {
	var p model.Payment
	err := r.db.WithContext(ctx).Where("id = ? AND is_deleted = ?", paymentID, false).First(&p).Error
	if err != nil {
		return model.Payment{}, translate(err)
	}
	return p, nil
}
