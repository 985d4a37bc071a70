package repository

import (
	"context"

	"restaurant/internal/domain/model"
)

type TableRepository interface {
	Create(ctx context.Context, table model.Table) (model.Table, error)
	FindByID(ctx context.Context, tableID int64) (model.Table, error)
	List(ctx context.Context) ([]model.Table, error)
	UpdateQRCode(ctx context.Context, tableID int64, qrCode string) error
}
