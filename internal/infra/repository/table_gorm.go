package repository

import (
	"context"

	"restaurant/internal/domain/model"
	repo "restaurant/internal/repository"

	"gorm.io/gorm"
)

type TableGormRepository struct {
	db *gorm.DB
}

func NewTableGormRepository(db *gorm.DB) *TableGormRepository {
	return &TableGormRepository{db: db}
}

func (r *TableGormRepository) Create(ctx context.Context, table model.Table) (model.Table, error) {
	table.ID = 0
	if err := r.db.WithContext(ctx).Create(&table).Error; err != nil {
		return model.Table{}, err
	}
	return table, nil
}

func (r *TableGormRepository) FindByID(ctx context.Context, tableID int64) (model.Table, error) {
	var t model.Table
	if err := r.db.WithContext(ctx).Where("id = ?", tableID).First(&t).Error; err != nil {
		return model.Table{}, translate(err)
	}
	return t, nil
}

func (r *TableGormRepository) List(ctx context.Context) ([]model.Table, error) {
	var ts []model.Table
	if err := r.db.WithContext(ctx).Order("id asc").Find(&ts).Error; err != nil {
		return nil, err
	}
	return ts, nil
}

func (r *TableGormRepository) UpdateQRCode(ctx context.Context, tableID int64, qrCode string) error {
	res := r.db.WithContext(ctx).Model(&model.Table{}).Where("id = ?", tableID).Update("qr_code", qrCode)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return repo.ErrNotFound
	}
	return nil
}
