package model

import "github.com/shopspring/decimal"

type Dish struct {
	ID          int64       `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string      `gorm:"type:varchar(255);not null;default:'New Dish'" json:"name"`
	Description string      `gorm:"type:text" json:"description"`
	ImageURL    string      `gorm:"type:text" json:"image_url"`
	Prices      []DishPrice `gorm:"foreignKey:DishID" json:"prices"`
}

// サイズごとの価格
type DishPrice struct {
	ID     int64           `gorm:"primaryKey;autoIncrement" json:"id"`
	DishID int64           `gorm:"not null;index" json:"dish_id"`
	Size   string          `gorm:"type:varchar(50);not null" json:"size"`
	Price  decimal.Decimal `gorm:"type:numeric(10,2);not null" json:"price"`
}
