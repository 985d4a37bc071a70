package model

import "time"

// カートの明細
// 価格は持たない。会計時にdish_pricesから引き直す。
type CartItem struct {
	ID     int64 `gorm:"primaryKey;autoIncrement" json:"id"`
	CartID int64 `gorm:"not null;index" json:"-"`
	DishID int64 `gorm:"not null;index" json:"dish_id"`
	//空ならサイズ未指定
	Size      string    `gorm:"type:varchar(50);not null;default:''" json:"size"`
	Quantity  int64     `gorm:"not null" json:"quantity"`
	IsDeleted bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;autoUpdateTime" json:"updated_at"`
}
