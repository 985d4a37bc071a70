package model

import "time"

type CartStatus string

const (
	CartStatusOpen       CartStatus = "OPEN"
	CartStatusCheckedOut CartStatus = "CHECKED_OUT"
)

// 1テーブルにつきACTIVEは1つ
type Cart struct {
	ID        int64      `gorm:"primaryKey;autoIncrement" json:"-"`
	TableID   int64      `gorm:"not null;index" json:"-"`
	Status    CartStatus `gorm:"column:cart_status;type:varchar(20);not null" json:"cart_status"`
	IsActive  bool       `gorm:"not null;default:false;index" json:"is_active"`
	IsDeleted bool       `gorm:"not null;default:false" json:"-"`
	CreatedAt time.Time  `gorm:"not null;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"not null;autoUpdateTime" json:"updated_at"`
}

// 会計・注文に使えるカートか
func (c Cart) IsCheckoutable() bool {
	return c.IsActive && !c.IsDeleted
}
