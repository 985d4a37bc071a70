package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "Pending"
	OrderStatusPreparing OrderStatus = "Preparing"
	OrderStatusComplete  OrderStatus = "Complete"
	OrderStatusCancelled OrderStatus = "Cancelled"
)

// Payment と Cart にそれぞれ1:1
type Order struct {
	ID            int64       `gorm:"primaryKey;autoIncrement" json:"order_id"`
	OrderStatus   OrderStatus `gorm:"type:varchar(20);not null;index" json:"order_status"`
	OrderTime     time.Time   `gorm:"not null" json:"order_time"`
	PaymentStatus bool        `gorm:"not null;default:false" json:"payment_status"`
	PaymentID     int64       `gorm:"not null;uniqueIndex" json:"payment_id"`
	CartID        int64       `gorm:"not null;uniqueIndex" json:"-"`
	//作成時にサーバーが受け付けた合計。後から再計算しない。
	TotalPrice decimal.Decimal `gorm:"column:totale_price;type:numeric(10,2);not null" json:"totale_price"`
	IsDeleted  bool            `gorm:"not null;default:false" json:"-"`
}
