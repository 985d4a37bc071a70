package model

import "time"

// 会計1回ごとに作る。作成後は論理削除以外変更しない。
type Payment struct {
	ID            int64  `gorm:"primaryKey;autoIncrement" json:"payment_id"`
	CustomerName  string `gorm:"type:varchar(255);not null" json:"customer_name"`
	CustomerEmail string `gorm:"type:varchar(255);not null" json:"customer_email"`
	//決済プロバイダ側のID（payment intentなど）
	ProviderReference string    `gorm:"type:varchar(255);not null;default:''" json:"provider_reference"`
	IsDeleted         bool      `gorm:"not null;default:false" json:"-"`
	CreatedAt         time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
