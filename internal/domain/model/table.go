package model

import "time"

// 店内テーブル。QRコードには暗号化したテーブルIDを載せる。
type Table struct {
	ID        int64     `gorm:"primaryKey;autoIncrement" json:"-"`
	Name      string    `gorm:"type:varchar(255);not null;default:'New Table'" json:"name"`
	QRCode    string    `gorm:"type:text" json:"qr_code"`
	CreatedAt time.Time `gorm:"not null;autoCreateTime" json:"created_at"`
}
