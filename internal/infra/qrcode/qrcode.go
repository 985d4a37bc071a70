package qrcode

import (
	"encoding/base64"

	qr "github.com/skip2/go-qrcode"
)

// PNGのQRコードを data URL で返す
type Generator struct {
	size  int
	level qr.RecoveryLevel
}

func NewGenerator(size int) *Generator {
	if size <= 0 {
		size = 256
	}
	return &Generator{size: size, level: qr.Medium}
}

func (g *Generator) DataURL(content string) (string, error) {
	png, err := qr.Encode(content, g.level, g.size)
	if err != nil {
		return "", err
	}
	return "data:image/png;base64," + base64.StdEncoding.EncodeToString(png), nil
}
