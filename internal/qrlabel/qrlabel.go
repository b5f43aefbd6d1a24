// Package qrlabel renders printable QR label images for asset identifiers.
package qrlabel

import (
	"fmt"

	qrcode "github.com/skip2/go-qrcode"
)

const (
	// DefaultSize is the label edge length in pixels, sized for thermal
	// label printers at 203 dpi.
	DefaultSize = 256

	MinSize = 64
	MaxSize = 1024
)

// Render encodes the payload as a PNG QR image. Low error correction keeps
// the modules large enough to survive small label stock.
func Render(payload string, size int) ([]byte, error) {
	if payload == "" {
		return nil, fmt.Errorf("qrlabel: empty payload")
	}
	if size < MinSize || size > MaxSize {
		size = DefaultSize
	}
	png, err := qrcode.Encode(payload, qrcode.Low, size)
	if err != nil {
		return nil, fmt.Errorf("qrlabel: encode failed: %w", err)
	}
	return png, nil
}
