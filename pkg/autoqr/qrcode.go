package autoqr

import (
	"errors"
	"fmt"
	"strings"

	"github.com/skip2/go-qrcode"
)

const DefaultQRPixelSize = 512

// GenerateQRCode encodes link as a square PNG of size x size pixels with
// medium error correction.
func GenerateQRCode(link string, size int) ([]byte, error) {
	if strings.TrimSpace(link) == "" {
		return nil, errors.New("QR url must not be empty")
	}
	if size <= 0 {
		size = DefaultQRPixelSize
	}

	png, err := qrcode.Encode(link, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}
