package autoqr

import (
	"bytes"
	"image"
	_ "image/png"
	"testing"

	"github.com/makiuchi-d/gozxing"
	gozxingqr "github.com/makiuchi-d/gozxing/qrcode"
	"github.com/stretchr/testify/require"
)

func decodeQR(t *testing.T, png []byte) string {
	t.Helper()

	img, _, err := image.Decode(bytes.NewReader(png))
	require.NoError(t, err)

	bmp, err := gozxing.NewBinaryBitmapFromImage(img)
	require.NoError(t, err)

	result, err := gozxingqr.NewQRCodeReader().Decode(bmp, nil)
	require.NoError(t, err)
	return result.GetText()
}

func TestGenerateQRCode(t *testing.T) {
	links := []string{
		"https://example.com",
		"https://example.com/verify?id=8d0f6a1c&lang=en",
	}

	for _, link := range links {
		t.Run(link, func(t *testing.T) {
			png, err := GenerateQRCode(link, 256)
			require.NoError(t, err)

			cfg, _, err := image.DecodeConfig(bytes.NewReader(png))
			require.NoError(t, err)
			require.Equal(t, 256, cfg.Width)
			require.Equal(t, 256, cfg.Height)

			require.Equal(t, link, decodeQR(t, png))
		})
	}
}

func TestGenerateQRCodeRejectsEmptyLink(t *testing.T) {
	_, err := GenerateQRCode("  ", 256)
	require.Error(t, err)
}
