package autoqr

import (
	"bytes"
	"context"
	"fmt"
	"io"
)

type Inserter struct {
	// QRPixelSize is the width of the generated QR image before it is scaled
	// to the placement rectangle.
	QRPixelSize int
}

func NewInserter(qrPixelSize int) *Inserter {
	if qrPixelSize <= 0 {
		qrPixelSize = DefaultQRPixelSize
	}
	return &Inserter{QRPixelSize: qrPixelSize}
}

// Insert places a QR code encoding link on the document read from in and
// writes the stamped document to out. Nothing is written when placement
// fails. The returned result carries the findings of the run, also on a
// strict validation failure.
func (ins *Inserter) Insert(ctx context.Context, in io.ReadSeeker, out io.Writer, link string, req PlacementRequest, policy ValidationPolicy) (PlacementResult, error) {
	if err := req.Check(); err != nil {
		return PlacementResult{}, err
	}

	pages, err := ReadPageGeometries(in)
	if err != nil {
		return PlacementResult{}, err
	}

	result, err := Place(req, policy, pages)
	if err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	png, err := GenerateQRCode(link, ins.QRPixelSize)
	if err != nil {
		return result, err
	}

	// Stamp into a buffer so a failing merge leaves out untouched.
	var buf bytes.Buffer
	if err := StampImage(in, &buf, result.PageIndex, png, ins.QRPixelSize, result.Rect); err != nil {
		return result, err
	}

	if err := ctx.Err(); err != nil {
		return result, err
	}

	if _, err := io.Copy(out, &buf); err != nil {
		return result, fmt.Errorf("failed to write output pdf: %w", err)
	}
	return result, nil
}
