package autoqr

import (
	"bytes"
	"fmt"
	"image"
	_ "image/png"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers"
)

/*
 * tdewolff/canvas works in millimetres with a bottom-left origin, the same
 * orientation as PDF space. Everything handed to it goes through FromPoints.
 */

type PreviewOptions struct {
	// Zoom is preview pixels per point. The rendered image is about
	// visible width * Zoom pixels wide.
	Zoom float64
	// QRImage is a PNG drawn inside the placement rectangle; when empty only
	// the rectangle outline is drawn.
	QRImage []byte
}

// RenderPlacementPreview draws the visible page box of geom with the QR
// rectangle at its resolved position and writes a PNG to outFile.
func RenderPlacementPreview(geom PageGeometry, rect Rect, opts PreviewOptions, outFile string) error {
	if opts.Zoom <= 0 {
		opts.Zoom = 1
	}
	w, h := geom.Visible()
	if w <= 0 || h <= 0 {
		return fmt.Errorf("%w: page has empty visible area", ErrInvalidMeasurement)
	}

	mm := func(pt float64) float64 { return FromPoints(pt, UnitMillimeter) }

	c := canvas.New(mm(w), mm(h))
	ctx := canvas.NewContext(c)

	ctx.SetFillColor(canvas.White)
	ctx.SetStrokeColor(canvas.Hex("#9E9E9E"))
	ctx.SetStrokeWidth(0.3)
	ctx.DrawPath(0, 0, canvas.Rectangle(mm(w), mm(h)))

	if len(opts.QRImage) > 0 {
		img, _, err := image.Decode(bytes.NewReader(opts.QRImage))
		if err != nil {
			return fmt.Errorf("failed to decode QR image: %w", err)
		}
		dpmm := float64(img.Bounds().Dx()) / mm(rect.Side)
		ctx.DrawImage(mm(rect.X), mm(rect.Y), img, canvas.DPMM(dpmm))
	}

	ctx.SetFillColor(canvas.Transparent)
	ctx.SetStrokeColor(canvas.Hex("#E53935"))
	ctx.SetStrokeWidth(0.4)
	ctx.DrawPath(mm(rect.X), mm(rect.Y), canvas.Rectangle(mm(rect.Side), mm(rect.Side)))

	// Zoom px per point is Zoom * 72 / 25.4 px per millimetre.
	resolution := canvas.DPMM(opts.Zoom * PointsPerInch / MMPerInch)
	if err := renderers.Write(outFile, c, resolution); err != nil {
		return fmt.Errorf("failed to write preview: %w", err)
	}
	return nil
}
