package autoqr

import (
	"fmt"
	"math"
)

// VisualRect is a square in top-left origin point space, the coordinate
// system of a rendered page preview.
type VisualRect struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Side float64 `json:"side"`
}

// PixelRect is a VisualRect scaled to preview pixels. Width and height differ
// when the preview was not rendered with a uniform scale.
type PixelRect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// PixelScale holds pixels per point along each axis of a preview image.
type PixelScale struct {
	X float64 `json:"pixelsPerPointX"`
	Y float64 `json:"pixelsPerPointY"`
}

// NewPixelScale derives the scale between a preview of pixelWidth x
// pixelHeight and the visible page of geom.
func NewPixelScale(pixelWidth, pixelHeight int, geom PageGeometry) (PixelScale, error) {
	w, h := geom.Visible()
	if pixelWidth <= 0 || pixelHeight <= 0 {
		return PixelScale{}, fmt.Errorf("%w: preview size must be positive, got %dx%d px", ErrInvalidMeasurement, pixelWidth, pixelHeight)
	}
	if w <= 0 || h <= 0 {
		return PixelScale{}, fmt.Errorf("%w: page has empty visible area %.2fx%.2f pt", ErrInvalidMeasurement, w, h)
	}
	return PixelScale{X: float64(pixelWidth) / w, Y: float64(pixelHeight) / h}, nil
}

func (s PixelScale) PointsToPixels(r VisualRect) PixelRect {
	return PixelRect{
		X:      r.X * s.X,
		Y:      r.Y * s.Y,
		Width:  r.Side * s.X,
		Height: r.Side * s.Y,
	}
}

// PixelToPoint maps a preview pixel position to a visual point position.
func (s PixelScale) PixelToPoint(xPx, yPx float64) (float64, float64) {
	return xPx / s.X, yPx / s.Y
}

// PixelsToPoints maps a pixel rectangle back to points. The side follows the
// horizontal axis so the result stays square.
func (s PixelScale) PixelsToPoints(r PixelRect) VisualRect {
	x, y := s.PixelToPoint(r.X, r.Y)
	return VisualRect{X: x, Y: y, Side: r.Width / s.X}
}

// DeltaToPoints converts a mouse delta in screen pixels into points. zoom is
// the display zoom factor applied on top of the rendered preview.
func (s PixelScale) DeltaToPoints(dxPx, dyPx, zoom float64) (float64, float64) {
	if zoom <= 0 {
		zoom = 1
	}
	return dxPx / zoom / s.X, dyPx / zoom / s.Y
}

type Corner string

const (
	CornerTopLeft     Corner = "top-left"
	CornerTopRight    Corner = "top-right"
	CornerBottomLeft  Corner = "bottom-left"
	CornerBottomRight Corner = "bottom-right"
)

func ParseCorner(s string) (Corner, error) {
	switch c := Corner(s); c {
	case CornerTopLeft, CornerTopRight, CornerBottomLeft, CornerBottomRight:
		return c, nil
	}
	return "", fmt.Errorf("unsupported resize corner %q", s)
}

// outward is the direction in which dragging the corner grows the square.
func (c Corner) outward() (float64, float64) {
	switch c {
	case CornerTopLeft:
		return -1, -1
	case CornerTopRight:
		return 1, -1
	case CornerBottomLeft:
		return -1, 1
	default:
		return 1, 1
	}
}

// MoveBy translates r by dx, dy points.
func MoveBy(r VisualRect, dx, dy float64) VisualRect {
	return VisualRect{X: r.X + dx, Y: r.Y + dy, Side: r.Side}
}

// ResizeFromCorner drags corner of r by dx, dy points. The axis with the
// larger magnitude decides the side change so the shape stays square, and the
// diagonally opposite corner does not move. The side never drops below
// minSide.
func ResizeFromCorner(r VisualRect, corner Corner, dx, dy, minSide float64) VisualRect {
	ox, oy := corner.outward()

	growth := dx * ox
	if math.Abs(dy) > math.Abs(dx) {
		growth = dy * oy
	}
	if r.Side+growth < minSide {
		growth = minSide - r.Side
	}

	out := VisualRect{X: r.X, Y: r.Y, Side: r.Side + growth}
	if ox < 0 {
		out.X -= growth
	}
	if oy < 0 {
		out.Y -= growth
	}
	return out
}

// ClampToPage shifts r so it lies inside the visible page. A square larger
// than the page is pinned to the top-left corner.
func ClampToPage(r VisualRect, geom PageGeometry) VisualRect {
	w, h := geom.Visible()
	r.X = math.Max(0, math.Min(r.X, w-r.Side))
	r.Y = math.Max(0, math.Min(r.Y, h-r.Side))
	return r
}
