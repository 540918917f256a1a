package autoqr

import (
	"fmt"
	"strings"
)

type CoordinateOrigin string

const (
	// OriginTopLeft is the convention of on-screen editors: y grows downwards
	// from the top edge of the visible page.
	OriginTopLeft CoordinateOrigin = "top-left"
	// OriginBottomLeft is native PDF space.
	OriginBottomLeft CoordinateOrigin = "bottom-left"
)

func ParseCoordinateOrigin(s string) (CoordinateOrigin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "top-left", "topleft", "tl", "visual":
		return OriginTopLeft, nil
	case "bottom-left", "bottomleft", "bl", "pdf":
		return OriginBottomLeft, nil
	}
	return "", fmt.Errorf("unsupported coordinate origin %q, use top-left or bottom-left", s)
}

type PlacementRequest struct {
	X      Measurement      `json:"x"`
	Y      Measurement      `json:"y"`
	Side   Measurement      `json:"size"`
	Origin CoordinateOrigin `json:"origin"`
	// PageIndex is 1-based.
	PageIndex int `json:"page"`
}

// Check validates the measurements of the request, no page I/O involved.
func (r PlacementRequest) Check() error {
	fields := []struct {
		name string
		m    Measurement
	}{{"x", r.X}, {"y", r.Y}, {"size", r.Side}}
	for _, f := range fields {
		if !f.m.Unit.Valid() {
			return fmt.Errorf("%w: %s has unsupported unit %q", ErrInvalidMeasurement, f.name, f.m.Unit)
		}
	}
	if side := r.Side.Points(); side <= 0 {
		return fmt.Errorf("%w: QR side must be positive, got %s", ErrInvalidMeasurement, r.Side)
	}
	return nil
}

// Rect is a square in PDF point space; X, Y is the bottom-left corner.
type Rect struct {
	X    float64 `json:"xPt"`
	Y    float64 `json:"yPt"`
	Side float64 `json:"sidePt"`
}

func (r Rect) Within(width, height float64) bool {
	const eps = 1e-9
	return r.X >= -eps && r.Y >= -eps && r.X+r.Side <= width+eps && r.Y+r.Side <= height+eps
}

type PlacementResult struct {
	Rect
	PageIndex int       `json:"page"`
	Findings  []Finding `json:"findings"`
}

// Resolve computes the PDF-space rectangle for req on the page described by
// geom. A rectangle leaving the visible page is reported as an
// OutOfVisibleArea warning, placement still succeeds.
func Resolve(req PlacementRequest, geom PageGeometry) (PlacementResult, error) {
	if err := req.Check(); err != nil {
		return PlacementResult{}, err
	}

	side := req.Side.Points()
	x := req.X.Points()
	y := req.Y.Points()

	w, h := geom.Visible()
	if req.Origin != OriginBottomLeft {
		y = h - y - side
	}

	result := PlacementResult{
		Rect:      Rect{X: x, Y: y, Side: side},
		PageIndex: req.PageIndex,
	}

	if !result.Within(w, h) {
		result.Findings = append(result.Findings, Finding{
			Page:     req.PageIndex,
			Kind:     KindOutOfVisibleArea,
			Severity: SeverityWarning,
			Message: fmt.Sprintf("QR rectangle (%.2f, %.2f, %.2f, %.2f) pt lies outside the visible page %.2f x %.2f pt and may not appear",
				x, y, x+side, y+side, w, h),
		})
	}

	return result, nil
}

// ToVisual maps a PDF-space rectangle back to top-left origin coordinates on
// the visible page.
func ToVisual(rect Rect, geom PageGeometry) (float64, float64) {
	return rect.X, geom.VisibleHeight() - rect.Y - rect.Side
}

// FromVisual is the inverse of ToVisual.
func FromVisual(v VisualRect, geom PageGeometry) Rect {
	return Rect{X: v.X, Y: geom.VisibleHeight() - v.Y - v.Side, Side: v.Side}
}
