package autoqr

import "math"

// NormalizeRotation reduces any /Rotate value to one of 0, 90, 180 or 270.
// Off-quadrant input snaps to the nearest quadrant, ties round up (45 -> 90).
func NormalizeRotation(degrees int) int {
	r := ((degrees % 360) + 360) % 360
	if r%90 == 0 {
		return r
	}
	return int(math.Round(float64(r)/90)) * 90 % 360
}

// VisibleDimensions returns the on-screen width and height of a page box
// after its rotation flag is applied.
func VisibleDimensions(width, height float64, rotation int) (float64, float64) {
	switch NormalizeRotation(rotation) {
	case 90, 270:
		return height, width
	default:
		return width, height
	}
}

// PageGeometry holds the unrotated box of a page plus its rotation flag.
// The visible region is the CropBox when the page has one, the MediaBox
// otherwise.
type PageGeometry struct {
	RawWidthPt      float64 `json:"rawWidthPt"`
	RawHeightPt     float64 `json:"rawHeightPt"`
	RotationDegrees int     `json:"rotation"`
	// Zero when the page has no CropBox.
	CropWidthPt  float64 `json:"cropWidthPt,omitempty"`
	CropHeightPt float64 `json:"cropHeightPt,omitempty"`
}

func NewPageGeometry(rawWidth, rawHeight float64, rotation int) PageGeometry {
	return PageGeometry{
		RawWidthPt:      math.Abs(rawWidth),
		RawHeightPt:     math.Abs(rawHeight),
		RotationDegrees: NormalizeRotation(rotation),
	}
}

// WithCropBox returns a copy of g whose visible region is a width x height
// CropBox.
func (g PageGeometry) WithCropBox(width, height float64) PageGeometry {
	g.CropWidthPt = math.Abs(width)
	g.CropHeightPt = math.Abs(height)
	return g
}

func (g PageGeometry) Cropped() bool {
	return g.CropWidthPt > 0 && g.CropHeightPt > 0
}

func (g PageGeometry) viewBox() (float64, float64) {
	if g.Cropped() {
		return g.CropWidthPt, g.CropHeightPt
	}
	return g.RawWidthPt, g.RawHeightPt
}

func (g PageGeometry) Visible() (float64, float64) {
	w, h := g.viewBox()
	return VisibleDimensions(w, h, g.RotationDegrees)
}

func (g PageGeometry) VisibleWidth() float64 {
	w, _ := g.Visible()
	return w
}

func (g PageGeometry) VisibleHeight() float64 {
	_, h := g.Visible()
	return h
}

// Dimensions returns the width and height the paper check should compare
// for the given basis.
func (g PageGeometry) Dimensions(basis DimensionBasis) (float64, float64) {
	if basis == BasisMediaBox {
		return g.RawWidthPt, g.RawHeightPt
	}
	return g.Visible()
}
