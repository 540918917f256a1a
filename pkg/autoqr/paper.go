package autoqr

import "math"

type PaperStandard struct {
	Name     string  `json:"name"`
	WidthPt  float64 `json:"widthPt"`
	HeightPt float64 `json:"heightPt"`
}

var (
	// 210 x 297 mm
	PaperA4 = PaperStandard{Name: "A4", WidthPt: 595.28, HeightPt: 841.89}
	// 8.5 x 11 in
	PaperLetter = PaperStandard{Name: "Letter", WidthPt: 612.00, HeightPt: 792.00}
)

// PaperStandards is the classification priority order. A page that fits more
// than one standard under a wide tolerance is reported as the first one, so
// A4 must stay ahead of Letter.
var PaperStandards = []PaperStandard{PaperA4, PaperLetter}

type Classification struct {
	Standard PaperStandard `json:"standard"`
	// Swapped is set when the page matched the standard with width and
	// height exchanged (landscape against a portrait reference).
	Swapped bool `json:"swapped"`
}

func (c Classification) String() string {
	if c.Swapped {
		return c.Standard.Name + "(rotated)"
	}
	return c.Standard.Name
}

func within(a, b, tol float64) bool {
	return math.Abs(a-b) <= tol
}

// Classify matches width x height against PaperStandards in priority order,
// in both orientations. The boolean is false when nothing matches.
func Classify(width, height, tolerancePt float64) (Classification, bool) {
	return ClassifyAgainst(PaperStandards, width, height, tolerancePt)
}

func ClassifyAgainst(standards []PaperStandard, width, height, tolerancePt float64) (Classification, bool) {
	for _, s := range standards {
		if within(width, s.WidthPt, tolerancePt) && within(height, s.HeightPt, tolerancePt) {
			return Classification{Standard: s}, true
		}
		if within(width, s.HeightPt, tolerancePt) && within(height, s.WidthPt, tolerancePt) {
			return Classification{Standard: s, Swapped: true}, true
		}
	}
	return Classification{}, false
}
