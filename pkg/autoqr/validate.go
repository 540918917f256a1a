package autoqr

import (
	"fmt"
	"strings"
)

type ValidationMode string

const (
	ModeWarn   ValidationMode = "warn"
	ModeStrict ValidationMode = "strict"
)

func ParseValidationMode(s string) (ValidationMode, error) {
	switch ValidationMode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeWarn:
		return ModeWarn, nil
	case ModeStrict:
		return ModeStrict, nil
	}
	return "", fmt.Errorf("unsupported paper check mode %q, use warn or strict", s)
}

type DimensionBasis string

const (
	BasisVisible  DimensionBasis = "visible"
	BasisMediaBox DimensionBasis = "mediabox"
)

func ParseDimensionBasis(s string) (DimensionBasis, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "visible":
		return BasisVisible, nil
	case "mediabox", "raw-mediabox", "raw":
		return BasisMediaBox, nil
	}
	return "", fmt.Errorf("unsupported paper dimension mode %q, use visible or mediabox", s)
}

type ValidationPolicy struct {
	Mode          ValidationMode `json:"paperCheck"`
	TolerancePt   float64        `json:"tolPt"`
	Basis         DimensionBasis `json:"paperDimMode"`
	CheckAllPages bool           `json:"checkAllPages"`
	// TargetPage is the 1-based page examined when CheckAllPages is off.
	TargetPage int `json:"targetPage"`
}

func DefaultValidationPolicy() ValidationPolicy {
	return ValidationPolicy{
		Mode:        ModeWarn,
		TolerancePt: 3.0,
		Basis:       BasisVisible,
		TargetPage:  1,
	}
}

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

type FindingKind string

const (
	KindPaperSizeMatched  FindingKind = "PaperSizeMatched"
	KindPaperSizeMismatch FindingKind = "PaperSizeMismatch"
	KindPageRotated       FindingKind = "PageRotated"
	KindOutOfVisibleArea  FindingKind = "OutOfVisibleArea"
)

type Finding struct {
	Page     int         `json:"page"`
	Kind     FindingKind `json:"kind"`
	Severity Severity    `json:"severity"`
	Message  string      `json:"message"`
}

func (f Finding) String() string {
	return fmt.Sprintf("[%s] Page %d: %s", strings.ToUpper(string(f.Severity)), f.Page, f.Message)
}

// HasErrors reports whether any finding has error severity.
func HasErrors(findings []Finding) bool {
	for _, f := range findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Validate checks the examined pages against the known paper standards and
// reports rotated pages. Under strict mode a page that matches no standard
// turns the whole run into a *ValidationError.
func Validate(pages []PageGeometry, policy ValidationPolicy) ([]Finding, error) {
	if policy.TolerancePt < 0 {
		return nil, fmt.Errorf("%w: tolerance must be >= 0, got %.2f pt", ErrInvalidMeasurement, policy.TolerancePt)
	}

	toCheck := []int{policy.TargetPage}
	if policy.CheckAllPages {
		toCheck = make([]int, len(pages))
		for i := range pages {
			toCheck[i] = i + 1
		}
	} else if policy.TargetPage < 1 || policy.TargetPage > len(pages) {
		return nil, pageOutOfRange(policy.TargetPage, len(pages))
	}

	basis := policy.Basis
	if basis == "" {
		basis = BasisVisible
	}

	var findings []Finding
	for _, page := range toCheck {
		findings = append(findings, checkPage(page, pages[page-1], basis, policy)...)
	}

	if policy.Mode == ModeStrict && HasErrors(findings) {
		return findings, &ValidationError{Findings: findings}
	}
	return findings, nil
}

func checkPage(page int, g PageGeometry, basis DimensionBasis, policy ValidationPolicy) []Finding {
	var findings []Finding

	if g.RotationDegrees != 0 {
		findings = append(findings, Finding{
			Page:     page,
			Kind:     KindPageRotated,
			Severity: SeverityInfo,
			Message: fmt.Sprintf("/Rotate=%d°, the (0,0) origin and visual direction may not match on-screen coordinates",
				g.RotationDegrees),
		})
	}

	w, h := g.Dimensions(basis)
	crop := ""
	if g.Cropped() {
		crop = fmt.Sprintf(", CropBox %.2f x %.2f pt", g.CropWidthPt, g.CropHeightPt)
	}
	detail := fmt.Sprintf("checked %.2f x %.2f pt (MediaBox %.2f x %.2f pt%s, Rotate %d°, mode=%s, tol ±%.2f pt)",
		w, h, g.RawWidthPt, g.RawHeightPt, crop, g.RotationDegrees, basis, policy.TolerancePt)

	c, ok := Classify(w, h, policy.TolerancePt)
	if ok {
		return append(findings, Finding{
			Page:     page,
			Kind:     KindPaperSizeMatched,
			Severity: SeverityInfo,
			Message:  fmt.Sprintf("detected %s, %s", c, detail),
		})
	}

	severity := SeverityWarning
	if policy.Mode == ModeStrict {
		severity = SeverityError
	}
	return append(findings, Finding{
		Page:     page,
		Kind:     KindPaperSizeMismatch,
		Severity: severity,
		Message:  fmt.Sprintf("%s matches no known paper size (%s)", detail, standardNames()),
	})
}

func standardNames() string {
	names := make([]string, len(PaperStandards))
	for i, s := range PaperStandards {
		names[i] = s.Name
	}
	return strings.Join(names, ", ")
}
