package autoqr

import (
	"fmt"
	"strings"
)

const (
	PointsPerInch = 72.0
	MMPerInch     = 25.4
	CMPerInch     = 2.54
)

type Unit string

const (
	UnitPoint      Unit = "pt"
	UnitMillimeter Unit = "mm"
	UnitCentimeter Unit = "cm"
)

// ParseUnit accepts pt, pts, point, points, mm and cm in any case.
func ParseUnit(s string) (Unit, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pt", "pts", "point", "points":
		return UnitPoint, nil
	case "mm":
		return UnitMillimeter, nil
	case "cm":
		return UnitCentimeter, nil
	}
	return "", fmt.Errorf("%w: unsupported unit %q, use cm, mm or pt", ErrInvalidMeasurement, s)
}

func (u Unit) Valid() bool {
	switch u {
	case UnitPoint, UnitMillimeter, UnitCentimeter:
		return true
	}
	return false
}

// perInch returns how many units make up one inch.
func (u Unit) perInch() float64 {
	switch u {
	case UnitMillimeter:
		return MMPerInch
	case UnitCentimeter:
		return CMPerInch
	default:
		return PointsPerInch
	}
}

// ToPoints converts value expressed in unit to PDF points.
func ToPoints(value float64, unit Unit) float64 {
	if unit == UnitPoint || !unit.Valid() {
		return value
	}
	return value * PointsPerInch / unit.perInch()
}

// FromPoints converts a length in PDF points to unit.
func FromPoints(points float64, unit Unit) float64 {
	if unit == UnitPoint || !unit.Valid() {
		return points
	}
	return points * unit.perInch() / PointsPerInch
}

type Measurement struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

func Pt(v float64) Measurement { return Measurement{Value: v, Unit: UnitPoint} }
func MM(v float64) Measurement { return Measurement{Value: v, Unit: UnitMillimeter} }
func CM(v float64) Measurement { return Measurement{Value: v, Unit: UnitCentimeter} }

func (m Measurement) Points() float64 {
	return ToPoints(m.Value, m.Unit)
}

func (m Measurement) String() string {
	return fmt.Sprintf("%.2f %s", m.Value, m.Unit)
}
