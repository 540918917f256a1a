package controller

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/SeakMengs/AutoQR/internal/config"
	"github.com/SeakMengs/AutoQR/pkg/autoqr"
)

// PlacementForm holds the placement inputs shared by preview and apply.
// Fields left out fall back to config.json.
type PlacementForm struct {
	Page     *int     `form:"page" json:"page" binding:"omitempty,min=1"`
	X        *float64 `form:"x" json:"x"`
	Y        *float64 `form:"y" json:"y"`
	Unit     string   `form:"unit" json:"unit" binding:"unit"`
	Size     *float64 `form:"size" json:"size"`
	SizeUnit string   `form:"size_unit" json:"size_unit" binding:"unit"`
	// Origin defaults to top-left, the editor convention.
	Origin string `form:"origin" json:"origin" binding:"origin"`
}

func (f PlacementForm) request(d config.QRDefaults) (autoqr.PlacementRequest, error) {
	req := autoqr.PlacementRequest{Origin: autoqr.OriginTopLeft, PageIndex: d.Defaults.Page}
	if f.Page != nil {
		req.PageIndex = *f.Page
	}

	unit, err := autoqr.ParseUnit(orDefault(f.Unit, d.Defaults.Unit))
	if err != nil {
		return req, err
	}
	sizeUnit, err := autoqr.ParseUnit(orDefault(f.SizeUnit, d.Defaults.SizeUnit))
	if err != nil {
		return req, err
	}
	if f.Origin != "" {
		if req.Origin, err = autoqr.ParseCoordinateOrigin(f.Origin); err != nil {
			return req, err
		}
	}

	req.X = autoqr.Measurement{Value: valueOr(f.X, d.Defaults.X), Unit: unit}
	req.Y = autoqr.Measurement{Value: valueOr(f.Y, d.Defaults.Y), Unit: unit}
	req.Side = autoqr.Measurement{Value: valueOr(f.Size, d.Defaults.Size), Unit: sizeUnit}
	return req, req.Check()
}

type PolicyForm struct {
	TolPt         *float64  `form:"tol_pt" json:"tol_pt" binding:"omitempty,gte=0"`
	PaperCheck    string    `form:"paper_check" json:"paper_check" binding:"paperCheck"`
	PaperDimMode  string    `form:"paper_dim_mode" json:"paper_dim_mode" binding:"dimMode"`
	CheckAllPages *Checkbox `form:"check_all_pages" json:"check_all_pages"`
}

// Checkbox is a bool that also accepts what an HTML checkbox submits
// ("on"), in forms as well as in JSON.
type Checkbox bool

// UnmarshalParam is used by gin's form and query binding.
func (c *Checkbox) UnmarshalParam(param string) error {
	switch strings.ToLower(strings.TrimSpace(param)) {
	case "on", "true", "1", "yes":
		*c = true
	case "off", "false", "0", "no", "":
		*c = false
	default:
		return fmt.Errorf("invalid boolean %q, use on/off or true/false", param)
	}
	return nil
}

func (c *Checkbox) UnmarshalJSON(b []byte) error {
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*c = Checkbox(v)
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("check_all_pages must be a boolean: %w", err)
	}
	return c.UnmarshalParam(s)
}

func (f PolicyForm) policy(d config.QRDefaults) (autoqr.ValidationPolicy, error) {
	policy := d.Policy()
	if f.TolPt != nil {
		policy.TolerancePt = *f.TolPt
	}
	if f.CheckAllPages != nil {
		policy.CheckAllPages = bool(*f.CheckAllPages)
	}

	var err error
	if f.PaperCheck != "" {
		if policy.Mode, err = autoqr.ParseValidationMode(f.PaperCheck); err != nil {
			return policy, err
		}
	}
	if f.PaperDimMode != "" {
		if policy.Basis, err = autoqr.ParseDimensionBasis(f.PaperDimMode); err != nil {
			return policy, err
		}
	}
	return policy, nil
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func valueOr[T any](p *T, fallback T) T {
	if p == nil {
		return fallback
	}
	return *p
}
