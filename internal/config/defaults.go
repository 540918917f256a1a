package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/spf13/viper"
)

const DefaultsFileName = "config.json"

// QRDefaults mirrors config.json. Every field has a hard default, so a
// missing or partial file still yields a complete value.
type QRDefaults struct {
	Defaults   PlacementDefaults  `mapstructure:"defaults" json:"defaults"`
	Validation ValidationDefaults `mapstructure:"validation" json:"validation"`
}

type PlacementDefaults struct {
	Page     int     `mapstructure:"page" json:"page"`
	X        float64 `mapstructure:"x" json:"x"`
	Y        float64 `mapstructure:"y" json:"y"`
	Unit     string  `mapstructure:"unit" json:"unit"`
	Size     float64 `mapstructure:"size" json:"size"`
	SizeUnit string  `mapstructure:"size_unit" json:"size_unit"`
}

type ValidationDefaults struct {
	TolPt         float64 `mapstructure:"tol_pt" json:"tol_pt"`
	PaperCheck    string  `mapstructure:"paper_check" json:"paper_check"`
	CheckAllPages bool    `mapstructure:"check_all_pages" json:"check_all_pages"`
	PaperDimMode  string  `mapstructure:"paper_dim_mode" json:"paper_dim_mode"`
}

func HardDefaults() QRDefaults {
	return QRDefaults{
		Defaults: PlacementDefaults{
			Page:     1,
			X:        2,
			Y:        3,
			Unit:     string(autoqr.UnitCentimeter),
			Size:     4,
			SizeUnit: string(autoqr.UnitCentimeter),
		},
		Validation: ValidationDefaults{
			TolPt:         3.0,
			PaperCheck:    string(autoqr.ModeWarn),
			CheckAllPages: false,
			PaperDimMode:  string(autoqr.BasisVisible),
		},
	}
}

// Validate resets every invalid field to its hard default and reports the
// fields it reset.
func (d *QRDefaults) Validate() error {
	hard := HardDefaults()
	var errs []error

	if d.Defaults.Page < 1 {
		errs = append(errs, fmt.Errorf("defaults.page must be at least 1, got %d", d.Defaults.Page))
		d.Defaults.Page = hard.Defaults.Page
	}
	if u, err := autoqr.ParseUnit(d.Defaults.Unit); err != nil {
		errs = append(errs, fmt.Errorf("defaults.unit: %w", err))
		d.Defaults.Unit = hard.Defaults.Unit
	} else {
		d.Defaults.Unit = string(u)
	}
	if d.Defaults.Size <= 0 {
		errs = append(errs, fmt.Errorf("defaults.size must be positive, got %v", d.Defaults.Size))
		d.Defaults.Size = hard.Defaults.Size
	}
	if u, err := autoqr.ParseUnit(d.Defaults.SizeUnit); err != nil {
		errs = append(errs, fmt.Errorf("defaults.size_unit: %w", err))
		d.Defaults.SizeUnit = hard.Defaults.SizeUnit
	} else {
		d.Defaults.SizeUnit = string(u)
	}

	if d.Validation.TolPt < 0 {
		errs = append(errs, fmt.Errorf("validation.tol_pt must not be negative, got %v", d.Validation.TolPt))
		d.Validation.TolPt = hard.Validation.TolPt
	}
	if m, err := autoqr.ParseValidationMode(d.Validation.PaperCheck); err != nil {
		errs = append(errs, fmt.Errorf("validation.paper_check: %w", err))
		d.Validation.PaperCheck = hard.Validation.PaperCheck
	} else {
		d.Validation.PaperCheck = string(m)
	}
	if b, err := autoqr.ParseDimensionBasis(d.Validation.PaperDimMode); err != nil {
		errs = append(errs, fmt.Errorf("validation.paper_dim_mode: %w", err))
		d.Validation.PaperDimMode = hard.Validation.PaperDimMode
	} else {
		d.Validation.PaperDimMode = string(b)
	}

	return errors.Join(errs...)
}

// Policy converts the validation section. Call after Validate.
func (d QRDefaults) Policy() autoqr.ValidationPolicy {
	policy := autoqr.DefaultValidationPolicy()
	policy.Mode = autoqr.ValidationMode(d.Validation.PaperCheck)
	policy.TolerancePt = d.Validation.TolPt
	policy.Basis = autoqr.DimensionBasis(d.Validation.PaperDimMode)
	policy.CheckAllPages = d.Validation.CheckAllPages
	policy.TargetPage = d.Defaults.Page
	return policy
}

// LoadQRDefaults reads path over the hard defaults. A missing file is not an
// error. On a read or validation error the returned value is still usable:
// unreadable files yield the hard defaults, invalid fields are reset.
func LoadQRDefaults(path string) (QRDefaults, error) {
	hard := HardDefaults()

	v := viper.New()
	v.SetConfigType("json")
	v.SetDefault("defaults.page", hard.Defaults.Page)
	v.SetDefault("defaults.x", hard.Defaults.X)
	v.SetDefault("defaults.y", hard.Defaults.Y)
	v.SetDefault("defaults.unit", hard.Defaults.Unit)
	v.SetDefault("defaults.size", hard.Defaults.Size)
	v.SetDefault("defaults.size_unit", hard.Defaults.SizeUnit)
	v.SetDefault("validation.tol_pt", hard.Validation.TolPt)
	v.SetDefault("validation.paper_check", hard.Validation.PaperCheck)
	v.SetDefault("validation.check_all_pages", hard.Validation.CheckAllPages)
	v.SetDefault("validation.paper_dim_mode", hard.Validation.PaperDimMode)

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return hard, fmt.Errorf("failed to read %s: %w", path, err)
			}
		}
	}

	var d QRDefaults
	if err := v.Unmarshal(&d); err != nil {
		return hard, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	if err := d.Validate(); err != nil {
		return d, fmt.Errorf("invalid values in %s: %w", path, err)
	}
	return d, nil
}

// ResolveDefaultsPath looks for config.json in the working directory, next to
// the executable, then in up to five parent directories of the executable.
// When none exists the working directory candidate is returned.
func ResolveDefaultsPath() string {
	cwd, err := os.Getwd()
	if err != nil {
		cwd = "."
	}
	candidates := []string{filepath.Join(cwd, DefaultsFileName)}

	if exe, err := os.Executable(); err == nil {
		candidates = append(candidates, searchUpwards(filepath.Dir(exe), 5)...)
	}

	for _, c := range candidates {
		if info, err := os.Stat(c); err == nil && !info.IsDir() {
			return c
		}
	}
	return candidates[0]
}

// searchUpwards lists config.json in dir and its first n ancestors.
func searchUpwards(dir string, n int) []string {
	out := []string{filepath.Join(dir, DefaultsFileName)}
	for i := 0; i < n; i++ {
		parent := filepath.Dir(dir)
		if parent == dir || strings.TrimSpace(parent) == "" {
			break
		}
		dir = parent
		out = append(out, filepath.Join(dir, DefaultsFileName))
	}
	return out
}
