package util

import (
	"errors"
	"fmt"
	"testing"

	"github.com/SeakMengs/AutoQR/pkg/autoqr"
	"github.com/go-playground/validator/v10"
)

type placementForm struct {
	Url    string `validate:"required,strNotEmpty"`
	Unit   string `validate:"unit"`
	Origin string `validate:"origin"`
	Check  string `validate:"paperCheck"`
	Mode   string `validate:"dimMode"`
	Corner string `validate:"corner"`
}

func newValidator(t *testing.T) *validator.Validate {
	t.Helper()
	v := validator.New()
	if err := RegisterValidations(v); err != nil {
		t.Fatal(err)
	}
	return v
}

func TestCustomValidations(t *testing.T) {
	v := newValidator(t)

	tests := []struct {
		name      string
		form      placementForm
		wantField string
	}{
		{"Valid", placementForm{Url: "https://x", Unit: "CM", Origin: "tl", Check: "strict", Mode: "raw", Corner: "top-left"}, ""},
		{"Empty optional fields", placementForm{Url: "https://x"}, ""},
		{"Blank url", placementForm{Url: "   "}, "Url"},
		{"Bad unit", placementForm{Url: "https://x", Unit: "inch"}, "Unit"},
		{"Bad origin", placementForm{Url: "https://x", Origin: "center"}, "Origin"},
		{"Bad check", placementForm{Url: "https://x", Check: "loud"}, "Check"},
		{"Bad mode", placementForm{Url: "https://x", Mode: "crop"}, "Mode"},
		{"Bad corner", placementForm{Url: "https://x", Corner: "middle"}, "Corner"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(tt.form)
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}

			msgs := GenerateErrorMessages(err)
			if len(msgs) != 1 || msgs[0].Field != tt.wantField {
				t.Errorf("GenerateErrorMessages() = %+v, want field %s", msgs, tt.wantField)
			}
		})
	}
}

func TestGenerateErrorMessagesForCoreErrors(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		params    []interface{}
		wantField string
	}{
		{"Invalid measurement", fmt.Errorf("x: %w", autoqr.ErrInvalidMeasurement), nil, "measurement"},
		{"Page out of range", fmt.Errorf("wrapped: %w", autoqr.ErrPageOutOfRange), nil, "page"},
		{"Validation failed", &autoqr.ValidationError{}, nil, "paper"},
		{"Explicit field wins", autoqr.ErrPageOutOfRange, []interface{}{"pageIndex"}, "pageIndex"},
		{"Unknown", errors.New("boom"), nil, "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msgs := GenerateErrorMessages(tt.err, tt.params...)
			if len(msgs) != 1 || msgs[0].Field != tt.wantField {
				t.Errorf("GenerateErrorMessages() = %+v, want field %s", msgs, tt.wantField)
			}
		})
	}
}

func TestGenerateErrorMessagesCustomField(t *testing.T) {
	v := newValidator(t)
	err := v.Struct(placementForm{Url: "https://x", Unit: "furlong"})

	msgs := GenerateErrorMessages(err, map[string]string{"Unit": "unit"})
	if len(msgs) != 1 || msgs[0].Field != "unit" || msgs[0].Message != "unit must be one of cm, mm or pt" {
		t.Errorf("unexpected messages %+v", msgs)
	}
}
