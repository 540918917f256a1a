package autoqr

import "testing"

func TestClassify(t *testing.T) {
	tests := []struct {
		name        string
		w, h, tol   float64
		wantOk      bool
		wantName    string
		wantSwapped bool
	}{
		{"A4 portrait", 595.28, 841.89, 0.5, true, "A4", false},
		{"A4 from mm", 595.2756, 841.8898, 0.5, true, "A4", false},
		{"A4 landscape", 841.89, 595.28, 0.5, true, "A4", true},
		{"Letter portrait", 612, 792, 0.5, true, "Letter", false},
		{"Letter landscape", 792, 612, 0.5, true, "Letter", true},
		{"Square page", 600, 600, 0.5, false, "", false},
		{"Just outside tolerance", 595.28, 843, 1.0, false, "", false},
		{"Inside tolerance", 596.0, 841.0, 1.0, true, "A4", false},
		// Within 20 pt both A4 and Letter fit, A4 has priority.
		{"A4 wins tie", 603, 815, 30, true, "A4", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, ok := Classify(tt.w, tt.h, tt.tol)
			if ok != tt.wantOk {
				t.Fatalf("Classify(%v, %v, %v) ok = %v, want %v", tt.w, tt.h, tt.tol, ok, tt.wantOk)
			}
			if !ok {
				return
			}
			if c.Standard.Name != tt.wantName || c.Swapped != tt.wantSwapped {
				t.Errorf("Classify(%v, %v, %v) = %s, want %s swapped=%v", tt.w, tt.h, tt.tol, c, tt.wantName, tt.wantSwapped)
			}
		})
	}
}

func TestClassificationString(t *testing.T) {
	c := Classification{Standard: PaperLetter, Swapped: true}
	if c.String() != "Letter(rotated)" {
		t.Errorf("got %q", c.String())
	}
}
