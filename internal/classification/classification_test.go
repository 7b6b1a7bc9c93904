package classification_test

import (
	"testing"

	"florafinder/internal/classification"
)

func TestStatusTablesKnownCodes(t *testing.T) {
	tests := []struct {
		code  string
		color string
		desc  string
	}{
		{"EX", "black", "This species is no longer found on Earth"},
		{"ew", "red-900", "Only surviving in captivity or cultivation"},
		{"CR", "red-600", "Extremely high risk of extinction in the wild"},
		{"endangered", "red-500", "High risk of extinction in the wild"},
		{" vu ", "orange-500", "High risk of endangerment in the wild"},
		{"Near Threatened", "yellow-600", "Likely to become endangered in the near future"},
		{"lc", "green-600", "Widespread and abundant"},
		{"data deficient", "blue-500", "Not enough data to determine risk level"},
	}
	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := classification.StatusColor(tt.code); got != tt.color {
				t.Fatalf("StatusColor(%q) = %q, want %q", tt.code, got, tt.color)
			}
			if got := classification.StatusDescription(tt.code); got != tt.desc {
				t.Fatalf("StatusDescription(%q) = %q, want %q", tt.code, got, tt.desc)
			}
			if got := classification.StatusGuide(tt.code); got == classification.GenericGuide {
				t.Fatalf("StatusGuide(%q) returned the generic guide", tt.code)
			}
			if !classification.KnownStatusCode(tt.code) {
				t.Fatalf("KnownStatusCode(%q) = false", tt.code)
			}
		})
	}
}

func TestStatusTablesDefaultTriple(t *testing.T) {
	for _, code := range []string{"", "ne", "not evaluated", "XYZ", "lower risk"} {
		if got := classification.StatusDescription(code); got != "Conservation status not yet evaluated" {
			t.Fatalf("StatusDescription(%q) = %q", code, got)
		}
		if got := classification.StatusColor(code); got != "gray-500" {
			t.Fatalf("StatusColor(%q) = %q", code, got)
		}
		if got := classification.StatusGuide(code); got != classification.GenericGuide {
			t.Fatalf("StatusGuide(%q) = %q", code, got)
		}
	}
}

func TestStatusTablesDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if classification.StatusGuide("cr") != classification.StatusGuide("CR") {
			t.Fatal("guide must not depend on case")
		}
	}
}

func TestClimateForFamily(t *testing.T) {
	if got, ok := classification.ClimateForFamily("Cactaceae"); !ok || got != "Arid" {
		t.Fatalf("ClimateForFamily(Cactaceae) = %q, %v", got, ok)
	}
	if got, ok := classification.ClimateForFamily("Pinaceae"); !ok || got != "Temperate to Boreal" {
		t.Fatalf("ClimateForFamily(Pinaceae) = %q, %v", got, ok)
	}
	if _, ok := classification.ClimateForFamily("Rosaceae"); ok {
		t.Fatal("expected no climate for Rosaceae")
	}
	if _, ok := classification.ClimateForFamily(""); ok {
		t.Fatal("expected no climate for empty family")
	}
}
