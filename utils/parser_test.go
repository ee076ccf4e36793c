package utils

import "testing"

func TestSplitScores(t *testing.T) {
	testCases := []struct {
		name              string
		input             string
		overall, secondary string
	}{
		{"Score with grade", "3.5/E", "3.5", "E"},
		{"Score only", "4", "4", ""},
		{"Spaced segments", " 4.5 / D ", "4.5", "D"},
		{"Grade missing after slash", "3/", "3", ""},
		{"Empty", "", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			overall, secondary := SplitScores(tc.input)
			if overall != tc.overall || secondary != tc.secondary {
				t.Errorf("SplitScores(%q) = (%q, %q); want (%q, %q)",
					tc.input, overall, secondary, tc.overall, tc.secondary)
			}
		})
	}
}

func TestNormalizeMileage(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Thousands separator", "120 000", "120000"},
		{"Already clean", "85000", "85000"},
		{"Leading and trailing space", " 42 500 ", "42500"},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizeMileage(tc.input); got != tc.expected {
				t.Errorf("NormalizeMileage(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestNormalizePrice(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Starred currency token", "250 000 JPY*", "250000"},
		{"Plain currency token", "90 000 JPY", "90000"},
		{"No token", "150000", "150000"},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := NormalizePrice(tc.input); got != tc.expected {
				t.Errorf("NormalizePrice(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestCanonicalFuel(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{"Gasoline", "GASOLINE", "Gas"},
		{"Diesel lowercase", "diesel", "Die"},
		{"Hybrid mixed case", "hYbRiD", "Hyb"},
		{"Short value kept", "LP", "Lp"},
		{"Empty", "", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CanonicalFuel(tc.input); got != tc.expected {
				t.Errorf("CanonicalFuel(%q) = %q; want %q", tc.input, got, tc.expected)
			}
		})
	}
}

func TestTruncate(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		max      int
		expected string
	}{
		{"Under limit", "hello", 10, "hello"},
		{"At limit", "hello", 5, "hello"},
		{"Over limit", "hello world", 8, "hello w…"},
		{"No limit", "hello world", 0, "hello world"},
		{"Negative means no limit", "hello", -1, "hello"},
		{"Multibyte safe", "¥¥¥¥¥", 3, "¥¥…"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Truncate(tc.input, tc.max); got != tc.expected {
				t.Errorf("Truncate(%q, %d) = %q; want %q", tc.input, tc.max, got, tc.expected)
			}
		})
	}
}
