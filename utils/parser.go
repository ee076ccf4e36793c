package utils

import "strings"

// SplitScores splits the combined auction "Scores" field into the overall
// score and the secondary letter grade. "3.5/E" yields ("3.5", "E"); a value
// without a delimiter is entirely the overall score and secondary is empty.
func SplitScores(s string) (overall, secondary string) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ""
	}
	overall, secondary, found := strings.Cut(s, "/")
	if !found {
		return strings.TrimSpace(overall), ""
	}
	return strings.TrimSpace(overall), strings.TrimSpace(secondary)
}

// NormalizeMileage strips the thousands-separator spaces the site inserts
// into mileage values ("120 000" -> "120000").
func NormalizeMileage(s string) string {
	return strings.ReplaceAll(strings.TrimSpace(s), " ", "")
}

// NormalizePrice strips internal spaces and currency-unit tokens from a
// starting-price value ("250 000 JPY*" -> "250000").
func NormalizePrice(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	s = strings.ReplaceAll(s, "JPY*", "")
	s = strings.ReplaceAll(s, "JPY", "")
	return strings.TrimSpace(s)
}

// CanonicalFuel shortens free-text fuel values to the three-letter canonical
// form used in notifications: "GASOLINE" -> "Gas", "diesel" -> "Die".
func CanonicalFuel(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	runes := []rune(strings.ToLower(s))
	runes[0] = []rune(strings.ToUpper(string(runes[0])))[0]
	if len(runes) > 3 {
		runes = runes[:3]
	}
	return string(runes)
}
