package models

import (
	"strings"
	"time"
)

// Unavailable marks a field whose source label was absent on the detail page.
const Unavailable = "N/A"

// NoReportImage is recorded when a lot carries no inspection-report image at
// all. It is distinct from the vision error marker so the notifier can tell
// "nothing to report" apart from "report failed".
const NoReportImage = "No report image found."

// LotRef points at a single auction lot discovered on a results page.
type LotRef struct {
	LotID string
	URL   string
}

// LotDetail holds everything extracted from a lot's detail page. Every field
// is best-effort: a missing source field degrades to Unavailable instead of
// failing the lot.
type LotDetail struct {
	LotID          string
	Model          string
	Mileage        string
	ScoreOverall   string
	ScoreSecondary string
	Interior       string
	Exterior       string
	Fuel           string
	StartPrice     string
	ReportSummary  string
	PhotoURL       string
	URL            string
	ScrapedAt      time.Time
}

// HasDamageSummary reports whether ReportSummary carries a real damage
// summary rather than the no-image marker or a summarizer error.
func (d *LotDetail) HasDamageSummary() bool {
	s := strings.TrimSpace(d.ReportSummary)
	if s == "" || s == NoReportImage {
		return false
	}
	return !strings.Contains(strings.ToLower(s), "error")
}

// HasPhoto reports whether a display photo was found on the detail page.
func (d *LotDetail) HasPhoto() bool {
	return d.PhotoURL != "" && d.PhotoURL != Unavailable
}
