package pacific

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"LotMonitor/internal/models"
	"LotMonitor/utils"

	"github.com/PuerkitoBio/goquery"
)

var mainPhotoRe = regexp.MustCompile(`/1\.jpg`)

// ScrapeLotDetails fetches a lot's detail page and extracts the spec table,
// the main display photo and the inspection-report summary. Every field is
// resolved independently; a missing label is never a hard failure.
func (s *Scraper) ScrapeLotDetails(ctx context.Context, ref models.LotRef) (*models.LotDetail, error) {
	if s.page == nil {
		return nil, fmt.Errorf("scrape lot details: no active session")
	}
	log.Printf("  -> lot %s", ref.LotID)

	page := s.page.Context(ctx)
	if err := page.Timeout(30 * time.Second).Navigate(ref.URL); err != nil {
		return nil, fmt.Errorf("navigate to lot %s: %w", ref.LotID, err)
	}
	if err := page.Timeout(30 * time.Second).WaitLoad(); err != nil {
		return nil, fmt.Errorf("lot page %s did not load: %w", ref.LotID, err)
	}
	s.settle(1.5)

	markup, err := page.HTML()
	if err != nil {
		return nil, fmt.Errorf("read lot page %s: %w", ref.LotID, err)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("parse lot page %s: %w", ref.LotID, err)
	}

	data := parseSpecTable(doc)
	overall, secondary := utils.SplitScores(fieldOr(data, "Scores", models.Unavailable))
	if secondary == "" {
		secondary = models.Unavailable
	}
	// Some listings only encode the exterior grade inside the combined
	// Scores field.
	exterior := fieldOr(data, "Exterior score", models.Unavailable)
	if exterior == models.Unavailable {
		exterior = secondary
	}

	detail := &models.LotDetail{
		LotID:          ref.LotID,
		URL:            ref.URL,
		Model:          fieldOr(data, "Grade", models.Unavailable),
		Mileage:        normalized(data, "Mileage, km.", utils.NormalizeMileage),
		ScoreOverall:   overall,
		ScoreSecondary: secondary,
		Interior:       fieldOr(data, "Interior score", models.Unavailable),
		Exterior:       exterior,
		Fuel:           normalized(data, "fuel", utils.CanonicalFuel),
		StartPrice:     normalized(data, "Start price", utils.NormalizePrice),
		PhotoURL:       mainPhotoURL(doc),
		ScrapedAt:      time.Now(),
	}
	detail.ReportSummary = s.summarizeReport(ctx, doc)

	return detail, nil
}

// summarizeReport resolves the inspection image and runs the vision
// summarizer on it. The call is isolated: any summarizer failure degrades to
// an error marker instead of aborting the lot.
func (s *Scraper) summarizeReport(ctx context.Context, doc *goquery.Document) string {
	raw := reportImageURL(doc)
	if raw == "" {
		return models.NoReportImage
	}

	full := fullSizeReportURL(raw)
	log.Printf("    -> Analyzing inspection report: %s", full)
	summary, err := s.Vision.SummarizeDamage(ctx, full)
	if err != nil {
		log.Printf("    -> Vision summarizer failed: %v", err)
		return "vision error: " + utils.Truncate(err.Error(), 50)
	}
	return strings.TrimSpace(summary)
}

// parseSpecTable builds a label -> value map from the detail page's spec
// table. Labels sit in ColorCell_1 cells; the value is the next sibling cell.
func parseSpecTable(doc *goquery.Document) map[string]string {
	data := make(map[string]string)
	doc.Find("table.Verdana12px tr td.ColorCell_1").Each(func(_ int, cell *goquery.Selection) {
		label := strings.TrimSuffix(strings.TrimSpace(cell.Text()), ":")
		if label == "" {
			return
		}
		value := cell.Next()
		if value.Length() > 0 {
			data[label] = strings.TrimSpace(value.Text())
		}
	})
	return data
}

// reportImageURL returns the inspection-report image reference, preferring
// the lazy-load attribute the site uses for the real source.
func reportImageURL(doc *goquery.Document) string {
	img := doc.Find("img#url_img_0").First()
	if img.Length() == 0 {
		return ""
	}
	if v, ok := img.Attr("load_src"); ok && v != "" {
		return v
	}
	if v, ok := img.Attr("src"); ok {
		return v
	}
	return ""
}

// fullSizeReportURL strips the thumbnail height marker so the vision service
// receives the full-resolution scan.
func fullSizeReportURL(u string) string {
	u = strings.ReplaceAll(u, "&h=96", "")
	return strings.ReplaceAll(u, "h=96", "")
}

// mainPhotoURL finds the display photo, a distinctly-named image resource
// independent of the inspection report.
func mainPhotoURL(doc *goquery.Document) string {
	photo := models.Unavailable
	doc.Find("img").EachWithBreak(func(_ int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || !mainPhotoRe.MatchString(src) {
			return true
		}
		if v, ok := img.Attr("load_src"); ok && v != "" {
			photo = v
		} else {
			photo = src
		}
		return false
	})
	return photo
}

func fieldOr(data map[string]string, label, fallback string) string {
	if v, ok := data[label]; ok && strings.TrimSpace(v) != "" {
		return v
	}
	return fallback
}

// normalized applies norm to a field only when its label is present, so the
// Unavailable marker is never mangled by a normalizer.
func normalized(data map[string]string, label string, norm func(string) string) string {
	v, ok := data[label]
	if !ok || strings.TrimSpace(v) == "" {
		return models.Unavailable
	}
	return norm(v)
}
