package pacific

import (
	"context"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"LotMonitor/internal/models"
	"LotMonitor/internal/scraper"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
)

var (
	lotIDRe   = regexp.MustCompile(`id=(\d+)`)
	lotPrefix = "/auctions/?p=project/lot"
)

// pager abstracts "read the current results page and try to move to the next
// one" so the collection loop can be exercised without a browser.
type pager interface {
	PageHTML() (string, error)
	// NextPage advances to the next results page. It returns false when no
	// usable Next control exists, which is the only terminating condition.
	NextPage() (bool, error)
}

// CollectUnseenLots walks every results page of the current search and
// returns the refs whose lot id is absent from seen, in page/row order,
// together with the total number of rows inspected.
func (s *Scraper) CollectUnseenLots(ctx context.Context, seen scraper.Seen) ([]models.LotRef, int, error) {
	if s.page == nil {
		return nil, 0, fmt.Errorf("collect lots: no active session")
	}
	p := &rodPager{page: s.page.Context(ctx), settle: s.settle}
	return collectUnseenLots(p, s.Site.BaseURL, seen, s.Monitor.PageCap)
}

// collectUnseenLots is the dedup boundary: a ref is yielded at most once per
// run, and never if its id is already in the seen set. A page with zero rows
// does not terminate the walk; only the absence of a Next control (or the
// page cap) does.
func collectUnseenLots(p pager, baseURL string, seen scraper.Seen, pageCap int) ([]models.LotRef, int, error) {
	collected := make(map[string]bool)
	var refs []models.LotRef
	totalFound := 0

	for pageNum := 1; ; pageNum++ {
		if pageNum > pageCap {
			log.Printf("Page cap of %d hit, stopping with %d refs collected", pageCap, len(refs))
			return refs, totalFound, &PaginationOverrunError{Cap: pageCap}
		}

		markup, err := p.PageHTML()
		if err != nil {
			return refs, totalFound, fmt.Errorf("read results page %d: %w", pageNum, err)
		}

		rows := parseLotRows(baseURL, markup)
		totalFound += len(rows)
		newOnPage := 0
		for _, ref := range rows {
			if seen.Contains(ref.LotID) || collected[ref.LotID] {
				continue
			}
			collected[ref.LotID] = true
			refs = append(refs, ref)
			newOnPage++
		}
		log.Printf("    Page %d: %d rows, %d new", pageNum, len(rows), newOnPage)

		advanced, err := p.NextPage()
		if err != nil {
			return refs, totalFound, fmt.Errorf("advance past page %d: %w", pageNum, err)
		}
		if !advanced {
			log.Printf("    Total: %d lots found, %d new across %d page(s)", totalFound, len(refs), pageNum)
			return refs, totalFound, nil
		}
	}
}

// parseLotRows extracts (lot id, absolute URL) pairs from one results page.
// Rows without a resolvable id are skipped without error.
func parseLotRows(baseURL, markup string) []models.LotRef {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		log.Printf("Error parsing results page: %v", err)
		return nil
	}

	var refs []models.LotRef
	doc.Find("tr.ColorGreed1, tr.ColorGreed2").Each(func(_ int, row *goquery.Selection) {
		a := row.Find(`td[id^="bid_number_"] a`).First()
		if a.Length() == 0 {
			return
		}
		href, _ := a.Attr("href")
		if !strings.HasPrefix(href, lotPrefix) {
			return
		}
		m := lotIDRe.FindStringSubmatch(href)
		if m == nil {
			return
		}
		refs = append(refs, models.LotRef{LotID: m[1], URL: baseURL + href})
	})
	return refs
}

// rodPager reads pages and clicks the Next control through the live session.
type rodPager struct {
	page   *rod.Page
	settle func(float64)
}

func (rp *rodPager) PageHTML() (string, error) {
	return rp.page.HTML()
}

func (rp *rodPager) NextPage() (bool, error) {
	next, err := rp.page.Timeout(5 * time.Second).ElementX(`//a[contains(text(), 'Next')]`)
	if err != nil {
		return false, nil
	}
	if visible, err := next.Visible(); err != nil || !visible {
		return false, nil
	}
	if disabled, err := next.Property("disabled"); err != nil || disabled.Bool() {
		return false, nil
	}
	if err := next.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return false, fmt.Errorf("click next control: %w", err)
	}
	rp.settle(1)
	return true, nil
}
