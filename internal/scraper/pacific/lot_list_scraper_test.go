package pacific

import (
	"errors"
	"fmt"
	"testing"
)

const baseURL = "https://auction.example.com"

// seenSet is a minimal in-memory stand-in for the seen store.
type seenSet map[string]bool

func (s seenSet) Contains(id string) bool { return s[id] }

// fakePager serves a fixed sequence of page fixtures.
type fakePager struct {
	pages    []string
	index    int
	advances int
}

func (p *fakePager) PageHTML() (string, error) {
	return p.pages[p.index], nil
}

func (p *fakePager) NextPage() (bool, error) {
	if p.index+1 >= len(p.pages) {
		return false, nil
	}
	p.index++
	p.advances++
	return true, nil
}

func resultsPage(rows ...string) string {
	page := "<html><body><table>"
	for _, r := range rows {
		page += r
	}
	return page + "</table></body></html>"
}

func lotRow(id string) string {
	return fmt.Sprintf(
		`<tr class="ColorGreed1"><td id="bid_number_%s"><a href="/auctions/?p=project/lot&id=%s">%s</a></td></tr>`,
		id, id, id)
}

func TestParseLotRows(t *testing.T) {
	page := resultsPage(
		lotRow("1001"),
		// row without a lot cell is skipped
		`<tr class="ColorGreed2"><td>junk</td></tr>`,
		// link outside the lot namespace is skipped
		`<tr class="ColorGreed1"><td id="bid_number_x"><a href="/auctions/?p=project/help">?</a></td></tr>`,
		// link with no numeric id is skipped
		`<tr class="ColorGreed2"><td id="bid_number_y"><a href="/auctions/?p=project/lot&ref=abc">?</a></td></tr>`,
		lotRow("1002"),
	)

	refs := parseLotRows(baseURL, page)
	if len(refs) != 2 {
		t.Fatalf("expected 2 refs, got %d: %+v", len(refs), refs)
	}
	if refs[0].LotID != "1001" || refs[1].LotID != "1002" {
		t.Errorf("wrong ids or order: %+v", refs)
	}
	want := baseURL + "/auctions/?p=project/lot&id=1001"
	if refs[0].URL != want {
		t.Errorf("URL = %q; want %q", refs[0].URL, want)
	}
}

func TestCollectTerminatesAfterLastPage(t *testing.T) {
	p := &fakePager{pages: []string{
		resultsPage(lotRow("1")),
		resultsPage(lotRow("2")),
		resultsPage(lotRow("3")),
	}}

	refs, total, err := collectUnseenLots(p, baseURL, seenSet{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.advances != 2 {
		t.Errorf("advanced %d times; want 2", p.advances)
	}
	if total != 3 || len(refs) != 3 {
		t.Errorf("total=%d refs=%d; want 3 and 3", total, len(refs))
	}
}

func TestCollectFiltersSeenIdentifiers(t *testing.T) {
	p := &fakePager{pages: []string{
		resultsPage(lotRow("10"), lotRow("11")),
		resultsPage(lotRow("12"), lotRow("10")), // 10 repeats across pages
	}}
	seen := seenSet{"11": true}

	refs, total, err := collectUnseenLots(p, baseURL, seen, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if total != 4 {
		t.Errorf("total rows = %d; want 4", total)
	}
	if len(refs) != 2 {
		t.Fatalf("expected 2 unseen refs, got %+v", refs)
	}
	if refs[0].LotID != "10" || refs[1].LotID != "12" {
		t.Errorf("wrong refs or order: %+v", refs)
	}
	for _, ref := range refs {
		if seen.Contains(ref.LotID) {
			t.Errorf("seen id %s was yielded", ref.LotID)
		}
	}
}

func TestCollectSecondRunYieldsNothing(t *testing.T) {
	pages := []string{resultsPage(lotRow("21"), lotRow("22"))}

	first, _, err := collectUnseenLots(&fakePager{pages: pages}, baseURL, seenSet{}, 10)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	seen := seenSet{}
	for _, ref := range first {
		seen[ref.LotID] = true
	}

	second, _, err := collectUnseenLots(&fakePager{pages: pages}, baseURL, seen, 10)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if len(second) != 0 {
		t.Errorf("second run against unchanged listing yielded %d refs; want 0", len(second))
	}
}

func TestCollectEmptyPageDoesNotTerminate(t *testing.T) {
	p := &fakePager{pages: []string{
		resultsPage(lotRow("31")),
		resultsPage(), // legitimately empty page in the middle
		resultsPage(lotRow("32")),
	}}

	refs, _, err := collectUnseenLots(p, baseURL, seenSet{}, 10)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(refs) != 2 {
		t.Errorf("expected rows past the empty page, got %+v", refs)
	}
}

func TestCollectOverrunReturnsPartialResults(t *testing.T) {
	// Pager that always has a next page.
	p := &loopingPager{page: resultsPage(lotRow("41"))}

	refs, _, err := collectUnseenLots(p, baseURL, seenSet{}, 3)
	var overrun *PaginationOverrunError
	if !errors.As(err, &overrun) {
		t.Fatalf("expected PaginationOverrunError, got %v", err)
	}
	if overrun.Cap != 3 {
		t.Errorf("overrun cap = %d; want 3", overrun.Cap)
	}
	if len(refs) != 1 {
		t.Errorf("partial refs lost on overrun: %+v", refs)
	}
}

type loopingPager struct {
	page string
}

func (p *loopingPager) PageHTML() (string, error) { return p.page, nil }
func (p *loopingPager) NextPage() (bool, error)   { return true, nil }
