package scraper

import (
	"context"

	"LotMonitor/internal/models"
)

// Seen is the read side of the dedup state consulted during pagination.
type Seen interface {
	Contains(id string) bool
}

// Scraper defines the behavior any auction-site implementation must provide.
// It ensures that a new site (e.g., a second auction house) follows the same
// session -> search -> paginate -> enrich structure.
type Scraper interface {
	// Login drives the site to an authenticated state. All later calls
	// reuse the same session.
	Login(ctx context.Context) error

	// ExecuteSearch selects and runs a saved search by its display name,
	// leaving the session on the first results page.
	ExecuteSearch(ctx context.Context, name string) error

	// CollectUnseenLots walks every results page and returns the refs whose
	// identifier is absent from seen, in page/row order, together with the
	// total number of rows inspected.
	CollectUnseenLots(ctx context.Context, seen Seen) ([]models.LotRef, int, error)

	// ScrapeLotDetails fetches a lot's detail page and fills in a LotDetail.
	// Individual missing fields degrade to defaults rather than failing.
	ScrapeLotDetails(ctx context.Context, ref models.LotRef) (*models.LotDetail, error)
}
