package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"LotMonitor/internal/database"
	"LotMonitor/internal/models"
	"LotMonitor/internal/notify"
	"LotMonitor/internal/scraper"
	"LotMonitor/internal/scraper/pacific"
	"LotMonitor/internal/seenstore"
	"LotMonitor/internal/vision"
	"LotMonitor/pkg/config"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// App is the main application structure holding all dependencies.
type App struct {
	Config  *config.Config
	Seen    *seenstore.Store
	History *database.DBRepository
}

// New creates a new application instance with all initial settings.
func New(configPath string) *App {
	cfg := config.LoadConfig(configPath)
	return &App{
		Config:  cfg,
		Seen:    seenstore.Load(cfg.Monitor.SeenFile),
		History: database.InitDB(cfg.Monitor.HistoryDB),
	}
}

// Close releases the history database.
func (a *App) Close() {
	a.History.Close()
}

// RunPass executes one full monitoring pass: login, run every configured
// saved search, enrich unseen lots, notify, persist. The seen set and the
// browser are released on every exit path, including interrupts.
func (a *App) RunPass(ctx context.Context) error {
	log.Printf("--- Starting Monitoring Pass (%d known lots) ---", a.Seen.Len())

	runID, err := a.History.StartRun(a.Config.Site.Searches)
	if err != nil {
		log.Printf("History: could not record run start: %v", err)
	}

	u := launcher.New().Headless(a.Config.Monitor.Headless).MustLaunch()
	browser := rod.New().ControlURL(u).MustConnect()
	defer browser.MustClose()

	// Seen-set progress must survive any abort so already-notified lots are
	// never re-notified on the next run.
	defer func() {
		if err := a.Seen.Persist(); err != nil {
			log.Printf("Failed to persist seen set: %v", err)
		} else {
			log.Printf("Seen set persisted (%d lots)", a.Seen.Len())
		}
	}()

	summarizer := vision.NewClient(
		a.Config.Vision.ApiURL, a.Config.Vision.ApiKey,
		a.Config.Vision.Model, a.Config.Vision.MaxTokens,
	)
	var site scraper.Scraper = pacific.New(browser, a.Config.Site, a.Config.Monitor, summarizer)

	if err := site.Login(ctx); err != nil {
		return fmt.Errorf("establish session: %w", err)
	}

	var lots []*models.LotDetail
	totalFound := 0
	for _, search := range a.Config.Site.Searches {
		if ctx.Err() != nil {
			break
		}

		if err := site.ExecuteSearch(ctx, search); err != nil {
			var notFound *pacific.SearchNotFoundError
			if errors.As(err, &notFound) {
				log.Printf("Skipping search %q: %v", search, err)
			} else {
				log.Printf("Search %q failed: %v", search, err)
			}
			continue
		}

		refs, found, err := site.CollectUnseenLots(ctx, a.Seen)
		totalFound += found
		if err != nil {
			var overrun *pacific.PaginationOverrunError
			if errors.As(err, &overrun) {
				// Partial results are still processed.
				log.Printf("Search %q overran the page cap; keeping %d collected refs", search, len(refs))
			} else {
				log.Printf("Collecting results for %q stopped early: %v (keeping %d refs)", search, err, len(refs))
			}
		}
		log.Printf("Search %q: %d new lots", search, len(refs))

		for _, ref := range refs {
			if ctx.Err() != nil {
				break
			}
			detail, err := site.ScrapeLotDetails(ctx, ref)
			if err != nil {
				// Not marked seen, so the lot is retried on the next run.
				log.Printf("Failed to enrich lot %s: %v", ref.LotID, err)
				continue
			}
			lots = append(lots, detail)
			a.Seen.Add(ref.LotID)
		}
	}

	report := &notify.Report{}
	if len(lots) == 0 {
		log.Println("No new lots.")
	} else {
		notifier := notify.New(notify.NewTwilioSender(a.Config.Twilio), a.Config.Twilio)
		report = notifier.Deliver(ctx, lots)
	}

	for _, d := range report.Deliveries {
		if err := a.History.RecordDelivery(runID, d.LotID, d.Recipient, d.MediaAttached, d.Err); err != nil {
			log.Printf("History: could not record delivery: %v", err)
		}
	}
	if err := a.History.FinishRun(runID, totalFound, len(lots), report.Sent(), report.Failed()); err != nil {
		log.Printf("History: could not record run end: %v", err)
	}

	log.Printf("--- Monitoring Pass Finished: %d rows inspected, %d new lots, %d/%d messages delivered ---",
		totalFound, len(lots), report.Sent(), len(report.Deliveries))
	return nil
}

// PrintHistory logs the most recent runs from the history database.
func (a *App) PrintHistory(limit int) {
	runs, err := a.History.RecentRuns(limit)
	if err != nil {
		log.Printf("Could not read run history: %v", err)
		return
	}
	if len(runs) == 0 {
		log.Println("No recorded runs yet.")
		return
	}
	for _, r := range runs {
		log.Printf("run #%d  %s  searches=[%s]  found=%d new=%d sent=%d failed=%d",
			r.ID, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Searches, r.LotsFound, r.LotsNew, r.Sent, r.Failed)
	}
}
