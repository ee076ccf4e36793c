package pacific

import (
	"strings"
	"time"

	"LotMonitor/internal/scraper"
	"LotMonitor/internal/vision"
	"LotMonitor/pkg/config"

	"github.com/go-rod/rod"
)

// Scraper drives the Pacific Coast JDM auction site through a single browser
// session. The browser carries the login cookies, so every operation after
// Login must go through the same instance.
type Scraper struct {
	Browser *rod.Browser
	Site    config.SiteConfig
	Monitor config.MonitorConfig
	Vision  vision.Summarizer

	page *rod.Page
}

var _ scraper.Scraper = (*Scraper)(nil)

// New creates a scraper bound to an already-connected browser.
func New(browser *rod.Browser, siteConf config.SiteConfig, monitorConf config.MonitorConfig, summarizer vision.Summarizer) *Scraper {
	siteConf.BaseURL = strings.TrimRight(siteConf.BaseURL, "/")
	return &Scraper{
		Browser: browser,
		Site:    siteConf,
		Monitor: monitorConf,
		Vision:  summarizer,
	}
}

// settle blocks long enough for the site's client-side rendering to finish.
// The multiplier scales the configured base delay for heavier actions.
func (s *Scraper) settle(mult float64) {
	time.Sleep(time.Duration(float64(s.Monitor.SettleDelay()) * mult))
}
