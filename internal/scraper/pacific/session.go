package pacific

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/go-rod/stealth"
)

// loginWait bounds how long we wait for the post-login state. The site has
// no explicit success marker, so a timeout is treated as failure rather than
// silently proceeding.
const loginWait = 30 * time.Second

// Login submits the credentials through the site's login form and verifies
// the session reached an authenticated state.
func (s *Scraper) Login(ctx context.Context) error {
	log.Println("Logging in...")

	page, err := stealth.Page(s.Browser)
	if err != nil {
		return &AuthError{Reason: "could not open browser page", Err: err}
	}
	s.page = page

	page = page.Context(ctx)
	if err := page.Timeout(30 * time.Second).Navigate(s.Site.BaseURL + "/"); err != nil {
		return &AuthError{Reason: "could not reach login page", Err: err}
	}
	if err := page.Timeout(30 * time.Second).WaitLoad(); err != nil {
		return &AuthError{Reason: "login page did not finish loading", Err: err}
	}
	s.settle(1)

	user, err := page.Timeout(10 * time.Second).Element(`input[name="username"]`)
	if err != nil {
		return &AuthError{Reason: "login form not found", Err: err}
	}
	if err := user.Input(s.Site.Username); err != nil {
		return &AuthError{Reason: "could not fill username", Err: err}
	}
	pass, err := page.Timeout(10 * time.Second).Element(`input[name="password"]`)
	if err != nil {
		return &AuthError{Reason: "password field not found", Err: err}
	}
	if err := pass.Input(s.Site.Password); err != nil {
		return &AuthError{Reason: "could not fill password", Err: err}
	}
	submit, err := page.Timeout(10 * time.Second).Element(`[name="Submit"]`)
	if err != nil {
		return &AuthError{Reason: "submit control not found", Err: err}
	}
	if err := submit.Click(proto.InputMouseButtonLeft, 1); err != nil {
		return &AuthError{Reason: "could not submit login form", Err: err}
	}
	s.settle(1.5)

	// The login form disappearing is the only observable success signal.
	deadline := time.Now().Add(loginWait)
	for time.Now().Before(deadline) {
		if ctx.Err() != nil {
			return &AuthError{Reason: "interrupted while waiting for login", Err: ctx.Err()}
		}
		has, _, err := page.Has(`input[name="password"]`)
		if err == nil && !has {
			log.Println("Login OK")
			return nil
		}
		time.Sleep(500 * time.Millisecond)
	}
	return &AuthError{Reason: "still on login form after submit"}
}

// ExecuteSearch selects the named saved search and runs it. The entry URL is
// cache-busted with a timestamp and the results page is force-reloaded,
// because the site is known to serve stale cached views otherwise.
func (s *Scraper) ExecuteSearch(ctx context.Context, name string) error {
	if s.page == nil {
		return fmt.Errorf("execute search: no active session")
	}
	log.Printf("Checking saved search: %s", name)

	page := s.page.Context(ctx)
	entry := fmt.Sprintf("%s/auctions/?p=project/searchform&searchtype=max&s&ld&_=%d",
		s.Site.BaseURL, time.Now().Unix())
	if err := page.Timeout(30 * time.Second).Navigate(entry); err != nil {
		return fmt.Errorf("navigate to search form: %w", err)
	}
	if err := page.Timeout(30 * time.Second).WaitLoad(); err != nil {
		return fmt.Errorf("search form did not load: %w", err)
	}
	s.settle(1.5)

	markup, err := page.HTML()
	if err != nil {
		return fmt.Errorf("read search form markup: %w", err)
	}
	available := parseSearchOptions(markup)
	if !containsOption(available, name) {
		return &SearchNotFoundError{Name: name, Available: available}
	}

	sel, err := page.Timeout(10 * time.Second).Element(`select[name="search_id"]`)
	if err != nil {
		return fmt.Errorf("saved-search selector not found: %w", err)
	}
	if err := sel.Select([]string{name}, true, rod.SelectorTypeText); err != nil {
		return fmt.Errorf("select saved search %q: %w", name, err)
	}
	s.settle(0.5)

	if _, err := page.Eval(`() => startSearch('btnSearsh', searchform)`); err != nil {
		return fmt.Errorf("trigger search execution: %w", err)
	}
	s.settle(2)

	if err := page.Reload(); err != nil {
		return fmt.Errorf("force results reload: %w", err)
	}
	if err := page.Timeout(30 * time.Second).WaitLoad(); err != nil {
		return fmt.Errorf("results did not load after reload: %w", err)
	}
	s.settle(1.5)

	log.Println("Results loaded")
	return nil
}

func containsOption(options []string, name string) bool {
	for _, opt := range options {
		if opt == name {
			return true
		}
	}
	return false
}
