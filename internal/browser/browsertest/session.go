package browsertest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"ge-course-scraper/internal/browser"

	"github.com/PuerkitoBio/goquery"
)

// ErrClosed is returned by every call on a closed Session.
var ErrClosed = errors.New("session closed")

// Session is a browser.Session whose documents are goquery trees rendered
// from a Site. Waits never sleep: a selector that does not match is reported
// as a timeout straight away.
type Session struct {
	site *Site

	mu       sync.Mutex
	doc      *goquery.Document
	pending  *goquery.Document
	swapAt   time.Time
	category string
	page     int
	closed   bool
	inUse    bool
	visited  []string
}

// Factory returns a browser.Factory producing sessions on site.
func (s *Site) Factory() browser.Factory {
	return func(ctx context.Context) (browser.Session, error) {
		return s.NewSession(), nil
	}
}

func (s *Site) NewSession() *Session {
	session := &Session{site: s}
	s.track(session)
	return session
}

func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// Visited lists the result pages shown, as "category#page".
func (s *Session) Visited() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.visited...)
}

// enter marks the session busy and fails on concurrent use, which a pool
// must never allow.
func (s *Session) enter() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	if s.inUse {
		panic("browsertest: session used concurrently")
	}
	s.inUse = true
	return nil
}

func (s *Session) exit() {
	s.mu.Lock()
	s.inUse = false
	s.mu.Unlock()
}

func (s *Session) load(page string) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return err
	}
	s.doc = doc
	s.pending = nil
	return nil
}

// loadAfter replaces the document once delay has passed.
func (s *Session) loadAfter(page string, delay time.Duration) error {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page))
	if err != nil {
		return err
	}
	s.pending = doc
	s.swapAt = time.Now().Add(delay)
	return nil
}

func (s *Session) swapIfDue() {
	if s.pending != nil && !time.Now().Before(s.swapAt) {
		s.doc = s.pending
		s.pending = nil
	}
}

func (s *Session) Navigate(ctx context.Context, url string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.site.NavigateErr != nil {
		return s.site.NavigateErr
	}
	s.category = ""
	s.page = 0
	return s.load(SearchForm(s.site.Term, s.site.Categories))
}

func (s *Session) WaitFor(ctx context.Context, selector string, timeout time.Duration) ([]browser.Element, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.exit()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	found := s.find(selector)
	if len(found) == 0 {
		return nil, &browser.TimeoutError{Selector: selector, Timeout: timeout}
	}
	return found, nil
}

func (s *Session) find(selector string) []browser.Element {
	s.swapIfDue()
	if s.doc == nil {
		return nil
	}
	return wrap(s.doc.Find(selector))
}

func wrap(selection *goquery.Selection) []browser.Element {
	elements := make([]browser.Element, 0, selection.Length())
	selection.Each(func(_ int, node *goquery.Selection) {
		elements = append(elements, browser.NewElement(node))
	})
	return elements
}

func selectionOf(el browser.Element) (*goquery.Selection, error) {
	selection, ok := el.Ref().(*goquery.Selection)
	if !ok || selection == nil {
		return nil, fmt.Errorf("element %T does not belong to a browsertest session", el.Ref())
	}
	return selection, nil
}

func (s *Session) FindWithin(ctx context.Context, el browser.Element, selector string) ([]browser.Element, error) {
	if err := s.enter(); err != nil {
		return nil, err
	}
	defer s.exit()
	parent, err := selectionOf(el)
	if err != nil {
		return nil, err
	}
	return wrap(parent.Find(selector)), nil
}

// Click understands the search form's submit button and the results' next
// control; any other matching selector is a no-op. With Site.NextDelay set,
// the page shown after next only appears once the delay has passed.
func (s *Session) Click(ctx context.Context, selector string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()
	return s.click(ctx, selector)
}

// ClickNavigate clicks like Click and then waits for the new page to replace
// the current one.
func (s *Session) ClickNavigate(ctx context.Context, selector string, timeout time.Duration) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()
	if err := s.click(ctx, selector); err != nil {
		return err
	}
	if s.pending == nil {
		return nil
	}

	wait := time.Until(s.swapAt)
	expired := false
	if timeout > 0 && wait > timeout {
		wait, expired = timeout, true
	}
	timer := time.NewTimer(wait)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
	}
	if expired {
		return &browser.TimeoutError{Selector: selector, Timeout: timeout}
	}
	s.doc, s.pending = s.pending, nil
	return nil
}

func (s *Session) click(ctx context.Context, selector string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if len(s.find(selector)) == 0 {
		return &browser.TimeoutError{Selector: selector}
	}
	switch selector {
	case SubmitSelector:
		s.page = 0
		return s.showResults(0)
	case NextSelector:
		if !s.site.StuckNext {
			s.page++
		}
		return s.showResults(s.site.NextDelay)
	}
	return nil
}

func (s *Session) showResults(delay time.Duration) error {
	page := EmptyResultsPage()
	if pages := s.site.Results[s.category]; s.page < len(pages) {
		s.visited = append(s.visited, fmt.Sprintf("%s#%d", s.category, s.page+1))
		page = pages[s.page]
	}
	if delay > 0 {
		return s.loadAfter(page, delay)
	}
	return s.load(page)
}

func (s *Session) SelectOption(ctx context.Context, selector, value string) error {
	if err := s.enter(); err != nil {
		return err
	}
	defer s.exit()
	if s.doc == nil {
		return &browser.TimeoutError{Selector: selector}
	}
	options := s.doc.Find(selector).Find("option").FilterFunction(func(_ int, option *goquery.Selection) bool {
		v, _ := option.Attr("value")
		return v == value
	})
	if options.Length() == 0 {
		return &browser.TimeoutError{Selector: fmt.Sprintf("%s option[value=%q]", selector, value)}
	}
	s.category = value
	return nil
}

func (s *Session) ReadText(ctx context.Context, el browser.Element) (string, error) {
	if err := s.enter(); err != nil {
		return "", err
	}
	defer s.exit()
	selection, err := selectionOf(el)
	if err != nil {
		return "", err
	}
	return selection.Text(), nil
}

func (s *Session) ReadAttribute(ctx context.Context, el browser.Element, name string) (string, bool, error) {
	if err := s.enter(); err != nil {
		return "", false, err
	}
	defer s.exit()
	selection, err := selectionOf(el)
	if err != nil {
		return "", false, err
	}
	value, ok := selection.Attr(name)
	return value, ok, nil
}

func (s *Session) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
