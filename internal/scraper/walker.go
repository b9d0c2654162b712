package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ge-course-scraper/internal/browser"
	"ge-course-scraper/internal/entity"
	"ge-course-scraper/internal/logger"
)

type walkState int

const (
	stateOnPage walkState = iota
	stateAdvancing
	stateExhausted
	stateFailed
)

func (s walkState) String() string {
	switch s {
	case stateOnPage:
		return "on_page"
	case stateAdvancing:
		return "advancing"
	case stateExhausted:
		return "exhausted"
	default:
		return "failed"
	}
}

const DefaultMaxPages = 100

// Walker drives a session through the result pages of one search.
type Walker struct {
	Extractor *Extractor
	Next      string
	// NextTimeout bounds the lookup of the next control.
	NextTimeout time.Duration
	// LoadTimeout bounds the page load a next click starts.
	LoadTimeout time.Duration
	// MaxPages caps pagination in case the next control never goes away.
	MaxPages int
}

// WalkResult is what a walk collected and how it ended.
type WalkResult struct {
	Records []entity.CourseRecord
	Pages   int
	// Err is set when the walk ended in the failed state; Records still
	// holds every page extracted before the failure.
	Err error
}

func (w *Walker) maxPages() int {
	if w.MaxPages <= 0 {
		return DefaultMaxPages
	}
	return w.MaxPages
}

// Walk extracts the current page and follows the next control until it is
// absent. Extraction failures keep the pages already collected.
func (w *Walker) Walk(ctx context.Context, session browser.Session) WalkResult {
	var (
		result    WalkResult
		state     = stateOnPage
		page      = 1
		lastFirst string
	)
	log := logger.With("component", "walker")

	for {
		switch state {
		case stateOnPage:
			records, err := w.Extractor.Extract(ctx, session, page)
			if errors.Is(err, ErrNoResults) && page == 1 {
				state = stateExhausted
				continue
			}
			if err != nil {
				result.Err = err
				state = stateFailed
				continue
			}
			first := pageSignature(records)
			if page > 1 && first == lastFirst {
				log.Warn().Int("page", page).Msg("next control did not advance, stopping")
				state = stateExhausted
				continue
			}
			lastFirst = first
			result.Records = append(result.Records, records...)
			result.Pages = page
			if page >= w.maxPages() {
				log.Warn().Int("max_pages", w.maxPages()).Msg("page limit reached, stopping")
				state = stateExhausted
				continue
			}
			if _, err := session.WaitFor(ctx, w.Next, w.NextTimeout); err != nil {
				if !errors.Is(err, browser.ErrNavigationTimeout) {
					result.Err = err
					state = stateFailed
					continue
				}
				state = stateExhausted
				continue
			}
			state = stateAdvancing

		case stateAdvancing:
			if err := session.ClickNavigate(ctx, w.Next, w.LoadTimeout); err != nil {
				result.Err = fmt.Errorf("advancing past page %d: %w", page, err)
				state = stateFailed
				continue
			}
			page++
			state = stateOnPage

		case stateExhausted:
			log.Debug().Stringer("state", state).Int("pages", result.Pages).Int("records", len(result.Records)).Msg("pagination exhausted")
			return result

		case stateFailed:
			log.Warn().Err(result.Err).Stringer("state", state).Int("page", page).Int("records", len(result.Records)).Msg("pagination failed")
			return result
		}
	}
}

func pageSignature(records []entity.CourseRecord) string {
	if len(records) == 0 {
		return ""
	}
	return records[0].EnrollmentID + "|" + records[0].Code
}
