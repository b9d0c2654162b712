package scraper

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"time"

	"ge-course-scraper/internal/browser"
	"ge-course-scraper/internal/entity"
)

// Extractor turns the rendered results page of a session into records.
type Extractor struct {
	Selectors Selectors
	// Timeout bounds the wait for the first result row.
	Timeout time.Duration
	// BaseURL resolves relative detail links.
	BaseURL *url.URL
}

func NewExtractor(entryURL string, selectors Selectors, timeout time.Duration) (*Extractor, error) {
	base, err := url.Parse(entryURL)
	if err != nil {
		return nil, fmt.Errorf("invalid entry url: %w", err)
	}
	return &Extractor{
		Selectors: selectors,
		Timeout:   timeout,
		BaseURL:   base,
	}, nil
}

// Extract reads every row of the current page. A single malformed row fails
// the whole page; ErrNoResults is returned when no row appears in time.
// Records carry no category; the job assigns it.
func (e *Extractor) Extract(ctx context.Context, session browser.Session, page int) ([]entity.CourseRecord, error) {
	rows, err := session.WaitFor(ctx, e.Selectors.Row, e.Timeout)
	if errors.Is(err, browser.ErrNavigationTimeout) {
		return nil, ErrNoResults
	}
	if err != nil {
		return nil, err
	}

	records := make([]entity.CourseRecord, 0, len(rows))
	for i, row := range rows {
		record, err := e.extractRow(ctx, session, row)
		if err != nil {
			var extractionErr *ExtractionError
			if errors.As(err, &extractionErr) {
				extractionErr.Page = page
				extractionErr.Row = i + 1
			}
			return nil, err
		}
		records = append(records, record)
	}
	return records, nil
}

func (e *Extractor) extractRow(ctx context.Context, session browser.Session, row browser.Element) (entity.CourseRecord, error) {
	var record entity.CourseRecord

	links, err := session.FindWithin(ctx, row, e.Selectors.Link)
	if err != nil {
		return record, err
	}
	if len(links) == 0 {
		return record, &ExtractionError{Reason: "missing course link"}
	}
	label, err := session.ReadText(ctx, links[0])
	if err != nil {
		return record, err
	}
	record.Code, record.Title = SplitCourseLabel(label)
	if record.Code == "" {
		return record, &ExtractionError{Reason: "empty course code"}
	}
	href, _, err := session.ReadAttribute(ctx, links[0], "href")
	if err != nil {
		return record, err
	}
	link, err := e.resolve(href)
	if err != nil {
		return record, &ExtractionError{Reason: "bad detail link", Err: err}
	}
	record.DetailLink = link

	cells, err := session.FindWithin(ctx, row, e.Selectors.Cell)
	if err != nil {
		return record, err
	}
	var haveNumber, haveInstructor, haveSeats bool
	for _, cell := range cells {
		text, err := session.ReadText(ctx, cell)
		if err != nil {
			return record, err
		}
		switch {
		case HasLabel(text, LabelClassNumber):
			record.EnrollmentID = StripLabel(text, LabelClassNumber)
			haveNumber = true
		case HasLabel(text, LabelInstructor):
			record.Instructor = NormalizeInstructor(text)
			haveInstructor = true
		case HasLabel(text, LabelLocation):
			record.Location = StripLabel(text, LabelLocation)
		case HasLabel(text, LabelSchedule):
			record.Schedule = StripLabel(text, LabelSchedule)
		case HasLabel(text, LabelMode):
			record.DeliveryMode = StripLabel(text, LabelMode)
		case IsSeatCell(text):
			enrolled, total, err := ParseSeats(text)
			if err != nil {
				return record, &ExtractionError{Reason: "bad seat counts", Err: err}
			}
			record.SeatsTotal = total
			record.SeatsAvailable = total - enrolled
			haveSeats = true
		}
	}

	switch {
	case !haveNumber:
		return record, &ExtractionError{Reason: "missing class number"}
	case !haveInstructor:
		return record, &ExtractionError{Reason: "missing instructor"}
	case !haveSeats:
		return record, &ExtractionError{Reason: "missing seat counts"}
	}
	return record, nil
}

func (e *Extractor) resolve(href string) (string, error) {
	ref, err := url.Parse(href)
	if err != nil {
		return "", err
	}
	if e.BaseURL == nil {
		return ref.String(), nil
	}
	return e.BaseURL.ResolveReference(ref).String(), nil
}
