// Package browsertest provides an in-memory class search site and a
// browser.Session implementation over it, for tests that must not start Chrome.
package browsertest

import (
	"fmt"
	"html"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

const (
	EntryURL       = "https://classes.example.edu/class_search/index.php"
	SubmitSelector = "input[type='submit'][value='Search']"
	NextSelector   = "a[onclick*='next']"
)

// Row is one result row as the search page renders it.
type Row struct {
	Code        string
	Title       string
	Href        string
	ClassNumber string
	Instructor  string
	Enrolled    int
	Capacity    int
	Mode        string
	Schedule    string
	Location    string
}

// Site holds the pages a fake session can reach. Results are keyed by
// category; each entry is the list of result pages in order. Site is safe for
// concurrent use by many sessions.
type Site struct {
	Term       string
	Categories []string
	Results    map[string][]string

	// NavigateErr, when set, is returned by every Navigate.
	NavigateErr error
	// StuckNext makes the next control reload the current page instead of advancing.
	StuckNext bool
	// NextDelay keeps the clicked page in place for this long after the next
	// control is clicked, the way a slow page load does.
	NextDelay time.Duration

	mu       sync.Mutex
	sessions []*Session
	created  atomic.Int64
}

func NewSite(categories ...string) *Site {
	return &Site{
		Term:       "2024 Fall Quarter",
		Categories: categories,
		Results:    make(map[string][]string),
	}
}

// AddResults registers rows for a category split into pages of pageSize.
func (s *Site) AddResults(category string, pageSize int, rows ...Row) {
	var pages []string
	for start := 0; start < len(rows); start += pageSize {
		end := start + pageSize
		if end > len(rows) {
			end = len(rows)
		}
		pages = append(pages, ResultsPage(rows[start:end], end < len(rows)))
	}
	s.Results[category] = pages
}

// Sessions returns every session opened against the site.
func (s *Site) Sessions() []*Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*Session(nil), s.sessions...)
}

func (s *Site) Created() int {
	return int(s.created.Load())
}

func (s *Site) track(session *Session) {
	s.created.Add(1)
	s.mu.Lock()
	s.sessions = append(s.sessions, session)
	s.mu.Unlock()
}

// SearchForm renders the entry page with the term and category dropdowns.
func SearchForm(term string, categories []string) string {
	var b strings.Builder
	b.WriteString(`<html><body><form method="post">`)
	b.WriteString(`<select id="term_dropdown"><option value="2248" selected="selected">`)
	b.WriteString(html.EscapeString(term))
	b.WriteString(`</option><option value="2250">Older Quarter</option></select>`)
	b.WriteString(`<select id="ge"><option value="">All</option>`)
	for _, category := range categories {
		fmt.Fprintf(&b, `<option value="%s">%s</option>`, html.EscapeString(category), html.EscapeString(category))
	}
	b.WriteString(`</select><input type="submit" value="Search"></form></body></html>`)
	return b.String()
}

// ResultsPage renders one page of results, with a next control when hasNext.
func ResultsPage(rows []Row, hasNext bool) string {
	var b strings.Builder
	b.WriteString(`<html><body><div class="center-block">`)
	for _, row := range rows {
		b.WriteString(RowHTML(row))
	}
	if hasNext {
		b.WriteString(`<a href="#" onclick="return action_next();">next</a>`)
	}
	b.WriteString(`</div></body></html>`)
	return b.String()
}

// EmptyResultsPage is what the site shows when a search matches nothing.
func EmptyResultsPage() string {
	return `<html><body><div class="alert alert-warning">No classes found.</div></body></html>`
}

func RowHTML(row Row) string {
	var b strings.Builder
	b.WriteString(`<div class="panel panel-default row">`)
	href := row.Href
	if href == "" {
		href = "index.php?action=detail&class_data=" + row.ClassNumber
	}
	fmt.Fprintf(&b, `<div class="panel-heading"><h2><a href="%s">%s&nbsp;&nbsp;&nbsp;%s</a></h2></div>`,
		html.EscapeString(href), html.EscapeString(row.Code), html.EscapeString(row.Title))
	b.WriteString(`<div class="panel-body"><div class="row">`)
	fmt.Fprintf(&b, `<div class="col-xs-6 col-sm-3"><a>Class Number:</a> %s</div>`, html.EscapeString(row.ClassNumber))
	if row.Instructor != "" {
		fmt.Fprintf(&b, `<div class="col-xs-6 col-sm-3">Instructor:<br>%s</div>`, html.EscapeString(row.Instructor))
	}
	fmt.Fprintf(&b, `<div class="col-xs-6 col-sm-6">Location: %s</div>`, html.EscapeString(row.Location))
	fmt.Fprintf(&b, `<div class="col-xs-6 col-sm-6">Day and Time: %s</div>`, html.EscapeString(row.Schedule))
	fmt.Fprintf(&b, `<div class="col-xs-6 col-sm-3">%d of %d Enrolled</div>`, row.Enrolled, row.Capacity)
	fmt.Fprintf(&b, `<div class="col-xs-6 col-sm-3 hide-print">Instruction Mode: %s</div>`, html.EscapeString(row.Mode))
	b.WriteString(`</div></div></div>`)
	return b.String()
}
