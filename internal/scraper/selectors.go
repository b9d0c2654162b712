package scraper

import "time"

// Selectors locate the controls of the class search form and its results.
type Selectors struct {
	Term     string
	Category string
	Submit   string
	Row      string
	Link     string
	Cell     string
	Next     string
}

func DefaultSelectors() Selectors {
	return Selectors{
		Term:     "#term_dropdown option[selected]",
		Category: "#ge",
		Submit:   "input[type='submit'][value='Search']",
		Row:      "div.panel.panel-default.row",
		Link:     "a[href]",
		Cell:     "div.col-xs-6",
		Next:     "a[onclick*='next']",
	}
}

// Timeouts bound every wait a category job performs.
type Timeouts struct {
	// Form bounds waits on the search form controls.
	Form time.Duration
	// Results bounds the wait for the first result row of a page.
	Results time.Duration
	// Next bounds the lookup of the next-page control; its absence ends pagination.
	Next time.Duration
	// Load bounds the page load started by submitting the search or following next.
	Load time.Duration
	// Job bounds a whole category job including pagination.
	Job time.Duration
}

func DefaultTimeouts() Timeouts {
	return Timeouts{
		Form:    2 * time.Second,
		Results: 3 * time.Second,
		Next:    500 * time.Millisecond,
		Load:    15 * time.Second,
		Job:     5 * time.Minute,
	}
}
