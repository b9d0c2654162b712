package scraper

import (
	"context"
	"fmt"
	"testing"
	"time"

	"ge-course-scraper/internal/browser/browsertest"

	"github.com/stretchr/testify/require"
)

func testRows(prefix string, n int) []browsertest.Row {
	rows := make([]browsertest.Row, n)
	for i := range rows {
		rows[i] = browsertest.Row{
			Code:        fmt.Sprintf("%s %d - 01", prefix, i+1),
			Title:       fmt.Sprintf("%s Course %d", prefix, i+1),
			ClassNumber: fmt.Sprintf("%s%04d", prefix, i+1),
			Instructor:  fmt.Sprintf("Last%d,First%d", i+1, i+1),
			Enrolled:    10 + i,
			Capacity:    40,
			Mode:        "In Person",
			Schedule:    "MWF 09:20AM-10:25AM",
			Location:    "LEC: Thimann Lab 003",
		}
	}
	return rows
}

func testTimeouts() Timeouts {
	return Timeouts{
		Form:    100 * time.Millisecond,
		Results: 100 * time.Millisecond,
		Next:    10 * time.Millisecond,
		Load:    time.Second,
		Job:     5 * time.Second,
	}
}

func testExtractor(t *testing.T) *Extractor {
	t.Helper()
	extractor, err := NewExtractor(browsertest.EntryURL, DefaultSelectors(), testTimeouts().Results)
	require.NoError(t, err)
	return extractor
}

func testWalker(t *testing.T) *Walker {
	return &Walker{
		Extractor:   testExtractor(t),
		Next:        DefaultSelectors().Next,
		NextTimeout: testTimeouts().Next,
		LoadTimeout: testTimeouts().Load,
	}
}

// openResults drives a fresh session to the first results page of category.
func openResults(t *testing.T, site *browsertest.Site, category string) *browsertest.Session {
	t.Helper()
	ctx := context.Background()
	session := site.NewSession()
	require.NoError(t, session.Navigate(ctx, browsertest.EntryURL))
	require.NoError(t, session.SelectOption(ctx, DefaultSelectors().Category, category))
	require.NoError(t, session.Click(ctx, DefaultSelectors().Submit))
	return session
}
