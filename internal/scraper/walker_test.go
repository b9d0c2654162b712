package scraper

import (
	"context"
	"testing"
	"time"

	"ge-course-scraper/internal/browser"
	"ge-course-scraper/internal/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func codes(t *testing.T, result WalkResult) []string {
	t.Helper()
	out := make([]string, len(result.Records))
	for i, record := range result.Records {
		out[i] = record.Code
	}
	return out
}

func TestWalkThreePagesInOrder(t *testing.T) {
	rows := testRows("CSE", 6)
	site := browsertest.NewSite("CC")
	site.AddResults("CC", 2, rows...)
	session := openResults(t, site, "CC")

	result := testWalker(t).Walk(context.Background(), session)
	require.NoError(t, result.Err)
	assert.Equal(t, 3, result.Pages)
	assert.Equal(t, []string{"CC#1", "CC#2", "CC#3"}, session.Visited())

	var want []string
	for _, row := range rows {
		want = append(want, row.Code)
	}
	assert.Equal(t, want, codes(t, result))
}

func TestWalkKeepsPagesBeforeFailure(t *testing.T) {
	good := testRows("MATH", 4)
	bad := testRows("PHYS", 2)
	bad[0].ClassNumber = ""
	bad[0].Capacity = 0
	bad[0].Enrolled = 0
	bad[0].Instructor = ""

	site := browsertest.NewSite("MF")
	site.Results["MF"] = []string{
		browsertest.ResultsPage(good[:2], true),
		browsertest.ResultsPage(bad, true),
		browsertest.ResultsPage(good[2:], false),
	}
	session := openResults(t, site, "MF")

	result := testWalker(t).Walk(context.Background(), session)
	require.ErrorIs(t, result.Err, ErrExtraction)
	assert.Equal(t, 1, result.Pages)
	assert.Equal(t, []string{good[0].Code, good[1].Code}, codes(t, result))
}

func TestWalkStopsOnStuckNextControl(t *testing.T) {
	site := browsertest.NewSite("SR")
	site.AddResults("SR", 2, testRows("STAT", 4)...)
	site.StuckNext = true
	session := openResults(t, site, "SR")

	result := testWalker(t).Walk(context.Background(), session)
	require.NoError(t, result.Err)
	assert.Len(t, result.Records, 2)
	assert.Equal(t, 1, result.Pages)
}

func TestWalkRespectsPageCap(t *testing.T) {
	site := browsertest.NewSite("ER")
	site.AddResults("ER", 2, testRows("CRES", 6)...)
	session := openResults(t, site, "ER")

	walker := testWalker(t)
	walker.MaxPages = 2
	result := walker.Walk(context.Background(), session)
	require.NoError(t, result.Err)
	assert.Len(t, result.Records, 4)
	assert.Equal(t, 2, result.Pages)
}

func TestWalkEmptySearch(t *testing.T) {
	site := browsertest.NewSite("C2")
	session := openResults(t, site, "C2")

	result := testWalker(t).Walk(context.Background(), session)
	require.NoError(t, result.Err)
	assert.Empty(t, result.Records)
	assert.Equal(t, 0, result.Pages)
}

func TestWalkWaitsForSlowPageLoad(t *testing.T) {
	rows := testRows("HIS", 6)
	site := browsertest.NewSite("IM")
	site.AddResults("IM", 2, rows...)
	site.NextDelay = 20 * time.Millisecond
	session := openResults(t, site, "IM")

	result := testWalker(t).Walk(context.Background(), session)
	require.NoError(t, result.Err)
	assert.Equal(t, 3, result.Pages)
	assert.Len(t, result.Records, 6)
	assert.Equal(t, rows[5].Code, result.Records[5].Code)
}

func TestWalkFailsWhenPageLoadTimesOut(t *testing.T) {
	site := browsertest.NewSite("IM")
	site.AddResults("IM", 2, testRows("HIS", 4)...)
	site.NextDelay = time.Hour
	session := openResults(t, site, "IM")

	walker := testWalker(t)
	walker.LoadTimeout = 10 * time.Millisecond
	result := walker.Walk(context.Background(), session)
	require.ErrorIs(t, result.Err, browser.ErrNavigationTimeout)
	assert.Len(t, result.Records, 2)
}

func TestSlowNextClickStillShowsOldPage(t *testing.T) {
	site := browsertest.NewSite("IM")
	site.AddResults("IM", 2, testRows("HIS", 4)...)
	site.NextDelay = time.Hour
	session := openResults(t, site, "IM")
	extractor := testExtractor(t)
	ctx := context.Background()

	first, err := extractor.Extract(ctx, session, 1)
	require.NoError(t, err)
	require.NoError(t, session.Click(ctx, DefaultSelectors().Next))
	again, err := extractor.Extract(ctx, session, 2)
	require.NoError(t, err)
	assert.Equal(t, pageSignature(first), pageSignature(again))
}
