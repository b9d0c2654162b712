package scraper

import (
	"context"
	"errors"
	"testing"

	"ge-course-scraper/internal/browser/browsertest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRows(t *testing.T) {
	site := browsertest.NewSite("CC")
	site.AddResults("CC", 10,
		browsertest.Row{
			Code:        "ANTH 1 - 01",
			Title:       "Intro to Biological Anthropology",
			ClassNumber: "21222",
			Instructor:  "Lovelace,Ada",
			Enrolled:    25,
			Capacity:    30,
			Mode:        "Asynchronous Online",
			Schedule:    "Cancelled",
			Location:    "Remote Instruction",
		},
		browsertest.Row{
			Code:        "CSE 20 - 01",
			Title:       "Beginning Programming in Python",
			Href:        "https://classes.example.edu/class_search/index.php?action=detail&class_data=99",
			ClassNumber: "21899",
			Instructor:  "Staff",
			Enrolled:    0,
			Capacity:    120,
			Mode:        "In Person",
			Schedule:    "TuTh 09:50AM-11:25AM",
			Location:    "LEC: Soc Sci 2 075",
		},
	)
	session := openResults(t, site, "CC")

	records, err := testExtractor(t).Extract(context.Background(), session, 1)
	require.NoError(t, err)
	require.Len(t, records, 2)

	first := records[0]
	assert.Equal(t, "ANTH 1 - 01", first.Code)
	assert.Equal(t, "Intro to Biological Anthropology", first.Title)
	assert.Equal(t, "Ada Lovelace", first.Instructor)
	assert.Equal(t, "21222", first.EnrollmentID)
	assert.Equal(t, "https://classes.example.edu/class_search/index.php?action=detail&class_data=21222", first.DetailLink)
	assert.Equal(t, 30, first.SeatsTotal)
	assert.Equal(t, 5, first.SeatsAvailable)
	assert.Equal(t, "Asynchronous Online", first.DeliveryMode)
	assert.Equal(t, "Cancelled", first.Schedule)
	assert.Equal(t, "Remote Instruction", first.Location)
	assert.Empty(t, first.Category)

	second := records[1]
	assert.Equal(t, "Staff", second.Instructor)
	assert.Equal(t, 120, second.SeatsAvailable)
	assert.Equal(t, "https://classes.example.edu/class_search/index.php?action=detail&class_data=99", second.DetailLink)
	assert.Equal(t, "TuTh 09:50AM-11:25AM", second.Schedule)
}

func TestExtractSeatInvariant(t *testing.T) {
	site := browsertest.NewSite("SI")
	rows := testRows("BIOL", 12)
	site.AddResults("SI", 20, rows...)
	session := openResults(t, site, "SI")

	records, err := testExtractor(t).Extract(context.Background(), session, 1)
	require.NoError(t, err)
	require.Len(t, records, len(rows))
	for i, record := range records {
		assert.Equal(t, record.SeatsTotal, record.SeatsAvailable+rows[i].Enrolled, record.Code)
		assert.Equal(t, rows[i].Enrolled, record.Enrolled())
		assert.GreaterOrEqual(t, record.SeatsAvailable, 0)
	}
}

func TestExtractFailsWholePageOnMalformedRow(t *testing.T) {
	rows := testRows("HIS", 3)
	rows[1].Instructor = ""
	site := browsertest.NewSite("TA")
	site.AddResults("TA", 10, rows...)
	session := openResults(t, site, "TA")

	records, err := testExtractor(t).Extract(context.Background(), session, 4)
	require.ErrorIs(t, err, ErrExtraction)
	require.Nil(t, records)

	var extractionErr *ExtractionError
	require.True(t, errors.As(err, &extractionErr))
	assert.Equal(t, 4, extractionErr.Page)
	assert.Equal(t, 2, extractionErr.Row)
	assert.Equal(t, "missing instructor", extractionErr.Reason)
}

func TestExtractOverEnrolledRowIsMalformed(t *testing.T) {
	rows := testRows("MUSC", 1)
	rows[0].Enrolled = 41
	site := browsertest.NewSite("IM")
	site.AddResults("IM", 10, rows...)
	session := openResults(t, site, "IM")

	_, err := testExtractor(t).Extract(context.Background(), session, 1)
	require.ErrorIs(t, err, ErrExtraction)
}

func TestExtractEmptyPage(t *testing.T) {
	site := browsertest.NewSite("PR-S")
	session := openResults(t, site, "PR-S")

	records, err := testExtractor(t).Extract(context.Background(), session, 1)
	require.ErrorIs(t, err, ErrNoResults)
	require.Empty(t, records)
}
