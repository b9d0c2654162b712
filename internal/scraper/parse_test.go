package scraper

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSplitCourseLabel(t *testing.T) {
	tests := []struct {
		label string
		code  string
		title string
	}{
		{"CSE 20 - 01   Beginning Programming in Python", "CSE 20 - 01", "Beginning Programming in Python"},
		{"ANTH 1 - 01   Intro to Biological Anthropology", "ANTH 1 - 01", "Intro to Biological Anthropology"},
		{"MATH 19A - 02     Calculus   for Science", "MATH 19A - 02", "Calculus for Science"},
		{"WRIT 1 - 05", "WRIT 1 - 05", ""},
		{"WRIT 1 - 05  Two spaces only", "WRIT 1 - 05 Two spaces only", ""},
	}
	for _, tt := range tests {
		code, title := SplitCourseLabel(tt.label)
		assert.Equal(t, tt.code, code, tt.label)
		assert.Equal(t, tt.title, title, tt.label)
	}
}

func TestNormalizeInstructor(t *testing.T) {
	assert.Equal(t, "Ada Lovelace", NormalizeInstructor("Instructor: Lovelace,Ada"))
	assert.Equal(t, "Ada Lovelace", NormalizeInstructor("Instructor:\nLovelace, Ada"))
	assert.Equal(t, "Staff", NormalizeInstructor("Instructor: Staff"))
	assert.Equal(t, "Grace Hopper", NormalizeInstructor("Hopper,Grace"))
	assert.Equal(t, "Turing", NormalizeInstructor("Instructor: Turing,"))
}

func TestParseSeats(t *testing.T) {
	enrolled, total, err := ParseSeats("25 of 30 Enrolled")
	require.NoError(t, err)
	assert.Equal(t, 25, enrolled)
	assert.Equal(t, 30, total)

	enrolled, total, err = ParseSeats("  0 of 120\nEnrolled ")
	require.NoError(t, err)
	assert.Equal(t, 0, enrolled)
	assert.Equal(t, 120, total)

	_, _, err = ParseSeats("Enrolled")
	require.Error(t, err)

	_, _, err = ParseSeats("31 of 30 Enrolled")
	require.Error(t, err)
}

func TestCellClassification(t *testing.T) {
	assert.True(t, IsSeatCell("12 of 40 Enrolled"))
	assert.False(t, IsSeatCell("Class Number: 21222"))
	assert.True(t, HasLabel("Class Number:\n 21222", LabelClassNumber))
	assert.Equal(t, "21222", StripLabel("Class Number:\n 21222", LabelClassNumber))
	assert.Equal(t, "TuTh 09:50AM-11:25AM", StripLabel("Day and Time:  TuTh 09:50AM-11:25AM", LabelSchedule))
}
