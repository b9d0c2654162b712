package scraper

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	LabelClassNumber = "Class Number:"
	LabelInstructor  = "Instructor:"
	LabelLocation    = "Location:"
	LabelSchedule    = "Day and Time:"
	LabelMode        = "Instruction Mode:"
)

var (
	// code and title are separated by three or more spaces, often &nbsp;
	labelGap   = regexp.MustCompile(`[ \x{00a0}]{3,}`)
	seatCounts = regexp.MustCompile(`(\d+)\s+of\s+(\d+)`)
)

// CleanText turns rendered cell text into one line: non-breaking spaces
// become spaces and whitespace runs collapse.
func CleanText(raw string) string {
	raw = strings.ReplaceAll(raw, "\u00a0", " ")
	return strings.Join(strings.Fields(raw), " ")
}

// StripLabel removes a leading label such as "Instructor:" and cleans the rest.
func StripLabel(raw, label string) string {
	text := CleanText(raw)
	return strings.TrimSpace(strings.TrimPrefix(text, label))
}

// HasLabel reports whether cell text starts with label.
func HasLabel(raw, label string) bool {
	return strings.HasPrefix(CleanText(raw), label)
}

// SplitCourseLabel splits "CSE 20 - 01   Beginning Programming" into its code
// and title. Without a gap the title is empty.
func SplitCourseLabel(label string) (code, title string) {
	parts := labelGap.Split(strings.TrimSpace(label), 2)
	code = CleanText(parts[0])
	if len(parts) < 2 {
		return code, ""
	}
	return code, CleanText(parts[1])
}

// NormalizeInstructor turns "Instructor: Last,First" into "First Last".
// Names without a comma pass through unchanged.
func NormalizeInstructor(raw string) string {
	name := StripLabel(raw, LabelInstructor)
	last, first, found := strings.Cut(name, ",")
	if !found {
		return name
	}
	first = strings.TrimSpace(first)
	last = strings.TrimSpace(last)
	if first == "" {
		return last
	}
	return first + " " + last
}

// ParseSeats reads "25 of 30 Enrolled" as enrolled=25, total=30.
func ParseSeats(raw string) (enrolled, total int, err error) {
	match := seatCounts.FindStringSubmatch(CleanText(raw))
	if match == nil {
		return 0, 0, fmt.Errorf("no seat counts in %q", raw)
	}
	if enrolled, err = strconv.Atoi(match[1]); err != nil {
		return 0, 0, err
	}
	if total, err = strconv.Atoi(match[2]); err != nil {
		return 0, 0, err
	}
	if enrolled > total {
		return 0, 0, fmt.Errorf("enrolled %d exceeds capacity %d", enrolled, total)
	}
	return enrolled, total, nil
}

// IsSeatCell reports whether a cell holds the enrolment counts.
func IsSeatCell(raw string) bool {
	text := CleanText(raw)
	return strings.HasSuffix(text, "Enrolled") && seatCounts.MatchString(text)
}
