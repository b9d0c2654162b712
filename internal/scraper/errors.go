package scraper

import (
	"errors"
	"fmt"
)

var (
	// ErrExtraction marks a results row that did not have the expected structure.
	ErrExtraction = errors.New("extraction error")
	// ErrNoResults is returned when a results page has no rows at all.
	ErrNoResults = errors.New("no results on page")
	// ErrCategoryExhausted is returned once every attempt for a category failed.
	ErrCategoryExhausted = errors.New("category exhausted")
)

// ExtractionError reports which row of which page broke.
type ExtractionError struct {
	Page   int
	Row    int
	Reason string
	Err    error
}

func (e *ExtractionError) Error() string {
	msg := fmt.Sprintf("page %d row %d: %s", e.Page, e.Row, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExtractionError) Is(target error) bool {
	return target == ErrExtraction
}

func (e *ExtractionError) Unwrap() error {
	return e.Err
}

// CategoryExhaustedError carries the last failure of a dropped category.
type CategoryExhaustedError struct {
	Category string
	Attempts int
	Last     error
}

func (e *CategoryExhaustedError) Error() string {
	return fmt.Sprintf("category %s failed after %d attempts: %v", e.Category, e.Attempts, e.Last)
}

func (e *CategoryExhaustedError) Is(target error) bool {
	return target == ErrCategoryExhausted
}

func (e *CategoryExhaustedError) Unwrap() error {
	return e.Last
}
