package scraper

import "ge-course-scraper/internal/entity"

// AllCategories is the query value meaning "no category filter".
const AllCategories = "AnyGE"

var categories = []entity.Category{
	{Code: "CC", Label: "Cross-Cultural Analysis"},
	{Code: "ER", Label: "Ethnicity and Race"},
	{Code: "IM", Label: "Interpreting Arts and Media"},
	{Code: "MF", Label: "Mathematical and Formal Reasoning"},
	{Code: "SI", Label: "Scientific Inquiry"},
	{Code: "SR", Label: "Statistical Reasoning"},
	{Code: "TA", Label: "Textual Analysis"},
	{Code: "PE-E", Label: "Perspectives: Environmental Awareness"},
	{Code: "PE-H", Label: "Perspectives: Human Behavior"},
	{Code: "PE-T", Label: "Perspectives: Technology and Society"},
	{Code: "PR-E", Label: "Practice: Collaborative Endeavor"},
	{Code: "PR-C", Label: "Practice: Creative Process"},
	{Code: "PR-S", Label: "Practice: Service Learning"},
	{Code: "C1", Label: "Composition 1"},
	{Code: "C2", Label: "Composition 2"},
}

// Categories returns the GE categories searched every cycle.
func Categories() []entity.Category {
	return append([]entity.Category(nil), categories...)
}

func CategoryCodes() []string {
	codes := make([]string, len(categories))
	for i, category := range categories {
		codes[i] = category.Code
	}
	return codes
}

func IsCategory(code string) bool {
	for _, category := range categories {
		if category.Code == code {
			return true
		}
	}
	return false
}
