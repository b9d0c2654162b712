package entity

// CourseRecord is one class section found under a GE category search.
type CourseRecord struct {
	Code           string `json:"code"`
	Title          string `json:"name"`
	Instructor     string `json:"instructor"`
	DetailLink     string `json:"link"`
	SeatsAvailable int    `json:"seats_available"`
	SeatsTotal     int    `json:"seats_total"`
	EnrollmentID   string `json:"enroll_num"`
	DeliveryMode   string `json:"class_type"`
	Schedule       string `json:"schedule"`
	Location       string `json:"location"`
	Category       string `json:"ge"`
}

// Enrolled is the number of seats taken.
func (c CourseRecord) Enrolled() int {
	return c.SeatsTotal - c.SeatsAvailable
}

// Category is a GE filter value on the class search form.
type Category struct {
	Code  string `json:"value"`
	Label string `json:"label"`
}

// Degree groups the required course codes of one program by requirement heading.
type Degree struct {
	Name        string            `json:"name"`
	URL         string            `json:"url"`
	CourseTypes []CourseTypeGroup `json:"course_types"`
}

type CourseTypeGroup struct {
	Type    string   `json:"type"`
	Courses []string `json:"courses"`
}
