package response

import "time"

// Response is the JSON envelope of every API reply.
type Response[T any] struct {
	Code    int    `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

type LastUpdateResponse struct {
	LastUpdate *time.Time `json:"last_update"`
}

// CycleResponse summarises one scrape cycle.
type CycleResponse struct {
	CycleID          string    `json:"cycle_id"`
	StartedAt        time.Time `json:"started_at"`
	FinishedAt       time.Time `json:"finished_at"`
	Records          int       `json:"records"`
	Categories       int       `json:"categories"`
	FailedCategories []string  `json:"failed_categories"`
	Persisted        bool      `json:"persisted"`
	PersistError     string    `json:"persist_error,omitempty"`
}
