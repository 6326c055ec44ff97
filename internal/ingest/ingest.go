package ingest

import (
	"time"
)

type Status string

const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusStopped   Status = "STOPPED"
	StatusFailed    Status = "FAILED"
)

// Run records one ingest cycle. COMPLETED means the end of the index was
// reached and every pending cast was attempted; STOPPED means the crawl
// ended early and will resume from the cursor next cycle.
type Run struct {
	ID            string     `json:"id"`
	StartedAt     time.Time  `json:"started_at"`
	FinishedAt    *time.Time `json:"finished_at"`
	Status        Status     `json:"status"`
	StartPage     int        `json:"start_page"`
	PagesFetched  int        `json:"pages_fetched"`
	ShowsAppended int        `json:"shows_appended"`
	EndOfPages    bool       `json:"end_of_pages"`
	CastsFetched  int        `json:"casts_fetched"`
	CastsFailed   int        `json:"casts_failed"`
	Error         string     `json:"error,omitempty"`
}
