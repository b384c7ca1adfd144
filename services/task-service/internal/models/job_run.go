package models

import "time"

// JobRunStatus represents the outcome of a scheduler job run
type JobRunStatus string

const (
	JobRunStatusCompleted JobRunStatus = "completed"
	JobRunStatusFailed    JobRunStatus = "failed"
)

// JobRun records one execution of a scheduler job
type JobRun struct {
	ID         int          `json:"id"`
	Job        string       `json:"job"`
	Status     JobRunStatus `json:"status"`
	Processed  int          `json:"processed"`
	Error      string       `json:"error,omitempty"`
	StartedAt  time.Time    `json:"startedAt"`
	FinishedAt time.Time    `json:"finishedAt"`
}
