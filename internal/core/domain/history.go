package domain

import "time"

// JobOutcomeOK marks a job that produced output.
const JobOutcomeOK = "ok"

// JobRecord is one entry in the tool run history.
type JobRecord struct {
	ID          string
	Operation   ToolOperation
	InputCount  int
	InputBytes  int64
	OutputBytes int64

	// Outcome is JobOutcomeOK or a ToolErrorKind.
	Outcome string

	// Stage is the winning compression stage, or -1.
	Stage     int
	Duration  time.Duration
	CreatedAt time.Time
}

// Succeeded returns true if the job produced output.
func (r JobRecord) Succeeded() bool {
	return r.Outcome == JobOutcomeOK
}
