package models

import "time"

// LockInfo is the content of the digest worker's lock file
type LockInfo struct {
	ID          string    `json:"id"`
	Owner       string    `json:"owner"`
	AcquiredAt  time.Time `json:"acquired_at"`
	ExpiresAt   time.Time `json:"expires_at"`
	Environment string    `json:"environment"`
}

// DigestRun records the outcome of one digest execution
type DigestRun struct {
	ID        string        `json:"id"`
	Date      string        `json:"date"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Summary   *DailySummary `json:"summary,omitempty"`
	Skipped   bool          `json:"skipped"`
	Error     string        `json:"error,omitempty"`
}
