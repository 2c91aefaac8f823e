package models

// DigestRunRequest is the optional body of a manual digest run
type DigestRunRequest struct {
	Date string `json:"date" validate:"omitempty,datetime=2006-01-02"`
}
