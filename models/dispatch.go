package models

import "time"

// AssignmentResult is returned after a job has been given to a crew.
type AssignmentResult struct {
	Job        *Job  `json:"job"`
	AssignedTo *Crew `json:"assignedTo"`
}

// Suggestion pairs an unassigned job with the crew proposed for it.
type Suggestion struct {
	JobID  int `json:"jobId"`
	CrewID int `json:"crewId"`
}

type SuggestionSource string

const (
	SuggestionSourcePlanner   SuggestionSource = "planner"
	SuggestionSourceHeuristic SuggestionSource = "heuristic"
)

type SuggestionResult struct {
	Suggestions []Suggestion     `json:"suggestions"`
	Source      SuggestionSource `json:"source"`
	Raw         string           `json:"raw,omitempty"`
	Message     string           `json:"message,omitempty"`
}

// PartyRef is the short form of a crew or client shown on an invoice.
type PartyRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

type Invoice struct {
	JobID       int       `json:"jobId"`
	Description string    `json:"description"`
	Date        string    `json:"date,omitempty"`
	Crew        *PartyRef `json:"crew"`
	Client      *PartyRef `json:"client"`
	StartTime   time.Time `json:"startTime"`
	EndTime     time.Time `json:"endTime"`
	Hours       float64   `json:"hours"`
	RatePerHour float64   `json:"ratePerHour"`
	Total       float64   `json:"total"`
}

type CrewSummary struct {
	CrewID int    `json:"crewId"`
	Name   string `json:"name"`
	Count  int    `json:"count"`
}

type DailySummary struct {
	Date         string         `json:"date"`
	TotalJobs    int            `json:"totalJobs"`
	StatusCounts map[string]int `json:"statusCounts"`
	CrewSummary  []CrewSummary  `json:"crewSummary"`
}
