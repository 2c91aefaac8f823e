package models

import "time"

type JobStatus string

const (
	JobStatusScheduled JobStatus = "Scheduled"
	JobStatusOnSite    JobStatus = "On-Site"
	JobStatusComplete  JobStatus = "Complete"
	JobStatusFlagged   JobStatus = "Flagged"
)

// JobStatuses lists every recognized status in lifecycle order.
var JobStatuses = []JobStatus{
	JobStatusScheduled,
	JobStatusOnSite,
	JobStatusComplete,
	JobStatusFlagged,
}

// DateLayout is the calendar format used by Job.Date and the daily summary.
const DateLayout = "2006-01-02"

type Job struct {
	ID               int        `json:"id" dynamodbav:"id"`
	Description      string     `json:"description" dynamodbav:"description"`
	Address          string     `json:"address" dynamodbav:"address"`
	Date             string     `json:"date,omitempty" dynamodbav:"date,omitempty"`
	RequiredSkills   []string   `json:"requiredSkills" dynamodbav:"requiredSkills"`
	Zone             string     `json:"zone,omitempty" dynamodbav:"zone,omitempty"`
	Position         *GeoPoint  `json:"position,omitempty" dynamodbav:"position,omitempty"`
	Status           JobStatus  `json:"status" dynamodbav:"status"`
	CrewID           *int       `json:"crewId" dynamodbav:"crewId,omitempty"`
	ClientID         *int       `json:"clientId" dynamodbav:"clientId,omitempty"`
	StartTime        *time.Time `json:"startTime,omitempty" dynamodbav:"startTime,omitempty"`
	EndTime          *time.Time `json:"endTime,omitempty" dynamodbav:"endTime,omitempty"`
	CheckInPosition  *GeoPoint  `json:"checkInPosition,omitempty" dynamodbav:"checkInPosition,omitempty"`
	CheckOutPosition *GeoPoint  `json:"checkOutPosition,omitempty" dynamodbav:"checkOutPosition,omitempty"`
	CreatedAt        time.Time  `json:"createdAt" dynamodbav:"createdAt"`
	UpdatedAt        time.Time  `json:"updatedAt" dynamodbav:"updatedAt"`
}

// IsAssigned reports whether a crew has been set on the job.
func (j *Job) IsAssigned() bool {
	return j.CrewID != nil
}

// AssignedTo reports whether the job is assigned to the given crew.
func (j *Job) AssignedTo(crewID int) bool {
	return j.CrewID != nil && *j.CrewID == crewID
}

// Clone returns a deep copy of the job.
func (j *Job) Clone() *Job {
	if j == nil {
		return nil
	}
	out := *j
	if j.RequiredSkills != nil {
		out.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	}
	out.Position = j.Position.Clone()
	out.CrewID = cloneInt(j.CrewID)
	out.ClientID = cloneInt(j.ClientID)
	out.StartTime = cloneTime(j.StartTime)
	out.EndTime = cloneTime(j.EndTime)
	out.CheckInPosition = j.CheckInPosition.Clone()
	out.CheckOutPosition = j.CheckOutPosition.Clone()
	return &out
}

func cloneInt(v *int) *int {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

func cloneTime(v *time.Time) *time.Time {
	if v == nil {
		return nil
	}
	out := *v
	return &out
}

type CreateJobRequest struct {
	Description    string   `json:"description" validate:"required,min=2,max=1000"`
	Address        string   `json:"address" validate:"omitempty,max=500"`
	Date           string   `json:"date" validate:"omitempty,datetime=2006-01-02"`
	RequiredSkills []string `json:"requiredSkills" validate:"omitempty,dive,required"`
	Zone           string   `json:"zone" validate:"omitempty,max=100"`
	Lat            *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng            *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
	CrewID         *int     `json:"crewId" validate:"omitempty,min=1"`
	ClientID       *int     `json:"clientId" validate:"omitempty,min=1"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// CheckEventRequest carries the optional coordinates of a check-in or check-out.
type CheckEventRequest struct {
	Lat *float64 `json:"lat" validate:"omitempty,min=-90,max=90"`
	Lng *float64 `json:"lng" validate:"omitempty,min=-180,max=180"`
}

type JobFilter struct {
	Status   JobStatus `form:"status"`
	CrewID   *int      `form:"crewId"`
	ClientID *int      `form:"clientId"`
	Date     string    `form:"date"`
}

// Matches reports whether the job satisfies every set field of the filter.
func (f *JobFilter) Matches(j *Job) bool {
	if f == nil {
		return true
	}
	if f.Status != "" && j.Status != f.Status {
		return false
	}
	if f.CrewID != nil && !j.AssignedTo(*f.CrewID) {
		return false
	}
	if f.ClientID != nil && (j.ClientID == nil || *j.ClientID != *f.ClientID) {
		return false
	}
	if f.Date != "" && j.Date != f.Date {
		return false
	}
	return true
}
