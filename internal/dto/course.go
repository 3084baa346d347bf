package dto

import "github.com/noah-isme/course-registration-api/internal/models"

// InterestCourse is the class state returned after a toggle.
type InterestCourse struct {
	ID       string `json:"id"`
	Enrolled int    `json:"enrolled"`
	Capacity int    `json:"capacity"`
}

// ToggleInterestResult is the response of POST /courses/:classId/interest.
type ToggleInterestResult struct {
	Message      string         `json:"message"`
	IsInterested bool           `json:"isInterested"`
	Course       InterestCourse `json:"course"`
}

// InterestList lists the class ids the caller is interested in.
type InterestList struct {
	Courses []string `json:"courses"`
}

// AggregateResult reports one demand aggregation pass.
type AggregateResult struct {
	Updated   int                    `json:"updated"`
	Changed   int                    `json:"changed"`
	Summaries []models.DemandSummary `json:"summaries"`
}

// ConflictCheckRequest asks which of the given classes overlap.
type ConflictCheckRequest struct {
	ClassIDs []string `json:"classIds" validate:"required,min=2,dive,required"`
}

// ScheduleConflict describes two meetings that overlap on the same weekday.
type ScheduleConflict struct {
	ClassA  string `json:"classA"`
	ClassB  string `json:"classB"`
	Weekday int    `json:"weekday"`
	Day     string `json:"day"`
	TimeA   string `json:"timeA"`
	TimeB   string `json:"timeB"`
}

// ConflictReport is the response of POST /courses/conflicts.
type ConflictReport struct {
	HasConflict bool               `json:"hasConflict"`
	Conflicts   []ScheduleConflict `json:"conflicts"`
}

// ImportResult summarises a catalog import.
type ImportResult struct {
	Classes   int `json:"classes"`
	Schedules int `json:"schedules"`
}
