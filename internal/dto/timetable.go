package dto

import "encoding/json"

// CreateTimetableRequest is the payload for saving a timetable snapshot.
type CreateTimetableRequest struct {
	Name    string          `json:"name" validate:"required,max=100"`
	Courses json.RawMessage `json:"courses" validate:"required"`
}

// ExportFormat is a supported timetable export format.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportPDF  ExportFormat = "pdf"
	ExportXLSX ExportFormat = "xlsx"
	ExportICS  ExportFormat = "ics"
)

// ExportFile is a rendered timetable export.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}

// SnapshotCourse is the lenient view of one course inside a timetable snapshot.
type SnapshotCourse struct {
	ID         string             `json:"id"`
	Code       string             `json:"code"`
	Name       string             `json:"name"`
	Professor  string             `json:"professor"`
	Credits    json.Number        `json:"credits"`
	Department string             `json:"department"`
	CourseType string             `json:"courseType"`
	Day        json.RawMessage    `json:"day"`
	Time       string             `json:"time"`
	Schedules  []SnapshotSchedule `json:"schedules"`
}

// SnapshotSchedule is a meeting block carried in a snapshot.
type SnapshotSchedule struct {
	Weekday   json.Number `json:"weekday"`
	StartTime string      `json:"start_time"`
	EndTime   *string     `json:"end_time"`
	Location  *string     `json:"location"`
}
