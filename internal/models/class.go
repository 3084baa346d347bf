package models

import (
	"fmt"
	"strings"
	"time"
)

// CourseType classifies a class within the curriculum.
type CourseType string

const (
	CourseTypeRequiredMajor CourseType = "REQUIRED_MAJOR"
	CourseTypeElectiveMajor CourseType = "ELECTIVE_MAJOR"
	CourseTypeGeneral       CourseType = "GENERAL"
)

var courseTypeLabels = map[string]CourseType{
	"requiredmajor": CourseTypeRequiredMajor,
	"전공필수":          CourseTypeRequiredMajor,
	"electivemajor": CourseTypeElectiveMajor,
	"전공선택":          CourseTypeElectiveMajor,
	"general":       CourseTypeGeneral,
	"교양":            CourseTypeGeneral,
	"교양필수":          CourseTypeGeneral,
	"교양선택":          CourseTypeGeneral,
}

// ParseCourseType maps catalog labels onto a CourseType. Whitespace, dashes,
// underscores and case are ignored, so "전공 필수" and "required-major" both resolve.
func ParseCourseType(raw string) (CourseType, error) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '-', '_':
			return -1
		}
		return r
	}, strings.ToLower(strings.TrimSpace(raw)))

	if ct, ok := courseTypeLabels[key]; ok {
		return ct, nil
	}
	return "", fmt.Errorf("unknown course type %q", raw)
}

// Valid reports whether the value is one of the declared course types.
func (t CourseType) Valid() bool {
	switch t {
	case CourseTypeRequiredMajor, CourseTypeElectiveMajor, CourseTypeGeneral:
		return true
	}
	return false
}

// Label returns the Korean catalog label of the course type.
func (t CourseType) Label() string {
	switch t {
	case CourseTypeRequiredMajor:
		return "전공필수"
	case CourseTypeElectiveMajor:
		return "전공선택"
	case CourseTypeGeneral:
		return "교양"
	}
	return string(t)
}

// DemandStatus is the derived indicator of interest relative to capacity.
type DemandStatus string

const (
	DemandNormal DemandStatus = "NORMAL"
	DemandNear   DemandStatus = "NEAR"
	DemandFull   DemandStatus = "FULL"
)

// NearThreshold is the interest/capacity ratio at which a class becomes NEAR.
const NearThreshold = 0.9

// ComputeDemandStatus derives the demand status from an interest count.
func ComputeDemandStatus(interestCount, capacity int) DemandStatus {
	if capacity <= 0 {
		return DemandNormal
	}
	if interestCount >= capacity {
		return DemandFull
	}
	if float64(interestCount)/float64(capacity) >= NearThreshold {
		return DemandNear
	}
	return DemandNormal
}

// Class represents a course section. Enrolled is a cached interest count that
// toggles adjust and demand aggregation recomputes.
type Class struct {
	ID           string       `db:"id" json:"id"`
	Code         string       `db:"code" json:"code"`
	Name         string       `db:"name" json:"name"`
	Professor    string       `db:"professor" json:"professor"`
	Credits      int          `db:"credits" json:"credits"`
	Capacity     int          `db:"capacity" json:"capacity"`
	Enrolled     int          `db:"enrolled" json:"enrolled"`
	Department   string       `db:"department" json:"department"`
	CourseType   CourseType   `db:"course_type" json:"courseType"`
	DemandStatus DemandStatus `db:"demand_status" json:"demandStatus"`
	CreatedAt    time.Time    `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time    `db:"updated_at" json:"updated_at"`
}

// ClassSchedule is a single weekly meeting block of a class.
type ClassSchedule struct {
	ID              int64   `db:"id" json:"id"`
	ClassID         string  `db:"class_id" json:"class_id"`
	Weekday         Weekday `db:"weekday" json:"weekday"`
	StartTime       string  `db:"start_time" json:"start_time"`
	EndTime         *string `db:"end_time" json:"end_time"`
	DurationMinutes *int    `db:"duration_minutes" json:"duration_minutes"`
	Location        *string `db:"location" json:"location"`
}

// ClassWithSchedules is the catalog view of a class.
type ClassWithSchedules struct {
	Class
	Schedules []ClassSchedule `json:"schedules"`
}

// ClassCapacity is the row view used by aggregation.
type ClassCapacity struct {
	ID           string       `db:"id"`
	Capacity     int          `db:"capacity"`
	Enrolled     int          `db:"enrolled"`
	DemandStatus DemandStatus `db:"demand_status"`
}
