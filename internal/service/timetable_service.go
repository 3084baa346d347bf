package service

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx/types"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
	"github.com/noah-isme/course-registration-api/pkg/export"
)

// Meetings without an end time are exported with this length.
const defaultMeetingDuration = 60 * time.Minute

var exportHeaders = []string{"code", "name", "professor", "credits", "department", "courseType", "day", "time"}

var unsafeFilename = regexp.MustCompile(`[^\p{L}\p{N}._-]+`)

type timetableStore interface {
	ListByUser(ctx context.Context, userID string) ([]models.Timetable, error)
	Create(ctx context.Context, timetable *models.Timetable) error
	FindOwned(ctx context.Context, id, userID string) (*models.Timetable, error)
	DeleteOwned(ctx context.Context, id, userID string) (bool, error)
}

// TimetableConfig tunes timetable exports.
type TimetableConfig struct {
	ExportWeeks int
	Location    *time.Location
}

// TimetableService manages a student's saved timetable snapshots.
type TimetableService struct {
	repo      timetableStore
	validator *validator.Validate
	logger    *zap.Logger
	config    TimetableConfig

	csv  *export.CSVExporter
	pdf  *export.PDFExporter
	xlsx *export.XLSXExporter
	ics  *export.ICSExporter
	now  func() time.Time
}

// NewTimetableService constructs a timetable service.
func NewTimetableService(repo timetableStore, validate *validator.Validate, logger *zap.Logger, cfg TimetableConfig) *TimetableService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	if cfg.ExportWeeks <= 0 {
		cfg.ExportWeeks = 16
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	return &TimetableService{
		repo:      repo,
		validator: validate,
		logger:    logger,
		config:    cfg,
		csv:       export.NewCSVExporter(),
		pdf:       export.NewPDFExporter(),
		xlsx:      export.NewXLSXExporter(),
		ics:       export.NewICSExporter(),
		now:       time.Now,
	}
}

// List returns the caller's timetables, newest first.
func (s *TimetableService) List(ctx context.Context, userID string) ([]models.Timetable, error) {
	timetables, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list timetables")
	}
	if timetables == nil {
		timetables = []models.Timetable{}
	}
	return timetables, nil
}

// Create validates and stores a snapshot. Courses are kept verbatim.
func (s *TimetableService) Create(ctx context.Context, userID string, req dto.CreateTimetableRequest) (*models.Timetable, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "timetable name and courses are required")
	}

	var items []json.RawMessage
	if err := json.Unmarshal(req.Courses, &items); err != nil || len(items) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "courses must be a non-empty array")
	}

	compact := &bytes.Buffer{}
	if err := json.Compact(compact, req.Courses); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "courses must be valid JSON")
	}

	timetable := &models.Timetable{
		UserID:  userID,
		Name:    req.Name,
		Courses: types.JSONText(compact.Bytes()),
	}
	if err := s.repo.Create(ctx, timetable); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable")
	}
	return timetable, nil
}

// Delete removes a timetable owned by the caller. Timetables of other users
// and malformed ids are reported as not found.
func (s *TimetableService) Delete(ctx context.Context, userID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	deleted, err := s.repo.DeleteOwned(ctx, id, userID)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable")
	}
	if !deleted {
		return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	return nil
}

// Export renders an owned timetable in the requested format. For ics the
// recurrence is anchored at the Monday of the week containing start.
func (s *TimetableService) Export(ctx context.Context, userID, id string, format dto.ExportFormat, start time.Time) (*dto.ExportFile, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	timetable, err := s.repo.FindOwned(ctx, id, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable")
	}

	courses := s.decodeCourses(timetable)
	base := filenameBase(timetable.Name)

	var (
		body        []byte
		contentType string
	)
	switch format {
	case dto.ExportCSV:
		body, err = s.csv.Render(coursesDataset(courses))
		contentType = "text/csv; charset=utf-8"
	case dto.ExportPDF:
		body, err = s.pdf.Render(coursesDataset(courses), timetable.Name)
		contentType = "application/pdf"
	case dto.ExportXLSX:
		body, err = s.xlsx.Render(coursesDataset(courses), "Timetable")
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case dto.ExportICS:
		if start.IsZero() {
			start = s.now()
		}
		body, err = s.ics.Render(s.calendarEvents(timetable.ID, courses, start))
		contentType = "text/calendar; charset=utf-8"
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format))
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render timetable")
	}

	return &dto.ExportFile{
		Filename:    base + "." + string(format),
		ContentType: contentType,
		Body:        body,
	}, nil
}

func (s *TimetableService) decodeCourses(timetable *models.Timetable) []dto.SnapshotCourse {
	var raw []json.RawMessage
	if err := json.Unmarshal(timetable.Courses, &raw); err != nil {
		s.logger.Warn("timetable snapshot is not an array", zap.String("timetable_id", timetable.ID), zap.Error(err))
		return nil
	}
	courses := make([]dto.SnapshotCourse, 0, len(raw))
	for i, item := range raw {
		var course dto.SnapshotCourse
		if err := json.Unmarshal(item, &course); err != nil {
			s.logger.Warn("skipping undecodable snapshot course", zap.String("timetable_id", timetable.ID), zap.Int("index", i), zap.Error(err))
			continue
		}
		courses = append(courses, course)
	}
	return courses
}

func coursesDataset(courses []dto.SnapshotCourse) export.Dataset {
	data := export.Dataset{Headers: exportHeaders}
	for _, c := range courses {
		day := dayLabel(c.Day)
		when := c.Time
		if len(c.Schedules) > 0 {
			if day == "" {
				day = scheduleDays(c.Schedules)
			}
			if when == "" {
				when = scheduleTimes(c.Schedules)
			}
		}
		data.Rows = append(data.Rows, map[string]string{
			"code":       c.Code,
			"name":       c.Name,
			"professor":  c.Professor,
			"credits":    c.Credits.String(),
			"department": c.Department,
			"courseType": c.CourseType,
			"day":        day,
			"time":       when,
		})
	}
	return data
}

func (s *TimetableService) calendarEvents(timetableID string, courses []dto.SnapshotCourse, start time.Time) []export.Event {
	loc := s.config.Location
	local := start.In(loc)
	offset := (int(local.Weekday()) + 6) % 7
	monday := time.Date(local.Year(), local.Month(), local.Day()-offset, 0, 0, 0, 0, loc)

	var events []export.Event
	for _, c := range courses {
		for i, sch := range c.Schedules {
			weekday, err := sch.Weekday.Int64()
			if err != nil || !models.Weekday(weekday).Valid() {
				continue
			}
			startMin, err := models.ParseClock(sch.StartTime)
			if err != nil {
				continue
			}
			day := monday.AddDate(0, 0, (int(weekday)+6)%7)
			begin := day.Add(time.Duration(startMin) * time.Minute)
			end := begin.Add(defaultMeetingDuration)
			if sch.EndTime != nil {
				if endMin, err := models.ParseClock(*sch.EndTime); err == nil && endMin > startMin {
					end = day.Add(time.Duration(endMin) * time.Minute)
				}
			}

			evt := export.Event{
				UID:     fmt.Sprintf("%s-%s-%d@course-registration", timetableID, courseKey(c), i),
				Summary: strings.TrimSpace(c.Code + " " + c.Name),
				Start:   begin,
				End:     end,
				Weeks:   s.config.ExportWeeks,
			}
			if c.Professor != "" {
				evt.Description = c.Professor
			}
			if sch.Location != nil {
				evt.Location = *sch.Location
			}
			events = append(events, evt)
		}
	}
	return events
}

func courseKey(c dto.SnapshotCourse) string {
	if c.Code != "" {
		return c.Code
	}
	if c.ID != "" {
		return c.ID
	}
	return "course"
}

func dayLabel(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return strings.Join(list, ", ")
	}
	var single string
	if err := json.Unmarshal(raw, &single); err == nil {
		return single
	}
	return ""
}

func scheduleDays(schedules []dto.SnapshotSchedule) string {
	seen := map[string]bool{}
	var days []string
	for _, sch := range schedules {
		n, err := sch.Weekday.Int64()
		if err != nil {
			continue
		}
		label := models.Weekday(n).Korean()
		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		days = append(days, label)
	}
	return strings.Join(days, ", ")
}

func scheduleTimes(schedules []dto.SnapshotSchedule) string {
	parts := make([]string, 0, len(schedules))
	for _, sch := range schedules {
		part := sch.StartTime
		if sch.EndTime != nil && *sch.EndTime != "" {
			part += "~" + *sch.EndTime
		}
		parts = append(parts, part)
	}
	return strings.Join(parts, ", ")
}

func filenameBase(name string) string {
	base := strings.Trim(unsafeFilename.ReplaceAllString(strings.TrimSpace(name), "_"), "_")
	if base == "" {
		return "timetable"
	}
	return base
}
