package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type catalogWriter interface {
	Upsert(ctx context.Context, class models.Class, schedules []models.ClassSchedule) error
}

// CatalogService imports course catalogs. Imports are keyed on the course
// code, so re-running the same catalog is harmless.
type CatalogService struct {
	repo    catalogWriter
	catalog catalogInvalidator
	logger  *zap.Logger
}

// NewCatalogService constructs a catalog importer.
func NewCatalogService(repo catalogWriter, catalog catalogInvalidator, logger *zap.Logger) *CatalogService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogService{repo: repo, catalog: catalog, logger: logger}
}

// ParseCatalog decodes a YAML catalog: a top-level list of courses.
func ParseCatalog(r io.Reader) ([]models.CatalogEntry, error) {
	var entries []models.CatalogEntry
	if err := yaml.NewDecoder(r).Decode(&entries); err != nil {
		if err == io.EOF {
			return nil, nil
		}
		return nil, fmt.Errorf("decode catalog: %w", err)
	}
	return entries, nil
}

type preparedClass struct {
	class     models.Class
	schedules []models.ClassSchedule
}

// Import validates every entry before writing any of them, then upserts each class.
func (s *CatalogService) Import(ctx context.Context, entries []models.CatalogEntry) (*dto.ImportResult, error) {
	prepared := make([]preparedClass, 0, len(entries))
	seen := make(map[string]bool, len(entries))
	for i, entry := range entries {
		p, err := prepareEntry(entry)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("catalog entry %d: %v", i+1, err))
		}
		if seen[p.class.ID] {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("catalog entry %d: duplicate code %s", i+1, p.class.ID))
		}
		seen[p.class.ID] = true
		prepared = append(prepared, p)
	}

	result := &dto.ImportResult{}
	for _, p := range prepared {
		if err := s.repo.Upsert(ctx, p.class, p.schedules); err != nil {
			return result, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, fmt.Sprintf("failed to import %s", p.class.ID))
		}
		result.Classes++
		result.Schedules += len(p.schedules)
	}

	if s.catalog != nil && result.Classes > 0 {
		s.catalog.InvalidateCatalog(ctx)
	}
	s.logger.Info("catalog imported", zap.Int("classes", result.Classes), zap.Int("schedules", result.Schedules))
	return result, nil
}

func prepareEntry(entry models.CatalogEntry) (preparedClass, error) {
	code := strings.TrimSpace(entry.Code)
	if code == "" {
		return preparedClass{}, fmt.Errorf("code is required")
	}
	name := strings.TrimSpace(entry.Name)
	if name == "" {
		return preparedClass{}, fmt.Errorf("%s: name is required", code)
	}
	if entry.Capacity < 0 || entry.Credits < 0 || entry.Enrolled < 0 {
		return preparedClass{}, fmt.Errorf("%s: credits, capacity and enrolled must not be negative", code)
	}
	courseType, err := models.ParseCourseType(entry.CourseType)
	if err != nil {
		return preparedClass{}, fmt.Errorf("%s: %w", code, err)
	}

	schedules := make([]models.ClassSchedule, 0, len(entry.Schedules))
	for _, raw := range entry.Schedules {
		sch, err := prepareSchedule(raw)
		if err != nil {
			return preparedClass{}, fmt.Errorf("%s: %w", code, err)
		}
		schedules = append(schedules, sch)
	}

	return preparedClass{
		class: models.Class{
			ID:         code,
			Code:       code,
			Name:       name,
			Professor:  strings.TrimSpace(entry.Professor),
			Credits:    entry.Credits,
			Capacity:   entry.Capacity,
			Enrolled:   entry.Enrolled,
			Department: strings.TrimSpace(entry.Department),
			CourseType: courseType,
		},
		schedules: schedules,
	}, nil
}

func prepareSchedule(raw models.CatalogSchedule) (models.ClassSchedule, error) {
	weekday, err := models.ParseWeekday(raw.Day)
	if err != nil {
		return models.ClassSchedule{}, err
	}
	startMin, err := models.ParseClock(raw.StartTime)
	if err != nil {
		return models.ClassSchedule{}, err
	}

	sch := models.ClassSchedule{
		Weekday:   weekday,
		StartTime: formatClock(startMin),
	}
	if end := strings.TrimSpace(raw.EndTime); end != "" {
		endMin, err := models.ParseClock(end)
		if err != nil {
			return models.ClassSchedule{}, err
		}
		if endMin <= startMin {
			return models.ClassSchedule{}, fmt.Errorf("meeting on %s ends at %s before it starts at %s", weekday.Korean(), end, raw.StartTime)
		}
		endText := formatClock(endMin)
		duration := endMin - startMin
		sch.EndTime = &endText
		sch.DurationMinutes = &duration
	}
	if loc := strings.TrimSpace(raw.Location); loc != "" {
		sch.Location = &loc
	}
	return sch, nil
}

func formatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}
