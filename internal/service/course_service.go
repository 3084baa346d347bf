package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

const (
	catalogCoursesKey = "catalog:courses"
	catalogAlertsKey  = "catalog:alerts"
)

type classReader interface {
	ListWithSchedules(ctx context.Context) ([]models.ClassWithSchedules, error)
	ListDemandAlerts(ctx context.Context) ([]models.Class, error)
	FindByIDs(ctx context.Context, ids []string) ([]models.ClassWithSchedules, error)
}

type catalogCache interface {
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
}

// CourseService serves read-only catalog queries.
type CourseService struct {
	repo   classReader
	cache  catalogCache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCourseService constructs the catalog query service. A nil cache disables caching.
func NewCourseService(repo classReader, cache catalogCache, ttl time.Duration, logger *zap.Logger) *CourseService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cache == nil {
		cache = (*CacheService)(nil)
	}
	return &CourseService{repo: repo, cache: cache, ttl: ttl, logger: logger}
}

// List returns every class with nested schedules ordered by id.
func (s *CourseService) List(ctx context.Context) ([]models.ClassWithSchedules, error) {
	return readThrough(ctx, s, catalogCoursesKey, "failed to list courses", s.repo.ListWithSchedules)
}

// ListDemandAlerts returns classes flagged NEAR or FULL by the last aggregation.
func (s *CourseService) ListDemandAlerts(ctx context.Context) ([]models.Class, error) {
	return readThrough(ctx, s, catalogAlertsKey, "failed to list demand alerts", s.repo.ListDemandAlerts)
}

// readThrough serves key from the cache, falling back to load and caching its
// result. Cache failures never fail the request.
func readThrough[T any](ctx context.Context, s *CourseService, key, failure string, load func(context.Context) ([]T, error)) ([]T, error) {
	var cached []T
	if hit, err := s.cache.Get(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	items, err := load(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, failure)
	}
	if items == nil {
		items = []T{}
	}
	if err := s.cache.Set(ctx, key, items, s.ttl); err != nil {
		s.logger.Debug("listing not cached", zap.String("key", key), zap.Error(err))
	}
	return items, nil
}

// InvalidateCatalog drops cached listings after enrolled or demand status change.
func (s *CourseService) InvalidateCatalog(ctx context.Context) {
	if err := s.cache.Delete(ctx, catalogCoursesKey, catalogAlertsKey); err != nil {
		s.logger.Warn("failed to invalidate catalog cache", zap.Error(err))
	}
}

// CheckConflicts reports every pair of meetings among the classes that overlap on the same weekday.
func (s *CourseService) CheckConflicts(ctx context.Context, classIDs []string) (*dto.ConflictReport, error) {
	ids := uniqueTrimmed(classIDs)
	if len(ids) < 2 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least two distinct class ids are required")
	}

	classes, err := s.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes")
	}
	if missing := missingIDs(ids, classes); len(missing) > 0 {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("class not found: %s", strings.Join(missing, ", ")))
	}

	report := &dto.ConflictReport{Conflicts: []dto.ScheduleConflict{}}
	for i := 0; i < len(classes); i++ {
		for j := i + 1; j < len(classes); j++ {
			report.Conflicts = append(report.Conflicts, overlaps(classes[i], classes[j])...)
		}
	}
	report.HasConflict = len(report.Conflicts) > 0
	return report, nil
}

type meeting struct {
	weekday    models.Weekday
	start, end int
	label      string
}

func meetingsOf(c models.ClassWithSchedules) []meeting {
	out := make([]meeting, 0, len(c.Schedules))
	for _, sch := range c.Schedules {
		start, err := models.ParseClock(sch.StartTime)
		if err != nil {
			continue
		}
		end := start
		label := sch.StartTime
		if sch.EndTime != nil {
			if parsed, err := models.ParseClock(*sch.EndTime); err == nil {
				end = parsed
				label = sch.StartTime + "~" + *sch.EndTime
			}
		} else if sch.DurationMinutes != nil {
			end = start + *sch.DurationMinutes
		}
		out = append(out, meeting{weekday: sch.Weekday, start: start, end: end, label: label})
	}
	return out
}

func overlaps(a, b models.ClassWithSchedules) []dto.ScheduleConflict {
	var conflicts []dto.ScheduleConflict
	for _, ma := range meetingsOf(a) {
		for _, mb := range meetingsOf(b) {
			if ma.weekday != mb.weekday {
				continue
			}
			if ma.start < mb.end && ma.end > mb.start {
				conflicts = append(conflicts, dto.ScheduleConflict{
					ClassA:  a.ID,
					ClassB:  b.ID,
					Weekday: int(ma.weekday),
					Day:     ma.weekday.Korean(),
					TimeA:   ma.label,
					TimeB:   mb.label,
				})
			}
		}
	}
	return conflicts
}

func uniqueTrimmed(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

func missingIDs(ids []string, classes []models.ClassWithSchedules) []string {
	found := make(map[string]struct{}, len(classes))
	for _, c := range classes {
		found[c.ID] = struct{}{}
	}
	var missing []string
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing
}
