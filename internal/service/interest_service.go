package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type interestStore interface {
	Toggle(ctx context.Context, userID, classID string) (*models.ToggleOutcome, error)
	ListClassIDsByUser(ctx context.Context, userID string) ([]string, error)
}

type catalogInvalidator interface {
	InvalidateCatalog(ctx context.Context)
}

// InterestService records which classes a student intends to take.
//
// Toggling adjusts classes.enrolled in the same transaction as the interest
// row, so the counter is a best-effort cache between aggregation runs.
// demand_status is never touched here; it only changes when DemandService runs.
type InterestService struct {
	repo    interestStore
	catalog catalogInvalidator
	metrics *MetricsService
	logger  *zap.Logger
}

// NewInterestService constructs an interest service.
func NewInterestService(repo interestStore, catalog catalogInvalidator, metrics *MetricsService, logger *zap.Logger) *InterestService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InterestService{repo: repo, catalog: catalog, metrics: metrics, logger: logger}
}

// Toggle flips the caller's interest in a class and returns the class counter after the change.
func (s *InterestService) Toggle(ctx context.Context, userID, classID string) (*dto.ToggleInterestResult, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	classID = strings.TrimSpace(classID)
	if classID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class id is required")
	}

	start := time.Now()
	outcome, err := s.repo.Toggle(ctx, userID, classID)
	s.metrics.ObserveDBQuery("interest_toggle", time.Since(start))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle interest")
	}

	s.metrics.RecordInterestToggle(outcome.IsInterested)
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}

	message := "removed from interests"
	if outcome.IsInterested {
		message = "added to interests"
	}
	s.logger.Debug("interest toggled",
		zap.String("user_id", userID),
		zap.String("class_id", outcome.ClassID),
		zap.Bool("interested", outcome.IsInterested),
		zap.Int("enrolled", outcome.Enrolled),
	)

	return &dto.ToggleInterestResult{
		Message:      message,
		IsInterested: outcome.IsInterested,
		Course: dto.InterestCourse{
			ID:       outcome.ClassID,
			Enrolled: outcome.Enrolled,
			Capacity: outcome.Capacity,
		},
	}, nil
}

// ListMine returns the ids of classes the caller is interested in, ascending.
func (s *InterestService) ListMine(ctx context.Context, userID string) (*dto.InterestList, error) {
	if userID == "" {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "authentication required")
	}
	ids, err := s.repo.ListClassIDsByUser(ctx, userID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list interests")
	}
	if ids == nil {
		ids = []string{}
	}
	return &dto.InterestList{Courses: ids}, nil
}
