package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/internal/models"
	appErrors "github.com/noah-isme/course-registration-api/pkg/errors"
)

type demandClassStore interface {
	ListCapacities(ctx context.Context) ([]models.ClassCapacity, error)
	UpdateDemand(ctx context.Context, id string, enrolled int, status models.DemandStatus, at time.Time) (bool, error)
}

type interestCounter interface {
	CountByClass(ctx context.Context, classID string) (int, error)
}

// DemandService resynchronises classes.enrolled with the interest rows and
// derives demand_status. Each class is read and written independently, so an
// interrupted pass is repaired by running it again.
type DemandService struct {
	classes   demandClassStore
	interests interestCounter
	catalog   catalogInvalidator
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewDemandService constructs the demand aggregation service.
func NewDemandService(classes demandClassStore, interests interestCounter, catalog catalogInvalidator, metrics *MetricsService, logger *zap.Logger) *DemandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DemandService{
		classes:   classes,
		interests: interests,
		catalog:   catalog,
		metrics:   metrics,
		logger:    logger,
		now:       time.Now,
	}
}

// Aggregate recounts interests for every class in id order and writes back
// enrolled and demand_status where they changed. A completed pass always drops
// the cached catalog, since a listing may have been cached from a read that
// raced an earlier pass.
func (s *DemandService) Aggregate(ctx context.Context) (result *dto.AggregateResult, err error) {
	start := time.Now()
	var summaries []models.DemandSummary
	defer func() {
		s.metrics.ObserveAggregation(err, time.Since(start), summaries)
	}()

	classes, err := s.classes.ListCapacities(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load classes for aggregation")
	}

	summaries = make([]models.DemandSummary, 0, len(classes))
	changed := 0
	for _, class := range classes {
		count, err := s.interests.CountByClass(ctx, class.ID)
		if err != nil {
			s.invalidatePartial(ctx, changed)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count interests")
		}

		status := models.ComputeDemandStatus(count, class.Capacity)
		updated, err := s.classes.UpdateDemand(ctx, class.ID, count, status, s.now().UTC())
		if err != nil {
			s.invalidatePartial(ctx, changed)
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update class demand")
		}
		if updated {
			changed++
		}

		summaries = append(summaries, models.DemandSummary{
			ClassID:       class.ID,
			InterestCount: count,
			Capacity:      class.Capacity,
			DemandStatus:  status,
		})
	}

	s.invalidate(ctx)
	s.logger.Info("demand aggregated",
		zap.Int("classes", len(summaries)),
		zap.Int("changed", changed),
		zap.Duration("duration", time.Since(start)),
	)

	return &dto.AggregateResult{Updated: len(summaries), Changed: changed, Summaries: summaries}, nil
}

func (s *DemandService) invalidate(ctx context.Context) {
	if s.catalog != nil {
		s.catalog.InvalidateCatalog(ctx)
	}
}

// invalidatePartial drops the catalog after an interrupted pass that already wrote rows.
func (s *DemandService) invalidatePartial(ctx context.Context, changed int) {
	if changed > 0 {
		s.invalidate(ctx)
	}
}
