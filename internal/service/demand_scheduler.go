package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/course-registration-api/internal/dto"
	"github.com/noah-isme/course-registration-api/pkg/jobs"
)

// JobTypeDemandAggregate identifies scheduled aggregation jobs.
const JobTypeDemandAggregate = "demand.aggregate"

type demandAggregator interface {
	Aggregate(ctx context.Context) (*dto.AggregateResult, error)
}

// DemandScheduler periodically enqueues aggregation runs on a single-worker
// queue so runs never overlap.
type DemandScheduler struct {
	queue    *jobs.Queue
	interval time.Duration
	logger   *zap.Logger

	mu     sync.Mutex
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDemandScheduler builds a scheduler. A non-positive interval disables it.
func NewDemandScheduler(aggregator demandAggregator, interval time.Duration, retries int, logger *zap.Logger) *DemandScheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	handler := func(ctx context.Context, job jobs.Job) error {
		_, err := aggregator.Aggregate(ctx)
		return err
	}
	queue := jobs.NewQueue("demand", handler, jobs.QueueConfig{
		Workers:    1,
		BufferSize: 1,
		MaxRetries: retries,
		RetryDelay: 30 * time.Second,
		Logger:     logger,
	})
	return &DemandScheduler{queue: queue, interval: interval, logger: logger}
}

// Enabled reports whether periodic aggregation is configured.
func (s *DemandScheduler) Enabled() bool {
	return s != nil && s.interval > 0
}

// Start launches the worker and the ticker. It is a no-op when disabled.
func (s *DemandScheduler) Start(ctx context.Context) {
	if !s.Enabled() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cancel != nil {
		return
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	s.queue.Start(runCtx)

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-runCtx.Done():
				return
			case <-ticker.C:
				s.enqueue()
			}
		}
	}()
	s.logger.Info("demand scheduler started", zap.Duration("interval", s.interval))
}

// Stop halts the ticker and drains the worker.
func (s *DemandScheduler) Stop() {
	if s == nil {
		return
	}
	s.mu.Lock()
	cancel := s.cancel
	s.cancel = nil
	s.mu.Unlock()
	if cancel == nil {
		return
	}
	cancel()
	s.wg.Wait()
	s.queue.Stop()
}

func (s *DemandScheduler) enqueue() {
	err := s.queue.TryEnqueue(jobs.Job{ID: uuid.NewString(), Type: JobTypeDemandAggregate})
	if err == nil {
		return
	}
	if errors.Is(err, jobs.ErrQueueFull) {
		s.logger.Debug("demand aggregation still pending, tick skipped")
		return
	}
	s.logger.Warn("failed to enqueue demand aggregation", zap.Error(err))
}
