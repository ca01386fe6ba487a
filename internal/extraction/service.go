package extraction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/scentdesk/scentdesk/internal/quotas"
)

var (
	// ErrNoPages is returned when the document contains no page objects.
	ErrNoPages = errors.New("document has no pages")
	// ErrNotReady is returned when a result is requested before the job is done.
	ErrNotReady = errors.New("extraction is still running")
	// ErrFailed is returned when a result is requested for a failed job.
	ErrFailed = errors.New("extraction failed")
)

// progressCeiling caps reported progress while the job runs. The estimate is
// a guess; the bar must never claim completion before the result exists.
const progressCeiling = 95

// Extractor converts a PDF into CSV.
type Extractor interface {
	Extract(ctx context.Context, filename string, pdf []byte) ([]byte, error)
}

// QuotaConsumer meters extraction usage. Refund undoes a Consume when the
// job never made it to the queue.
type QuotaConsumer interface {
	Consume(ctx context.Context, userID int64, kind quotas.Kind) error
	Refund(ctx context.Context, userID int64, kind quotas.Kind) error
}

// Enqueuer hands a job to the background worker.
type Enqueuer interface {
	EnqueueExtraction(ctx context.Context, jobID string) error
}

// JobStatus is a job plus its derived progress percentage.
type JobStatus struct {
	Job
	Progress int `json:"progress"`
}

// Service runs PDF table extractions asynchronously and reports time-based
// progress while they run.
type Service struct {
	logger         *slog.Logger
	store          *Store
	extractor      Extractor
	quotas         QuotaConsumer
	enqueue        Enqueuer
	secondsPerPage float64
	now            func() time.Time
}

// NewService constructs a Service.
func NewService(logger *slog.Logger, store *Store, extractor Extractor, quotaConsumer QuotaConsumer, enqueuer Enqueuer, secondsPerPage float64) *Service {
	return &Service{
		logger:         logger,
		store:          store,
		extractor:      extractor,
		quotas:         quotaConsumer,
		enqueue:        enqueuer,
		secondsPerPage: secondsPerPage,
		now:            time.Now,
	}
}

// Estimate converts a page count into expected seconds of processing,
// rounded up to whole seconds.
func (s *Service) Estimate(pages int) int {
	return int(math.Ceil(float64(pages) * s.secondsPerPage))
}

// Start validates the upload, charges the quota and hands the job to the
// worker. The returned status carries the estimate the client counts against.
func (s *Service) Start(ctx context.Context, userID int64, filename string, pdf []byte) (*JobStatus, error) {
	pages, err := CountPages(pdf)
	if err != nil {
		return nil, err
	}
	if pages == 0 {
		return nil, ErrNoPages
	}
	if err := s.quotas.Consume(ctx, userID, quotas.KindPDFExtraction); err != nil {
		return nil, err
	}

	job := &Job{
		ID:               uuid.NewString(),
		UserID:           userID,
		Filename:         filename,
		Pages:            pages,
		EstimatedSeconds: s.Estimate(pages),
		State:            StateRunning,
		StartedAt:        s.now(),
	}
	if err := s.store.SavePayload(ctx, job.ID, pdf); err != nil {
		s.refund(ctx, userID)
		return nil, fmt.Errorf("save payload: %w", err)
	}
	if err := s.store.SaveJob(ctx, job); err != nil {
		s.refund(ctx, userID)
		return nil, fmt.Errorf("save job: %w", err)
	}
	if err := s.enqueue.EnqueueExtraction(ctx, job.ID); err != nil {
		s.refund(ctx, userID)
		return nil, fmt.Errorf("enqueue extraction: %w", err)
	}
	return s.status(job), nil
}

// refund hands the consumed unit back when the job never reached the queue.
func (s *Service) refund(ctx context.Context, userID int64) {
	if err := s.quotas.Refund(ctx, userID, quotas.KindPDFExtraction); err != nil {
		s.logger.Warn("quota refund", slog.Int64("user_id", userID), slog.Any("error", err))
	}
}

// Status returns the job with its current progress.
func (s *Service) Status(ctx context.Context, id string) (*JobStatus, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.status(job), nil
}

// status derives the progress percentage. While running, progress follows
// elapsed time against the estimate but never exceeds the ceiling; once the
// job finishes it reads exactly 100.
func (s *Service) status(job *Job) *JobStatus {
	progress := 0
	switch job.State {
	case StateDone, StateFailed:
		progress = 100
	case StateRunning:
		if job.EstimatedSeconds > 0 {
			elapsed := s.now().Sub(job.StartedAt).Seconds()
			progress = int(elapsed / float64(job.EstimatedSeconds) * 100)
		}
		if progress > progressCeiling {
			progress = progressCeiling
		}
		if progress < 0 {
			progress = 0
		}
	}
	return &JobStatus{Job: *job, Progress: progress}
}

// Result returns the produced CSV for a finished job.
func (s *Service) Result(ctx context.Context, id string) ([]byte, string, error) {
	job, err := s.store.GetJob(ctx, id)
	if err != nil {
		return nil, "", err
	}
	switch job.State {
	case StateRunning:
		return nil, "", ErrNotReady
	case StateFailed:
		return nil, "", fmt.Errorf("%w: %s", ErrFailed, job.Error)
	}
	csv, err := s.store.GetResult(ctx, id)
	if err != nil {
		return nil, "", err
	}
	return csv, job.Filename, nil
}

// Process is the worker entry point. It uploads the stored PDF to the
// extraction service and records the outcome on the job.
func (s *Service) Process(ctx context.Context, jobID string) error {
	job, err := s.store.GetJob(ctx, jobID)
	if err != nil {
		return err
	}
	if job.State != StateRunning {
		return nil
	}
	pdf, err := s.store.GetPayload(ctx, jobID)
	if err != nil {
		return s.fail(ctx, job, err)
	}

	csv, err := s.extractor.Extract(ctx, job.Filename, pdf)
	if err != nil {
		return s.fail(ctx, job, err)
	}
	if err := s.store.SaveResult(ctx, jobID, csv); err != nil {
		return s.fail(ctx, job, err)
	}

	now := s.now()
	job.State = StateDone
	job.FinishedAt = &now
	if err := s.store.SaveJob(ctx, job); err != nil {
		return err
	}
	_ = s.store.DeletePayload(ctx, jobID)
	return nil
}

func (s *Service) fail(ctx context.Context, job *Job, cause error) error {
	s.logger.Error("extraction failed",
		slog.String("job_id", job.ID),
		slog.Any("error", cause))
	now := s.now()
	job.State = StateFailed
	job.Error = cause.Error()
	job.FinishedAt = &now
	if err := s.store.SaveJob(ctx, job); err != nil {
		return err
	}
	return cause
}
