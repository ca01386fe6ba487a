package extraction

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrJobNotFound is returned when a job ID is unknown or expired.
var ErrJobNotFound = errors.New("extraction job not found")

// jobTTL keeps finished jobs and their results around long enough to be
// downloaded, then lets Redis reclaim them.
const jobTTL = 24 * time.Hour

// State is the lifecycle state of an extraction job.
type State string

const (
	StateRunning State = "running"
	StateDone    State = "done"
	StateFailed  State = "failed"
)

// Job tracks one PDF extraction from upload to downloadable CSV.
type Job struct {
	ID               string     `json:"id"`
	UserID           int64      `json:"user_id"`
	Filename         string     `json:"filename"`
	Pages            int        `json:"pages"`
	EstimatedSeconds int        `json:"estimated_seconds"`
	State            State      `json:"state"`
	Error            string     `json:"error,omitempty"`
	StartedAt        time.Time  `json:"started_at"`
	FinishedAt       *time.Time `json:"finished_at,omitempty"`
}

// Store keeps jobs, uploaded payloads and results in Redis so the HTTP
// process and the worker share state.
type Store struct {
	client *redis.Client
}

// NewStore constructs a Store.
func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func jobKey(id string) string     { return "extraction:job:" + id }
func payloadKey(id string) string { return "extraction:pdf:" + id }
func resultKey(id string) string  { return "extraction:csv:" + id }

// SaveJob writes the job record.
func (s *Store) SaveJob(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}
	return s.client.Set(ctx, jobKey(job.ID), data, jobTTL).Err()
}

// GetJob loads a job record.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	data, err := s.client.Get(ctx, jobKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	var job Job
	if err := json.Unmarshal(data, &job); err != nil {
		return nil, fmt.Errorf("unmarshal job: %w", err)
	}
	return &job, nil
}

// SavePayload stores the uploaded PDF for the worker to pick up.
func (s *Store) SavePayload(ctx context.Context, id string, pdf []byte) error {
	return s.client.Set(ctx, payloadKey(id), pdf, jobTTL).Err()
}

// GetPayload reads the uploaded PDF. It stays in place until DeletePayload so
// a retried job can still find it.
func (s *Store) GetPayload(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, payloadKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return data, nil
}

// DeletePayload drops the uploaded PDF once it is no longer needed.
func (s *Store) DeletePayload(ctx context.Context, id string) error {
	return s.client.Del(ctx, payloadKey(id)).Err()
}

// SaveResult stores the produced CSV.
func (s *Store) SaveResult(ctx context.Context, id string, csv []byte) error {
	return s.client.Set(ctx, resultKey(id), csv, jobTTL).Err()
}

// GetResult loads the produced CSV.
func (s *Store) GetResult(ctx context.Context, id string) ([]byte, error) {
	data, err := s.client.Get(ctx, resultKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return data, nil
}
