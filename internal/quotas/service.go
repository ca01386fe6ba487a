package quotas

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/scentdesk/scentdesk/internal/platform/httpx"
)

// Kind names a metered action.
type Kind string

const (
	KindCSVExport     Kind = "csv_export"
	KindPDFExtraction Kind = "pdf_extraction"
)

// Kinds lists every metered action.
var Kinds = []Kind{KindCSVExport, KindPDFExtraction}

// counterTTL outlives the month the counter belongs to, so keys clean
// themselves up without a scheduled sweep of the current period.
const counterTTL = 62 * 24 * time.Hour

// Limits holds the per-month allowances granted by a user's role.
// A non-positive limit means unmetered.
type Limits struct {
	CSVExport     int
	PDFExtraction int
}

// Limit returns the allowance for one kind.
func (l Limits) Limit(kind Kind) int {
	switch kind {
	case KindCSVExport:
		return l.CSVExport
	case KindPDFExtraction:
		return l.PDFExtraction
	}
	return 0
}

// LimitResolver looks up a user's monthly allowances.
type LimitResolver interface {
	Limits(ctx context.Context, userID int64) (Limits, error)
}

// Usage reports consumption of one kind for the current month.
type Usage struct {
	Kind      Kind `json:"kind"`
	Used      int  `json:"used"`
	Limit     int  `json:"limit"`
	Unlimited bool `json:"unlimited"`
}

// Service meters monthly per-user action counts in Redis.
type Service struct {
	client   *redis.Client
	resolver LimitResolver
	now      func() time.Time
}

// NewService constructs a Service.
func NewService(client *redis.Client, resolver LimitResolver) *Service {
	return &Service{client: client, resolver: resolver, now: time.Now}
}

func (s *Service) key(userID int64, kind Kind) string {
	return fmt.Sprintf("quota:%d:%s:%s", userID, kind, s.now().UTC().Format("2006-01"))
}

// Consume counts one use of kind for the user. When the role's monthly limit
// is already reached the increment is rolled back and ErrQuotaExceeded is
// returned, which the HTTP layer maps to 429.
func (s *Service) Consume(ctx context.Context, userID int64, kind Kind) error {
	limits, err := s.resolver.Limits(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve limits: %w", err)
	}
	limit := limits.Limit(kind)
	if limit <= 0 {
		return nil
	}

	key := s.key(userID, kind)
	used, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("increment quota: %w", err)
	}
	if used == 1 {
		s.client.Expire(ctx, key, counterTTL)
	}
	if used > int64(limit) {
		s.client.Decr(ctx, key)
		return fmt.Errorf("%w: %s limit of %d reached this month", httpx.ErrQuotaExceeded, kind, limit)
	}
	return nil
}

// Refund hands back one previously consumed unit. Callers use it when the
// metered operation fails after Consume already counted it, so a broken queue
// or store never burns the user's allowance.
func (s *Service) Refund(ctx context.Context, userID int64, kind Kind) error {
	limits, err := s.resolver.Limits(ctx, userID)
	if err != nil {
		return fmt.Errorf("resolve limits: %w", err)
	}
	if limits.Limit(kind) <= 0 {
		return nil
	}
	key := s.key(userID, kind)
	used, err := s.client.Decr(ctx, key).Result()
	if err != nil {
		return fmt.Errorf("decrement quota: %w", err)
	}
	if used < 0 {
		// The counter expired between Consume and Refund.
		s.client.Del(ctx, key)
	}
	return nil
}

// UsageFor reports the user's current-month consumption for every kind.
func (s *Service) UsageFor(ctx context.Context, userID int64) ([]Usage, error) {
	limits, err := s.resolver.Limits(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("resolve limits: %w", err)
	}
	usages := make([]Usage, 0, len(Kinds))
	for _, kind := range Kinds {
		used, err := s.client.Get(ctx, s.key(userID, kind)).Int()
		if err != nil && err != redis.Nil {
			return nil, fmt.Errorf("read quota: %w", err)
		}
		limit := limits.Limit(kind)
		usages = append(usages, Usage{
			Kind:      kind,
			Used:      used,
			Limit:     limit,
			Unlimited: limit <= 0,
		})
	}
	return usages, nil
}
