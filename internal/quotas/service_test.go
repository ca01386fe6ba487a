package quotas

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scentdesk/scentdesk/internal/platform/httpx"
)

type staticResolver struct {
	limits Limits
}

func (s staticResolver) Limits(context.Context, int64) (Limits, error) {
	return s.limits, nil
}

func newTestService(t *testing.T, limits Limits) (*Service, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return NewService(client, staticResolver{limits: limits}), mr
}

func TestConsumeBlocksAtLimit(t *testing.T) {
	svc, _ := newTestService(t, Limits{CSVExport: 3})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, svc.Consume(ctx, 1, KindCSVExport))
	}
	err := svc.Consume(ctx, 1, KindCSVExport)
	assert.ErrorIs(t, err, httpx.ErrQuotaExceeded)

	usages, err := svc.UsageFor(ctx, 1)
	require.NoError(t, err)
	for _, u := range usages {
		if u.Kind == KindCSVExport {
			assert.Equal(t, 3, u.Used)
		}
	}
}

func TestConsumeTracksKindsSeparately(t *testing.T) {
	svc, _ := newTestService(t, Limits{CSVExport: 1, PDFExtraction: 1})
	ctx := context.Background()

	require.NoError(t, svc.Consume(ctx, 1, KindCSVExport))
	require.NoError(t, svc.Consume(ctx, 1, KindPDFExtraction))
	assert.ErrorIs(t, svc.Consume(ctx, 1, KindCSVExport), httpx.ErrQuotaExceeded)
}

func TestConsumeTracksUsersSeparately(t *testing.T) {
	svc, _ := newTestService(t, Limits{CSVExport: 1})
	ctx := context.Background()

	require.NoError(t, svc.Consume(ctx, 1, KindCSVExport))
	require.NoError(t, svc.Consume(ctx, 2, KindCSVExport))
	assert.ErrorIs(t, svc.Consume(ctx, 1, KindCSVExport), httpx.ErrQuotaExceeded)
}

func TestUnlimitedRoleNeverConsumes(t *testing.T) {
	svc, mr := newTestService(t, Limits{})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		require.NoError(t, svc.Consume(ctx, 1, KindPDFExtraction))
	}
	assert.Empty(t, mr.Keys())
}

func TestRefundReopensTheAllowance(t *testing.T) {
	svc, _ := newTestService(t, Limits{PDFExtraction: 1})
	ctx := context.Background()

	require.NoError(t, svc.Consume(ctx, 1, KindPDFExtraction))
	assert.ErrorIs(t, svc.Consume(ctx, 1, KindPDFExtraction), httpx.ErrQuotaExceeded)

	require.NoError(t, svc.Refund(ctx, 1, KindPDFExtraction))
	assert.NoError(t, svc.Consume(ctx, 1, KindPDFExtraction))
}

func TestRefundOnUnmeteredRoleLeavesNoKeys(t *testing.T) {
	svc, mr := newTestService(t, Limits{})
	ctx := context.Background()

	require.NoError(t, svc.Refund(ctx, 1, KindCSVExport))
	assert.Empty(t, mr.Keys())
}

func TestCounterResetsNextMonth(t *testing.T) {
	svc, _ := newTestService(t, Limits{CSVExport: 1})
	ctx := context.Background()

	current := time.Date(2026, time.March, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return current }

	require.NoError(t, svc.Consume(ctx, 1, KindCSVExport))
	assert.ErrorIs(t, svc.Consume(ctx, 1, KindCSVExport), httpx.ErrQuotaExceeded)

	current = current.AddDate(0, 1, 0)
	assert.NoError(t, svc.Consume(ctx, 1, KindCSVExport))
}
