package jobs

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/hibiken/asynq"
)

// ExtractionProcessor runs a stored extraction job to completion.
type ExtractionProcessor interface {
	Process(ctx context.Context, jobID string) error
}

// NewExtractionHandler builds the handler for TaskTypeExtraction.
func NewExtractionHandler(processor ExtractionProcessor, logger *slog.Logger) asynq.HandlerFunc {
	return func(ctx context.Context, t *asynq.Task) error {
		var payload ExtractionPayload
		if err := json.Unmarshal(t.Payload(), &payload); err != nil {
			return asynq.SkipRetry
		}
		if err := processor.Process(ctx, payload.JobID); err != nil {
			logger.Error("extraction run",
				slog.String("job_id", payload.JobID),
				slog.Any("error", err))
			return err
		}
		return nil
	}
}
