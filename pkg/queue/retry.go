package queue

import (
	"context"
	"encoding/json"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rishavanand/bazario/pkg/logger"
)

// RetryFailed re-dispatches every persisted failed job of the given type
// and removes the records that were successfully requeued. Returns how many
// jobs went back on the queue. A nil failed-jobs collection is a no-op.
func RetryFailed(ctx context.Context, jobType string) (int, error) {
	if failedJobCol == nil {
		return 0, nil
	}

	cur, err := failedJobCol.Find(ctx, bson.M{"job_type": jobType})
	if err != nil {
		return 0, err
	}
	var records []FailedJobRecord
	if err := cur.All(ctx, &records); err != nil {
		return 0, err
	}

	defaultManager.mu.RLock()
	factory, ok := defaultManager.registry[jobType]
	defaultManager.mu.RUnlock()
	if !ok {
		logger.Warn("queue: retry skipped, job type not registered", "type", jobType)
		return 0, nil
	}

	requeued := 0
	for _, rec := range records {
		job := factory()
		if err := json.Unmarshal([]byte(rec.Payload), job); err != nil {
			logger.Error("queue: failed job payload unreadable",
				"type", jobType, "id", rec.ID.Hex(), "error", err)
			continue
		}
		if err := Dispatch(job); err != nil {
			logger.Error("queue: failed job redispatch failed",
				"type", jobType, "id", rec.ID.Hex(), "error", err)
			continue
		}
		if _, err := failedJobCol.DeleteOne(ctx, bson.M{"_id": rec.ID}); err != nil {
			logger.Warn("queue: could not remove requeued failed job",
				"id", rec.ID.Hex(), "error", err)
		}
		requeued++
	}
	return requeued, nil
}
