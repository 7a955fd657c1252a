package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rishavanand/bazario/pkg/logger"
)

// FailedJobRecord is the document persisted to the failed_jobs collection.
type FailedJobRecord struct {
	ID       primitive.ObjectID `bson:"_id,omitempty"`
	JobType  string             `bson:"job_type"`
	Payload  string             `bson:"payload"`
	Error    string             `bson:"error"`
	Attempts int                `bson:"attempts"`
	FailedAt time.Time          `bson:"failed_at"`
}

// failedJobCol is the optional Mongo backend for persisting failed jobs.
// Set via UseCollection() — nil means in-memory only.
var failedJobCol *mongo.Collection

// UseCollection configures the queue to persist failed jobs to MongoDB.
// Call once at boot, after database.Connect():
//
//	queue.UseCollection(database.Collection("failed_jobs"))
func UseCollection(col *mongo.Collection) {
	failedJobCol = col
}

// persistFailed writes a failed job record to MongoDB (if configured) and
// always appends to the in-memory slice as a fallback.
func (m *Manager) persistFailed(job Job, typeName string, lastErr error, attempts int) {
	m.mu.Lock()
	m.failed = append(m.failed, FailedJob{
		Job: job, Err: lastErr, FailedAt: time.Now(), Attempts: attempts,
	})
	m.mu.Unlock()

	if failedJobCol == nil {
		return
	}

	payload, err := json.Marshal(job)
	if err != nil {
		payload = []byte(fmt.Sprintf(`{"error": "could not marshal: %v"}`, err))
	}

	record := FailedJobRecord{
		JobType:  typeName,
		Payload:  string(payload),
		Error:    lastErr.Error(),
		Attempts: attempts,
		FailedAt: time.Now(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := failedJobCol.InsertOne(ctx, record); err != nil {
		// Non-fatal; the in-memory slice still has it.
		logger.Error("queue: persist failed job", "type", typeName, "error", err)
	}
}
