package logger

import (
	"context"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// NewMongoHandler returns an slog.Handler that mirrors log records into the
// given collection. Records are buffered and written in batches off the
// request path; when the buffer is full new records are dropped rather than
// blocking a handler. Call Close on shutdown to flush what is pending.
//
// The collection should come from the application's own connection:
//
//	logger.NewMongoHandler(database.Collection("logs"))
func NewMongoHandler(col *mongo.Collection) *MongoHandler {
	h := &MongoHandler{
		col:     col,
		pending: make(chan logEntry, 4096),
		closed:  make(chan struct{}),
	}
	go h.flusher()
	return h
}

type logEntry struct {
	Time      time.Time `bson:"time"`
	Level     string    `bson:"level"`
	Msg       string    `bson:"msg"`
	RequestID string    `bson:"request_id,omitempty"`
	Attrs     bson.M    `bson:"attrs,omitempty"`
}

// MongoHandler buffers slog records and batch-inserts them into Mongo.
type MongoHandler struct {
	col     *mongo.Collection
	pending chan logEntry
	closed  chan struct{}
	bound   []slog.Attr
}

func (h *MongoHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *MongoHandler) Handle(_ context.Context, r slog.Record) error {
	entry := logEntry{
		Time:  r.Time,
		Level: r.Level.String(),
		Msg:   r.Message,
		Attrs: bson.M{},
	}

	collect := func(a slog.Attr) {
		if a.Key == "request_id" {
			entry.RequestID = a.Value.String()
			return
		}
		entry.Attrs[a.Key] = a.Value.Any()
	}
	for _, a := range h.bound {
		collect(a)
	}
	r.Attrs(func(a slog.Attr) bool {
		collect(a)
		return true
	})

	select {
	case h.pending <- entry:
	default:
		// Full buffer: drop. Logging never blocks a request.
	}
	return nil
}

func (h *MongoHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.bound = append(append([]slog.Attr(nil), h.bound...), attrs...)
	return &clone
}

// WithGroup is accepted but flattened; the log documents stay one level deep
// so they remain queryable with plain field filters.
func (h *MongoHandler) WithGroup(string) slog.Handler { return h }

func (h *MongoHandler) flusher() {
	const batchMax = 50

	tick := time.NewTicker(2 * time.Second)
	defer tick.Stop()

	batch := make([]interface{}, 0, batchMax)
	write := func() {
		if len(batch) == 0 {
			return
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		h.col.InsertMany(ctx, batch) //nolint:errcheck
		cancel()
		batch = batch[:0]
	}

	for {
		select {
		case e := <-h.pending:
			batch = append(batch, e)
			if len(batch) == batchMax {
				write()
			}
		case <-tick.C:
			write()
		case <-h.closed:
			for {
				select {
				case e := <-h.pending:
					batch = append(batch, e)
				default:
					write()
					return
				}
			}
		}
	}
}

// Close flushes buffered records. Safe to call more than once.
func (h *MongoHandler) Close() {
	select {
	case <-h.closed:
	default:
		close(h.closed)
	}
}

// NewMultiHandler fans every record out to each of hs, so the same log line
// can hit stderr and the logs collection.
func NewMultiHandler(hs ...slog.Handler) slog.Handler {
	return multiHandler(hs)
}

type multiHandler []slog.Handler

func (m multiHandler) Enabled(ctx context.Context, l slog.Level) bool {
	for _, h := range m {
		if h.Enabled(ctx, l) {
			return true
		}
	}
	return false
}

func (m multiHandler) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range m {
		if h.Enabled(ctx, r.Level) {
			h.Handle(ctx, r.Clone()) //nolint:errcheck
		}
	}
	return nil
}

func (m multiHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (m multiHandler) WithGroup(name string) slog.Handler {
	out := make(multiHandler, len(m))
	for i, h := range m {
		out[i] = h.WithGroup(name)
	}
	return out
}
