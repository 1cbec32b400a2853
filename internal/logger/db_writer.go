package logger

import (
	"context"
	"fmt"
	"os"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap/zapcore"
)

// LogEntry is what DBCore hands to the writer.
type LogEntry struct {
	Level   zapcore.Level
	Message string
	Caller  string
	Fields  map[string]interface{}
	Time    time.Time
}

// LogRecord is the persisted shape of a LogEntry.
type LogRecord struct {
	Level     string                 `bson:"level"`
	Message   string                 `bson:"message"`
	Caller    string                 `bson:"caller,omitempty"`
	Fields    map[string]interface{} `bson:"fields,omitempty"`
	CreatedAt time.Time              `bson:"created_at"`
}

// LogSink is satisfied by *mongo.Collection.
type LogSink interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// DBLogWriter persists entries from a buffered channel on one goroutine so
// request handlers never wait on the database.
type DBLogWriter struct {
	sink    LogSink
	logChan chan LogEntry
	done    chan struct{}

	mu     sync.RWMutex
	closed bool
}

func NewDBLogWriter(sink LogSink) *DBLogWriter {
	w := &DBLogWriter{
		sink:    sink,
		logChan: make(chan LogEntry, 1000),
		done:    make(chan struct{}),
	}
	go w.processLogs()
	return w
}

// AddLog enqueues entry, dropping it when the buffer is full or the writer is closed.
func (w *DBLogWriter) AddLog(entry LogEntry) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	if w.closed {
		return
	}

	select {
	case w.logChan <- entry:
	default:
		fmt.Fprintln(os.Stderr, "log buffer full, dropping:", entry.Message)
	}
}

// Close stops accepting entries and waits for the queue to drain or ctx to end.
func (w *DBLogWriter) Close(ctx context.Context) error {
	w.mu.Lock()
	if !w.closed {
		w.closed = true
		close(w.logChan)
	}
	w.mu.Unlock()

	select {
	case <-w.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (w *DBLogWriter) processLogs() {
	defer close(w.done)
	for entry := range w.logChan {
		record := LogRecord{
			Level:     entry.Level.String(),
			Message:   entry.Message,
			Caller:    entry.Caller,
			Fields:    entry.Fields,
			CreatedAt: entry.Time.UTC(),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if _, err := w.sink.InsertOne(ctx, record); err != nil {
			fmt.Fprintln(os.Stderr, "log insert failed:", err)
		}
		cancel()
	}
}
