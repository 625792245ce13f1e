package recorder

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"ingredient-scout/scout/pkg/config"
	"ingredient-scout/scout/pkg/conflict"
	"ingredient-scout/scout/pkg/history"
)

// Write outcomes reported to the observer.
const (
	ResultSuccess = "success"
	ResultError   = "error"
	ResultDropped = "dropped"
)

// ErrClosed is returned by Record after Close.
var ErrClosed = errors.New("recorder closed")

// Config contains configuration for the recorder.
type Config struct {
	// BufferSize is the queue capacity.
	BufferSize int

	// WriteTimeout bounds waiting for queue space and each storage write.
	WriteTimeout time.Duration
}

// DefaultConfig returns the default recorder configuration.
func DefaultConfig() Config {
	return Config{
		BufferSize:   config.DefaultRecorderBufferSize,
		WriteTimeout: config.DefaultRecorderWriteTimeout,
	}
}

// ConfigFrom converts the history.recorder configuration section.
func ConfigFrom(c config.RecorderConfig) Config {
	return Config{BufferSize: c.BufferSize, WriteTimeout: c.WriteTimeout}
}

// Observer is told the outcome of every record: ResultSuccess,
// ResultError or ResultDropped.
type Observer func(result string)

// Recorder queues history records for a background writer.
type Recorder struct {
	storage history.Storage
	config  Config
	queue   chan *history.Record
	done    chan struct{}
	wg      sync.WaitGroup
	logger  *slog.Logger
	now     func() time.Time

	// mu guards closed. Record holds it for reading while sending so
	// Close cannot close done underneath a send.
	mu     sync.RWMutex
	closed bool

	observer atomic.Pointer[Observer]
}

// New starts a recorder writing to storage. Zero config fields take the
// defaults.
func New(storage history.Storage, cfg Config) *Recorder {
	def := DefaultConfig()
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = def.BufferSize
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = def.WriteTimeout
	}

	r := &Recorder{
		storage: storage,
		config:  cfg,
		queue:   make(chan *history.Record, cfg.BufferSize),
		done:    make(chan struct{}),
		logger:  slog.Default().With("component", "history.recorder"),
		now:     time.Now,
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("history recorder initialized",
		"buffer_size", cfg.BufferSize,
		"write_timeout", cfg.WriteTimeout,
	)
	return r
}

// SetObserver installs fn to be told the outcome of each record.
func (r *Recorder) SetObserver(fn Observer) {
	r.observer.Store(&fn)
}

// NewRecord builds the history record of one analysis.
func NewRecord(requestID string, ingredients []string, a conflict.Assessment, at time.Time) *history.Record {
	return &history.Record{
		ID:              uuid.New().String(),
		RequestID:       requestID,
		RecordedAt:      at.UTC(),
		Ingredients:     append([]string(nil), ingredients...),
		IngredientsHash: history.HashIngredients(ingredients),
		Status:          a.Status,
		RiskScore:       a.RiskScore,
		Summary:         a.Summary,
		MatchedRule:     a.MatchedRule,
		KeywordHits:     append([]string{}, a.KeywordHits...),
		Engine:          a.Engine,
		CatalogVersion:  a.CatalogVersion,
	}
}

// Record queues the analysis of ingredients. It returns the queued record,
// or a *history.RecorderError when the queue stayed full for the write
// timeout or the recorder is closed.
func (r *Recorder) Record(ctx context.Context, requestID string, ingredients []string, a conflict.Assessment) (*history.Record, error) {
	record := NewRecord(requestID, ingredients, a, r.now())

	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.notify(ResultDropped)
		return nil, history.NewRecorderError(record.ID, ErrClosed)
	}

	timer := time.NewTimer(r.config.WriteTimeout)
	defer timer.Stop()

	select {
	case r.queue <- record:
		r.logger.Debug("history record queued",
			"record_id", record.ID,
			"request_id", requestID,
		)
		return record, nil
	case <-timer.C:
		r.logger.Error("history queue full, dropping record",
			"record_id", record.ID,
			"request_id", requestID,
			"buffer_size", r.config.BufferSize,
		)
		r.notify(ResultDropped)
		return nil, history.NewRecorderError(record.ID, context.DeadlineExceeded)
	case <-ctx.Done():
		r.notify(ResultDropped)
		return nil, history.NewRecorderError(record.ID, ctx.Err())
	}
}

// Pending returns the number of queued records.
func (r *Recorder) Pending() int {
	return len(r.queue)
}

// Close stops accepting records and waits until every queued record is
// written. It is safe to call more than once.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	close(r.done)
	r.mu.Unlock()

	r.wg.Wait()
	r.logger.Info("history recorder shut down")
	return nil
}

func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.queue:
			r.write(record)
		case <-r.done:
			// Record holds the read lock while sending, so once done is
			// closed no new record can arrive.
			for {
				select {
				case record := <-r.queue:
					r.write(record)
				default:
					return
				}
			}
		}
	}
}

func (r *Recorder) write(record *history.Record) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()
	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store history record",
			"record_id", record.ID,
			"request_id", record.RequestID,
			"error", err,
		)
		r.notify(ResultError)
		return
	}

	r.logger.Debug("history recorded",
		"record_id", record.ID,
		"status", record.Status,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	r.notify(ResultSuccess)
}

func (r *Recorder) notify(result string) {
	if fn := r.observer.Load(); fn != nil && *fn != nil {
		(*fn)(result)
	}
}
