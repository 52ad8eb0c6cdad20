package email

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/hibiken/asynq"

	"github.com/Marga-Ghale/charge-tracker/internal/logger"
	"github.com/Marga-Ghale/charge-tracker/internal/metrics"
)

// TaskTypeSend is the asynq task carrying one Message.
const TaskTypeSend = "email:send"

// DefaultRetries is the fixed retry budget per message.
const DefaultRetries = 3

// Queue accepts messages for delivery outside the request path.
type Queue interface {
	Enqueue(ctx context.Context, m Message) error
	Close() error
}

// Sender is what the queue delivers through. *Service satisfies it.
type Sender interface {
	Send(m Message) error
}

// ============================================
// Redis-backed queue (asynq)
// ============================================

// AsynqQueue enqueues email:send tasks and runs the worker that consumes them.
type AsynqQueue struct {
	client  *asynq.Client
	server  *asynq.Server
	sender  Sender
	retries int
}

// NewAsynqQueue connects to redisURL (redis://host:port/db).
func NewAsynqQueue(redisURL string, sender Sender, workers, retries int) (*AsynqQueue, error) {
	opt, err := asynq.ParseRedisURI(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	if workers <= 0 {
		workers = 2
	}
	if retries < 0 {
		retries = DefaultRetries
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency:     workers,
		Queues:          map[string]int{"email": 1},
		Logger:          asynqLogger{},
		LogLevel:        asynq.WarnLevel,
		ShutdownTimeout: 10 * time.Second,
	})
	return &AsynqQueue{
		client:  asynq.NewClient(opt),
		server:  server,
		sender:  sender,
		retries: retries,
	}, nil
}

// Start runs the worker in the background.
func (q *AsynqQueue) Start() error {
	mux := asynq.NewServeMux()
	mux.HandleFunc(TaskTypeSend, q.handle)
	if err := q.server.Start(mux); err != nil {
		return fmt.Errorf("start email worker: %w", err)
	}
	logger.Info("[Email] asynq worker started")
	return nil
}

func (q *AsynqQueue) handle(_ context.Context, t *asynq.Task) error {
	var m Message
	if err := json.Unmarshal(t.Payload(), &m); err != nil {
		return fmt.Errorf("%w: %v", asynq.SkipRetry, err)
	}
	err := q.sender.Send(m)
	metrics.EmailsSent.WithLabelValues(m.Template, metrics.Outcome(err)).Inc()
	if err != nil {
		logger.Warnf("[Email] send %q to %v failed: %v", m.Subject, m.Recipients, err)
	}
	return err
}

func (q *AsynqQueue) Enqueue(ctx context.Context, m Message) error {
	task, err := NewSendTask(m)
	if err != nil {
		return err
	}
	info, err := q.client.EnqueueContext(ctx, task, asynq.Queue("email"), asynq.MaxRetry(q.retries))
	if err != nil {
		return fmt.Errorf("enqueue email: %w", err)
	}
	logger.Debugf("[Email] queued %s id=%s", m.Template, info.ID)
	return nil
}

func (q *AsynqQueue) Close() error {
	q.server.Shutdown()
	return q.client.Close()
}

// NewSendTask serializes a message into an email:send task.
func NewSendTask(m Message) (*asynq.Task, error) {
	payload, err := json.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("marshal email: %w", err)
	}
	return asynq.NewTask(TaskTypeSend, payload), nil
}

// ============================================
// Synchronous fallback
// ============================================

// SyncQueue sends in the caller's goroutine with a fixed retry count. It is
// used when no Redis is configured.
type SyncQueue struct {
	sender  Sender
	retries int
	backoff time.Duration
}

func NewSyncQueue(sender Sender, retries int) *SyncQueue {
	if retries < 0 {
		retries = DefaultRetries
	}
	return &SyncQueue{sender: sender, retries: retries, backoff: time.Second}
}

func (q *SyncQueue) Enqueue(ctx context.Context, m Message) error {
	var err error
	for attempt := 0; attempt <= q.retries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(q.backoff * time.Duration(attempt)):
			}
		}
		if err = q.sender.Send(m); err == nil {
			metrics.EmailsSent.WithLabelValues(m.Template, "ok").Inc()
			return nil
		}
		logger.Warnf("[Email] attempt %d for %q failed: %v", attempt+1, m.Subject, err)
	}
	metrics.EmailsSent.WithLabelValues(m.Template, "error").Inc()
	return err
}

func (q *SyncQueue) Close() error { return nil }

// asynqLogger routes asynq's logs through the application logger.
type asynqLogger struct{}

func (asynqLogger) Debug(args ...interface{}) { logger.Debug(args...) }
func (asynqLogger) Info(args ...interface{})  { logger.Info(args...) }
func (asynqLogger) Warn(args ...interface{})  { logger.Warn(args...) }
func (asynqLogger) Error(args ...interface{}) { logger.Error(args...) }
func (asynqLogger) Fatal(args ...interface{}) { logger.Fatal(args...) }
