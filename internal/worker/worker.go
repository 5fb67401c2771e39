package worker

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/cuongbtq/hireboard/internal/events"
	"github.com/cuongbtq/hireboard/internal/worker/domain"
	amqp "github.com/rabbitmq/amqp091-go"
)

// ActivityStore persists projected activity entries
type ActivityStore interface {
	InsertActivity(ctx context.Context, evt events.PipelineEvent) (bool, error)
}

// DeliverySource yields broker deliveries; *rabbitmq.Client implements it
type DeliverySource interface {
	Consume(consumerTag string, prefetchCount int) (<-chan amqp.Delivery, error)
}

// Config holds worker configuration
type Config struct {
	Logger        *slog.Logger
	Storage       ActivityStore
	Source        DeliverySource
	WorkerID      string
	QueueName     string
	Concurrency   int
	PrefetchCount int
	EventTimeout  time.Duration
}

// Worker consumes pipeline events and writes them to the activity feed
type Worker struct {
	logger        *slog.Logger
	storage       ActivityStore
	source        DeliverySource
	workerID      string
	queueName     string
	concurrency   int
	prefetchCount int
	eventTimeout  time.Duration

	eventsChan chan *domain.EventMessage
	wg         sync.WaitGroup
	stopChan   chan struct{}
	stopOnce   sync.Once
}

// NewWorker creates a new worker instance
func NewWorker(cfg *Config) *Worker {
	concurrency := cfg.Concurrency
	if concurrency <= 0 {
		concurrency = 1
	}

	return &Worker{
		logger:        cfg.Logger,
		storage:       cfg.Storage,
		source:        cfg.Source,
		workerID:      cfg.WorkerID,
		queueName:     cfg.QueueName,
		concurrency:   concurrency,
		prefetchCount: cfg.PrefetchCount,
		eventTimeout:  cfg.EventTimeout,
		eventsChan:    make(chan *domain.EventMessage, concurrency),
		stopChan:      make(chan struct{}),
	}
}

// Start subscribes to the queue, spawns the pool and dispatches deliveries
// until ctx is canceled or Stop is called. A delivery channel closed by the
// broker is reported as an error.
func (w *Worker) Start(ctx context.Context) error {
	w.logger.Info("Starting worker",
		slog.String("worker_id", w.workerID),
		slog.Int("concurrency", w.concurrency),
		slog.Duration("event_timeout", w.eventTimeout),
	)

	deliveries, err := w.setupConsumer()
	if err != nil {
		return fmt.Errorf("failed to set up consumer: %w", err)
	}

	w.spawnWorkerPool(ctx)
	return w.startMessageDispatcher(ctx, deliveries)
}

// Stop gracefully stops the worker and waits for in-flight events
func (w *Worker) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping worker...")
		close(w.stopChan)
		w.wg.Wait()
		w.logger.Info("Worker stopped")
	})
}
