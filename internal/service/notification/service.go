package notification

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/crewops/ops-portal-go/internal/domain/notification"
	"github.com/google/uuid"
)

// Config holds dispatcher configuration.
type Config struct {
	BatchSize     int           // default: 100
	FlushInterval time.Duration // default: 5 seconds
	WorkerCount   int           // default: 2
	QueueSize     int           // default: 1000
}

// service fans notification events out to their recipients through a
// buffered queue and background workers that batch-insert rows. Dispatch
// never blocks the caller for longer than an enqueue.
type service struct {
	repo   notification.Repository
	config Config

	queue  chan notification.Event
	wg     sync.WaitGroup
	stopCh chan struct{}
	once   sync.Once
}

func NewDispatcher(repo notification.Repository, cfg Config) notification.Dispatcher {
	if cfg.BatchSize == 0 {
		cfg.BatchSize = 100
	}
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = 5 * time.Second
	}
	if cfg.WorkerCount == 0 {
		cfg.WorkerCount = 2
	}
	if cfg.QueueSize == 0 {
		cfg.QueueSize = 1000
	}

	s := &service{
		repo:   repo,
		config: cfg,
		queue:  make(chan notification.Event, cfg.QueueSize),
		stopCh: make(chan struct{}),
	}

	for i := 0; i < cfg.WorkerCount; i++ {
		s.wg.Add(1)
		go s.worker(i)
	}

	slog.Info("notification dispatcher started",
		"workers", cfg.WorkerCount, "batch_size", cfg.BatchSize, "flush_interval", cfg.FlushInterval)

	return s
}

// Dispatch implements notification.Dispatcher. When the queue is full the
// event is dropped with a warning; notifications are best-effort.
func (s *service) Dispatch(ctx context.Context, event notification.Event) error {
	select {
	case s.queue <- event:
		return nil
	default:
		slog.Warn("notification queue full, dropping event", "type", event.Type, "recipients", len(event.RecipientIDs))
		return nil
	}
}

// Stop drains the queue and stops the workers.
func (s *service) Stop() {
	s.once.Do(func() {
		close(s.stopCh)
		s.wg.Wait()
	})
}

func (s *service) worker(id int) {
	defer s.wg.Done()

	batch := make([]*notification.Notification, 0, s.config.BatchSize)
	ticker := time.NewTicker(s.config.FlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := s.repo.CreateBatch(ctx, batch); err != nil {
			slog.Error("failed to insert notification batch", "worker", id, "count", len(batch), "error", err)
		}
		batch = batch[:0]
	}

	appendEvent := func(event notification.Event) {
		now := time.Now().UTC()
		for _, recipientID := range event.RecipientIDs {
			batch = append(batch, &notification.Notification{
				ID:          uuid.New().String(),
				RecipientID: recipientID,
				Type:        event.Type,
				Title:       event.Title,
				Message:     event.Message,
				Data:        event.Data,
				IsRead:      false,
				CreatedAt:   now,
			})
		}
		if len(batch) >= s.config.BatchSize {
			flush()
		}
	}

	for {
		select {
		case <-s.stopCh:
			// Drain whatever is queued, then flush.
			for {
				select {
				case event := <-s.queue:
					appendEvent(event)
				default:
					flush()
					return
				}
			}
		case event := <-s.queue:
			appendEvent(event)
		case <-ticker.C:
			flush()
		}
	}
}
