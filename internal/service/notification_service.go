package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/backend"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/config"
	"github.com/noah-isme/mentor-scheduling-api/pkg/jobs"
	"github.com/noah-isme/mentor-scheduling-api/pkg/middleware/requestid"
)

const notificationJobType = "session_notification"

type notificationSender interface {
	SendNotification(ctx context.Context, n models.Notification) error
}

type notificationJob struct {
	Notification models.Notification
	Token        string
	RequestID    string
}

// NotificationService delivers session notifications through the in-memory
// job queue so that booking responses never wait on delivery.
type NotificationService struct {
	sender  notificationSender
	queue   *jobs.Queue
	metrics *MetricsService
	logger  *zap.Logger
	enabled bool
}

// NewNotificationService builds the service and its worker queue.
func NewNotificationService(sender notificationSender, cfg config.NotificationConfig, metrics *MetricsService, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &NotificationService{
		sender:  sender,
		metrics: metrics,
		logger:  logger,
		enabled: cfg.Enabled && sender != nil,
	}
	s.queue = jobs.NewQueue("notifications", s.deliver, jobs.QueueConfig{
		Workers:    cfg.Workers,
		BufferSize: cfg.QueueSize,
		MaxRetries: cfg.MaxRetries,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
		OnExhausted: func(jobs.Job, error) {
			s.metrics.RecordNotification("failed")
		},
	})
	return s
}

// Start launches the workers.
func (s *NotificationService) Start(ctx context.Context) {
	if s.enabled {
		s.queue.Start(ctx)
	}
}

// Stop drains workers. Pending notifications are dropped.
func (s *NotificationService) Stop() {
	if s.enabled {
		s.queue.Stop()
	}
}

// Stats exposes queue counters.
func (s *NotificationService) Stats() models.QueueStats {
	st := s.queue.Stats()
	return models.QueueStats{Processed: st.Processed, Retried: st.Retried, Exhausted: st.Exhausted, Pending: st.Pending}
}

// Notify enqueues a notification. A full or stopped queue drops it with a warning.
func (s *NotificationService) Notify(ctx context.Context, n models.Notification) {
	if !s.enabled {
		return
	}
	err := s.queue.Enqueue(jobs.Job{
		Type: notificationJobType,
		Payload: notificationJob{
			Notification: n,
			Token:        backend.TokenFrom(ctx),
			RequestID:    requestid.FromContext(ctx),
		},
	})
	if err != nil {
		s.metrics.RecordNotification("dropped")
		s.logger.Warn("notification dropped",
			zap.String("event", string(n.Event)),
			zap.String("session_id", n.SessionID),
			zap.Error(err),
		)
		return
	}
	s.metrics.RecordNotification("queued")
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(notificationJob)
	if !ok {
		// not retryable; log and swallow
		s.logger.Error("unexpected notification payload", zap.String("job_id", job.ID))
		return nil
	}
	if payload.Token != "" {
		ctx = backend.WithToken(ctx, payload.Token)
	}
	if payload.RequestID != "" {
		ctx = requestid.WithContext(ctx, payload.RequestID)
	}
	if err := s.sender.SendNotification(ctx, payload.Notification); err != nil {
		if errors.Is(err, context.Canceled) {
			return nil
		}
		return err
	}
	s.metrics.RecordNotification("delivered")
	return nil
}
