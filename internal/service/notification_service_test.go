package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/backend"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	"github.com/noah-isme/mentor-scheduling-api/pkg/config"
)

type capturingSender struct {
	calls  chan models.Notification
	tokens chan string
	err    error
}

func newCapturingSender(err error) *capturingSender {
	return &capturingSender{calls: make(chan models.Notification, 8), tokens: make(chan string, 8), err: err}
}

func (c *capturingSender) SendNotification(ctx context.Context, n models.Notification) error {
	c.tokens <- backend.TokenFrom(ctx)
	c.calls <- n
	return c.err
}

func notificationConfig() config.NotificationConfig {
	return config.NotificationConfig{Enabled: true, Workers: 1, MaxRetries: 1, RetryDelay: time.Millisecond, QueueSize: 4}
}

func TestNotificationServiceDelivers(t *testing.T) {
	sender := newCapturingSender(nil)
	svc := NewNotificationService(sender, notificationConfig(), NewMetricsService(), zap.NewNop())
	svc.Start(context.Background())
	defer svc.Stop()

	ctx := backend.WithToken(context.Background(), "tok-1")
	svc.Notify(ctx, models.Notification{Event: models.NotifySessionBooked, SessionID: "s-1"})

	select {
	case n := <-sender.calls:
		assert.Equal(t, "s-1", n.SessionID)
		assert.Equal(t, "tok-1", <-sender.tokens)
	case <-time.After(time.Second):
		t.Fatal("notification not delivered")
	}
	require.Eventually(t, func() bool { return svc.Stats().Processed == 1 }, time.Second, 5*time.Millisecond)
}

func TestNotificationServiceRetriesFailures(t *testing.T) {
	sender := newCapturingSender(errors.New("backend down"))
	svc := NewNotificationService(sender, notificationConfig(), nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Notify(context.Background(), models.Notification{Event: models.NotifySessionCancelled, SessionID: "s-2"})
	require.Eventually(t, func() bool { return svc.Stats().Exhausted == 1 }, time.Second, 5*time.Millisecond)
	assert.Len(t, sender.calls, 2)
}

func TestNotificationServiceDisabled(t *testing.T) {
	sender := newCapturingSender(nil)
	cfg := notificationConfig()
	cfg.Enabled = false
	svc := NewNotificationService(sender, cfg, nil, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.Notify(context.Background(), models.Notification{SessionID: "s-3"})
	assert.Zero(t, svc.Stats().Pending)
	assert.Empty(t, sender.calls)
}
