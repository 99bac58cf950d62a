package backend

import (
	"context"
	"net/http"
	"time"

	"github.com/noah-isme/mentor-scheduling-api/internal/models"
)

type notificationBody struct {
	Event     string    `json:"event"`
	SessionID string    `json:"sessionId"`
	CourseID  string    `json:"courseId"`
	ActorID   string    `json:"actorId,omitempty"`
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Message   string    `json:"message,omitempty"`
}

// SendNotification asks the backend to fan out a session notification.
func (c *Client) SendNotification(ctx context.Context, n models.Notification) error {
	body := notificationBody{
		Event:     string(n.Event),
		SessionID: n.SessionID,
		CourseID:  n.CourseID,
		ActorID:   n.ActorID,
		Start:     n.Start,
		End:       n.End,
		Message:   n.Message,
	}
	return toAppError(c.do(ctx, call{op: "send_notification", method: http.MethodPost, path: "/notifications", body: body}))
}
