package backend

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/noah-isme/mentor-scheduling-api/internal/models"
)

// ToModel converts the wire session into the service model.
func (s Session) ToModel() models.Session {
	return models.Session{
		ID:        s.ID,
		CourseID:  s.CourseID,
		MentorID:  s.MentorID,
		StudentID: s.StudentID,
		Start:     s.Start,
		End:       s.End,
		Status:    models.SessionStatus(s.Status),
		Topic:     s.Topic,
	}
}

func sessionPath(id string, suffix string) string {
	return "/sessions/" + url.PathEscape(id) + suffix
}

// ListMySessions returns the caller's sessions starting inside [from, to).
func (c *Client) ListMySessions(ctx context.Context, from, to time.Time) ([]models.Session, error) {
	query := url.Values{}
	query.Set("from", from.UTC().Format(time.RFC3339))
	query.Set("to", to.UTC().Format(time.RFC3339))

	var out []Session
	if err := c.do(ctx, call{op: "list_my_sessions", method: http.MethodGet, path: "/sessions/mine", query: query, out: &out}); err != nil {
		return nil, toAppError(err)
	}
	sessions := make([]models.Session, 0, len(out))
	for _, s := range out {
		sessions = append(sessions, s.ToModel())
	}
	return sessions, nil
}

// GetSession fetches one session.
func (c *Client) GetSession(ctx context.Context, sessionID string) (*models.Session, error) {
	var out Session
	if err := c.do(ctx, call{op: "get_session", method: http.MethodGet, path: sessionPath(sessionID, ""), out: &out}); err != nil {
		return nil, toAppError(err)
	}
	s := out.ToModel()
	return &s, nil
}

// CreateSession books a session for the caller.
func (c *Client) CreateSession(ctx context.Context, input CreateSessionInput) (*models.Session, error) {
	var out Session
	if err := c.do(ctx, call{op: "create_session", method: http.MethodPost, path: "/sessions", body: input, out: &out}); err != nil {
		return nil, toAppError(err)
	}
	s := out.ToModel()
	return &s, nil
}

// RescheduleSession moves a session to a new start and end.
func (c *Client) RescheduleSession(ctx context.Context, sessionID string, input RescheduleSessionInput) (*models.Session, error) {
	var out Session
	if err := c.do(ctx, call{op: "reschedule_session", method: http.MethodPatch, path: sessionPath(sessionID, ""), body: input, out: &out}); err != nil {
		return nil, toAppError(err)
	}
	s := out.ToModel()
	return &s, nil
}

// CancelSession cancels a session.
func (c *Client) CancelSession(ctx context.Context, sessionID string, input CancelSessionInput) (*models.Session, error) {
	var out Session
	if err := c.do(ctx, call{op: "cancel_session", method: http.MethodPost, path: sessionPath(sessionID, "/cancel"), body: input, out: &out}); err != nil {
		return nil, toAppError(err)
	}
	s := out.ToModel()
	return &s, nil
}
