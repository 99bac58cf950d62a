package backend

import (
	"errors"
	"fmt"
	"net/http"

	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
)

// StatusError is a non-2xx answer from the backend.
type StatusError struct {
	Op         string
	StatusCode int
	Message    string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: backend responded %d", e.Op, e.StatusCode)
	}
	return fmt.Sprintf("%s: backend responded %d: %s", e.Op, e.StatusCode, e.Message)
}

// ClientError reports whether the backend refused the request itself (4xx).
func (e *StatusError) ClientError() bool {
	return e.StatusCode >= 400 && e.StatusCode < 500
}

// IsClientError reports whether err carries a 4xx StatusError.
func IsClientError(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.ClientError()
}

// toAppError maps transport and status failures onto the service error set.
func toAppError(err error) error {
	if err == nil {
		return nil
	}
	var se *StatusError
	if !errors.As(err, &se) {
		return appErrors.Wrap(err, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
	msg := se.Message
	switch {
	case se.StatusCode == http.StatusNotFound:
		if msg == "" {
			msg = appErrors.ErrNotFound.Message
		}
		return appErrors.Wrap(se, appErrors.ErrNotFound.Code, http.StatusNotFound, msg)
	case se.StatusCode == http.StatusConflict:
		if msg == "" {
			msg = appErrors.ErrConflict.Message
		}
		return appErrors.Wrap(se, appErrors.ErrConflict.Code, http.StatusConflict, msg)
	case se.StatusCode == http.StatusUnauthorized:
		return appErrors.Wrap(se, appErrors.ErrUnauthorized.Code, http.StatusUnauthorized, appErrors.ErrUnauthorized.Message)
	case se.StatusCode == http.StatusForbidden:
		return appErrors.Wrap(se, appErrors.ErrForbidden.Code, http.StatusForbidden, appErrors.ErrForbidden.Message)
	case se.ClientError():
		if msg == "" {
			msg = appErrors.ErrUpstreamRejected.Message
		}
		return appErrors.Wrap(se, appErrors.ErrUpstreamRejected.Code, appErrors.ErrUpstreamRejected.Status, msg)
	default:
		return appErrors.Wrap(se, appErrors.ErrUpstream.Code, appErrors.ErrUpstream.Status, appErrors.ErrUpstream.Message)
	}
}
