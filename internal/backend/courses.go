package backend

import (
	"context"
	"net/http"
	"net/url"
)

func coursePath(id string, suffix string) string {
	return "/courses/" + url.PathEscape(id) + suffix
}

// GetCourse fetches course metadata.
func (c *Client) GetCourse(ctx context.Context, courseID string) (*Course, error) {
	var out Course
	if err := c.do(ctx, call{op: "get_course", method: http.MethodGet, path: coursePath(courseID, ""), out: &out}); err != nil {
		return nil, toAppError(err)
	}
	return &out, nil
}

// GetAvailability fetches the stored availability policy of a course.
func (c *Client) GetAvailability(ctx context.Context, courseID string) (*Availability, error) {
	var out Availability
	if err := c.do(ctx, call{op: "get_availability", method: http.MethodGet, path: coursePath(courseID, "/availability"), out: &out}); err != nil {
		return nil, toAppError(err)
	}
	return &out, nil
}

// PatchAvailability sends the full date lists. When the backend refuses the
// full body with a 4xx it is retried once carrying only the changed list.
func (c *Client) PatchAvailability(ctx context.Context, courseID string, patch AvailabilityPatch, changed PatchField) error {
	if patch.OpenDates == nil {
		patch.OpenDates = []string{}
	}
	if patch.ClosedDates == nil {
		patch.ClosedDates = []string{}
	}
	path := coursePath(courseID, "/availability")
	err := c.do(ctx, call{op: "patch_availability", method: http.MethodPatch, path: path, body: patch})
	if err == nil {
		return nil
	}
	if !IsClientError(err) {
		return toAppError(err)
	}
	err = c.do(ctx, call{op: "patch_availability_reduced", method: http.MethodPatch, path: path, body: patch.reduced(changed)})
	return toAppError(err)
}

// PatchMentoringBlock saves the course mentoring block and returns what the
// backend stored. The echo may be bare or wrapped in "mentoringBlock".
func (c *Client) PatchMentoringBlock(ctx context.Context, courseID string, block TimeBlock) (*TimeBlock, error) {
	var out struct {
		TimeBlock
		MentoringBlock *TimeBlock `json:"mentoringBlock"`
	}
	if err := c.do(ctx, call{op: "patch_mentoring_block", method: http.MethodPatch, path: coursePath(courseID, "/mentoring"), body: block, out: &out}); err != nil {
		return nil, toAppError(err)
	}
	switch {
	case out.MentoringBlock != nil:
		return out.MentoringBlock, nil
	case out.Start != "" && out.End != "":
		return &out.TimeBlock, nil
	default:
		return &block, nil
	}
}
