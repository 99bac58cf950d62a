package service

import (
	"context"
	"strings"
	"sync"
	"time"

	json "github.com/goccy/go-json"

	"github.com/noah-isme/mentor-scheduling-api/internal/backend"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
	"github.com/noah-isme/mentor-scheduling-api/pkg/scheduling"
)

// 2024-06-12 is a Wednesday; the current week runs 06-09..06-15.
var serviceNow = time.Date(2024, 6, 12, 10, 0, 0, 0, time.UTC)

func testGuard() *scheduling.Guard {
	return scheduling.NewGuard(scheduling.FixedClock(serviceNow), time.UTC, 3)
}

type memoryCache struct {
	mu    sync.Mutex
	items map[string][]byte
}

func newMemoryCache() *memoryCache {
	return &memoryCache{items: map[string][]byte{}}
}

func (m *memoryCache) Get(_ context.Context, key string, dest interface{}) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.items[key]
	if !ok {
		return appErrors.ErrCacheMiss
	}
	return json.Unmarshal(raw, dest)
}

func (m *memoryCache) Set(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.items, k)
	}
	return nil
}

func (m *memoryCache) DeleteByPattern(_ context.Context, pattern string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	prefix := strings.TrimSuffix(pattern, "*")
	for k := range m.items {
		if strings.HasPrefix(k, prefix) {
			delete(m.items, k)
		}
	}
	return nil
}

func (m *memoryCache) has(key string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.items[key]
	return ok
}

type patchCall struct {
	Patch   backend.AvailabilityPatch
	Changed backend.PatchField
}

type fakeBackend struct {
	mu           sync.Mutex
	course       backend.Course
	availability backend.Availability
	sessions     map[string]models.Session
	patchErr     error
	createErr    error
	patches      []patchCall
	blocks       []backend.TimeBlock
	reads        int
	tokens       []string
	created      []backend.CreateSessionInput
	rescheduled  map[string]backend.RescheduleSessionInput
	cancelled    []string
	notified     []models.Notification
	notifyErr    error
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		course: backend.Course{
			ID:          "c-1",
			SubjectCode: "MATH101",
			Section:     "H1",
			MentorID:    "mentor-1",
			Schedule:    backend.CourseSchedule{Days: "MWF", Time: "1:15-2:30pm"},
		},
		availability: backend.Availability{OpenDates: []string{}, ClosedDates: []string{}},
		sessions:     map[string]models.Session{},
		rescheduled:  map[string]backend.RescheduleSessionInput{},
	}
}

func (f *fakeBackend) GetCourse(ctx context.Context, courseID string) (*backend.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	f.tokens = append(f.tokens, backend.TokenFrom(ctx))
	if courseID != f.course.ID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	c := f.course
	return &c, nil
}

func (f *fakeBackend) GetAvailability(_ context.Context, courseID string) (*backend.Availability, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if courseID != f.course.ID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "course not found")
	}
	a := f.availability
	a.OpenDates = append([]string(nil), f.availability.OpenDates...)
	a.ClosedDates = append([]string(nil), f.availability.ClosedDates...)
	return &a, nil
}

func (f *fakeBackend) PatchAvailability(_ context.Context, _ string, patch backend.AvailabilityPatch, changed backend.PatchField) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.patches = append(f.patches, patchCall{Patch: patch, Changed: changed})
	if f.patchErr != nil {
		return f.patchErr
	}
	f.availability.OpenDates = patch.OpenDates
	f.availability.ClosedDates = patch.ClosedDates
	return nil
}

func (f *fakeBackend) PatchMentoringBlock(_ context.Context, _ string, block backend.TimeBlock) (*backend.TimeBlock, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.blocks = append(f.blocks, block)
	f.availability.MentoringBlock = &block
	return &block, nil
}

func (f *fakeBackend) ListMySessions(_ context.Context, from, to time.Time) ([]models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Session
	for _, s := range f.sessions {
		if s.Start.Before(to) && s.End.After(from) {
			out = append(out, s)
		}
	}
	return out, nil
}

func (f *fakeBackend) GetSession(_ context.Context, id string) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.sessions[id]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
	}
	return &s, nil
}

func (f *fakeBackend) CreateSession(_ context.Context, input backend.CreateSessionInput) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, input)
	s := models.Session{
		ID:       "s-new",
		CourseID: input.CourseID,
		Start:    input.Start,
		End:      input.End,
		Status:   models.SessionScheduled,
		Topic:    input.Topic,
	}
	f.sessions[s.ID] = s
	return &s, nil
}

func (f *fakeBackend) RescheduleSession(_ context.Context, id string, input backend.RescheduleSessionInput) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessions[id]
	s.Start, s.End, s.Status = input.Start, input.End, models.SessionRescheduled
	f.sessions[id] = s
	f.rescheduled[id] = input
	return &s, nil
}

func (f *fakeBackend) CancelSession(_ context.Context, id string, _ backend.CancelSessionInput) (*models.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s := f.sessions[id]
	s.Status = models.SessionCancelled
	f.sessions[id] = s
	f.cancelled = append(f.cancelled, id)
	return &s, nil
}

func (f *fakeBackend) SendNotification(_ context.Context, n models.Notification) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.notifyErr != nil {
		return f.notifyErr
	}
	f.notified = append(f.notified, n)
	return nil
}

func (f *fakeBackend) patchCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.patches)
}

type fakeAudit struct {
	mu      sync.Mutex
	entries []models.AvailabilityAuditLog
}

func (a *fakeAudit) Record(_ context.Context, entry models.AvailabilityAuditLog) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, entry)
}

func mentor() models.Actor {
	return models.Actor{ID: "mentor-1", Role: models.RoleMentor, Token: "tok-mentor"}
}

func student() models.Actor {
	return models.Actor{ID: "student-1", Role: models.RoleStudent, Token: "tok-student"}
}

func blockedRange(date, start, end string) backend.BlockedRange {
	return backend.BlockedRange{Date: date, Start: start, End: end}
}
