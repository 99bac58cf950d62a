package service

import (
	"context"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	json "github.com/goccy/go-json"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/noah-isme/mentor-scheduling-api/internal/backend"
	"github.com/noah-isme/mentor-scheduling-api/internal/dto"
	"github.com/noah-isme/mentor-scheduling-api/internal/models"
	appErrors "github.com/noah-isme/mentor-scheduling-api/pkg/errors"
	"github.com/noah-isme/mentor-scheduling-api/pkg/lock"
	"github.com/noah-isme/mentor-scheduling-api/pkg/middleware/requestid"
	"github.com/noah-isme/mentor-scheduling-api/pkg/scheduling"
	"github.com/noah-isme/mentor-scheduling-api/pkg/tracing"
)

type availabilityBackend interface {
	GetCourse(ctx context.Context, courseID string) (*backend.Course, error)
	GetAvailability(ctx context.Context, courseID string) (*backend.Availability, error)
	PatchAvailability(ctx context.Context, courseID string, patch backend.AvailabilityPatch, changed backend.PatchField) error
	PatchMentoringBlock(ctx context.Context, courseID string, block backend.TimeBlock) (*backend.TimeBlock, error)
}

type auditRecorder interface {
	Record(ctx context.Context, entry models.AvailabilityAuditLog)
}

// AvailabilityConfig tunes caching and save locking.
type AvailabilityConfig struct {
	PolicyTTL time.Duration
	LockTTL   time.Duration
}

// ResolvedPolicy pairs the client-facing policy with its rule form.
type ResolvedPolicy struct {
	View  *models.CoursePolicy
	Rules scheduling.Policy
}

// AvailabilityService resolves course availability and applies mentor edits.
type AvailabilityService struct {
	backend   availabilityBackend
	cache     *CacheService
	locker    lock.Locker
	guard     *scheduling.Guard
	audit     auditRecorder
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	cfg       AvailabilityConfig
}

// NewAvailabilityService wires the availability use cases.
func NewAvailabilityService(
	client availabilityBackend,
	cache *CacheService,
	locker lock.Locker,
	guard *scheduling.Guard,
	audit auditRecorder,
	metrics *MetricsService,
	validate *validator.Validate,
	logger *zap.Logger,
	cfg AvailabilityConfig,
) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if locker == nil {
		locker = lock.NewLocalLocker()
	}
	if cfg.LockTTL <= 0 {
		cfg.LockTTL = 15 * time.Second
	}
	return &AvailabilityService{
		backend:   client,
		cache:     cache,
		locker:    locker,
		guard:     guard,
		audit:     audit,
		metrics:   metrics,
		validator: ensureValidator(validate),
		logger:    logger,
		cfg:       cfg,
	}
}

// Guard exposes the rule guard shared with the calendar and slot services.
func (s *AvailabilityService) Guard() *scheduling.Guard {
	return s.guard
}

// FlushPolicies drops every cached course policy. Cached entries carry rules
// resolved under the previous process configuration.
func (s *AvailabilityService) FlushPolicies(ctx context.Context) error {
	return s.cache.InvalidatePattern(ctx, policyCachePrefix+"*")
}

// Policy returns the resolved policy of a course and whether it came from cache.
func (s *AvailabilityService) Policy(ctx context.Context, courseID string) (*models.CoursePolicy, bool, error) {
	resolved, hit, err := s.Resolve(ctx, courseID)
	if err != nil {
		return nil, false, err
	}
	return resolved.View, hit, nil
}

// Resolve is the read-through lookup used by every read path.
func (s *AvailabilityService) Resolve(ctx context.Context, courseID string) (*ResolvedPolicy, bool, error) {
	if courseID == "" {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	var cached models.CoursePolicy
	if s.cache.Get(ctx, PolicyCacheKey(courseID), &cached) {
		return &ResolvedPolicy{View: &cached, Rules: rulesFromView(&cached)}, true, nil
	}
	resolved, err := s.load(ctx, courseID)
	if err != nil {
		return nil, false, err
	}
	s.cache.Set(ctx, PolicyCacheKey(courseID), resolved.View, s.cfg.PolicyTTL)
	return resolved, false, nil
}

// Open makes a date available.
func (s *AvailabilityService) Open(ctx context.Context, courseID string, req dto.DateActionRequest, actor models.Actor) (*models.CoursePolicy, error) {
	return s.mutateDate(ctx, courseID, req, actor, models.AuditActionOpenDate, backend.FieldOpenDates, s.guard.Open)
}

// Close removes a date, consuming fixed-closure quota when it falls on a fixed day.
func (s *AvailabilityService) Close(ctx context.Context, courseID string, req dto.DateActionRequest, actor models.Actor) (*models.CoursePolicy, error) {
	return s.mutateDate(ctx, courseID, req, actor, models.AuditActionCloseDate, backend.FieldClosedDates, s.guard.Close)
}

// Reopen undoes an explicit closure.
func (s *AvailabilityService) Reopen(ctx context.Context, courseID string, req dto.DateActionRequest, actor models.Actor) (*models.CoursePolicy, error) {
	return s.mutateDate(ctx, courseID, req, actor, models.AuditActionReopenDate, backend.FieldClosedDates, s.guard.Reopen)
}

type ruleFunc func(scheduling.Policy, scheduling.DateKey) (scheduling.Policy, error)

func (s *AvailabilityService) mutateDate(
	ctx context.Context,
	courseID string,
	req dto.DateActionRequest,
	actor models.Actor,
	action models.AuditAction,
	primary backend.PatchField,
	apply ruleFunc,
) (*models.CoursePolicy, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid date")
	}
	date, _ := scheduling.ParseDateKey(req.Date)
	if err := s.authorize(courseID, actor); err != nil {
		return nil, err
	}
	if err := s.guard.CheckEditable(date); err != nil {
		return nil, s.reject(err)
	}
	ctx = withActor(ctx, actor)

	release, err := s.acquire(ctx, courseID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, courseID, release)

	current, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	_, span := tracing.Tracer("availability").Start(ctx, "availability.rules",
		trace.WithAttributes(
			attribute.String("course.id", courseID),
			attribute.String("availability.action", string(action)),
			attribute.String("availability.date", date.String()),
		))
	next, err := apply(current.Rules, date)
	span.End()
	if err != nil {
		return nil, s.reject(err)
	}

	patch := backend.AvailabilityPatch{
		OpenDates:   next.OpenDates.Strings(),
		ClosedDates: next.ClosedDates.Strings(),
	}
	if err := s.backend.PatchAvailability(ctx, courseID, patch, changedField(current.Rules, next, primary)); err != nil {
		s.logger.Warn("availability patch failed",
			zap.String("course_id", courseID),
			zap.String("action", string(action)),
			zap.String("date", date.String()),
			zap.Error(err),
		)
		return nil, err
	}

	refreshed, err := s.refresh(ctx, courseID)
	if err != nil {
		return nil, err
	}

	target := date.In(time.UTC)
	s.record(ctx, models.AvailabilityAuditLog{
		CourseID:   courseID,
		ActorID:    actor.ID,
		ActorRole:  actor.Role,
		Action:     action,
		TargetDate: &target,
		OldValues:  marshalDates(current.View),
		NewValues:  marshalDates(refreshed.View),
	})
	s.logger.Info("availability updated",
		zap.String("course_id", courseID),
		zap.String("action", string(action)),
		zap.String("date", date.String()),
		zap.String("actor_id", actor.ID),
	)
	return refreshed.View, nil
}

// UpdateMentoringBlock replaces the course mentoring block after local validation.
func (s *AvailabilityService) UpdateMentoringBlock(ctx context.Context, courseID string, req dto.MentoringBlockRequest, actor models.Actor) (*models.CoursePolicy, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, validationError(err, "invalid mentoring block")
	}
	block, err := scheduling.ParseHHMMRange(req.Start, req.End)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := block.ValidateMentoring(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, err.Error())
	}
	if err := s.authorize(courseID, actor); err != nil {
		return nil, err
	}
	ctx = withActor(ctx, actor)

	release, err := s.acquire(ctx, courseID)
	if err != nil {
		return nil, err
	}
	defer s.release(ctx, courseID, release)

	var previous *models.CoursePolicy
	if before, _, err := s.Resolve(ctx, courseID); err == nil {
		previous = before.View
	}

	if _, err := s.backend.PatchMentoringBlock(ctx, courseID, backend.TimeBlock{Start: block.Start.String(), End: block.End.String()}); err != nil {
		s.logger.Warn("mentoring block patch failed", zap.String("course_id", courseID), zap.Error(err))
		return nil, err
	}

	refreshed, err := s.refresh(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.record(ctx, models.AvailabilityAuditLog{
		CourseID:  courseID,
		ActorID:   actor.ID,
		ActorRole: actor.Role,
		Action:    models.AuditActionUpdateMentoringBlock,
		OldValues: marshalBlock(previous),
		NewValues: marshalBlock(refreshed.View),
	})
	return refreshed.View, nil
}

func (s *AvailabilityService) authorize(courseID string, actor models.Actor) error {
	if courseID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "course id is required")
	}
	if !actor.Role.CanEditAvailability() {
		return appErrors.Clone(appErrors.ErrForbidden, "only mentors and admins can edit availability")
	}
	return nil
}

func (s *AvailabilityService) acquire(ctx context.Context, courseID string) (lock.Release, error) {
	release, err := s.locker.Acquire(ctx, "availability:"+courseID, s.cfg.LockTTL)
	if err != nil {
		if errors.Is(err, lock.ErrNotAcquired) {
			return nil, appErrors.Clone(appErrors.ErrLocked, "another change to this course is being saved")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to acquire save lock")
	}
	return release, nil
}

func (s *AvailabilityService) release(ctx context.Context, courseID string, release lock.Release) {
	if err := release(context.WithoutCancel(ctx)); err != nil {
		s.logger.Warn("failed to release save lock", zap.String("course_id", courseID), zap.Error(err))
	}
}

// refresh drops the cached entry and refetches the policy in full.
func (s *AvailabilityService) refresh(ctx context.Context, courseID string) (*ResolvedPolicy, error) {
	_ = s.cache.Invalidate(ctx, PolicyCacheKey(courseID))
	resolved, err := s.load(ctx, courseID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, PolicyCacheKey(courseID), resolved.View, s.cfg.PolicyTTL)
	return resolved, nil
}

// load always goes to the backend.
func (s *AvailabilityService) load(ctx context.Context, courseID string) (*ResolvedPolicy, error) {
	course, err := s.backend.GetCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}
	availability, err := s.backend.GetAvailability(ctx, courseID)
	if err != nil {
		return nil, err
	}
	view := resolvePolicy(courseID, course, availability)
	rules := rulesFromView(view)
	used := scheduling.FixedClosuresUsed(rules)
	view.FixedClosures = models.FixedClosureQuota{
		Used:      used,
		Remaining: s.guard.QuotaRemaining(rules),
		Limit:     s.guard.Quota(),
	}
	return &ResolvedPolicy{View: view, Rules: rules}, nil
}

func (s *AvailabilityService) record(ctx context.Context, entry models.AvailabilityAuditLog) {
	if s.audit == nil {
		return
	}
	entry.RequestID = requestid.FromContext(ctx)
	s.audit.Record(context.WithoutCancel(ctx), entry)
}

func withActor(ctx context.Context, actor models.Actor) context.Context {
	if actor.Token == "" {
		return ctx
	}
	return backend.WithToken(ctx, actor.Token)
}

// reject counts a rule refusal and converts it to a 422.
func (s *AvailabilityService) reject(err error) error {
	var pe *scheduling.PolicyError
	if errors.As(err, &pe) {
		s.metrics.RecordPolicyRejection(string(pe.Reason))
	}
	return policyViolation(err)
}

// changedField names the list the reduced PATCH should carry: the action's
// own list when it changed, otherwise the other one.
func changedField(before, after scheduling.Policy, primary backend.PatchField) backend.PatchField {
	openChanged := !sameDates(before.OpenDates, after.OpenDates)
	closedChanged := !sameDates(before.ClosedDates, after.ClosedDates)
	switch {
	case primary == backend.FieldOpenDates && !openChanged && closedChanged:
		return backend.FieldClosedDates
	case primary == backend.FieldClosedDates && !closedChanged && openChanged:
		return backend.FieldOpenDates
	default:
		return primary
	}
}

func sameDates(a, b scheduling.DateSet) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if !b.Has(k) {
			return false
		}
	}
	return true
}

// resolvePolicy turns backend payloads into the client policy. Malformed
// dates and ranges are dropped rather than failing the whole course.
func resolvePolicy(courseID string, course *backend.Course, availability *backend.Availability) *models.CoursePolicy {
	classDays := scheduling.ParseDays(course.Schedule.Days)

	allowed := scheduling.ParseWeekdayNames(availability.AllowedDays)
	allowedSource := models.SourceBackend
	if allowed.Empty() {
		allowed = scheduling.DefaultPreset(classDays)
		allowedSource = models.SourcePreset
	}

	block, blockSource := resolveBlock(course, availability)

	blocked := make([]models.BlockedRange, 0, len(availability.BlockedRanges))
	for _, br := range availability.BlockedRanges {
		date, err := scheduling.ParseDateKey(br.Date)
		if err != nil {
			continue
		}
		r, err := scheduling.ParseHHMMRange(br.Start, br.End)
		if err != nil || r.Validate() != nil {
			continue
		}
		blocked = append(blocked, models.BlockedRange{Date: date.String(), Start: r.Start.String(), End: r.End.String()})
	}

	return &models.CoursePolicy{
		CourseID:       courseID,
		SubjectCode:    course.SubjectCode,
		Section:        course.Section,
		ClassDays:      course.Schedule.Days,
		AllowedDays:    allowed.Names(),
		DayCode:        allowed.String(),
		AllowedSource:  allowedSource,
		OpenDates:      scheduling.ParseDateSet(availability.OpenDates).Strings(),
		ClosedDates:    scheduling.ParseDateSet(availability.ClosedDates).Strings(),
		MentoringBlock: models.TimeBlock{Start: block.Start.String(), End: block.End.String()},
		BlockSource:    blockSource,
		BlockedRanges:  blocked,
	}
}

func resolveBlock(course *backend.Course, availability *backend.Availability) (scheduling.TimeRange, string) {
	candidates := []struct {
		block  *backend.TimeBlock
		source string
	}{
		{availability.MentoringBlock, models.SourceBackend},
		{course.MentoringBlock, models.SourceBackend},
		{course.DefaultMentoringBlock, models.SourceCourseDefault},
	}
	for _, c := range candidates {
		if c.block == nil {
			continue
		}
		r, err := scheduling.ParseHHMMRange(c.block.Start, c.block.End)
		if err != nil || r.ValidateMentoring() != nil {
			continue
		}
		return r, c.source
	}
	return scheduling.DefaultMentoringBlock(course.Section), models.SourceSectionDefault
}

// rulesFromView rebuilds the rule form from a (possibly cached) policy view.
func rulesFromView(view *models.CoursePolicy) scheduling.Policy {
	rules := scheduling.Policy{
		AllowedDays: scheduling.ParseWeekdayNames(view.AllowedDays),
		OpenDates:   scheduling.ParseDateSet(view.OpenDates),
		ClosedDates: scheduling.ParseDateSet(view.ClosedDates),
	}
	if block, err := scheduling.ParseHHMMRange(view.MentoringBlock.Start, view.MentoringBlock.End); err == nil {
		rules.MentoringBlock = block
	} else {
		rules.MentoringBlock = scheduling.DefaultMentoringBlock(view.Section)
	}
	for _, br := range view.BlockedRanges {
		date, err := scheduling.ParseDateKey(br.Date)
		if err != nil {
			continue
		}
		r, err := scheduling.ParseHHMMRange(br.Start, br.End)
		if err != nil || r.Validate() != nil {
			continue
		}
		rules.BlockedRanges = append(rules.BlockedRanges, scheduling.BlockedRange{Date: date, Range: r})
	}
	return rules
}

func marshalDates(view *models.CoursePolicy) []byte {
	if view == nil {
		return nil
	}
	raw, _ := json.Marshal(map[string][]string{
		"open_dates":   view.OpenDates,
		"closed_dates": view.ClosedDates,
	})
	return raw
}

func marshalBlock(view *models.CoursePolicy) []byte {
	if view == nil {
		return nil
	}
	raw, _ := json.Marshal(map[string]interface{}{
		"mentoring_block": view.MentoringBlock,
		"block_source":    view.BlockSource,
	})
	return raw
}
