package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"cowork/config"
	"cowork/infras/metrics"
	"cowork/infras/otel"
	auditModel "cowork/internal/domains/audit/model"
	auditService "cowork/internal/domains/audit/service"
	"cowork/internal/domains/booking/interval"
	"cowork/internal/domains/booking/model"
	"cowork/internal/domains/booking/model/dto"
	"cowork/internal/domains/booking/repository"
	userModel "cowork/internal/domains/user/model"
	userRepository "cowork/internal/domains/user/repository"
	workspaceModel "cowork/internal/domains/workspace/model"
	workspaceRepository "cowork/internal/domains/workspace/repository"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	gModel "cowork/shared/model"
	gRepo "cowork/shared/repository"
	"cowork/shared/timezone"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrBookingNotFound   = failure.NotFound("booking not found")
	ErrWorkspaceNotFound = failure.NotFound("workspace not found")
	ErrUserNotFound      = failure.NotFound("user not found")
	ErrAlreadyBooked     = failure.Conflict("workspace is already booked for the requested interval")
	ErrStartNotInFuture  = failure.BadRequestFromString("start must be in the future")
	ErrNotOwner          = failure.Forbidden("only the owner or an admin can access this booking")
	ErrBookForOthers     = failure.Forbidden("only an admin can book for another user")
)

// Rejection reasons reported to metrics and the audit log.
const (
	ReasonInvalidInterval = "invalid_interval"
	ReasonNotFound        = "not_found"
	ReasonForbidden       = "forbidden"
	ReasonConflict        = "conflict"
	ReasonInfrastructure  = "infrastructure"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest) (dto.BookingResponse, error)
	Cancel(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.BookingResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBookingsResponse, error)
	GetMine(ctx context.Context, params gDto.QueryParams) (dto.GetBookingsResponse, error)
}

type serviceImpl struct {
	repo       repository.Booking
	workspaces workspaceRepository.Workspace
	users      userRepository.User
	audit      auditService.Audit
	metrics    metrics.Metrics
	cfg        *config.Config
	cache      cache.RedisCache
	otel       otel.Otel
	locks      *keyedMutex
	now        func() time.Time
}

func New(
	repo repository.Booking,
	workspaces workspaceRepository.Workspace,
	users userRepository.User,
	audit auditService.Audit,
	metrics metrics.Metrics,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Booking {
	return NewWithClock(repo, workspaces, users, audit, metrics, cfg, cache, otel, timezone.Now)
}

// NewWithClock is New with an explicit source of the current time.
func NewWithClock(
	repo repository.Booking,
	workspaces workspaceRepository.Workspace,
	users userRepository.User,
	audit auditService.Audit,
	metrics metrics.Metrics,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	now func() time.Time,
) Booking {
	return &serviceImpl{
		repo:       repo,
		workspaces: workspaces,
		users:      users,
		audit:      audit,
		metrics:    metrics,
		cfg:        cfg,
		cache:      cache,
		otel:       otel,
		locks:      newKeyedMutex(),
		now:        now,
	}
}

// Create validates the request, then admits and persists the booking while holding
// the workspace lock. Every rejection is counted and audited.
func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := shared.ActorFromContext(ctx)

	iv, err := s.validateInterval(req)
	if err != nil {
		return res, s.reject(ctx, actor, ReasonInvalidInterval, req, err)
	}

	workspace, err := s.resolveWorkspace(ctx, req)
	if err != nil {
		return res, s.reject(ctx, actor, reasonOf(err), req, err)
	}

	requester, err := s.resolveRequester(ctx, req.Username)
	if err != nil {
		return res, s.reject(ctx, actor, reasonOf(err), req, err)
	}

	scope.SetAttribute(model.FieldWorkspaceID, workspace.ID)

	booking := model.Booking{
		ID:          uuid.NewString(),
		WorkspaceID: workspace.ID,
		UserID:      requester.ID,
		StartTime:   iv.Start,
		EndTime:     iv.End,
		Metadata:    gModel.NewMetadata(actor, s.now()),
	}

	if err = s.admit(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrOverlap) {
			return res, s.reject(ctx, actor, ReasonConflict, req, ErrAlreadyBooked)
		}

		log.Error().Err(err).Str("workspace", workspace.ID).Msg("failed to persist booking")

		return res, s.reject(ctx, actor, ReasonInfrastructure, req, fmt.Errorf("failed to persist booking: %w", err))
	}

	s.metrics.BookingAdmitted()
	s.audit.Record(ctx, actor, auditModel.ActionBookingCreated, fmt.Sprintf("booking=%s workspace=%s user=%s start=%s end=%s",
		booking.ID, workspace.ID, requester.ID, req.Start, req.End))
	s.invalidate(ctx, booking.ID)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) validateInterval(req dto.CreateBookingRequest) (interval.Interval, error) {
	iv, err := req.Interval()
	if err != nil {
		return iv, err
	}

	earliest := s.now().Add(time.Duration(s.cfg.App.Booking.MinLeadSeconds) * time.Second)
	if !iv.Start.After(earliest) {
		return iv, ErrStartNotInFuture
	}

	return iv, nil
}

func (s *serviceImpl) resolveWorkspace(ctx context.Context, req dto.CreateBookingRequest) (workspaceModel.Workspace, error) {
	filter := shared.FilterByID(req.WorkspaceID, workspaceModel.FieldID, workspaceModel.TableName)
	if req.WorkspaceID == constant.Empty {
		filter = shared.FilterByField(workspaceModel.FieldName, req.WorkspaceName, workspaceModel.TableName)
	}

	workspace, err := s.workspaces.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get workspace")

		return workspace, fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace.ID == constant.Empty {
		return workspace, ErrWorkspaceNotFound
	}

	return workspace, nil
}

// resolveRequester returns the caller, or the named user when an admin books for someone else.
func (s *serviceImpl) resolveRequester(ctx context.Context, username string) (user userModel.User, err error) {
	caller, _ := ctx.Value(constant.ContextKeyUsername).(string)

	switch {
	case username == constant.Empty && shared.ActorFromContext(ctx) == constant.ContextGuest:
		// internal callers carry no identity of their own
		return user, ErrUserNotFound
	case username == constant.Empty || username == caller:
		user, err = s.users.Get(ctx, shared.FilterByID(shared.ActorFromContext(ctx), userModel.FieldID, userModel.TableName))
	case !shared.IsAdmin(ctx):
		return user, ErrBookForOthers
	default:
		user, err = s.users.GetByUsername(ctx, username)
	}

	if err != nil {
		log.Error().Err(err).Msg("failed to get requester")

		return user, fmt.Errorf("failed to get requester: %w", err)
	}

	if user.ID == constant.Empty {
		return user, ErrUserNotFound
	}

	return user, nil
}

// admit serializes admission per workspace in this process; the store repeats the
// check under its own lock so other replicas are covered too.
func (s *serviceImpl) admit(ctx context.Context, booking model.Booking) error {
	unlock := s.locks.Lock(booking.WorkspaceID)
	defer unlock()

	return s.repo.InsertAdmitted(ctx, booking)
}

func (s *serviceImpl) reject(ctx context.Context, actor, reason string, req dto.CreateBookingRequest, err error) error {
	s.metrics.BookingRejected(reason)
	s.audit.Record(ctx, actor, auditModel.ActionBookingRejected, fmt.Sprintf("reason=%s workspace=%s%s start=%s end=%s",
		reason, req.WorkspaceID, req.WorkspaceName, req.Start, req.End))

	return err
}

func reasonOf(err error) string {
	switch {
	case errors.Is(err, ErrWorkspaceNotFound), errors.Is(err, ErrUserNotFound):
		return ReasonNotFound
	case errors.Is(err, ErrBookForOthers):
		return ReasonForbidden
	default:
		return ReasonInfrastructure
	}
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Cancel")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	booking, err := s.get(ctx, id)
	if err != nil {
		return err
	}

	actor := shared.ActorFromContext(ctx)
	if booking.UserID != actor && !shared.IsAdmin(ctx) {
		return ErrNotOwner
	}

	deleted, err := s.repo.DeleteByID(ctx, id)
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to cancel booking")

		return fmt.Errorf("failed to cancel booking: %w", err)
	}

	if !deleted {
		return ErrBookingNotFound
	}

	s.metrics.BookingCancelled()
	s.audit.Record(ctx, actor, auditModel.ActionBookingCancelled, fmt.Sprintf("booking=%s workspace=%s user=%s", booking.ID, booking.WorkspaceID, booking.UserID))
	s.invalidate(ctx, id)

	return nil
}

func (s *serviceImpl) get(ctx context.Context, id string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if gRepo.IsPqError(err, constant.PqErrorCodeInvalidText) {
		return model.Booking{}, ErrBookingNotFound
	}

	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == constant.Empty {
		return booking, ErrBookingNotFound
	}

	return booking, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(constant.CacheKeyBooking, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err != nil {
		var booking model.Booking

		if booking, err = s.get(ctx, id); err != nil {
			return res, err
		}

		res.FromModel(booking)

		cached := res

		go func() {
			if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, cached, s.cfg.Cache.TTL); err != nil {
				log.Error().Err(err).Msg("failed to save booking to cache")
			}
		}()
	}

	if res.UserID != shared.ActorFromContext(ctx) && !shared.IsAdmin(ctx) {
		err = ErrNotOwner

		return dto.BookingResponse{}, err
	}

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.getAll(ctx, params, filter)
}

// GetMine lists the bookings owned by the caller.
func (s *serviceImpl) GetMine(ctx context.Context, params gDto.QueryParams) (res dto.GetBookingsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".booking.GetMine")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.getAll(ctx, params, shared.FilterByField(model.FieldUserID, shared.ActorFromContext(ctx), model.TableName))
}

func (s *serviceImpl) getAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBookingsResponse, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyBookings, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for bookings")

		return res, nil
	}

	total, err := s.count(ctx, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return res, fmt.Errorf("failed to get bookings: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	cached := res

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, cached, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save bookings to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyBookingCount, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count bookings")

		return 0, fmt.Errorf("failed to count bookings: %w", err)
	}

	cached := total

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, cached, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save booking count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheKeyBooking, id)); err != nil {
			log.Error().Err(err).Msg("failed to delete booking from cache")
		}

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBookings)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyBookingCount)
	}()
}
