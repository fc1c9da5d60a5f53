// Package service answers which workspaces are free over an interval or at an instant.
//
// A workspace is available for an interval only when none of its bookings
// conflict with any part of it. Results are computed from the store on every
// call and are never cached.
package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"cowork/infras/metrics"
	"cowork/infras/otel"
	"cowork/internal/domains/booking/interval"
	bookingModel "cowork/internal/domains/booking/model"
	bookingRepository "cowork/internal/domains/booking/repository"
	"cowork/internal/domains/workspace/model"
	"cowork/internal/domains/workspace/repository"
	"cowork/shared/constant"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

type Availability interface {
	Available(ctx context.Context, iv interval.Interval) ([]model.Workspace, error)
	AvailableAt(ctx context.Context, instant time.Time) ([]model.Workspace, error)
}

type serviceImpl struct {
	workspaces repository.Workspace
	bookings   bookingRepository.Booking
	metrics    metrics.Metrics
	otel       otel.Otel
}

func New(workspaces repository.Workspace, bookings bookingRepository.Booking, metrics metrics.Metrics, otel otel.Otel) Availability {
	return &serviceImpl{
		workspaces: workspaces,
		bookings:   bookings,
		metrics:    metrics,
		otel:       otel,
	}
}

func (s *serviceImpl) Available(ctx context.Context, iv interval.Interval) (res []model.Workspace, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.Available")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	busy, err := s.bookings.FindAllOverlapping(ctx, iv)
	if err != nil {
		log.Error().Err(err).Msg("failed to find overlapping bookings")

		return nil, fmt.Errorf("failed to find overlapping bookings: %w", err)
	}

	return s.complementOfCatalog(ctx, metrics.AvailabilityInterval, busy)
}

// AvailableAt uses point containment, start <= instant < end, rather than an empty interval.
func (s *serviceImpl) AvailableAt(ctx context.Context, instant time.Time) (res []model.Workspace, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".availability.AvailableAt")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	active, err := s.bookings.FindActiveAt(ctx, instant)
	if err != nil {
		log.Error().Err(err).Msg("failed to find active bookings")

		return nil, fmt.Errorf("failed to find active bookings: %w", err)
	}

	return s.complementOfCatalog(ctx, metrics.AvailabilityInstant, active)
}

func (s *serviceImpl) complementOfCatalog(ctx context.Context, kind string, busy []bookingModel.Booking) ([]model.Workspace, error) {
	catalog, err := s.workspaces.Catalog(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to load workspace catalog")

		return nil, fmt.Errorf("failed to load workspace catalog: %w", err)
	}

	available := Complement(catalog, busy)
	s.metrics.AvailabilityQueried(kind, len(available))

	return available, nil
}

// Complement returns the catalog entries that no booking refers to, in catalog order.
func Complement(catalog []model.Workspace, busy []bookingModel.Booking) []model.Workspace {
	available, _ := Partition(catalog, busy)

	return available
}

// Partition splits the catalog into workspaces without and with a booking in busy.
// The two results are disjoint and together equal the catalog.
func Partition(catalog []model.Workspace, busy []bookingModel.Booking) (available, occupied []model.Workspace) {
	taken := make(map[string]struct{}, len(busy))
	for _, booking := range busy {
		taken[booking.WorkspaceID] = struct{}{}
	}

	available = make([]model.Workspace, 0, len(catalog))

	for _, workspace := range catalog {
		if _, ok := taken[workspace.ID]; ok {
			occupied = append(occupied, workspace)

			continue
		}

		available = append(available, workspace)
	}

	return available, occupied
}
