package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/internal/domains/booking/interval"
	"cowork/internal/domains/booking/model"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	gRepo "cowork/shared/repository"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	argRangeStart = "range_start"
	argRangeEnd   = "range_end"
	argInstant    = "instant"

	// Serializes admission per workspace until the surrounding transaction ends.
	advisoryLockQuery = "SELECT pg_advisory_xact_lock(hashtext($1))"
)

// ErrOverlap is returned when a booking would overlap an existing one for the same workspace.
var ErrOverlap = errors.New("booking overlaps an existing booking")

type Booking interface {
	FindOverlapping(ctx context.Context, workspaceID string, iv interval.Interval) ([]model.Booking, error)
	FindAllOverlapping(ctx context.Context, iv interval.Interval) ([]model.Booking, error)
	FindActiveAt(ctx context.Context, instant time.Time) ([]model.Booking, error)
	InsertAdmitted(ctx context.Context, booking model.Booking) error
	DeleteByID(ctx context.Context, id string) (bool, error)
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Booking, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Booking, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Booking]
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Booking {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Booking](model.EntityName, model.TableName, model.FieldID, db, otel),
		otel:       otel,
	}
}

// OverlapFilter selects bookings whose [start_time, end_time) intersects iv.
func OverlapFilter(iv interval.Interval) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Table: model.TableName, Field: model.FieldStartTime, Operator: gDto.FilterOperatorLess, Value: iv.End, ArgName: argRangeEnd},
			gDto.Filter{Table: model.TableName, Field: model.FieldEndTime, Operator: gDto.FilterOperatorGreater, Value: iv.Start, ArgName: argRangeStart},
		},
	}
}

func workspaceOverlapFilter(workspaceID string, iv interval.Interval) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Table: model.TableName, Field: model.FieldWorkspaceID, Operator: gDto.FilterOperatorEq, Value: workspaceID},
			OverlapFilter(iv),
		},
	}
}

// ActiveAtFilter selects bookings with start_time <= instant < end_time.
func ActiveAtFilter(instant time.Time) gDto.FilterGroup {
	return gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{Table: model.TableName, Field: model.FieldStartTime, Operator: gDto.FilterOperatorLessEq, Value: instant, ArgName: argInstant},
			gDto.Filter{Table: model.TableName, Field: model.FieldEndTime, Operator: gDto.FilterOperatorGreater, Value: instant, ArgName: argInstant},
		},
	}
}

func (r *repositoryImpl) FindOverlapping(ctx context.Context, workspaceID string, iv interval.Interval) ([]model.Booking, error) {
	return r.GetAll(ctx, gDto.QueryParams{}, workspaceOverlapFilter(workspaceID, iv))
}

func (r *repositoryImpl) FindAllOverlapping(ctx context.Context, iv interval.Interval) ([]model.Booking, error) {
	return r.GetAll(ctx, gDto.QueryParams{}, OverlapFilter(iv))
}

func (r *repositoryImpl) FindActiveAt(ctx context.Context, instant time.Time) ([]model.Booking, error) {
	return r.GetAll(ctx, gDto.QueryParams{}, ActiveAtFilter(instant))
}

// InsertAdmitted re-checks admissibility and inserts in one transaction holding
// the workspace advisory lock. The exclusion constraint on the table is the final
// guard; its violation is also reported as ErrOverlap.
func (r *repositoryImpl) InsertAdmitted(ctx context.Context, booking model.Booking) (err error) {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".booking.InsertAdmitted")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	scope.SetAttribute(model.FieldWorkspaceID, booking.WorkspaceID)

	tx, err := r.BeginTx(ctx)
	if err != nil {
		return err
	}

	defer func() {
		if err == nil {
			return
		}

		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			log.Error().Err(rbErr).Str("booking", booking.ID).Msg("failed to rollback booking transaction")
		}
	}()

	if _, err = tx.ExecContext(ctx, advisoryLockQuery, booking.WorkspaceID); err != nil {
		log.Error().Err(err).Str("workspace", booking.WorkspaceID).Msg("failed to lock workspace")

		return fmt.Errorf("failed to lock workspace: %w", err)
	}

	existing, err := r.GetAllTx(ctx, tx, gDto.QueryParams{}, workspaceOverlapFilter(booking.WorkspaceID, booking.Interval()))
	if err != nil {
		return fmt.Errorf("failed to read overlapping bookings: %w", err)
	}

	if !interval.IsAdmissible(booking.Interval(), model.Intervals(existing)) {
		err = ErrOverlap

		return err
	}

	if err = r.InsertTx(ctx, tx, booking); err != nil {
		if isExclusionViolation(err) {
			err = ErrOverlap

			return err
		}

		return fmt.Errorf("failed to insert booking: %w", err)
	}

	if err = tx.Commit(); err != nil {
		if isExclusionViolation(err) {
			err = ErrOverlap

			return err
		}

		log.Error().Err(err).Str("booking", booking.ID).Msg("failed to commit booking")

		return fmt.Errorf("failed to commit booking: %w", err)
	}

	return nil
}

func (r *repositoryImpl) DeleteByID(ctx context.Context, id string) (bool, error) {
	affected, err := r.Delete(ctx, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Table: model.TableName, Field: model.FieldID, Operator: gDto.FilterOperatorEq, Value: id},
		},
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete booking: %w", err)
	}

	return affected > 0, nil
}

func isExclusionViolation(err error) bool {
	return gRepo.IsPqError(err, constant.PqErrorCodeExclusionViolation)
}
