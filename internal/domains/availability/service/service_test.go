package service_test

import (
	"context"
	"errors"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	metricsMocks "cowork/infras/metrics/mocks"
	"cowork/infras/otel/mocks"
	"cowork/internal/domains/availability/service"
	"cowork/internal/domains/booking/interval"
	bookingMocks "cowork/internal/domains/booking/mocks"
	bookingModel "cowork/internal/domains/booking/model"
	workspaceMocks "cowork/internal/domains/workspace/mocks"
	"cowork/internal/domains/workspace/model"
)

// memoryBookings answers the overlap queries from a slice using the interval rules.
type memoryBookings struct {
	*bookingMocks.MockBooking
	rows []bookingModel.Booking
}

func (m *memoryBookings) FindAllOverlapping(_ context.Context, iv interval.Interval) ([]bookingModel.Booking, error) {
	var res []bookingModel.Booking

	for _, row := range m.rows {
		if interval.Conflicts(row.Interval(), iv) {
			res = append(res, row)
		}
	}

	return res, nil
}

func (m *memoryBookings) FindOverlapping(ctx context.Context, workspaceID string, iv interval.Interval) ([]bookingModel.Booking, error) {
	all, _ := m.FindAllOverlapping(ctx, iv)

	var res []bookingModel.Booking

	for _, row := range all {
		if row.WorkspaceID == workspaceID {
			res = append(res, row)
		}
	}

	return res, nil
}

func (m *memoryBookings) FindActiveAt(_ context.Context, instant time.Time) ([]bookingModel.Booking, error) {
	var res []bookingModel.Booking

	for _, row := range m.rows {
		if row.Interval().Contains(instant) {
			res = append(res, row)
		}
	}

	return res, nil
}

var day = time.Date(2024, time.June, 21, 0, 0, 0, 0, time.UTC)

func at(hour, minute int) time.Time {
	return day.Add(time.Duration(hour)*time.Hour + time.Duration(minute)*time.Minute)
}

func names(workspaces []model.Workspace) []string {
	res := make([]string, len(workspaces))
	for i, ws := range workspaces {
		res[i] = ws.Name
	}

	return res
}

func TestAvailable_Scenario(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	catalog := []model.Workspace{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	workspaces := workspaceMocks.NewMockWorkspace(ctrl)
	workspaces.EXPECT().Catalog(gomock.Any()).Return(catalog, nil).AnyTimes()

	bookings := &memoryBookings{
		MockBooking: bookingMocks.NewMockBooking(ctrl),
		rows: []bookingModel.Booking{
			{ID: "b1", WorkspaceID: "a", StartTime: at(11, 30), EndTime: at(12, 30)},
		},
	}

	svc := service.New(workspaces, bookings, metricsMocks.NewMetrics(), mocks.NewOtel())

	tests := []struct {
		name  string
		query interval.Interval
		want  []string
	}{
		{name: "same interval excludes A", query: interval.Interval{Start: at(11, 30), End: at(12, 30)}, want: []string{"B"}},
		{name: "partial overlap excludes A", query: interval.Interval{Start: at(12, 0), End: at(18, 0)}, want: []string{"B"}},
		{name: "later interval includes A", query: interval.Interval{Start: at(13, 30), End: at(14, 30)}, want: []string{"A", "B"}},
		{name: "touching interval includes A", query: interval.Interval{Start: at(12, 30), End: at(13, 30)}, want: []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Available(context.Background(), tt.query)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, names(res))
		})
	}
}

func TestAvailableAt(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	catalog := []model.Workspace{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}}
	workspaces := workspaceMocks.NewMockWorkspace(ctrl)
	workspaces.EXPECT().Catalog(gomock.Any()).Return(catalog, nil).AnyTimes()

	bookings := &memoryBookings{
		MockBooking: bookingMocks.NewMockBooking(ctrl),
		rows: []bookingModel.Booking{
			{ID: "b1", WorkspaceID: "a", StartTime: at(11, 30), EndTime: at(12, 30)},
		},
	}

	svc := service.New(workspaces, bookings, metricsMocks.NewMetrics(), mocks.NewOtel())

	tests := []struct {
		name    string
		instant time.Time
		want    []string
	}{
		{name: "at start the booking is active", instant: at(11, 30), want: []string{"B"}},
		{name: "inside the booking", instant: at(12, 0), want: []string{"B"}},
		{name: "at end the booking is over", instant: at(12, 30), want: []string{"A", "B"}},
		{name: "before the booking", instant: at(9, 0), want: []string{"A", "B"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.AvailableAt(context.Background(), tt.instant)

			assert.NoError(t, err)
			assert.Equal(t, tt.want, names(res))
		})
	}
}

func TestAvailable_StoreErrors(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	workspaces := workspaceMocks.NewMockWorkspace(ctrl)
	bookings := bookingMocks.NewMockBooking(ctrl)
	svc := service.New(workspaces, bookings, metricsMocks.NewMetrics(), mocks.NewOtel())

	iv := interval.Interval{Start: at(10, 0), End: at(11, 0)}

	bookings.EXPECT().FindAllOverlapping(gomock.Any(), iv).Return(nil, errors.New("connection refused"))

	_, err := svc.Available(context.Background(), iv)
	assert.ErrorContains(t, err, "connection refused")

	bookings.EXPECT().FindActiveAt(gomock.Any(), at(10, 0)).Return(nil, nil)
	workspaces.EXPECT().Catalog(gomock.Any()).Return(nil, errors.New("connection refused"))

	_, err = svc.AvailableAt(context.Background(), at(10, 0))
	assert.ErrorContains(t, err, "workspace catalog")
}

func TestPartition_ComplementProperty(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	catalog := make([]model.Workspace, 12)
	for i := range catalog {
		catalog[i] = model.Workspace{ID: string(rune('a' + i)), Name: string(rune('A' + i))}
	}

	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	for range 200 {
		rows := make([]bookingModel.Booking, rng.IntN(20))
		for i := range rows {
			start := at(rng.IntN(20), 15*rng.IntN(4))
			rows[i] = bookingModel.Booking{
				WorkspaceID: catalog[rng.IntN(len(catalog))].ID,
				StartTime:   start,
				EndTime:     start.Add(time.Duration(1+rng.IntN(8)) * 15 * time.Minute),
			}
		}

		store := &memoryBookings{MockBooking: bookingMocks.NewMockBooking(ctrl), rows: rows}

		start := at(rng.IntN(20), 0)
		query := interval.Interval{Start: start, End: start.Add(time.Duration(1+rng.IntN(6)) * time.Hour)}

		overlapping, _ := store.FindAllOverlapping(context.Background(), query)
		available := service.Complement(catalog, overlapping)

		seen := map[string]int{}
		for _, ws := range available {
			seen[ws.ID]++

			busy, _ := store.FindOverlapping(context.Background(), ws.ID, query)
			assert.Empty(t, busy, "available workspace %s has a conflicting booking", ws.ID)
		}

		for _, ws := range catalog {
			busy, _ := store.FindOverlapping(context.Background(), ws.ID, query)
			if len(busy) > 0 {
				seen[ws.ID]++
			}
		}

		assert.Len(t, seen, len(catalog))

		for id, count := range seen {
			assert.Equal(t, 1, count, "workspace %s must be in exactly one side", id)
		}
	}
}

func TestPartition(t *testing.T) {
	catalog := []model.Workspace{{ID: "a"}, {ID: "b"}, {ID: "c"}}
	busy := []bookingModel.Booking{{WorkspaceID: "b"}, {WorkspaceID: "b"}, {WorkspaceID: "zzz"}}

	available, occupied := service.Partition(catalog, busy)

	assert.Equal(t, []model.Workspace{{ID: "a"}, {ID: "c"}}, available)
	assert.Equal(t, []model.Workspace{{ID: "b"}}, occupied)
	assert.Empty(t, service.Complement(nil, busy))
}
