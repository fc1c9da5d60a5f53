package model

import (
	"cowork/internal/domains/booking/interval"
	"cowork/shared/model"
	"time"
)

const (
	TableName  = "bookings"
	EntityName = "booking"

	FieldID          = "id"
	FieldWorkspaceID = "workspace_id"
	FieldUserID      = "user_id"
	FieldStartTime   = "start_time"
	FieldEndTime     = "end_time"
)

type Booking struct {
	ID          string    `db:"id"`
	WorkspaceID string    `db:"workspace_id"`
	UserID      string    `db:"user_id"`
	StartTime   time.Time `db:"start_time"`
	EndTime     time.Time `db:"end_time"`
	model.Metadata
}

func (b Booking) Interval() interval.Interval {
	return interval.Interval{Start: b.StartTime, End: b.EndTime}
}

func Intervals(bookings []Booking) []interval.Interval {
	intervals := make([]interval.Interval, len(bookings))
	for i, booking := range bookings {
		intervals[i] = booking.Interval()
	}

	return intervals
}
