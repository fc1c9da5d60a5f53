package dto

import (
	"cowork/internal/domains/booking/interval"
	"cowork/internal/domains/booking/model"
	"cowork/shared"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	"cowork/shared/timezone"
)

var ErrMalformedTimestamp = failure.BadRequestFromString("start and end must use the format yyyy-MM-ddTHH:mm:ss")

// CreateBookingRequest names the workspace by id or by name. Username lets an admin
// book for someone else; it defaults to the caller.
type CreateBookingRequest struct {
	WorkspaceID   string `json:"workspace_id,omitempty"   validate:"required_without=WorkspaceName,omitempty,uuid"`
	WorkspaceName string `json:"workspace_name,omitempty" validate:"required_without=WorkspaceID,omitempty,max=30"`
	Username      string `json:"username,omitempty"       validate:"omitempty,username"`
	Start         string `json:"start"                    validate:"required,localdatetime"`
	End           string `json:"end"                      validate:"required,localdatetime"`
}

func (r CreateBookingRequest) Interval() (interval.Interval, error) {
	return ParseInterval(r.Start, r.End)
}

// ParseInterval reads both boundaries in the application timezone.
func ParseInterval(start, end string) (interval.Interval, error) {
	startTime, err := timezone.ParseLocal(start)
	if err != nil {
		return interval.Interval{}, ErrMalformedTimestamp
	}

	endTime, err := timezone.ParseLocal(end)
	if err != nil {
		return interval.Interval{}, ErrMalformedTimestamp
	}

	iv, err := interval.New(startTime, endTime)
	if err != nil {
		return interval.Interval{}, failure.BadRequest(err)
	}

	return iv, nil
}

type BookingResponse struct {
	ID          string `json:"id"`
	WorkspaceID string `json:"workspace_id"`
	UserID      string `json:"user_id"`
	Start       string `json:"start"`
	End         string `json:"end"`
	gDto.Metadata
}

func (r *BookingResponse) FromModel(model model.Booking) {
	r.ID = model.ID
	r.WorkspaceID = model.WorkspaceID
	r.UserID = model.UserID
	r.Start = timezone.FormatLocal(model.StartTime)
	r.End = timezone.FormatLocal(model.EndTime)
	r.Metadata.FromModel(model.Metadata)
}

type GetBookingsResponse struct {
	Bookings  []BookingResponse `json:"bookings"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetBookingsResponse) FromModels(models []model.Booking, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Bookings = make([]BookingResponse, len(models))
	for i, mod := range models {
		r.Bookings[i].FromModel(mod)
	}
}
