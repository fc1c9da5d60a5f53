package response_test

import (
	"cowork/shared/failure"
	"cowork/transport/http/response"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWithError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantBody   string
	}{
		{
			name:       "failure message is public",
			err:        failure.Conflict("workspace already booked for this time"),
			wantStatus: http.StatusConflict,
			wantBody:   `{"error":"workspace already booked for this time"}`,
		},
		{
			name:       "wrapped failure keeps its code",
			err:        errors.Join(errors.New("ctx"), failure.NotFound("booking not found")),
			wantStatus: http.StatusNotFound,
			wantBody:   `{"error":"booking not found"}`,
		},
		{
			name:       "infrastructure error is masked",
			err:        errors.New(`pq: relation "bookings" does not exist`),
			wantStatus: http.StatusInternalServerError,
			wantBody:   `{"error":"internal server error"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()

			response.WithError(rec, tt.err)

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		})
	}
}

func TestWithJSON(t *testing.T) {
	rec := httptest.NewRecorder()

	response.WithJSON(rec, http.StatusCreated, map[string]string{"id": "b1"})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"data":{"id":"b1"}}`, rec.Body.String())
}
