package workspace_test

import (
	"context"
	"cowork/infras/otel/mocks"
	availabilityMocks "cowork/internal/domains/availability/service/mocks"
	"cowork/internal/domains/booking/interval"
	"cowork/internal/domains/workspace/model"
	"cowork/internal/domains/workspace/model/dto"
	workspaceMocks "cowork/internal/domains/workspace/service/mocks"
	"cowork/internal/handlers/workspace"
	"cowork/shared/timezone"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	workspaces   *workspaceMocks.MockWorkspace
	availability *availabilityMocks.MockAvailability
	router       http.Handler
}

func newFixture(t *testing.T) fixture {
	t.Helper()

	ctrl := gomock.NewController(t)

	f := fixture{
		workspaces:   workspaceMocks.NewMockWorkspace(ctrl),
		availability: availabilityMocks.NewMockAvailability(ctrl),
	}

	handler := workspace.New(f.workspaces, f.availability, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)
	f.router = router

	return f
}

func TestGetAvailable(t *testing.T) {
	f := newFixture(t)

	start := time.Date(2024, 6, 21, 11, 30, 0, 0, timezone.GetLocation())

	tests := []struct {
		name       string
		query      string
		setupMock  func()
		wantStatus int
		wantNames  []string
	}{
		{
			name:  "free workspaces",
			query: "?start=2024-06-21T11:30:00&end=2024-06-21T12:30:00",
			setupMock: func() {
				f.availability.EXPECT().Available(gomock.Any(), gomock.Any()).DoAndReturn(
					func(_ context.Context, iv interval.Interval) ([]model.Workspace, error) {
						assert.True(t, iv.Start.Equal(start))
						assert.Equal(t, time.Hour, iv.Duration())

						return []model.Workspace{{ID: "ws-b", Name: "B"}}, nil
					})
			},
			wantStatus: http.StatusOK,
			wantNames:  []string{"B"},
		},
		{
			name:       "malformed start",
			query:      "?start=tomorrow&end=2024-06-21T12:30:00",
			setupMock:  func() {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "missing end",
			query:      "?start=2024-06-21T11:30:00",
			setupMock:  func() {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "end before start",
			query:      "?start=2024-06-21T12:30:00&end=2024-06-21T11:30:00",
			setupMock:  func() {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "empty interval",
			query:      "?start=2024-06-21T12:30:00&end=2024-06-21T12:30:00",
			setupMock:  func() {},
			wantStatus: http.StatusBadRequest,
		},
		{
			name:  "store failure",
			query: "?start=2024-06-21T11:30:00&end=2024-06-21T12:30:00",
			setupMock: func() {
				f.availability.EXPECT().Available(gomock.Any(), gomock.Any()).Return(nil, errors.New("timeout"))
			},
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/available"+tt.query, nil)
			rec := httptest.NewRecorder()

			f.router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantNames == nil {
				return
			}

			var body struct {
				Data []dto.WorkspaceResponse `json:"data"`
			}

			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))

			names := make([]string, len(body.Data))
			for i, ws := range body.Data {
				names[i] = ws.Name
			}

			assert.Equal(t, tt.wantNames, names)
		})
	}
}

func TestGetAvailableNow(t *testing.T) {
	f := newFixture(t)

	before := timezone.Now()

	f.availability.EXPECT().AvailableAt(gomock.Any(), gomock.Any()).DoAndReturn(
		func(_ context.Context, instant time.Time) ([]model.Workspace, error) {
			assert.False(t, instant.Before(before))

			return []model.Workspace{{ID: "ws-a", Name: "A"}, {ID: "ws-b", Name: "B"}}, nil
		})

	req := httptest.NewRequest(http.MethodGet, "/v1/workspaces/available/now", nil)
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestDeleteWorkspaceByName(t *testing.T) {
	f := newFixture(t)

	f.workspaces.EXPECT().DeleteByName(gomock.Any(), "A").Return(nil)

	req := httptest.NewRequest(http.MethodDelete, "/v1/workspaces/name/A", nil)
	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWorkspaceByID_MalformedID(t *testing.T) {
	f := newFixture(t)

	for _, method := range []string{http.MethodGet, http.MethodDelete} {
		t.Run(method, func(t *testing.T) {
			req := httptest.NewRequest(method, "/v1/workspaces/not-a-uuid", nil)
			rec := httptest.NewRecorder()

			f.router.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusNotFound, rec.Code)
		})
	}
}

func TestCreateWorkspace_MalformedMultipart(t *testing.T) {
	f := newFixture(t)

	req := httptest.NewRequest(http.MethodPost, "/v1/workspaces", strings.NewReader("name=A"))
	req.Header.Set("Content-Type", "multipart/form-data")

	rec := httptest.NewRecorder()

	f.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
