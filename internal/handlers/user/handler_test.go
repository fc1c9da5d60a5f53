package user_test

import (
	"cowork/infras/otel/mocks"
	serviceMocks "cowork/internal/domains/user/service/mocks"
	"cowork/internal/handlers/user"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const userID = "9d2c4e6a-8b1f-4a3c-9e5d-7f6a5b4c3d2e"

func newRouter(t *testing.T) (*serviceMocks.MockUser, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	mockService := serviceMocks.NewMockUser(ctrl)
	handler := user.New(mockService, mocks.NewOtel())

	router := chi.NewRouter()
	router.Route("/v1", handler.Router)

	return mockService, router
}

func TestUserByID(t *testing.T) {
	mockService, router := newRouter(t)

	tests := []struct {
		name       string
		method     string
		id         string
		body       string
		setupMock  func()
		wantStatus int
	}{
		{
			name:   "delete",
			method: http.MethodDelete,
			id:     userID,
			setupMock: func() {
				mockService.EXPECT().Delete(gomock.Any(), userID).Return(nil)
			},
			wantStatus: http.StatusOK,
		},
		{
			name:       "get malformed id",
			method:     http.MethodGet,
			id:         "bob",
			setupMock:  func() {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "update malformed id",
			method:     http.MethodPatch,
			id:         "bob",
			body:       `{"active":false}`,
			setupMock:  func() {},
			wantStatus: http.StatusNotFound,
		},
		{
			name:       "delete malformed id",
			method:     http.MethodDelete,
			id:         "1",
			setupMock:  func() {},
			wantStatus: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			req := httptest.NewRequest(tt.method, "/v1/users/"+tt.id, strings.NewReader(tt.body))
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
		})
	}
}
