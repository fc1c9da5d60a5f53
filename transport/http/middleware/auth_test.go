package middleware_test

import (
	"cowork/config"
	"cowork/infras/jwt"
	jwtMocks "cowork/infras/jwt/mocks"
	"cowork/infras/otel/mocks"
	"cowork/permissions"
	"cowork/shared/constant"
	"cowork/transport/http/middleware"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

const apiKey = "internal-key"

func newProtectedRouter(t *testing.T, jwtService jwt.JWT) http.Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.App.APIKey = apiKey

	auth := middleware.NewAuthRoleMiddleware(jwtService, mocks.NewOtel(), permissions.Get(), cfg)

	echoCaller := func(w http.ResponseWriter, r *http.Request) {
		username, _ := r.Context().Value(constant.ContextKeyUsername).(string)
		role, _ := r.Context().Value(constant.ContextKeyUserRole).(string)

		w.Header().Set("X-Caller", username)
		w.Header().Set("X-Role", role)
		w.WriteHeader(http.StatusOK)
	}

	router := chi.NewRouter()
	router.Group(func(r chi.Router) {
		r.Use(auth.APIKey)
		r.Use(auth.Auth)
		r.Use(auth.RBAC)

		r.Route("/v1", func(r chi.Router) {
			r.Route("/workspaces", func(r chi.Router) {
				r.Get("/available", echoCaller)
			})
			r.Route("/bookings", func(r chi.Router) {
				r.Post("/", echoCaller)
				r.Get("/", echoCaller)
			})
		})
	})

	return router
}

func TestAuthRole(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockJWT := jwtMocks.NewMockJWT(ctrl)
	router := newProtectedRouter(t, mockJWT)

	aliceClaims := &jwt.Claims{UserID: "alice-id", Username: "alice", Role: constant.RoleUser, Type: jwt.AccessToken}

	tests := []struct {
		name       string
		method     string
		path       string
		headers    map[string]string
		setupMock  func()
		wantStatus int
		wantCaller string
		wantRole   string
	}{
		{
			name:       "public endpoint without token",
			method:     http.MethodGet,
			path:       "/v1/workspaces/available",
			setupMock:  func() {},
			wantStatus: http.StatusOK,
		},
		{
			name:       "missing authorization header",
			method:     http.MethodPost,
			path:       "/v1/bookings",
			setupMock:  func() {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:       "malformed authorization header",
			method:     http.MethodPost,
			path:       "/v1/bookings",
			headers:    map[string]string{constant.RequestHeaderAuthorization: "Token abc"},
			setupMock:  func() {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "expired token",
			method:  http.MethodPost,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer expired"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken("expired", jwt.AccessToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "claims without subject",
			method:  http.MethodPost,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer anonymous"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken("anonymous", jwt.AccessToken).Return(&jwt.Claims{Role: constant.RoleUser}, nil)
			},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name:    "user books",
			method:  http.MethodPost,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer alice"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken("alice", jwt.AccessToken).Return(aliceClaims, nil)
			},
			wantStatus: http.StatusOK,
			wantCaller: "alice",
			wantRole:   constant.RoleUser,
		},
		{
			name:    "user cannot list all bookings",
			method:  http.MethodGet,
			path:    "/v1/bookings",
			headers: map[string]string{constant.RequestHeaderAuthorization: "Bearer alice"},
			setupMock: func() {
				mockJWT.EXPECT().ValidateToken("alice", jwt.AccessToken).Return(aliceClaims, nil)
			},
			wantStatus: http.StatusForbidden,
		},
		{
			name:       "internal caller acts as admin",
			method:     http.MethodGet,
			path:       "/v1/bookings",
			headers:    map[string]string{constant.RequestHeaderAPIKey: apiKey},
			setupMock:  func() {},
			wantStatus: http.StatusOK,
			wantRole:   constant.RoleAdmin,
		},
		{
			name:       "wrong api key",
			method:     http.MethodGet,
			path:       "/v1/bookings",
			headers:    map[string]string{constant.RequestHeaderAPIKey: "guess"},
			setupMock:  func() {},
			wantStatus: http.StatusForbidden,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			req := httptest.NewRequest(tt.method, tt.path, nil)
			for key, value := range tt.headers {
				req.Header.Set(key, value)
			}

			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)

			if tt.wantStatus == http.StatusOK {
				assert.Equal(t, tt.wantCaller, rec.Header().Get("X-Caller"))
				assert.Equal(t, tt.wantRole, rec.Header().Get("X-Role"))
			}
		})
	}
}
