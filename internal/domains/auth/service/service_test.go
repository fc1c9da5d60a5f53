package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"cowork/config"
	"cowork/infras/jwt"
	jwtMocks "cowork/infras/jwt/mocks"
	"cowork/infras/otel/mocks"
	auditModel "cowork/internal/domains/audit/model"
	auditMocks "cowork/internal/domains/audit/service/mocks"
	"cowork/internal/domains/auth/model/dto"
	"cowork/internal/domains/auth/service"
	userMocks "cowork/internal/domains/user/mocks"
	userModel "cowork/internal/domains/user/model"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/password"
)

type fixture struct {
	svc   service.Auth
	users *userMocks.MockUser
	audit *auditMocks.MockAudit
	jwt   *jwtMocks.MockJWT
}

func newFixture(ctrl *gomock.Controller) fixture {
	f := fixture{
		users: userMocks.NewMockUser(ctrl),
		audit: auditMocks.NewMockAudit(ctrl),
		jwt:   jwtMocks.NewMockJWT(ctrl),
	}

	f.svc = service.New(f.users, f.audit, &config.Config{}, mocks.NewOtel(), f.jwt)

	return f
}

func activeUser(t *testing.T) userModel.User {
	t.Helper()

	hashed, err := password.Hash("password")
	assert.NoError(t, err)

	return userModel.User{
		ID:       "user-id-123",
		Username: "alice",
		Password: hashed,
		Role:     constant.RoleUser,
		Active:   true,
	}
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	req := dto.RegisterRequest{Username: "alice", Password: "password123"}

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "successful registration",
			setupMock: func() {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, user userModel.User) error {
					assert.Equal(t, "alice", user.Username)
					assert.Equal(t, constant.RoleUser, user.Role)
					assert.NoError(t, password.Verify("password123", user.Password))

					return nil
				})
				f.audit.EXPECT().Record(gomock.Any(), gomock.Any(), auditModel.ActionUserRegistered, "username=alice")
			},
		},
		{
			name: "duplicate username",
			setupMock: func() {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: service.ErrUsernameTaken,
		},
		{
			name: "duplicate caught by unique index",
			setupMock: func() {
				f.users.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				f.users.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
			},
			wantErr: service.ErrUsernameTaken,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.Register(context.Background(), req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.NotEmpty(t, res.ID)
			assert.Equal(t, "alice", res.Username)
		})
	}
}

func TestAuthService_Login(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	user := activeUser(t)

	tokens := &jwt.TokenPair{AccessToken: "access-token", RefreshToken: "refresh-token", TokenType: "Bearer"}

	tests := []struct {
		name      string
		req       dto.LoginRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "successful login",
			req:  dto.LoginRequest{Username: "alice", Password: "password"},
			setupMock: func() {
				f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(user.ID, user.Username, user.Role).Return(tokens, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Contains(t, fields, userModel.FieldLastLogin)

					return nil
				})
				f.audit.EXPECT().Record(gomock.Any(), user.ID, auditModel.ActionUserLogin, gomock.Any())
			},
		},
		{
			name: "last login failure does not block login",
			req:  dto.LoginRequest{Username: "alice", Password: "password"},
			setupMock: func() {
				f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(user.ID, user.Username, user.Role).Return(tokens, nil)
				f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("update error"))
				f.audit.EXPECT().Record(gomock.Any(), user.ID, auditModel.ActionUserLogin, gomock.Any())
			},
		},
		{
			name: "unknown username",
			req:  dto.LoginRequest{Username: "nobody", Password: "password"},
			setupMock: func() {
				f.users.EXPECT().GetByUsername(gomock.Any(), "nobody").Return(userModel.User{}, nil)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			req:  dto.LoginRequest{Username: "alice", Password: "wrongpassword"},
			setupMock: func() {
				f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
			},
			wantErr: service.ErrInvalidCredentials,
		},
		{
			name: "inactive user",
			req:  dto.LoginRequest{Username: "alice", Password: "password"},
			setupMock: func() {
				inactive := user
				inactive.Active = false

				f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(inactive, nil)
			},
			wantErr: service.ErrInactiveUser,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.Login(context.Background(), tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "access-token", res.AccessToken)
			assert.Equal(t, "refresh-token", res.RefreshToken)
		})
	}

	f.users.EXPECT().GetByUsername(gomock.Any(), "alice").Return(user, nil)
	f.jwt.EXPECT().GenerateTokenPair(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, errors.New("signing failed"))

	_, err := f.svc.Login(context.Background(), dto.LoginRequest{Username: "alice", Password: "password"})
	assert.ErrorContains(t, err, "failed to generate tokens")
}

func TestAuthService_RefreshToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	user := activeUser(t)
	user.Role = constant.RoleAdmin

	tests := []struct {
		name      string
		setupMock func()
		wantErr   error
	}{
		{
			name: "issues pair with current role",
			setupMock: func() {
				f.jwt.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(&jwt.Claims{UserID: user.ID, Role: constant.RoleUser}, nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
				f.jwt.EXPECT().GenerateTokenPair(user.ID, user.Username, constant.RoleAdmin).Return(&jwt.TokenPair{AccessToken: "a", RefreshToken: "r"}, nil)
			},
		},
		{
			name: "invalid token",
			setupMock: func() {
				f.jwt.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(nil, jwt.ErrExpiredToken)
			},
			wantErr: service.ErrInvalidRefresh,
		},
		{
			name: "deleted user",
			setupMock: func() {
				f.jwt.EXPECT().ValidateToken("refresh", jwt.RefreshToken).Return(&jwt.Claims{UserID: "gone"}, nil)
				f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(userModel.User{}, nil)
			},
			wantErr: service.ErrInvalidRefresh,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := f.svc.RefreshToken(context.Background(), dto.RefreshTokenRequest{RefreshToken: "refresh"})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, "a", res.AccessToken)
		})
	}
}

func TestAuthService_ChangePassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	f := newFixture(ctrl)
	user := activeUser(t)
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, user.ID)

	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)

	err := f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "nope", NewPassword: "new-password"})
	assert.ErrorIs(t, err, service.ErrWrongPassword)

	f.users.EXPECT().Get(gomock.Any(), gomock.Any()).Return(user, nil)
	f.users.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
		assert.NoError(t, password.Verify("new-password", fields[userModel.FieldPassword].(string)))

		return nil
	})
	f.audit.EXPECT().Record(gomock.Any(), user.ID, auditModel.ActionUserUpdated, gomock.Any())

	err = f.svc.ChangePassword(ctx, dto.ChangePasswordRequest{CurrentPassword: "password", NewPassword: "new-password"})
	assert.NoError(t, err)
}
