package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"cowork/config"
	"cowork/infras/otel/mocks"
	auditModel "cowork/internal/domains/audit/model"
	auditMocks "cowork/internal/domains/audit/service/mocks"
	userMocks "cowork/internal/domains/user/mocks"
	"cowork/internal/domains/user/model"
	"cowork/internal/domains/user/model/dto"
	"cowork/internal/domains/user/service"
	cacheMocks "cowork/shared/cache/mocks"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
)

func newService(ctrl *gomock.Controller) (service.User, *userMocks.MockUser, *auditMocks.MockAudit, *cacheMocks.MockRedisCache) {
	mockRepo := userMocks.NewMockUser(ctrl)
	mockAudit := auditMocks.NewMockAudit(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 60

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, mockAudit, cfg, mockCache, mocks.NewOtel()), mockRepo, mockAudit, mockCache
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func TestUserService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache := newService(ctrl)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		want      string
		wantErr   error
	}{
		{
			name: "cache hit",
			id:   "u1",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), "user:get:u1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
					value.(*dto.UserResponse).Username = "cached"

					return nil
				})
			},
			want: "cached",
		},
		{
			name: "found in store",
			id:   "u2",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "u2", Username: "bob", Role: constant.RoleUser}, nil)
			},
			want: "bob",
		},
		{
			name: "not found",
			id:   "u3",
			setupMock: func() {
				mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{}, nil)
			},
			wantErr: service.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Get(context.Background(), tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.want, res.Username)
		})
	}

	time.Sleep(10 * time.Millisecond)
}

func TestUserService_Me(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache := newService(ctrl)

	_, err := svc.Me(context.Background())
	assert.Error(t, err)

	mockCache.EXPECT().Get(gomock.Any(), "user:get:admin-id", gomock.Any()).Return(errors.New("miss"))
	mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.User{ID: "admin-id", Username: "admin", Role: constant.RoleAdmin}, nil)

	res, err := svc.Me(adminContext())
	assert.NoError(t, err)
	assert.Equal(t, constant.RoleAdmin, res.Role)

	time.Sleep(10 * time.Millisecond)
}

func TestUserService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache := newService(ctrl)

	params := gDto.QueryParams{Page: 1, Limit: 10}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(11, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), params, gomock.Any()).Return([]model.User{{ID: "a"}, {ID: "b"}}, nil)

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	assert.NoError(t, err)
	assert.Equal(t, 2, res.TotalPage)
	assert.Len(t, res.Users, 2)

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss"))
	mockRepo.EXPECT().Count(gomock.Any(), gomock.Any()).Return(0, errors.New("connection refused"))

	_, err = svc.GetAll(context.Background(), params, gDto.FilterGroup{})
	assert.ErrorContains(t, err, "failed to count users")

	time.Sleep(10 * time.Millisecond)
}

func TestUserService_Update(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockAudit, _ := newService(ctrl)

	inactive := false

	tests := []struct {
		name      string
		id        string
		req       dto.UpdateUserRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "promote to admin",
			id:   "u1",
			req:  dto.UpdateUserRequest{Role: constant.RoleAdmin},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, constant.RoleAdmin, fields[model.FieldRole])
					assert.Equal(t, "admin-id", fields[constant.FieldModifiedBy])
					assert.NotContains(t, fields, model.FieldActive)

					return nil
				})
				mockAudit.EXPECT().Record(gomock.Any(), "admin-id", auditModel.ActionUserUpdated, gomock.Any())
			},
		},
		{
			name: "deactivate",
			id:   "u1",
			req:  dto.UpdateUserRequest{Active: &inactive},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
				mockRepo.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, fields map[string]any, _ gDto.FilterGroup) error {
					assert.Equal(t, &inactive, fields[model.FieldActive])

					return nil
				})
				mockAudit.EXPECT().Record(gomock.Any(), gomock.Any(), auditModel.ActionUserUpdated, gomock.Any())
			},
		},
		{
			name:      "empty update",
			id:        "u1",
			req:       dto.UpdateUserRequest{},
			setupMock: func() {},
			wantErr:   service.ErrEmptyUpdate,
		},
		{
			name:      "own account",
			id:        "admin-id",
			req:       dto.UpdateUserRequest{Role: constant.RoleUser},
			setupMock: func() {},
			wantErr:   service.ErrSelfDemotion,
		},
		{
			name: "unknown user",
			id:   "missing",
			req:  dto.UpdateUserRequest{Role: constant.RoleUser},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
			},
			wantErr: service.ErrUserNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Update(adminContext(), tt.id, tt.req)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	time.Sleep(10 * time.Millisecond)
}

func TestUserService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockAudit, _ := newService(ctrl)

	tests := []struct {
		name      string
		id        string
		setupMock func()
		wantErr   error
	}{
		{
			name: "deleted",
			id:   "u1",
			setupMock: func() {
				mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				mockAudit.EXPECT().Record(gomock.Any(), "admin-id", auditModel.ActionUserDeleted, "user=u1")
			},
		},
		{
			name: "not found",
			id:   "u2",
			setupMock: func() {
				mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantErr: service.ErrUserNotFound,
		},
		{
			name:      "own account",
			id:        "admin-id",
			setupMock: func() {},
			wantErr:   service.ErrSelfDeletion,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := svc.Delete(adminContext(), tt.id)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				assert.NoError(t, err)
			}
		})
	}

	time.Sleep(10 * time.Millisecond)
}
