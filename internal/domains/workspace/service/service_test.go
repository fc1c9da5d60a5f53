package service_test

import (
	"context"
	"errors"
	"mime/multipart"
	"net/textproto"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"cowork/config"
	"cowork/infras/otel/mocks"
	s3Mocks "cowork/infras/s3/mocks"
	auditModel "cowork/internal/domains/audit/model"
	auditMocks "cowork/internal/domains/audit/service/mocks"
	workspaceMocks "cowork/internal/domains/workspace/mocks"
	"cowork/internal/domains/workspace/model"
	"cowork/internal/domains/workspace/model/dto"
	"cowork/internal/domains/workspace/service"
	cacheMocks "cowork/shared/cache/mocks"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
)

type fakeFile struct {
	*strings.Reader
}

func (fakeFile) Close() error { return nil }

func newService(ctrl *gomock.Controller) (service.Workspace, *workspaceMocks.MockWorkspace, *auditMocks.MockAudit, *cacheMocks.MockRedisCache, *s3Mocks.MockS3) {
	mockRepo := workspaceMocks.NewMockWorkspace(ctrl)
	mockAudit := auditMocks.NewMockAudit(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)
	mockS3 := s3Mocks.NewMockS3(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Clear(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()
	mockCache.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(nil).AnyTimes()

	return service.New(mockRepo, mockAudit, cfg, mockCache, mocks.NewOtel(), mockS3), mockRepo, mockAudit, mockCache, mockS3
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func TestWorkspaceService_Create(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockAudit, _, mockS3 := newService(ctrl)

	image := &multipart.FileHeader{
		Filename: "desk.png",
		Header:   textproto.MIMEHeader{constant.RequestHeaderContentType: []string{"image/png"}},
	}

	tests := []struct {
		name      string
		req       dto.CreateWorkspaceRequest
		setupMock func()
		wantErr   error
	}{
		{
			name: "successful creation",
			req:  dto.CreateWorkspaceRequest{Name: "Alpha"},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ws model.Workspace) error {
					assert.Equal(t, "Alpha", ws.Name)
					assert.Equal(t, "admin-id", ws.CreatedBy)
					assert.NotEmpty(t, ws.ID)

					return nil
				})
				mockAudit.EXPECT().Record(gomock.Any(), "admin-id", auditModel.ActionWorkspaceCreated, gomock.Any())
			},
		},
		{
			name: "successful creation with image",
			req:  dto.CreateWorkspaceRequest{Name: "Beta", Image: image, ImageFile: fakeFile{strings.NewReader("png")}},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockS3.EXPECT().Upload(gomock.Any(), model.EntityName, gomock.Any(), "image/png", gomock.Any()).
					Return("https://cdn.example.com/workspace/x.png", nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, ws model.Workspace) error {
					assert.Equal(t, "https://cdn.example.com/workspace/x.png", ws.Image)

					return nil
				})
				mockAudit.EXPECT().Record(gomock.Any(), gomock.Any(), auditModel.ActionWorkspaceCreated, gomock.Any())
			},
		},
		{
			name: "duplicate name",
			req:  dto.CreateWorkspaceRequest{Name: "Alpha"},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(true, nil)
			},
			wantErr: service.ErrDuplicateName,
		},
		{
			name: "concurrent duplicate caught by unique index",
			req:  dto.CreateWorkspaceRequest{Name: "Beta", Image: image, ImageFile: fakeFile{strings.NewReader("png")}},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockS3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("https://cdn.example.com/workspace/y.png", nil)
				mockRepo.EXPECT().Insert(gomock.Any(), gomock.Any()).Return(&pq.Error{Code: constant.PqErrorCodeUniqueViolation})
				mockS3.EXPECT().Delete(gomock.Any(), "https://cdn.example.com/workspace/y.png").Return(nil)
			},
			wantErr: service.ErrDuplicateName,
		},
		{
			name: "upload failure",
			req:  dto.CreateWorkspaceRequest{Name: "Gamma", Image: image, ImageFile: fakeFile{strings.NewReader("png")}},
			setupMock: func() {
				mockRepo.EXPECT().Exist(gomock.Any(), gomock.Any()).Return(false, nil)
				mockS3.EXPECT().Upload(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return("", errors.New("bucket missing"))
			},
			wantErr: errors.New("failed to upload image: bucket missing"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			res, err := svc.Create(adminContext(), tt.req)

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr != nil {
				assert.EqualError(t, err, tt.wantErr.Error())

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.req.Name, res.Name)
		})
	}
}

func TestWorkspaceService_GetAll(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, _ := newService(ctrl)

	params := gDto.QueryParams{Page: 1, Limit: 2}
	models := []model.Workspace{{ID: "w1", Name: "Alpha"}, {ID: "w2", Name: "Beta"}}

	mockCache.EXPECT().Get(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("miss")).Times(2)
	mockRepo.EXPECT().Count(gomock.Any(), gDto.FilterGroup{}).Return(3, nil)
	mockRepo.EXPECT().GetAll(gomock.Any(), params, gDto.FilterGroup{}).Return(models, nil)

	res, err := svc.GetAll(context.Background(), params, gDto.FilterGroup{})

	time.Sleep(10 * time.Millisecond)

	assert.NoError(t, err)
	assert.Equal(t, 3, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
	assert.Equal(t, "Beta", res.Workspaces[1].Name)
}

func TestWorkspaceService_Get(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, _, mockCache, _ := newService(ctrl)

	t.Run("cache hit", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), "workspace:get:w1", gomock.Any()).DoAndReturn(func(_ context.Context, _ string, value any) error {
			value.(*dto.WorkspaceResponse).Name = "Alpha"

			return nil
		})

		res, err := svc.Get(context.Background(), "w1")

		assert.NoError(t, err)
		assert.Equal(t, "Alpha", res.Name)
	})

	t.Run("not found", func(t *testing.T) {
		mockCache.EXPECT().Get(gomock.Any(), "workspace:get:missing", gomock.Any()).Return(errors.New("miss"))
		mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Workspace{}, nil)

		_, err := svc.Get(context.Background(), "missing")

		assert.ErrorIs(t, err, service.ErrWorkspaceNotFound)
	})
}

func TestWorkspaceService_Delete(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	svc, mockRepo, mockAudit, _, mockS3 := newService(ctrl)

	tests := []struct {
		name      string
		call      func() error
		setupMock func()
		wantErr   error
	}{
		{
			name: "delete by id removes image and audits",
			call: func() error { return svc.Delete(adminContext(), "w1") },
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Workspace{ID: "w1", Name: "Alpha", Image: "https://cdn.example.com/workspace/a.png"}, nil)
				mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				mockS3.EXPECT().Delete(gomock.Any(), "https://cdn.example.com/workspace/a.png").Return(nil)
				mockAudit.EXPECT().Record(gomock.Any(), "admin-id", auditModel.ActionWorkspaceDeleted, gomock.Any())
			},
		},
		{
			name: "delete by name",
			call: func() error { return svc.DeleteByName(adminContext(), "Beta") },
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Workspace{ID: "w2", Name: "Beta"}, nil)
				mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(1), nil)
				mockAudit.EXPECT().Record(gomock.Any(), gomock.Any(), auditModel.ActionWorkspaceDeleted, gomock.Any())
			},
		},
		{
			name: "unknown name",
			call: func() error { return svc.DeleteByName(adminContext(), "Nope") },
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Workspace{}, nil)
			},
			wantErr: service.ErrWorkspaceNotFound,
		},
		{
			name: "removed concurrently",
			call: func() error { return svc.Delete(adminContext(), "w3") },
			setupMock: func() {
				mockRepo.EXPECT().Get(gomock.Any(), gomock.Any()).Return(model.Workspace{ID: "w3"}, nil)
				mockRepo.EXPECT().Delete(gomock.Any(), gomock.Any()).Return(int64(0), nil)
			},
			wantErr: service.ErrWorkspaceNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.setupMock()

			err := tt.call()

			time.Sleep(10 * time.Millisecond)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)

				return
			}

			assert.NoError(t, err)
		})
	}
}
