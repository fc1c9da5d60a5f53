package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"cowork/config"
	"cowork/infras/otel"
	"cowork/infras/s3"
	auditModel "cowork/internal/domains/audit/model"
	auditService "cowork/internal/domains/audit/service"
	"cowork/internal/domains/workspace/model"
	"cowork/internal/domains/workspace/model/dto"
	"cowork/internal/domains/workspace/repository"
	"cowork/shared"
	"cowork/shared/cache"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/failure"
	gRepo "cowork/shared/repository"
	"cowork/shared/timezone"
	"fmt"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrWorkspaceNotFound = failure.NotFound("workspace not found")
	ErrDuplicateName     = failure.Conflict("workspace name already exists")
)

type Workspace interface {
	Create(ctx context.Context, req dto.CreateWorkspaceRequest) (dto.WorkspaceResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetWorkspacesResponse, error)
	Get(ctx context.Context, id string) (dto.WorkspaceResponse, error)
	Delete(ctx context.Context, id string) error
	DeleteByName(ctx context.Context, name string) error
}

type serviceImpl struct {
	repo  repository.Workspace
	audit auditService.Audit
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
	s3    s3.S3
}

func New(repo repository.Workspace, audit auditService.Audit, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, s3 s3.S3) Workspace {
	return &serviceImpl{
		repo:  repo,
		audit: audit,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
		s3:    s3,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateWorkspaceRequest) (res dto.WorkspaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workspace.Create")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	actor := shared.ActorFromContext(ctx)

	exist, err := s.repo.Exist(ctx, shared.FilterByField(model.FieldName, req.Name, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check workspace name")

		return res, fmt.Errorf("failed to check workspace name: %w", err)
	}

	if exist {
		return res, ErrDuplicateName
	}

	imageURL, err := s.uploadImage(ctx, req)
	if err != nil {
		return res, err
	}

	workspace := req.ToModel(actor, imageURL, timezone.Now())

	if err = s.repo.Insert(ctx, workspace); err != nil {
		s.removeImage(ctx, imageURL)

		if gRepo.IsPqError(err, constant.PqErrorCodeUniqueViolation) {
			return res, ErrDuplicateName
		}

		log.Error().Err(err).Msg("failed to insert workspace")

		return res, fmt.Errorf("failed to insert workspace: %w", err)
	}

	s.audit.Record(ctx, actor, auditModel.ActionWorkspaceCreated, fmt.Sprintf("workspace=%s name=%s", workspace.ID, workspace.Name))

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, constant.CacheKeyWorkspaces)
		shared.InvalidateCaches(c, s.cache, constant.CacheKeyWorkspaceCount)
	}()

	res.FromModel(workspace)

	return res, nil
}

func (s *serviceImpl) uploadImage(ctx context.Context, req dto.CreateWorkspaceRequest) (string, error) {
	if req.Image == nil || req.ImageFile == nil {
		return constant.Empty, nil
	}

	filename := uuid.NewString() + filepath.Ext(req.Image.Filename)
	contentType := req.Image.Header.Get(constant.RequestHeaderContentType)

	url, err := s.s3.Upload(ctx, model.EntityName, filename, contentType, req.ImageFile)
	if err != nil {
		log.Error().Err(err).Msg("failed to upload workspace image")

		return constant.Empty, fmt.Errorf("failed to upload image: %w", err)
	}

	return url, nil
}

func (s *serviceImpl) removeImage(ctx context.Context, url string) {
	if url == constant.Empty {
		return
	}

	if err := s.s3.Delete(context.WithoutCancel(ctx), url); err != nil {
		log.Warn().Err(err).Str("url", url).Msg("failed to remove workspace image")
	}
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetWorkspacesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workspace.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyWorkspaces, params, filter)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for workspaces")

		return res, nil
	}

	total, err := s.count(ctx, params, filter)
	if err != nil {
		return res, err
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get workspaces")

		return res, fmt.Errorf("failed to get workspaces: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	cached := res

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, cached, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save workspaces to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) count(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (total int, err error) {
	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyWorkspaceCount, gDto.QueryParams{}, filter)

	if err = s.cache.Get(ctx, cacheKey, &total); err == nil {
		return total, nil
	}

	total, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Int("page", params.Page).Msg("failed to count workspaces")

		return 0, fmt.Errorf("failed to count workspaces: %w", err)
	}

	cached := total

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, cached, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save workspace count to cache")
		}
	}()

	return total, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.WorkspaceResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workspace.Get")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	cacheKey := shared.BuildCacheKey(constant.CacheKeyWorkspace, id)

	if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	workspace, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get workspace")

		return res, fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace.ID == constant.Empty {
		return res, ErrWorkspaceNotFound
	}

	res.FromModel(workspace)

	cached := res

	go func() {
		if err := s.cache.Save(context.WithoutCancel(ctx), cacheKey, cached, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save workspace to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workspace.Delete")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
}

func (s *serviceImpl) DeleteByName(ctx context.Context, name string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".workspace.DeleteByName")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	return s.delete(ctx, shared.FilterByField(model.FieldName, name, model.TableName))
}

// delete removes the workspace and, through the foreign key, its bookings.
func (s *serviceImpl) delete(ctx context.Context, filter gDto.FilterGroup) error {
	workspace, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get workspace")

		return fmt.Errorf("failed to get workspace: %w", err)
	}

	if workspace.ID == constant.Empty {
		return ErrWorkspaceNotFound
	}

	affected, err := s.repo.Delete(ctx, shared.FilterByID(workspace.ID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", workspace.ID).Msg("failed to delete workspace")

		return fmt.Errorf("failed to delete workspace: %w", err)
	}

	if affected == 0 {
		return ErrWorkspaceNotFound
	}

	s.removeImage(ctx, workspace.Image)
	s.audit.Record(ctx, shared.ActorFromContext(ctx), auditModel.ActionWorkspaceDeleted, fmt.Sprintf("workspace=%s name=%s", workspace.ID, workspace.Name))

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Delete(c, shared.BuildCacheKey(constant.CacheKeyWorkspace, workspace.ID)); err != nil {
			log.Error().Err(err).Msg("failed to delete workspace from cache")
		}

		for _, prefix := range []string{
			constant.CacheKeyWorkspaces,
			constant.CacheKeyWorkspaceCount,
			constant.CacheKeyBooking,
			constant.CacheKeyBookings,
			constant.CacheKeyBookingCount,
		} {
			shared.InvalidateCaches(c, s.cache, prefix)
		}
	}()

	return nil
}
