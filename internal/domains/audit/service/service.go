package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"cowork/config"
	"cowork/infras/kafka"
	"cowork/infras/otel"
	"cowork/internal/domains/audit/model"
	"cowork/internal/domains/audit/model/dto"
	"cowork/internal/domains/audit/repository"
	"cowork/shared/constant"
	gDto "cowork/shared/dto"
	"cowork/shared/timezone"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Audit keeps a trail of security and booking relevant actions. Recording is
// best effort and never fails the caller.
type Audit interface {
	Record(ctx context.Context, actor, action, detail string)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetAuditsResponse, error)
}

type serviceImpl struct {
	repo      repository.Audit
	publisher kafka.Publisher
	cfg       *config.Config
	otel      otel.Otel
}

func New(repo repository.Audit, publisher kafka.Publisher, cfg *config.Config, otel otel.Otel) Audit {
	return &serviceImpl{
		repo:      repo,
		publisher: publisher,
		cfg:       cfg,
		otel:      otel,
	}
}

func (s *serviceImpl) Record(ctx context.Context, actor, action, detail string) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.Record")
	defer scope.End()

	entry := model.Audit{
		ID:        uuid.NewString(),
		Actor:     actor,
		Action:    action,
		Detail:    detail,
		CreatedAt: timezone.Now(),
	}

	ctx = context.WithoutCancel(ctx)

	if err := s.repo.Insert(ctx, entry); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("action", action).Str("actor", actor).Msg("failed to persist audit record")
	}

	topic := s.cfg.Kafka.AuditTopic
	if topic == constant.Empty {
		return
	}

	go func() {
		if err := s.publisher.Publish(context.WithoutCancel(ctx), topic, kafka.Message{Key: entry.Actor, Value: entry}); err != nil {
			log.Error().Err(err).Str("action", action).Msg("failed to publish audit record")
		}
	}()
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetAuditsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".audit.GetAll")
	defer scope.End()
	defer func() { scope.TraceIfError(err) }()

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count audit records")

		return res, fmt.Errorf("failed to count audit records: %w", err)
	}

	if params.SortBy == constant.Empty {
		params.SortBy = model.FieldCreatedAt
		params.SortDir = gDto.SortDirDesc
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get audit records")

		return res, fmt.Errorf("failed to get audit records: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	return res, nil
}
