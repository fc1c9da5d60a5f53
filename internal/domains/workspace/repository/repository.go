package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/internal/domains/workspace/model"
	gDto "cowork/shared/dto"
	gRepo "cowork/shared/repository"
)

type Workspace interface {
	Insert(ctx context.Context, model model.Workspace) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Workspace, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Workspace, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Delete(ctx context.Context, filter gDto.FilterGroup) (int64, error)
	Catalog(ctx context.Context) ([]model.Workspace, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Workspace]
}

func New(db *postgres.Connection, otel otel.Otel) Workspace {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Workspace](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// Catalog returns every workspace ordered by name.
func (r *repositoryImpl) Catalog(ctx context.Context) ([]model.Workspace, error) {
	return r.GetAll(ctx, gDto.QueryParams{SortBy: model.FieldName, SortDir: gDto.SortDirAsc}, gDto.FilterGroup{})
}
