package shared_test

import (
	"context"
	"cowork/shared"
	cacheMocks "cowork/shared/cache/mocks"
	"cowork/shared/constant"
	"cowork/shared/dto"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestConvertStringToBool(t *testing.T) {
	tests := []struct {
		input    string
		expected *bool
	}{
		{input: "", expected: nil},
		{input: "true", expected: boolPtr(true)},
		{input: "0", expected: boolPtr(false)},
		{input: "F", expected: boolPtr(false)},
		{input: "yes", expected: nil},
	}

	for _, tt := range tests {
		t.Run("input "+tt.input, func(t *testing.T) {
			assert.Equal(t, tt.expected, shared.ConvertStringToBool(tt.input))
		})
	}
}

func TestCalculateTotalPage(t *testing.T) {
	assert.Equal(t, 1, shared.CalculateTotalPage(0, 10))
	assert.Equal(t, 1, shared.CalculateTotalPage(25, 0))
	assert.Equal(t, 3, shared.CalculateTotalPage(25, 10))
	assert.Equal(t, 2, shared.CalculateTotalPage(20, 10))
}

func TestTransformFields(t *testing.T) {
	type updateRequest struct {
		Role   string `db:"role"`
		Active *bool  `db:"active"`
		Note   string
	}

	inactive := false

	result := shared.TransformFields(updateRequest{Role: constant.RoleAdmin, Active: &inactive, Note: "skipped"}, "admin-id")

	assert.Equal(t, constant.RoleAdmin, result["role"])
	assert.Equal(t, &inactive, result["active"])
	assert.NotContains(t, result, "Note")
	assert.Equal(t, "admin-id", result[constant.FieldModifiedBy])

	_, isTime := result[constant.FieldModifiedAt].(time.Time)
	assert.True(t, isTime)

	empty := shared.TransformFields(updateRequest{}, "admin-id")
	assert.Len(t, empty, 2)
}

func TestFilterByID(t *testing.T) {
	result := shared.FilterByID("ws-1", "id", "workspaces")

	assert.Equal(t, dto.FilterGroup{
		Filters: []any{
			dto.Filter{Field: "id", Value: "ws-1", Operator: dto.FilterOperatorEq, Table: "workspaces"},
		},
	}, result)

	where, args := result.GetWhereClause()
	assert.Equal(t, "(workspaces.id = :id)", where)
	assert.Equal(t, map[string]any{"id": "ws-1"}, args)
}

func TestBuildCacheKey(t *testing.T) {
	assert.Equal(t, "booking:get", shared.BuildCacheKey("booking:get"))
	assert.Equal(t, "booking:get:abc", shared.BuildCacheKey("booking:get", "abc"))
}

func TestBuildCacheKeyWithQuery(t *testing.T) {
	params := dto.QueryParams{Page: 2, Limit: 10}
	filter := dto.FilterGroup{
		Operator: dto.FilterGroupOperatorAnd,
		Filters: []any{
			dto.Filter{Field: "user_id", Value: "u1", Operator: dto.FilterOperatorEq},
			dto.Filter{Field: "workspace_id", Value: "w1", Operator: dto.FilterOperatorEq},
		},
	}

	first := shared.BuildCacheKeyWithQuery("booking:gets", params, filter)
	second := shared.BuildCacheKeyWithQuery("booking:gets", params, filter)

	assert.Equal(t, first, second)
	assert.Contains(t, first, "user_id=u1")
	assert.Contains(t, first, "workspace_id=w1")

	other := shared.BuildCacheKeyWithQuery("booking:gets", dto.QueryParams{Page: 3, Limit: 10}, filter)
	assert.NotEqual(t, first, other)
}

func TestInvalidateCaches(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	mockCache.EXPECT().Clear(gomock.Any(), "workspace:gets:*").Return(nil)
	shared.InvalidateCaches(context.Background(), mockCache, "workspace:gets")

	mockCache.EXPECT().Clear(gomock.Any(), "workspace:count:*").Return(errors.New("redis down"))
	shared.InvalidateCaches(context.Background(), mockCache, "workspace:count")
}

func boolPtr(b bool) *bool {
	return &b
}

func TestActorFromContext(t *testing.T) {
	assert.Equal(t, constant.ContextGuest, shared.ActorFromContext(context.Background()))

	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "user-1")
	assert.Equal(t, "user-1", shared.ActorFromContext(ctx))
}

func TestIsAdmin(t *testing.T) {
	assert.False(t, shared.IsAdmin(context.Background()))
	assert.False(t, shared.IsAdmin(context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleUser)))
	assert.True(t, shared.IsAdmin(context.WithValue(context.Background(), constant.ContextKeyUserRole, constant.RoleAdmin)))
}
