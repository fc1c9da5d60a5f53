package dto_test

import (
	"cowork/internal/domains/user/model"
	"cowork/internal/domains/user/model/dto"
	"cowork/shared/constant"
	gModel "cowork/shared/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestUserResponse_FromModel(t *testing.T) {
	created := time.Date(2024, time.June, 1, 8, 0, 0, 0, time.UTC)
	lastLogin := created.Add(time.Hour)

	var res dto.UserResponse
	res.FromModel(model.User{
		ID:        "u1",
		Username:  "alice",
		Password:  "hash",
		Role:      constant.RoleUser,
		Active:    true,
		LastLogin: &lastLogin,
		Metadata:  gModel.NewMetadata("guest", created),
	})

	assert.Equal(t, "u1", res.ID)
	assert.Equal(t, "alice", res.Username)
	assert.True(t, res.Active)
	assert.NotNil(t, res.LastLogin)
	assert.Equal(t, "guest", res.CreatedBy)

	res.FromModel(model.User{ID: "u2"})
	assert.Nil(t, res.LastLogin)
}

func TestUpdateUserRequest_IsEmpty(t *testing.T) {
	inactive := false

	assert.True(t, dto.UpdateUserRequest{}.IsEmpty())
	assert.False(t, dto.UpdateUserRequest{Role: constant.RoleAdmin}.IsEmpty())
	assert.False(t, dto.UpdateUserRequest{Active: &inactive}.IsEmpty())
}

func TestGetUsersResponse_FromModels(t *testing.T) {
	var res dto.GetUsersResponse
	res.FromModels([]model.User{{ID: "a"}, {ID: "b"}}, 12, 10)

	assert.Len(t, res.Users, 2)
	assert.Equal(t, 12, res.TotalData)
	assert.Equal(t, 2, res.TotalPage)
}
