package dto_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"cowork/infras/jwt"
	"cowork/internal/domains/auth/model/dto"
	"cowork/shared/constant"
)

func TestRegisterRequest_ToUserModel(t *testing.T) {
	now := time.Date(2024, time.June, 21, 9, 0, 0, 0, time.UTC)
	req := dto.RegisterRequest{Username: "alice_01", Password: "plain"}

	user := req.ToUserModel(constant.ContextGuest, "hashed", now)

	assert.NotEmpty(t, user.ID)
	assert.Equal(t, "alice_01", user.Username)
	assert.Equal(t, "hashed", user.Password)
	assert.Equal(t, constant.RoleUser, user.Role)
	assert.True(t, user.Active)
	assert.Nil(t, user.LastLogin)
	assert.Equal(t, constant.ContextGuest, user.CreatedBy)
	assert.Equal(t, now, user.ModifiedAt)
}

func TestLoginResponse_FromTokenPair(t *testing.T) {
	tokenPair := &jwt.TokenPair{
		AccessToken:  "test-access-token",
		RefreshToken: "test-refresh-token",
		TokenType:    "Bearer",
		ExpiresIn:    900,
	}

	var response dto.LoginResponse
	response.FromTokenPair(tokenPair)

	assert.Equal(t, tokenPair.AccessToken, response.AccessToken)
	assert.Equal(t, tokenPair.RefreshToken, response.RefreshToken)
	assert.Equal(t, "Bearer", response.TokenType)
	assert.Equal(t, int64(900), response.ExpiresIn)
}
