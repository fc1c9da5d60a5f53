package repository_test

import (
	"cowork/shared/constant"
	"cowork/shared/repository"
	"errors"
	"fmt"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
)

func TestIsPqError(t *testing.T) {
	exclusion := fmt.Errorf("insert: %w", &pq.Error{Code: "23P01"})

	assert.True(t, repository.IsPqError(exclusion, constant.PqErrorCodeExclusionViolation))
	assert.False(t, repository.IsPqError(exclusion, constant.PqErrorCodeUniqueViolation))
	assert.True(t, repository.IsPqError(&pq.Error{Code: "23505"}, constant.PqErrorCodeUniqueViolation))
	assert.False(t, repository.IsPqError(errors.New("connection refused"), constant.PqErrorCodeUniqueViolation))
	assert.False(t, repository.IsPqError(nil, constant.PqErrorCodeUniqueViolation))
}
