package middleware

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCurrentWindow(t *testing.T) {
	base := time.Unix(1_800_000_000, 0)

	window, left := currentWindow(base, 60)
	next, nextLeft := currentWindow(base.Add(time.Duration(left)*time.Second), 60)

	assert.Equal(t, window+1, next)
	assert.Equal(t, 60, nextLeft)
	assert.LessOrEqual(t, left, 60)
}
