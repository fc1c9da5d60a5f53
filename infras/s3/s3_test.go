package s3_test

import (
	"cowork/config"
	"cowork/infras/otel/mocks"
	"cowork/infras/s3"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKey(t *testing.T) {
	cfg := &config.Config{}
	cfg.External.S3.PublicDomain = "https://cdn.example.com/"
	cfg.External.S3.Region = "us-east-1"

	store := s3.New(cfg, mocks.NewOtel())

	assert.Equal(t, "workspace/abc.png", store.ObjectKey("https://cdn.example.com/workspace/abc.png"))
	assert.Empty(t, store.ObjectKey("https://elsewhere.example.com/workspace/abc.png"))
	assert.Empty(t, store.ObjectKey(""))
}

func TestObjectKey_NoPublicDomain(t *testing.T) {
	store := s3.New(&config.Config{}, mocks.NewOtel())

	assert.Empty(t, store.ObjectKey("/workspace/abc.png"))
}
