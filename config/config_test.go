package config_test

import (
	"cowork/config"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() config.Config {
	var cfg config.Config
	cfg.JWT.AccessSecret = "access"
	cfg.JWT.RefreshSecret = "refresh"
	cfg.App.Booking.MinLeadSeconds = 60

	return cfg
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(cfg *config.Config)
		wantErr string
	}{
		{
			name:   "valid",
			mutate: func(*config.Config) {},
		},
		{
			name:    "missing secrets",
			mutate:  func(cfg *config.Config) { cfg.JWT.RefreshSecret = "" },
			wantErr: "JWT_ACCESS_SECRET and JWT_REFRESH_SECRET are required",
		},
		{
			name: "shared secret",
			mutate: func(cfg *config.Config) {
				cfg.JWT.RefreshSecret = cfg.JWT.AccessSecret
			},
			wantErr: "different secrets",
		},
		{
			name:    "negative lead time",
			mutate:  func(cfg *config.Config) { cfg.App.Booking.MinLeadSeconds = -1 },
			wantErr: "must not be negative",
		},
		{
			name: "rate limiter without window",
			mutate: func(cfg *config.Config) {
				cfg.App.RateLimiter.Enable = true
				cfg.App.RateLimiter.MaxRequests = 100
			},
			wantErr: "rate limiting",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)

				return
			}

			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
