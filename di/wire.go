//go:build wireinject
// +build wireinject

package di

import (
	"cowork/config"
	"cowork/infras/jwt"
	"cowork/infras/kafka"
	"cowork/infras/metrics"
	"cowork/infras/otel"
	"cowork/infras/postgres"
	"cowork/infras/redis"
	"cowork/infras/s3"
	"cowork/permissions"
	"cowork/shared/cache"
	"cowork/transport/http"
	"cowork/transport/http/middleware"
	"cowork/transport/http/router"

	auditRepository "cowork/internal/domains/audit/repository"
	auditService "cowork/internal/domains/audit/service"
	authService "cowork/internal/domains/auth/service"
	availabilityService "cowork/internal/domains/availability/service"
	bookingRepository "cowork/internal/domains/booking/repository"
	bookingService "cowork/internal/domains/booking/service"
	userRepository "cowork/internal/domains/user/repository"
	userService "cowork/internal/domains/user/service"
	workspaceRepository "cowork/internal/domains/workspace/repository"
	workspaceService "cowork/internal/domains/workspace/service"

	auditHandler "cowork/internal/handlers/audit"
	authHandler "cowork/internal/handlers/auth"
	bookingHandler "cowork/internal/handlers/booking"
	userHandler "cowork/internal/handlers/user"
	workspaceHandler "cowork/internal/handlers/workspace"

	"github.com/google/wire"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	metrics.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var auditDomain = wire.NewSet(
	auditRepository.New,
	auditService.New,
)

var userDomain = wire.NewSet(
	userRepository.New,
	userService.New,
)

var authDomain = wire.NewSet(
	authService.New,
)

var workspaceDomain = wire.NewSet(
	workspaceRepository.New,
	workspaceService.New,
	availabilityService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var domains = wire.NewSet(
	auditDomain,
	userDomain,
	authDomain,
	workspaceDomain,
	bookingDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	auditHandler.New,
	authHandler.New,
	userHandler.New,
	workspaceHandler.New,
	bookingHandler.New,
	router.New,
)

func InitializeService() *http.HTTP {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		domains,
		routing,
		http.New,
	)

	return &http.HTTP{}
}
