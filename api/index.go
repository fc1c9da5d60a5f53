package handler

import (
	"cowork/config"
	"cowork/di"
	"cowork/shared/logger"
	"net/http"
	"sync"
)

var (
	server http.Handler
	once   sync.Once
)

// Handler is the serverless entry point. The dependency graph is built once per instance.
func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	once.Do(func() {
		cfg := config.Get()

		logger.InitLogger()

		logger.SetLogLevel(cfg)

		server = di.InitializeService().Handler()
	})

	server.ServeHTTP(w, r)
}
