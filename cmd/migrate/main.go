package main

import (
	"cowork/config"
	"cowork/helper"
	"cowork/shared/logger"
	"os"
	"strings"

	"github.com/rs/zerolog/log"
)

func main() {
	logger.InitLogger()

	usage := strings.Join(helper.Actions(), "|")

	if len(os.Args) != 2 {
		log.Fatal().Msgf("usage: migrate <%s>", usage)
	}

	cfg := config.Get()
	logger.SetLogLevel(cfg)

	if err := helper.Runner(cfg, os.Args[1]); err != nil {
		log.Fatal().Err(err).Str("expected", usage).Msg("migration failed")
	}
}
