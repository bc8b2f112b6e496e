package main

import (
	"os"

	"github.com/rs/zerolog/log"

	"github.com/TechXTT/surveydb/internal/logging"
	"github.com/TechXTT/surveydb/pkg/cli"
)

func main() {
	err := cli.NewRootCmd().Execute()
	if err != nil {
		log.Error().Err(err).Msg("surveydb failed")
	}
	logging.Close()
	if err != nil {
		os.Exit(1)
	}
}
