package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	zerolog.DurationFieldUnit = time.Second
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.000",
	})

	if err := Execute(); err != nil {
		os.Exit(1)
	}
}
