package main

import (
	"os"
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/api"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/tools"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/util"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

func main() {
	env := util.GetEnvironmentVariables()

	if env["BUSTRACKER_LOG_FORMAT"] != "JSON" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}

	if util.IsTruthy(env["BUSTRACKER_DEBUG"]) {
		log.Logger = log.Logger.Level(zerolog.DebugLevel)
	} else {
		log.Logger = log.Logger.Level(zerolog.InfoLevel)
	}

	app := &cli.App{
		Name:        "bustracker",
		Description: "Tracks the last known position of every bus and estimates arrival times",

		Commands: []*cli.Command{
			api.RegisterCLI(),
			tools.RegisterCLI(),
		},
	}

	err := app.Run(os.Args)
	if err != nil {
		log.Fatal().Err(err).Send()
	}
}
