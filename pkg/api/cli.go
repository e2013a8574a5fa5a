package api

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/config"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/locationfeed"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/redis_client"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/registry"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli/v2"
)

const shutdownTimeout = 10 * time.Second

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "web-api",
		Usage: "Provides the location and ETA web API",
		Subcommands: []*cli.Command{
			{
				Name:  "run",
				Usage: "run web api server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "listen",
						Usage: "listen target for the web server",
					},
					&cli.StringFlag{
						Name:    "config",
						Usage:   "path to a YAML config file",
						EnvVars: []string{"BUSTRACKER_CONFIG"},
					},
				},
				Action: func(c *cli.Context) error {
					appConfig, err := config.Load(c.String("config"))
					if err != nil {
						return err
					}

					if c.IsSet("listen") {
						appConfig.Listen = c.String("listen")
					}

					if err := appConfig.Validate(); err != nil {
						return fmt.Errorf("invalid configuration: %w", err)
					}

					return SetupServer(c.Context, appConfig)
				},
			},
		},
	}
}

// SetupServer runs the web API until SIGINT or SIGTERM is received
func SetupServer(ctx context.Context, appConfig config.Config) error {
	var publisher locationfeed.Publisher = locationfeed.Discard{}

	if appConfig.Feed.Enabled {
		connection, err := redis_client.Connect(ctx, appConfig.Feed.Redis)
		if err != nil {
			return err
		}
		defer connection.Close()

		queuePublisher, err := locationfeed.NewQueuePublisher(connection.QueueConnection, appConfig.Feed.Queue)
		if err != nil {
			return err
		}
		publisher = queuePublisher

		changeDetection := appConfig.Feed.ChangeDetection
		if changeDetection.Enabled {
			publisher = locationfeed.NewChangeFilter(queuePublisher, locationfeed.ChangeDetectionConfig{
				MinLocationChangeMeters: changeDetection.MinLocationChangeMeters,
				MinSpeedChangeKmh:       changeDetection.MinSpeedChangeKmh,
				MaxTimeBetweenPublishes: changeDetection.MaxTimeBetweenPublishes,
			})
		}

		log.Info().Str("queue", appConfig.Feed.Queue).Bool("change_detection", changeDetection.Enabled).Msg("Publishing locations to feed")
	}

	webApp := NewApp(Options{
		Listen:    appConfig.Listen,
		Registry:  registry.New(),
		Publisher: publisher,
		StartTime: time.Now(),
	})

	listenErr := make(chan error, 1)
	go func() {
		listenErr <- webApp.Listen(appConfig.Listen)
	}()

	log.Info().Str("listen", appConfig.Listen).Msg("Smart bus tracking API started")

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(signals)

	select {
	case err := <-listenErr:
		return err
	case <-signals:
		log.Info().Msg("Shutting down web api")
	}

	go func() {
		<-signals // hard exit on second signal (in case shutdown gets stuck)
		os.Exit(1)
	}()

	return webApp.ShutdownWithTimeout(shutdownTimeout)
}
