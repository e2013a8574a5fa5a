package tools

import (
	"time"

	"github.com/bustrackingsystem05-gif/bustracker/pkg/ctdf"
	"github.com/bustrackingsystem05-gif/bustracker/pkg/eta"
	"github.com/kr/pretty"
	"github.com/urfave/cli/v2"
)

func coordinateFlags(prefix string, required bool) []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:     prefix + "-lat",
			Usage:    "latitude in degrees",
			Required: required,
		},
		&cli.Float64Flag{
			Name:     prefix + "-lon",
			Usage:    "longitude in degrees",
			Required: required,
		},
	}
}

func RegisterCLI() *cli.Command {
	return &cli.Command{
		Name:  "tools",
		Usage: "Offline helpers for checking distances and arrival estimates",
		Subcommands: []*cli.Command{
			{
				Name:  "distance",
				Usage: "print the great-circle distance between two points",
				Flags: append(coordinateFlags("from", true), coordinateFlags("to", true)...),
				Action: func(c *cli.Context) error {
					from := ctdf.Location{Lat: c.Float64("from-lat"), Lon: c.Float64("from-lon")}
					to := ctdf.Location{Lat: c.Float64("to-lat"), Lon: c.Float64("to-lon")}

					distance := from.Distance(to)

					_, err := pretty.Fprintf(c.App.Writer, "%# v\n", struct {
						From       ctdf.Location
						To         ctdf.Location
						DistanceKm float64
					}{from, to, eta.RoundDistance(distance)})
					return err
				},
			},
			{
				Name:  "eta",
				Usage: "print the arrival estimate for a device at a position and speed",
				Flags: append(append(coordinateFlags("from", true), coordinateFlags("to", true)...),
					&cli.Float64Flag{
						Name:  "speed",
						Usage: "current speed in km/h",
					},
					&cli.StringFlag{
						Name:  "device",
						Value: "BUS_101",
						Usage: "device id to label the estimate with",
					},
				),
				Action: func(c *cli.Context) error {
					fix := ctdf.DeviceFix{
						DeviceID: c.String("device"),
						Lat:      c.Float64("from-lat"),
						Lon:      c.Float64("from-lon"),
						Speed:    c.Float64("speed"),
						Updated:  time.Now().UTC(),
					}
					destination := ctdf.Location{Lat: c.Float64("to-lat"), Lon: c.Float64("to-lon")}

					_, err := pretty.Fprintf(c.App.Writer, "%# v\n", eta.ForFix(fix, destination))
					return err
				},
			},
		},
	}
}
