package main

import (
	"os"

	"github.com/rcrowley/go-metrics"
	"github.com/urfave/cli/v2"

	"absenceio/commands"
	"absenceio/log"
	_ "absenceio/output/plugins"
	_ "absenceio/storage/plugins"
)

func main() {
	app := &cli.App{
		Name:    "absence",
		Usage:   "build, send and serve absence.io filter queries",
		Version: "0.1",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Value:   "info",
				Usage:   "debug, info, warn or error",
				EnvVars: []string{"ABSENCE_LOG_LEVEL"},
			},
			&cli.BoolFlag{
				Name:  "metrics",
				Usage: "print metrics to stderr on exit",
			},
		},
		Before: func(c *cli.Context) error {
			log.SetLevel(c.String("log-level"))
			return nil
		},
		After: func(c *cli.Context) error {
			if c.Bool("metrics") {
				metrics.WriteOnce(metrics.DefaultRegistry, os.Stderr)
			}
			return nil
		},
		Commands: []*cli.Command{
			commands.Encode(),
			commands.Query(),
			commands.History(),
			commands.Clear(),
			commands.Serve(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
