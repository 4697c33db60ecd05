// main.go
package main

import (
	"os"

	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

func main() {
	log.SetFormatter(&log.JSONFormatter{})

	app := &cli.App{
		Name:  "fuko",
		Usage: "Fuko storefront backend",
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "run the HTTP API",
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "apply or roll back the embedded SQL migrations",
				Subcommands: []*cli.Command{
					{
						Name:   "up",
						Usage:  "apply all pending migrations",
						Action: migrateUp,
					},
					{
						Name:  "down",
						Usage: "roll back migrations",
						Flags: []cli.Flag{
							&cli.IntFlag{Name: "steps", Value: 1, Usage: "number of migrations to roll back"},
						},
						Action: migrateDown,
					},
				},
			},
			{
				Name:   "seed",
				Usage:  "insert the launch products that are missing",
				Action: seed,
			},
			{
				Name:  "report",
				Usage: "write the monthly analytics CSV",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "month", Required: true, Usage: `month such as "Jan 2026"`},
					&cli.StringFlag{Name: "city", Usage: "only orders delivered to this city"},
					&cli.StringFlag{Name: "out", Usage: "output file, defaults to the report filename"},
				},
				Action: report,
			},
			{
				Name:      "hash-pin",
				Usage:     "print the bcrypt hash of an admin PIN",
				ArgsUsage: "<pin>",
				Action:    hashPIN,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.WithError(err).Fatal("Command failed")
	}
}
