package main

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/urfave/cli"
)

func main() {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	app := cli.NewApp()
	app.Name = "promptyoself"
	app.Usage = "schedule and deliver prompts to Letta agents"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:        "debug",
			Usage:       "enable debug logging on stderr",
			EnvVar:      "PROMPTYOSELF_DEBUG",
			Destination: &debugLogs,
		},
	}
	app.Before = func(ctx *cli.Context) error {
		if debugLogs {
			zerolog.SetGlobalLevel(zerolog.DebugLevel)
		}
		return nil
	}
	app.Commands = []cli.Command{
		{
			Name:   "register",
			Usage:  "register a new scheduled prompt",
			Flags:  registerFlags,
			Action: register,
		},
		{
			Name:   "list",
			Usage:  "list scheduled prompts",
			Flags:  listFlags,
			Action: list,
		},
		{
			Name:   "cancel",
			Usage:  "cancel a scheduled prompt",
			Flags:  cancelFlags,
			Action: cancel,
		},
		{
			Name:   "execute",
			Usage:  "deliver due prompts, once or in a polling loop",
			Flags:  executeFlags,
			Action: execute,
		},
		{
			Name:   "agents",
			Usage:  "list agents available on the Letta server",
			Action: agents,
		},
		{
			Name:   "test",
			Usage:  "check connectivity to the Letta server",
			Action: testConnection,
		},
		{
			Name:   "serve",
			Usage:  "run the poll loop with an HTTP API",
			Flags:  serveFlags,
			Action: serve,
		},
	}

	if err := app.Run(os.Args); err != nil {
		os.Exit(1)
	}
}
