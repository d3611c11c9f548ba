package main

import "github.com/urfave/cli"

var (
	recipient string
	payload   string
	atSpec    string
	cronSpec  string
	everySpec string
	maxReps   int
	validate  bool

	listRecipient string
	listAll       bool

	cancelID string

	loopMode     bool
	loopInterval int

	serveAddr string

	debugLogs bool
)

var registerFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "recipient, r",
		Usage:       "target agent ID to deliver the prompt to",
		Destination: &recipient,
	},
	cli.StringFlag{
		Name:        "payload, p",
		Usage:       "prompt text to deliver",
		Destination: &payload,
	},
	cli.StringFlag{
		Name:        "at",
		Usage:       "one-time delivery instant (RFC 3339, e.g. 2024-06-01T09:00:00Z)",
		Destination: &atSpec,
	},
	cli.StringFlag{
		Name:        "cron",
		Usage:       "recurring delivery as a 5-field cron expression (e.g. \"0 9 * * *\")",
		Destination: &cronSpec,
	},
	cli.StringFlag{
		Name:        "every",
		Usage:       "recurring delivery interval (e.g. 30s, 5m, 1h)",
		Destination: &everySpec,
	},
	cli.IntFlag{
		Name:        "max-repetitions, n",
		Usage:       "stop after this many successful deliveries (recurring schedules only)",
		Destination: &maxReps,
	},
	cli.BoolFlag{
		Name:        "validate",
		Usage:       "check that the recipient exists before registering",
		Destination: &validate,
	},
}

var listFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "recipient, r",
		Usage:       "only show schedules for this recipient",
		Destination: &listRecipient,
	},
	cli.BoolFlag{
		Name:        "all, a",
		Usage:       "include cancelled and completed schedules",
		Destination: &listAll,
	},
}

var cancelFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "id",
		Usage:       "schedule ID to cancel",
		Destination: &cancelID,
	},
}

var executeFlags = []cli.Flag{
	cli.BoolFlag{
		Name:        "loop",
		Usage:       "keep polling for due schedules until interrupted",
		Destination: &loopMode,
	},
	cli.IntFlag{
		Name:        "interval, i",
		Usage:       "poll interval in seconds for loop mode (overrides PROMPTYOSELF_INTERVAL)",
		Destination: &loopInterval,
	},
}

var serveFlags = []cli.Flag{
	cli.StringFlag{
		Name:        "addr",
		Usage:       "HTTP bind address (overrides PROMPTYOSELF_HTTP_ADDR)",
		Destination: &serveAddr,
	},
}
