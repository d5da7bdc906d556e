package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/urfave/cli"
)

const DESCRIPTION = `
crane-demo plays the crane overlay animation in the terminal. The hook
travels from slot to slot, settles, and drops on every schedule offset,
then the cycle completes and, when looping, starts over.
`

const SchemaDescription = `The schema command prints the JSON schema of the
file accepted by --config.

Example:
        crane-demo schema > crane.schema.json

`

var runFlags = []cli.Flag{
	cli.StringFlag{
		Name:  "config, c",
		Usage: "read settings from a JSON file, flags override it",
	},
	cli.StringFlag{
		Name:  "schedule, s",
		Usage: "comma separated drop offsets in seconds",
		Value: "1.8,3.8,5.8,7.8",
	},
	cli.Float64Flag{
		Name:  "start-delay",
		Usage: "seconds before the schedule is armed",
		Value: defaultStartDelaySeconds,
	},
	cli.Float64Flag{
		Name:  "settle",
		Usage: "seconds between a slot becoming active and its drop",
		Value: defaultSettleSeconds,
	},
	cli.Float64Flag{
		Name:  "padding",
		Usage: "seconds after the last offset until the cycle completes",
		Value: defaultPaddingSeconds,
	},
	cli.BoolTFlag{
		Name:  "loop",
		Usage: "start a new cycle when one completes (--loop=false plays once)",
	},
	cli.IntFlag{
		Name:  "cycles, n",
		Usage: "exit after this many completed cycles, 0 runs until interrupted",
	},
	cli.BoolFlag{
		Name:  "headless",
		Usage: "print the event stream instead of drawing the overlay",
	},
}

func Execute(args []string) error {
	app := cli.App{
		Name:        "crane-demo",
		HelpName:    "crane-demo",
		Usage:       "Plays the crane drop overlay.",
		UsageText:   "crane-demo [flags] | crane-demo schema",
		Description: DESCRIPTION,
		Commands: []cli.Command{
			{
				Name:        "schema",
				Usage:       "prints the JSON schema of the config file",
				Description: SchemaDescription,
				Action:      printSchema,
			},
		},
		Action:      run,
		Flags:       runFlags,
		HideVersion: true,
	}
	return app.Run(args)
}

func run(ctx *cli.Context) error {
	config, err := resolveConfig(ctx)
	if err != nil {
		return cli.NewExitError(err.Error(), 1)
	}

	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if ctx.Bool("headless") {
		return runHeadless(runCtx, config, os.Stdout)
	}
	return runTUI(runCtx, config)
}

func printSchema(ctx *cli.Context) error {
	schema, err := configSchema()
	if err != nil {
		return err
	}
	_, err = ctx.App.Writer.Write(append(schema, '\n'))
	return err
}
