package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"

	"github.com/btcsuite/btclog/v2"
	"github.com/lightninglabs/anchorreserve"
	"github.com/lightninglabs/anchorreserve/build"
	"github.com/urfave/cli"
)

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "[anchorcli] %v\n", err)
	os.Exit(1)
}

func printJSON(resp interface{}) {
	b, err := json.Marshal(resp)
	if err != nil {
		fatal(err)
	}

	var out bytes.Buffer
	_ = json.Indent(&out, b, "", "    ")
	_, _ = out.WriteString("\n")
	_, _ = out.WriteTo(os.Stdout)
}

// setUpLogging routes all subsystem loggers to stderr, keeping stdout
// reserved for command output.
func setUpLogging(debugLevel string) error {
	logManager := build.NewSubLoggerManager(
		func(subsystem string) btclog.Logger {
			handler := btclog.NewDefaultHandler(os.Stderr)
			return btclog.NewSLogger(handler).WithPrefix(subsystem)
		},
	)

	anchorreserve.UseLogger(
		logManager.GenSubLogger(anchorreserve.Subsystem),
	)

	return build.ParseAndSetDebugLevels(debugLevel, logManager)
}

// checkNotBothSet accepts two flag names, a and b, and checks that only flag
// a or flag b can be set, but not both. It returns the name of the flag or an
// error.
func checkNotBothSet(ctx *cli.Context, a, b string) (string, error) {
	if ctx.IsSet(a) && ctx.IsSet(b) {
		return "", fmt.Errorf(
			"either %s or %s should be set, but not both", a, b,
		)
	}

	if ctx.IsSet(a) {
		return a, nil
	}

	return b, nil
}

func main() {
	app := cli.NewApp()
	app.Name = "anchorcli"
	app.Version = build.Version() + " commit=" + build.Commit
	app.Usage = "anchor channel reserve calculations for Lightning nodes"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "debuglevel",
			Value: "info",
			Usage: "Logging level for all subsystems {trace, " +
				"debug, info, warn, error, critical}",
		},
	}
	app.Before = func(ctx *cli.Context) error {
		return setUpLogging(ctx.GlobalString("debuglevel"))
	}
	app.Commands = []cli.Command{
		requiredReserveCommand,
		supportableChannelsCommand,
		signMessageCommand,
		verifyMessageCommand,
	}

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}
