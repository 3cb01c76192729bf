// evm executes bytecode and fixture files against the interpreter.
package main

import (
	"fmt"
	"os"

	"github.com/entropyio/evmlite/config"
	"github.com/entropyio/evmlite/logger"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var log = logger.NewLogger("[main]")

var (
	ConfigFileFlag = &cli.StringFlag{
		Name:  "config",
		Usage: "TOML configuration file",
	}
	StrictFlag = &cli.BoolFlag{
		Name:  "strict",
		Usage: "use the strict configuration (read-only static calls, log propagation, non-zero JUMPI)",
	}
	VerbosityFlag = &cli.StringFlag{
		Name:  "verbosity",
		Usage: "log level: CRITICAL, ERROR, WARNING, NOTICE, INFO, DEBUG or 0-5",
		Value: "WARNING",
	}
	JSONFlag = &cli.BoolFlag{
		Name:  "json",
		Usage: "print results as JSON",
	}
)

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "evm"
	app.Usage = "gasless EVM bytecode interpreter"
	app.Flags = []cli.Flag{
		ConfigFileFlag,
		StrictFlag,
		VerbosityFlag,
	}
	app.Commands = []*cli.Command{
		runCommand,
		fixturesCommand,
		disasmCommand,
		dumpConfigCommand,
	}
	app.Before = func(ctx *cli.Context) error {
		usecolor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		return logger.Init(os.Stderr, ctx.String(VerbosityFlag.Name), usecolor)
	}
	return app
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves the interpreter configuration from the global flags.
func loadConfig(ctx *cli.Context) (*config.Config, error) {
	cfg := config.Default
	if ctx.Bool(StrictFlag.Name) {
		cfg = config.Strict
	}
	if file := ctx.String(ConfigFileFlag.Name); file != "" {
		if ctx.Bool(StrictFlag.Name) {
			return nil, errors.Errorf("--%s and --%s are mutually exclusive", StrictFlag.Name, ConfigFileFlag.Name)
		}
		loaded, err := config.Load(file)
		if err != nil {
			return nil, err
		}
		cfg = *loaded
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	if cfg.LogLevel != "" && !ctx.IsSet(VerbosityFlag.Name) {
		if err := logger.SetLevel(cfg.LogLevel, ""); err != nil {
			return nil, err
		}
	}
	log.Debugf("configuration:\n%v", &cfg)
	return &cfg, nil
}
