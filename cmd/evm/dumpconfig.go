package main

import (
	"fmt"
	"os"

	"github.com/entropyio/evmlite/config"
	"github.com/urfave/cli/v2"
)

var dumpConfigCommand = &cli.Command{
	Action:      dumpConfig,
	Name:        "dumpconfig",
	Usage:       "Show configuration values",
	ArgsUsage:   "",
	Description: `The dumpconfig command shows configuration values in TOML, followed by a summary.`,
}

func dumpConfig(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	if err := config.Write(os.Stdout, cfg); err != nil {
		return err
	}
	fmt.Println()
	fmt.Print(cfg.String())
	return nil
}
