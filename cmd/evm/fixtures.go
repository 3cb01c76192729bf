package main

import (
	"fmt"

	"github.com/entropyio/evmlite/fixture"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var FilterFlag = &cli.StringFlag{
	Name:  "run",
	Usage: "only run vectors whose name contains this string",
}

var fixturesCommand = &cli.Command{
	Action:    fixturesCmd,
	Name:      "fixtures",
	Usage:     "run JSON test vectors",
	ArgsUsage: "<file> [<file>...]",
	Flags: []cli.Flag{
		FilterFlag,
	},
}

func fixturesCmd(ctx *cli.Context) error {
	if !ctx.Args().Present() {
		return errors.New("no fixture file given")
	}
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	var failed int
	for _, file := range ctx.Args().Slice() {
		vectors, err := fixture.Load(file)
		if err != nil {
			return err
		}
		report := fixture.RunAll(vectors, cfg, ctx.String(FilterFlag.Name))
		for _, f := range report.Failures {
			fmt.Printf("FAIL %v\n", f.Err)
		}
		fmt.Printf("%s: %d/%d passed\n", file, report.Passed(), report.Total)
		failed += len(report.Failures)
	}
	if failed > 0 {
		return errors.Errorf("%d vectors failed", failed)
	}
	return nil
}
