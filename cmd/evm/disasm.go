package main

import (
	"fmt"

	"github.com/entropyio/evmlite/evm"
	"github.com/urfave/cli/v2"
)

var disasmCommand = &cli.Command{
	Action:    disasmCmd,
	Name:      "disasm",
	Usage:     "disassembles evm binary",
	ArgsUsage: "<code>",
	Flags: []cli.Flag{
		CodeFlag,
		CodeFileFlag,
	},
}

func disasmCmd(ctx *cli.Context) error {
	code, err := readCode(ctx)
	if err != nil {
		return err
	}
	fmt.Print(evm.DisassembleString(code))
	return nil
}
