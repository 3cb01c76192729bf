package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/evm"
	"github.com/entropyio/evmlite/fixture"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/urfave/cli/v2"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

var (
	CodeFlag = &cli.StringFlag{
		Name:  "code",
		Usage: "bytecode as hex",
	}
	CodeFileFlag = &cli.StringFlag{
		Name:  "codefile",
		Usage: "file containing hex bytecode",
	}
	InputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "call data as hex",
	}
	ToFlag = &cli.StringFlag{
		Name:  "to",
		Usage: "executing address",
	}
	FromFlag = &cli.StringFlag{
		Name:  "from",
		Usage: "caller address",
	}
	OriginFlag = &cli.StringFlag{
		Name:  "origin",
		Usage: "transaction origin",
	}
	ValueFlag = &cli.StringFlag{
		Name:  "value",
		Usage: "call value (decimal or 0x hex)",
	}
	NonceFlag = &cli.StringFlag{
		Name:  "nonce",
		Usage: "base nonce for CREATE",
	}
	PrestateFlag = &cli.StringFlag{
		Name:  "prestate",
		Usage: "JSON file mapping addresses to {balance, code: {bin}}",
	}
	DumpFlag = &cli.BoolFlag{
		Name:  "dump",
		Usage: "print the post state after a successful run",
	}

	CoinbaseFlag = &cli.StringFlag{
		Name:  "coinbase",
		Usage: "block coinbase address",
	}
	TimestampFlag = &cli.StringFlag{
		Name:  "timestamp",
		Usage: "block timestamp",
	}
	NumberFlag = &cli.StringFlag{
		Name:  "number",
		Usage: "block number",
	}
	DifficultyFlag = &cli.StringFlag{
		Name:  "difficulty",
		Usage: "block difficulty (PREVRANDAO)",
	}
	GasLimitFlag = &cli.StringFlag{
		Name:  "gaslimit",
		Usage: "block gas limit",
	}
	BaseFeeFlag = &cli.StringFlag{
		Name:  "basefee",
		Usage: "block base fee",
	}
	ChainIDFlag = &cli.StringFlag{
		Name:  "chainid",
		Usage: "chain id",
	}
)

var runCommand = &cli.Command{
	Action:      runCmd,
	Name:        "run",
	Usage:       "run arbitrary evm binary",
	ArgsUsage:   "<code>",
	Description: `The run command runs arbitrary EVM code.`,
	Flags: []cli.Flag{
		CodeFlag,
		CodeFileFlag,
		InputFlag,
		ToFlag,
		FromFlag,
		OriginFlag,
		ValueFlag,
		NonceFlag,
		PrestateFlag,
		DumpFlag,
		JSONFlag,
		CoinbaseFlag,
		TimestampFlag,
		NumberFlag,
		DifficultyFlag,
		GasLimitFlag,
		BaseFeeFlag,
		ChainIDFlag,
	},
}

// readCode takes the code from --code, --codefile ("-" for stdin) or the
// first argument.
func readCode(ctx *cli.Context) ([]byte, error) {
	var hexcode string
	switch {
	case ctx.String(CodeFlag.Name) != "":
		hexcode = ctx.String(CodeFlag.Name)
	case ctx.String(CodeFileFlag.Name) != "":
		var (
			raw []byte
			err error
		)
		if name := ctx.String(CodeFileFlag.Name); name == "-" {
			raw, err = io.ReadAll(os.Stdin)
		} else {
			raw, err = os.ReadFile(name)
		}
		if err != nil {
			return nil, errors.Wrap(err, "read code")
		}
		hexcode = string(raw)
	case ctx.Args().Present():
		hexcode = ctx.Args().First()
	default:
		return nil, errors.New("no code given: use --code, --codefile or an argument")
	}
	code, err := common.DecodeHex(strings.TrimSpace(hexcode))
	if err != nil {
		return nil, errors.Wrap(err, "decode code")
	}
	return code, nil
}

func loadPrestate(file string) (map[string]fixture.Account, error) {
	if file == "" {
		return nil, nil
	}
	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, errors.Wrap(err, "read prestate")
	}
	var accounts map[string]fixture.Account
	if err := json.Unmarshal(raw, &accounts); err != nil {
		return nil, errors.Wrap(err, "decode prestate")
	}
	return accounts, nil
}

func runCmd(ctx *cli.Context) error {
	cfg, err := loadConfig(ctx)
	if err != nil {
		return err
	}
	code, err := readCode(ctx)
	if err != nil {
		return err
	}
	accounts, err := loadPrestate(ctx.String(PrestateFlag.Name))
	if err != nil {
		return err
	}
	db, err := fixture.NewState(accounts)
	if err != nil {
		return err
	}
	txFields := &fixture.Tx{
		To:     ctx.String(ToFlag.Name),
		From:   ctx.String(FromFlag.Name),
		Origin: ctx.String(OriginFlag.Name),
		Value:  ctx.String(ValueFlag.Name),
		Data:   ctx.String(InputFlag.Name),
		Nonce:  ctx.String(NonceFlag.Name),
	}
	tx, err := txFields.TxContext()
	if err != nil {
		return err
	}
	blockFields := &fixture.Block{
		Coinbase:   ctx.String(CoinbaseFlag.Name),
		Timestamp:  ctx.String(TimestampFlag.Name),
		Number:     ctx.String(NumberFlag.Name),
		Difficulty: ctx.String(DifficultyFlag.Name),
		GasLimit:   ctx.String(GasLimitFlag.Name),
		BaseFee:    ctx.String(BaseFeeFlag.Name),
		ChainID:    ctx.String(ChainIDFlag.Name),
	}
	block, err := blockFields.BlockContext()
	if err != nil {
		return err
	}

	res := evm.NewInterpreter(db, cfg).Execute(code, tx, block, false, false)

	w := ctx.App.Writer
	if ctx.Bool(JSONFlag.Name) {
		out, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode result")
		}
		fmt.Fprintln(w, string(out))
	} else if err := printResult(w, res); err != nil {
		return err
	}
	if ctx.Bool(DumpFlag.Name) && res.State != nil {
		out, err := json.MarshalIndent(res.State.Dump(), "", "  ")
		if err != nil {
			return errors.Wrap(err, "encode state")
		}
		fmt.Fprintln(w, string(out))
	}
	return nil
}

func printResult(w io.Writer, res *evm.Result) error {
	fmt.Fprintf(w, "success: %v\n", res.Success)
	if res.Err != nil {
		fmt.Fprintf(w, "error:   %v\n", res.Err)
	}
	fmt.Fprintln(w, "stack:")
	for i, item := range res.Stack {
		fmt.Fprintf(w, "  %2d: %s\n", i, item.Hex())
	}
	if len(res.ReturnValue) > 0 {
		fmt.Fprintf(w, "return:  %x\n", res.ReturnValue)
	}
	for i, l := range res.Logs {
		out, err := l.MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "encode log %d", i)
		}
		fmt.Fprintf(w, "log %d:   %s\n", i, out)
	}
	return nil
}
