package runtime

import (
	"time"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/common/crypto"
	"github.com/entropyio/evmlite/config"
	"github.com/entropyio/evmlite/evm"
	"github.com/entropyio/evmlite/logger"
	"github.com/entropyio/evmlite/state"
	"github.com/holiman/uint256"
	"github.com/op/go-logging"
	"github.com/pkg/errors"
)

var log = logger.NewLogger("[runtime]")

// Config is a basic type specifying certain configuration flags for running
// the EVM.
type Config struct {
	EVMConfig *config.Config

	Origin      common.Address
	Coinbase    common.Address
	BlockNumber *uint256.Int
	Time        *uint256.Int
	Difficulty  *uint256.Int
	GasLimit    *uint256.Int
	GasPrice    *uint256.Int
	Value       *uint256.Int
	BaseFee     *uint256.Int
	ChainID     *uint256.Int
	Nonce       uint64

	State *state.StateDB
}

// sets defaults on the config
func setDefaults(cfg *Config) {
	if cfg.EVMConfig == nil {
		cfg.EVMConfig = &config.Default
	}
	if cfg.Difficulty == nil {
		cfg.Difficulty = new(uint256.Int)
	}
	if cfg.Time == nil {
		cfg.Time = uint256.NewInt(uint64(time.Now().Unix()))
	}
	if cfg.GasLimit == nil {
		gas := config.UnlimitedGas
		cfg.GasLimit = &gas
	}
	if cfg.GasPrice == nil {
		cfg.GasPrice = new(uint256.Int)
	}
	if cfg.Value == nil {
		cfg.Value = new(uint256.Int)
	}
	if cfg.BlockNumber == nil {
		cfg.BlockNumber = new(uint256.Int)
	}
	if cfg.BaseFee == nil {
		cfg.BaseFee = new(uint256.Int)
	}
	if cfg.ChainID == nil {
		cfg.ChainID = uint256.NewInt(1)
	}
	if cfg.State == nil {
		cfg.State = state.New()
	}
}

// failure turns a failed frame into an error, keeping the revert data
// available through the returned bytes.
func failure(res *evm.Result) error {
	if !res.Failed() {
		return nil
	}
	return errors.Wrap(res.Err, "execution failed")
}

// Execute executes the code using the input as call data during the execution.
// It returns the EVM's return value, the new state and an error if it failed.
//
// Execute sets up an in-memory, temporary, environment for the execution of
// the given code, installed at a fixed contract address.
func Execute(code, input []byte, cfg *Config) ([]byte, *state.StateDB, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	var (
		address = common.BytesToAddress([]byte("contract"))
		vmenv   = NewEnv(cfg)
	)
	cfg.State.CreateAccount(address)
	// set the receiver's (the executing contract) code for execution.
	cfg.State.SetCode(address, code)
	if log.IsEnabledFor(logging.DEBUG) {
		log.Debugf("execute address:%v, code:%x, input:%x", address, code, input)
	}
	res := vmenv.Execute(code, txContext(cfg, &address, input), blockContext(cfg), false, false)
	return res.ReturnValue, cfg.State, failure(res)
}

// Create executes the code using the EVM create method
func Create(input []byte, cfg *Config) ([]byte, common.Address, error) {
	if cfg == nil {
		cfg = new(Config)
	}
	setDefaults(cfg)

	var (
		vmenv    = NewEnv(cfg)
		address  = crypto.CreateAddress(cfg.Origin, cfg.Nonce)
		snapshot = cfg.State.Snapshot()
	)
	cfg.State.CreateAccount(address)
	res := vmenv.Execute(input, txContext(cfg, &address, nil), blockContext(cfg), false, false)
	if res.Failed() {
		cfg.State.RevertToSnapshot(snapshot)
		return res.ReturnValue, address, failure(res)
	}
	cfg.State.SetCode(address, res.ReturnValue)
	return res.ReturnValue, address, nil
}

// Call executes the code given by the contract's address. It will return the
// EVM's return value or an error if it failed.
//
// Call, unlike Execute, requires a config and also requires the State field to
// be set.
func Call(address common.Address, input []byte, cfg *Config) ([]byte, error) {
	setDefaults(cfg)

	vmenv := NewEnv(cfg)
	code := cfg.State.GetCode(address)
	res := vmenv.Execute(code, txContext(cfg, &address, input), blockContext(cfg), false, false)
	return res.ReturnValue, failure(res)
}
