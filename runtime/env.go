package runtime

import (
	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/evm"
)

// NewEnv returns an interpreter over the configured state.
func NewEnv(cfg *Config) *evm.Interpreter {
	return evm.NewInterpreter(cfg.State, cfg.EVMConfig)
}

func txContext(cfg *Config, to *common.Address, input []byte) evm.TxContext {
	origin := cfg.Origin
	return evm.TxContext{
		To:       to,
		From:     &origin,
		Origin:   &origin,
		GasPrice: cfg.GasPrice,
		Value:    cfg.Value,
		Data:     input,
		Nonce:    cfg.Nonce,
	}
}

func blockContext(cfg *Config) evm.BlockContext {
	coinbase := cfg.Coinbase
	return evm.BlockContext{
		BaseFee:    cfg.BaseFee,
		Coinbase:   &coinbase,
		Timestamp:  cfg.Time,
		Number:     cfg.BlockNumber,
		Difficulty: cfg.Difficulty,
		GasLimit:   cfg.GasLimit,
		ChainID:    cfg.ChainID,
	}
}
