package evm

import (
	"github.com/entropyio/evmlite/common"
	"github.com/holiman/uint256"
)

// TxContext provides the EVM with information about a transaction. Absent
// fields read as zero.
type TxContext struct {
	To       *common.Address // executing account
	From     *common.Address // CALLER
	Origin   *common.Address // ORIGIN
	GasPrice *uint256.Int
	Value    *uint256.Int
	Data     []byte
	Nonce    uint64 // lowest nonce CREATE uses for the executing account
}

// BlockContext provides the EVM with auxiliary information about the
// enclosing block. Absent fields read as zero.
type BlockContext struct {
	BaseFee    *uint256.Int
	Coinbase   *common.Address
	Timestamp  *uint256.Int
	Number     *uint256.Int
	Difficulty *uint256.Int
	GasLimit   *uint256.Int
	ChainID    *uint256.Int
}

func wordOrZero(w *uint256.Int) uint256.Int {
	if w == nil {
		return uint256.Int{}
	}
	return *w
}

func addressWord(a *common.Address) uint256.Int {
	if a == nil {
		return uint256.Int{}
	}
	return a.Word()
}

func addressOrZero(a *common.Address) common.Address {
	if a == nil {
		return common.Address{}
	}
	return *a
}
