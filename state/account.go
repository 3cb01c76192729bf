package state

import (
	"github.com/entropyio/evmlite/common"
	"github.com/holiman/uint256"
)

// Account is one entry of the global state.
type Account struct {
	Balance uint256.Int
	Nonce   uint64
	Code    []byte
	Storage Storage
}

// NewAccount returns an empty account with initialised storage.
func NewAccount() *Account {
	return &Account{Storage: make(Storage)}
}

// Copy returns a deep copy of the account.
func (a *Account) Copy() *Account {
	cpy := &Account{
		Balance: a.Balance,
		Nonce:   a.Nonce,
		Storage: a.Storage.Copy(),
	}
	if a.Code != nil {
		cpy.Code = common.CopyBytes(a.Code)
	}
	return cpy
}

// DumpAccount is the serialisable form of an Account.
type DumpAccount struct {
	Balance string                      `json:"balance"`
	Nonce   uint64                      `json:"nonce,omitempty"`
	Code    string                      `json:"code,omitempty"`
	Storage map[common.Hash]common.Hash `json:"storage,omitempty"`
}

func (a *Account) dump() DumpAccount {
	d := DumpAccount{
		Balance: a.Balance.Hex(),
		Nonce:   a.Nonce,
		Code:    common.Bytes2Hex(a.Code),
	}
	if len(a.Storage) > 0 {
		d.Storage = make(map[common.Hash]common.Hash, len(a.Storage))
		for key, value := range a.Storage {
			d.Storage[key] = common.WordToHash(&value)
		}
	}
	return d
}
