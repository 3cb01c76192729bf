package chain

import (
	"github.com/entropyio/evmlite/common"
	"github.com/holiman/uint256"
)

// BalanceDB is the slice of the state that value transfers touch.
type BalanceDB interface {
	Exist(addr common.Address) bool
	GetBalance(addr common.Address) uint256.Int
	AddBalance(addr common.Address, amount uint256.Int)
	SubBalance(addr common.Address, amount uint256.Int)
}

// CanTransfer checks whether there are enough funds in the address' account to make a transfer.
// This does not take the necessary gas in to account to make the transfer valid.
func CanTransfer(db BalanceDB, addr common.Address, amount uint256.Int) bool {
	balance := db.GetBalance(addr)
	return !balance.Lt(&amount)
}

// Transfer subtracts amount from sender and adds amount to recipient using the given Db
func Transfer(db BalanceDB, sender, recipient common.Address, amount uint256.Int) {
	db.SubBalance(sender, amount)
	db.AddBalance(recipient, amount)
}

// Fund pays amount into recipient on behalf of sender. A sender the state has
// never seen is treated as an external funder and the value is minted; a known
// sender must be able to pay. It reports whether the value was paid.
func Fund(db BalanceDB, sender, recipient common.Address, amount uint256.Int) bool {
	if amount.IsZero() {
		return true
	}
	if !db.Exist(sender) {
		db.AddBalance(recipient, amount)
		return true
	}
	if !CanTransfer(db, sender, amount) {
		return false
	}
	Transfer(db, sender, recipient, amount)
	return true
}
