package chain

import (
	"testing"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/state"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
)

var (
	payer = common.HexToAddress("0xaaaa")
	payee = common.HexToAddress("0xbbbb")
)

func TestTransfer(t *testing.T) {
	db := state.New()
	db.SetBalance(payer, *uint256.NewInt(10))

	assert.True(t, CanTransfer(db, payer, *uint256.NewInt(10)))
	assert.False(t, CanTransfer(db, payer, *uint256.NewInt(11)))

	Transfer(db, payer, payee, *uint256.NewInt(4))
	assert.Equal(t, *uint256.NewInt(6), db.GetBalance(payer))
	assert.Equal(t, *uint256.NewInt(4), db.GetBalance(payee))
}

func TestFund(t *testing.T) {
	db := state.New()

	// unknown funder mints
	assert.True(t, Fund(db, payer, payee, *uint256.NewInt(9)))
	assert.Equal(t, *uint256.NewInt(9), db.GetBalance(payee))
	assert.False(t, db.Exist(payer))

	// known funder pays, and cannot overdraw
	assert.True(t, Fund(db, payee, payer, *uint256.NewInt(5)))
	assert.Equal(t, *uint256.NewInt(4), db.GetBalance(payee))
	assert.Equal(t, *uint256.NewInt(5), db.GetBalance(payer))
	assert.False(t, Fund(db, payee, payer, *uint256.NewInt(5)))
	assert.Equal(t, *uint256.NewInt(4), db.GetBalance(payee))

	// zero value is always fine and touches nothing
	assert.True(t, Fund(db, common.HexToAddress("0xcccc"), common.HexToAddress("0xdddd"), uint256.Int{}))
	assert.False(t, db.Exist(common.HexToAddress("0xdddd")))
}
