package evm

import (
	"errors"
	"strings"
	"testing"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/config"
	"github.com/entropyio/evmlite/state"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	contractAddr = common.HexToAddress("0x000000000000000000000000000000000000c0de")
	senderAddr   = common.HexToAddress("0x1e79b045dc29eae9fdc69673c9dcd7c53e5e159d")
	originAddr   = common.HexToAddress("0x000000000000000000000000000000000000a11c")
)

func runCode(t *testing.T, code string, tx TxContext, db *state.StateDB, cfg *config.Config) *Result {
	t.Helper()
	return NewInterpreter(db, cfg).Execute(common.Hex2Bytes(code), tx, BlockContext{}, false, false)
}

func TestArithmetic(t *testing.T) {
	tests := []struct {
		name string
		code string
		want []uint256.Int
	}{
		{"add", "6001600201", words(3)},
		{"sub top minus second", "6001600503", words(4)},
		{"push order", "60016002", words(2, 1)},
		{"div by zero", "6000600a04", words(0)},
		{"addmod", "6008600a600a08", words(4)},
		{"mulmod zero modulus", "6000600a600a09", words(0)},
		{"sdiv truncates", "600a600205", words(0)},
		{"exp real", "6003600a0a", words(1000)},
		{"lt", "600a600210", words(1)},
		{"iszero", "600015", words(1)},
		{"shl", "600160041b", words(16)},
		{"byte", "60ff601f1a", words(0xff)},
		{"pop on empty", "01", words(0)},
		{"dup missing", "82", words(0)},
		{"swap pads", "600791", words(0, 0, 7)},
		{"push truncated", "6101", words(0x0100)},
		{"push0", "5f", words(0)},
		{"pc", "5858", words(1, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := runCode(t, tt.code, TxContext{}, nil, nil)
			require.True(t, res.Success, res.Err)
			assert.Equal(t, tt.want, res.Stack)
		})
	}
}

func TestSignedArithmetic(t *testing.T) {
	// -1 sdiv 2 == 0, -8 smod 3 == -2
	minusOne := "7f" + strings.Repeat("ff", 32)
	res := runCode(t, "6002"+minusOne+"05", TxContext{}, nil, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0), res.Stack)

	minusEight := "7f" + strings.Repeat("ff", 31) + "f8"
	res = runCode(t, "6003"+minusEight+"07", TxContext{}, nil, nil)
	require.True(t, res.Success)
	want := uint256.NewInt(2)
	want.Neg(want)
	assert.Equal(t, []uint256.Int{*want}, res.Stack)
}

func TestInvalidOpcode(t *testing.T) {
	for _, code := range []string{"fe", "0c", "6001ef"} {
		res := runCode(t, code, TxContext{}, nil, nil)
		assert.False(t, res.Success, code)
		var invalid *ErrInvalidOpCode
		if assert.True(t, errors.As(res.Err, &invalid), code) {
			assert.Equal(t, OpCode(common.Hex2Bytes(code)[len(code)/2-1]), invalid.Opcode(), code)
		}
	}
	res := runCode(t, "6001fe", TxContext{}, nil, nil)
	assert.Equal(t, words(1), res.Stack, "stack is reported on failure")
}

func TestEmptyCode(t *testing.T) {
	res := runCode(t, "", TxContext{}, nil, nil)
	assert.True(t, res.Success)
	assert.Empty(t, res.Stack)
	assert.Empty(t, res.Logs)
	assert.Nil(t, res.ReturnValue)
}

func TestStopHalts(t *testing.T) {
	res := runCode(t, "6001006002", TxContext{}, nil, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(1), res.Stack)
}

func TestJumps(t *testing.T) {
	res := runCode(t, "600456fe5b6001", TxContext{}, nil, nil)
	require.True(t, res.Success, res.Err)
	assert.Equal(t, words(1), res.Stack)

	// destination 4 is a 0x5b inside PUSH1 data
	res = runCode(t, "600456605b", TxContext{}, nil, nil)
	assert.False(t, res.Success)
	var invalid *ErrInvalidJump
	assert.True(t, errors.As(res.Err, &invalid))

	res = runCode(t, "600356", TxContext{}, nil, nil)
	assert.False(t, res.Success, "jump past the end")
}

func TestJumpiCondition(t *testing.T) {
	// JUMPI with condition 2: falls through by default, jumps when any
	// non-zero condition counts.
	code := "6002600857" + "60aa00" + "5b60bb"

	res := runCode(t, code, TxContext{}, nil, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0xaa), res.Stack)

	res = runCode(t, code, TxContext{}, nil, &config.Config{StaticCall: config.StaticCallScan, JumpiNonZero: true})
	require.True(t, res.Success)
	assert.Equal(t, words(0xbb), res.Stack)

	res = runCode(t, "6001600857"+"60aa00"+"5b60bb", TxContext{}, nil, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0xbb), res.Stack)

	// invalid destination is ignored when not jumping
	res = runCode(t, "6000600357", TxContext{}, nil, nil)
	assert.True(t, res.Success)
}

func TestMemoryOpcodes(t *testing.T) {
	res := runCode(t, "6042600052600051"+"59", TxContext{}, nil, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0x20, 0x42), res.Stack)

	res = runCode(t, "60ff60215359", TxContext{}, nil, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0x40), res.Stack)
}

func TestKeccakZeroLength(t *testing.T) {
	res := runCode(t, "6000608020"+"59", TxContext{}, nil, nil)
	require.True(t, res.Success)
	empty := uint256.MustFromHex("0xc5d2460186f7233c927e7db2dcc703c0e500b653ca82273b7bfad8045d85a470")
	assert.Equal(t, []uint256.Int{{}, *empty}, res.Stack, "zero-length access leaves memory empty")
}

func TestMemoryLimit(t *testing.T) {
	res := runCode(t, "63ffffffff51", TxContext{}, nil, nil)
	assert.False(t, res.Success)
	assert.Equal(t, ErrMemoryLimit, res.Err)

	res = runCode(t, "6001610400"+"52", TxContext{}, nil, &config.Config{StaticCall: config.StaticCallScan, MaxMemory: 1024})
	assert.Equal(t, ErrMemoryLimit, res.Err)
}

func TestReturnAndRevert(t *testing.T) {
	want := common.LeftPadBytes([]byte{0x42}, 32)

	res := runCode(t, "6042600052"+"60206000f3", TxContext{}, nil, nil)
	require.True(t, res.Success)
	assert.Equal(t, want, res.ReturnValue)
	assert.Zero(t, res.ReturnDataSize, "top level frame")

	res = NewInterpreter(nil, nil).Execute(common.Hex2Bytes("6042600052"+"60206000f3"), TxContext{}, BlockContext{}, true, false)
	assert.Equal(t, uint64(32), res.ReturnDataSize)

	res = runCode(t, "6042600052"+"60206000fd", TxContext{}, nil, nil)
	assert.False(t, res.Success)
	assert.Equal(t, ErrExecutionReverted, res.Err)
	assert.Equal(t, want, res.ReturnValue)
	assert.Equal(t, want, res.Revert())
}

func TestStorageZeroDeletes(t *testing.T) {
	db := state.New()
	db.CreateAccount(contractAddr)
	tx := TxContext{To: &contractAddr}

	res := runCode(t, "6001600055"+"6002600155"+"6000600055", tx, db, nil)
	require.True(t, res.Success)
	assert.Equal(t, []common.Hash{common.HexToHash("0x01")}, db.GetStorage(contractAddr).Keys())
	assert.Same(t, db, res.State)
}

func TestFrameLocalStorage(t *testing.T) {
	db := state.New()
	res := runCode(t, "6005600055"+"600054", TxContext{To: &contractAddr}, db, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(5), res.Stack)
	assert.False(t, db.Exist(contractAddr), "unknown executing address keeps storage in the frame")
}

func TestRevertRollsBackState(t *testing.T) {
	db := state.New()
	db.CreateAccount(contractAddr)
	db.SetState(contractAddr, common.HexToHash("0x00"), *uint256.NewInt(1))

	res := runCode(t, "6009600055"+"60006000fd", TxContext{To: &contractAddr}, db, nil)
	assert.False(t, res.Success)
	assert.Nil(t, res.State)
	assert.Equal(t, *uint256.NewInt(1), db.GetState(contractAddr, common.Hash{}))
}

func TestDelegateFrameSurfacesStorage(t *testing.T) {
	db := state.New()
	db.CreateAccount(contractAddr)
	db.SetState(contractAddr, common.Hash{}, *uint256.NewInt(1))

	res := NewInterpreter(db, nil).Execute(common.Hex2Bytes("6007600155"), TxContext{To: &contractAddr}, BlockContext{}, true, true)
	require.True(t, res.Success)
	assert.Nil(t, res.State)
	assert.Equal(t, *uint256.NewInt(1), res.Storage.Get(common.Hash{}))
	assert.Equal(t, *uint256.NewInt(7), res.Storage.Get(common.HexToHash("0x01")))
	assert.Equal(t, uint256.Int{}, db.GetState(contractAddr, common.HexToHash("0x01")), "works on a copy")
}

func TestEnvironment(t *testing.T) {
	value, price := uint256.NewInt(5), uint256.NewInt(7)
	tx := TxContext{
		To:       &contractAddr,
		From:     &senderAddr,
		Origin:   &originAddr,
		Value:    value,
		GasPrice: price,
		Data:     common.Hex2Bytes("ff"),
	}
	// ADDRESS CALLER ORIGIN CALLVALUE GASPRICE CALLDATASIZE
	res := runCode(t, "303332343a36", tx, nil, nil)
	require.True(t, res.Success)
	assert.Equal(t, []uint256.Int{
		*uint256.NewInt(1), *price, *value,
		originAddr.Word(), senderAddr.Word(), contractAddr.Word(),
	}, res.Stack)

	// Absent fields read as zero.
	res = runCode(t, "303332343a36", TxContext{}, nil, nil)
	assert.Equal(t, words(0, 0, 0, 0, 0, 0), res.Stack)
}

func TestCallDataLoad(t *testing.T) {
	tx := TxContext{Data: common.Hex2Bytes("0102")}
	res := runCode(t, "600135", tx, nil, nil)
	require.True(t, res.Success)
	want := new(uint256.Int).SetBytes(common.RightPadBytes([]byte{0x02}, 32))
	assert.Equal(t, []uint256.Int{*want}, res.Stack)

	res = runCode(t, "7fff"+strings.Repeat("00", 31)+"35", tx, nil, nil)
	assert.Equal(t, words(0), res.Stack, "offset past the data")
}

func TestBlockContext(t *testing.T) {
	number, chainID := uint256.NewInt(100), uint256.NewInt(1)
	coinbase := common.HexToAddress("0xc014ba5e")
	block := BlockContext{Number: number, ChainID: chainID, Coinbase: &coinbase}
	// NUMBER CHAINID COINBASE TIMESTAMP GAS, BLOCKHASH(1)
	res := NewInterpreter(nil, nil).Execute(common.Hex2Bytes("4346414250"+"5a"+"600140"), TxContext{}, block, false, false)
	require.True(t, res.Success)
	assert.Equal(t, []uint256.Int{
		{}, config.UnlimitedGas, coinbase.Word(), *chainID, *number,
	}, res.Stack)
}

func TestLogsNewestFirst(t *testing.T) {
	code := "60aa600053" + "60016000a0" + // LOG0 0xaa
		"60bb600053" + "60016000a0" + // LOG0 0xbb
		"600760006000a1" // LOG1 topic 7, no data
	res := runCode(t, code, TxContext{To: &contractAddr}, nil, nil)
	require.True(t, res.Success)
	require.Len(t, res.Logs, 3)

	assert.Empty(t, res.Logs[0].Data)
	assert.Equal(t, words(7), res.Logs[0].Topics)
	assert.Equal(t, []byte{0xbb}, res.Logs[1].Data)
	assert.Equal(t, []byte{0xaa}, res.Logs[2].Data)
	assert.Equal(t, contractAddr, *res.Logs[2].Address)

	out, err := res.Logs[0].MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"address":"0x000000000000000000000000000000000000c0de","data":"","topics":["0x7"]}`, string(out))
}

func TestSelfDestruct(t *testing.T) {
	db := state.New()
	db.SetBalance(contractAddr, *uint256.NewInt(10))
	beneficiary := common.HexToAddress("0xbeef")
	db.SetCode(beneficiary, []byte{0x00})

	res := runCode(t, "61beefff6001", TxContext{To: &contractAddr}, db, nil)
	require.True(t, res.Success)
	assert.Empty(t, res.Stack, "halts after SELFDESTRUCT")
	assert.False(t, db.Exist(contractAddr))
	assert.Equal(t, *uint256.NewInt(10), db.GetBalance(beneficiary))
	assert.Equal(t, []byte{0x00}, db.GetCode(beneficiary))
}

func TestPackageExecute(t *testing.T) {
	db := state.New()
	res := Execute(common.Hex2Bytes("6001"), TxContext{}, BlockContext{}, db, false, false)
	require.True(t, res.Success)
	assert.Same(t, db, res.State)
}
