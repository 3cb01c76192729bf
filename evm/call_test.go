package evm

import (
	"testing"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/common/crypto"
	"github.com/entropyio/evmlite/config"
	"github.com/entropyio/evmlite/state"
	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	calleeAddr  = common.HexToAddress("0xca11ee")
	libraryAddr = common.HexToAddress("0x011b")
	staticAddr  = common.HexToAddress("0x57a7")
	factoryAddr = common.HexToAddress("0xfac7")
)

// callCode is CALL(gas 0, calleeAddr, value, in 0/0, out 0/0x20).
func callCode(value string) string {
	return "6020" + "6000" + "6000" + "6000" + "60" + value + "62ca11ee" + "6000" + "f1"
}

func newCallee(db *state.StateDB, code string) {
	db.SetCode(calleeAddr, common.Hex2Bytes(code))
}

func TestCallReturnData(t *testing.T) {
	db := state.New()
	newCallee(db, "6042600052"+"60206000f3")

	res := runCode(t, callCode("00")+"600051"+"3d", TxContext{To: &contractAddr}, db, nil)
	require.True(t, res.Success, res.Err)
	assert.Equal(t, words(0x20, 0x42, 1), res.Stack)
	assert.Equal(t, uint64(0x20), res.ReturnDataSize)
}

func TestCallTruncatesToRetSize(t *testing.T) {
	db := state.New()
	newCallee(db, "6042600052"+"60206000f3")
	// out region 0/1: only the first (zero) byte is copied, memory still
	// expands to one word
	code := "6001" + "6000" + "6000" + "6000" + "6000" + "62ca11ee" + "6000" + "f1" + "59"
	res := runCode(t, code, TxContext{}, db, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0x20, 1), res.Stack)
}

func TestCallMissingAccount(t *testing.T) {
	res := runCode(t, callCode("00"), TxContext{To: &contractAddr}, state.New(), nil)
	require.True(t, res.Success)
	assert.Equal(t, words(1), res.Stack)
}

func TestCallContext(t *testing.T) {
	db := state.New()
	newCallee(db, "33600055"+"34600155")

	tx := TxContext{To: &contractAddr, From: &senderAddr}
	res := runCode(t, callCode("03"), tx, db, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(1), res.Stack)
	assert.Equal(t, contractAddr.Word(), db.GetState(calleeAddr, common.HexToHash("0x00")), "CALLER is the calling contract")
	assert.Equal(t, *uint256.NewInt(3), db.GetState(calleeAddr, common.HexToHash("0x01")))
	assert.Equal(t, *uint256.NewInt(3), db.GetBalance(calleeAddr), "unknown sender mints the value")
}

func TestCallValueTransfer(t *testing.T) {
	db := state.New()
	db.SetBalance(contractAddr, *uint256.NewInt(3))
	newCallee(db, "")

	res := runCode(t, callCode("05"), TxContext{To: &contractAddr}, db, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0), res.Stack, "insufficient balance")
	assert.Equal(t, *uint256.NewInt(3), db.GetBalance(contractAddr))

	res = runCode(t, callCode("02"), TxContext{To: &contractAddr}, db, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(1), res.Stack)
	assert.Equal(t, *uint256.NewInt(1), db.GetBalance(contractAddr))
	assert.Equal(t, *uint256.NewInt(2), db.GetBalance(calleeAddr))
}

func TestCallFailureRollsBackChild(t *testing.T) {
	db := state.New()
	db.SetBalance(contractAddr, *uint256.NewInt(3))
	newCallee(db, "6001600055"+"fe")

	res := runCode(t, callCode("01")+"6007600055", TxContext{To: &contractAddr}, db, nil)
	require.True(t, res.Success, "a failing child never fails its caller")
	assert.Equal(t, words(0), res.Stack)
	assert.Equal(t, uint256.Int{}, db.GetState(calleeAddr, common.Hash{}))
	assert.Equal(t, *uint256.NewInt(3), db.GetBalance(contractAddr), "value transfer undone")
	assert.Equal(t, *uint256.NewInt(7), db.GetState(contractAddr, common.Hash{}), "caller state survives")
}

func TestDelegateCall(t *testing.T) {
	db := state.New()
	db.CreateAccount(contractAddr)
	db.SetCode(libraryAddr, common.Hex2Bytes("6005600055"+"33600155"))

	code := "6000" + "6000" + "6000" + "6000" + "61011b" + "6000" + "f4" + "600054"
	res := runCode(t, code, TxContext{To: &contractAddr, From: &senderAddr}, db, nil)
	require.True(t, res.Success, res.Err)
	assert.Equal(t, words(5, 1), res.Stack)
	assert.Equal(t, *uint256.NewInt(5), db.GetState(contractAddr, common.Hash{}))
	assert.Equal(t, senderAddr.Word(), db.GetState(contractAddr, common.HexToHash("0x01")), "CALLER is preserved")
	assert.Empty(t, db.GetStorage(libraryAddr), "library storage untouched")
}

func TestDelegateCallFailureKeepsStorage(t *testing.T) {
	db := state.New()
	db.CreateAccount(contractAddr)
	db.SetCode(libraryAddr, common.Hex2Bytes("6005600055"+"fe"))

	code := "6000" + "6000" + "6000" + "6000" + "61011b" + "6000" + "f4" + "600054"
	res := runCode(t, code, TxContext{To: &contractAddr}, db, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0, 0), res.Stack)
	assert.Empty(t, db.GetStorage(contractAddr))
}

func TestStaticCallModes(t *testing.T) {
	code := "6000" + "6000" + "6000" + "6000" + "6157a7" + "6000" + "fa"
	strict := &config.Config{StaticCall: config.StaticCallStrict}

	tests := []struct {
		name   string
		target string
		cfg    *config.Config
		want   uint64
	}{
		{"scan refuses sstore", "6001600055", nil, 0},
		{"scan refuses sstore byte in push data", "605500", nil, 0},
		{"scan runs clean code", "600100", nil, 1},
		{"strict fails sstore", "6001600055", strict, 0},
		{"strict ignores push data", "605500", strict, 1},
		{"strict fails log", "60006000a0", strict, 0},
		{"strict fails value call", callCode("01"), strict, 0},
		{"strict allows valueless call", callCode("00"), strict, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := state.New()
			db.SetCode(staticAddr, common.Hex2Bytes(tt.target))

			res := runCode(t, code, TxContext{To: &contractAddr}, db, tt.cfg)
			require.True(t, res.Success)
			assert.Equal(t, words(tt.want), res.Stack)
			assert.Empty(t, db.GetStorage(staticAddr))
		})
	}
}

func TestPropagateLogs(t *testing.T) {
	code := "60006000a0" + callCode("00")

	for _, propagate := range []bool{false, true} {
		db := state.New()
		newCallee(db, "60006000a0")
		cfg := &config.Config{StaticCall: config.StaticCallScan, PropagateLogs: propagate}

		res := runCode(t, code, TxContext{To: &contractAddr}, db, cfg)
		require.True(t, res.Success)
		if !propagate {
			require.Len(t, res.Logs, 1)
			assert.Equal(t, contractAddr, *res.Logs[0].Address)
			continue
		}
		require.Len(t, res.Logs, 2)
		assert.Equal(t, calleeAddr, *res.Logs[0].Address, "child logs are newer")
		assert.Equal(t, contractAddr, *res.Logs[1].Address)
	}
}

// initReturning4 returns the four byte runtime code 0x60016000.
const initReturning4 = "6360016000" + "600052" + "6004601cf3"

func TestCreate(t *testing.T) {
	creator := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	db := state.New()
	create := "600d" + "6013" + "6000" + "f0"
	code := "6c" + initReturning4 + "600052" + create + create

	res := runCode(t, code, TxContext{From: &creator, Nonce: 0}, db, nil)
	require.True(t, res.Success, res.Err)

	first, second := crypto.CreateAddress(creator, 0), crypto.CreateAddress(creator, 1)
	assert.Equal(t, []uint256.Int{second.Word(), first.Word()}, res.Stack)
	assert.Equal(t, common.Hex2Bytes("60016000"), db.GetCode(first))
	assert.Equal(t, common.Hex2Bytes("60016000"), db.GetCode(second))
}

func TestCreateFromNestedFrameAdvancesNonce(t *testing.T) {
	db := state.New()
	// CREATE(0, 27, 5) of init code 60016000f3, returning the new address
	db.SetCode(factoryAddr, common.Hex2Bytes("6460016000f3"+"600052"+"6005"+"601b"+"6000"+"f0"+"600052"+"60206000f3"))
	callFactory := "6020" + "6000" + "6000" + "6000" + "6000" + "61fac7" + "6000" + "f1" + "50" + "600051"

	res := runCode(t, callFactory+callFactory, TxContext{To: &contractAddr, From: &senderAddr}, db, nil)
	require.True(t, res.Success, res.Err)

	first, second := crypto.CreateAddress(factoryAddr, 0), crypto.CreateAddress(factoryAddr, 1)
	assert.Equal(t, []uint256.Int{second.Word(), first.Word()}, res.Stack)
	assert.Equal(t, []byte{0x00}, db.GetCode(first))
	assert.Equal(t, []byte{0x00}, db.GetCode(second))
	assert.Equal(t, uint64(2), db.GetNonce(factoryAddr))
	assert.Equal(t, uint64(1), db.GetNonce(first))
	assert.False(t, db.Exist(crypto.CreateAddress(senderAddr, 0)))
}

func TestCreateStartsFromTxNonce(t *testing.T) {
	db := state.New()
	code := "6000" + "6000" + "6000" + "f0"
	res := runCode(t, code+code, TxContext{To: &contractAddr, Nonce: 5}, db, nil)
	require.True(t, res.Success, res.Err)

	assert.Equal(t, []uint256.Int{crypto.CreateAddress(contractAddr, 6).Word(), crypto.CreateAddress(contractAddr, 5).Word()}, res.Stack)
	assert.Equal(t, uint64(7), db.GetNonce(contractAddr))
}

func TestCreateRevert(t *testing.T) {
	db := state.New()
	code := "6460006000fd" + "600052" + "6005" + "601b" + "6000" + "f0"

	res := runCode(t, code, TxContext{From: &senderAddr}, db, nil)
	require.True(t, res.Success)
	assert.Equal(t, words(0), res.Stack)
	assert.False(t, db.Exist(crypto.CreateAddress(senderAddr, 0)))
	assert.Equal(t, uint64(1), db.GetNonce(senderAddr), "a failed creation still uses up the nonce")
}

func TestCreateFundsFromExecutingAccount(t *testing.T) {
	db := state.New()
	db.SetBalance(contractAddr, *uint256.NewInt(10))

	res := runCode(t, "6000"+"6000"+"6004"+"f0", TxContext{To: &contractAddr}, db, nil)
	require.True(t, res.Success)
	created := crypto.CreateAddress(contractAddr, 0)
	assert.Equal(t, []uint256.Int{created.Word()}, res.Stack)
	assert.True(t, db.Exist(created))
	assert.Equal(t, *uint256.NewInt(4), db.GetBalance(created))
	assert.Equal(t, *uint256.NewInt(6), db.GetBalance(contractAddr))
}

func TestCreateRefusedReadOnly(t *testing.T) {
	db := state.New()
	db.SetCode(staticAddr, common.Hex2Bytes("600060006000f0"))
	code := "6000" + "6000" + "6000" + "6000" + "6157a7" + "6000" + "fa"

	res := runCode(t, code, TxContext{}, db, &config.Config{StaticCall: config.StaticCallStrict})
	require.True(t, res.Success)
	assert.Equal(t, words(0), res.Stack)
	assert.Len(t, db.Addresses(), 1)
}
