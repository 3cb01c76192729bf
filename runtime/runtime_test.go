package runtime

import (
	"testing"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/common/crypto"
	"github.com/entropyio/evmlite/config"
	"github.com/entropyio/evmlite/evm"
	"github.com/entropyio/evmlite/state"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	cfg := new(Config)
	setDefaults(cfg)

	assert.Same(t, &config.Default, cfg.EVMConfig)
	assert.NotNil(t, cfg.State)
	assert.Equal(t, config.UnlimitedGas, *cfg.GasLimit)
	assert.Equal(t, uint64(1), cfg.ChainID.Uint64())
	for _, w := range []*uint256.Int{cfg.Difficulty, cfg.GasPrice, cfg.Value, cfg.BlockNumber, cfg.BaseFee} {
		assert.True(t, w.IsZero())
	}
	assert.False(t, cfg.Time.IsZero())
}

func TestExecute(t *testing.T) {
	ret, db, err := Execute(common.Hex2Bytes("6042600052"+"60206000f3"), nil, nil)
	require.NoError(t, err)
	assert.Equal(t, common.LeftPadBytes([]byte{0x42}, 32), ret)
	assert.True(t, db.Exist(common.BytesToAddress([]byte("contract"))))
}

func TestExecuteStorage(t *testing.T) {
	db := state.New()
	_, _, err := Execute(common.Hex2Bytes("602a600155"), nil, &Config{State: db})
	require.NoError(t, err)
	assert.Equal(t, *uint256.NewInt(42), db.GetState(common.BytesToAddress([]byte("contract")), common.HexToHash("0x01")))
}

func TestExecuteRevert(t *testing.T) {
	ret, _, err := Execute(common.Hex2Bytes("60aa600053"+"60016000fd"), nil, nil)
	require.Error(t, err)
	assert.Equal(t, evm.ErrExecutionReverted, errors.Cause(err))
	assert.Equal(t, []byte{0xaa}, ret)
}

func TestExecuteEnvironment(t *testing.T) {
	origin := common.HexToAddress("0x0a11ce")
	cfg := &Config{Origin: origin, BlockNumber: uint256.NewInt(7), Nonce: 3}
	// ORIGIN NUMBER CHAINID, stored to memory and returned
	code := "32600052" + "43602052" + "46604052" + "60606000f3"
	ret, _, err := Execute(common.Hex2Bytes(code), nil, cfg)
	require.NoError(t, err)
	require.Len(t, ret, 96)

	w := origin.Word()
	b := w.Bytes32()
	assert.Equal(t, b[:], ret[:32])
	assert.Equal(t, byte(7), ret[63])
	assert.Equal(t, byte(1), ret[95])
}

func TestCreateAndCall(t *testing.T) {
	origin := common.HexToAddress("0x6ac7ea33f8831ea9dcc53393aaa88b25a785dbf0")
	db := state.New()
	cfg := &Config{Origin: origin, State: db}

	// init code returning runtime code that returns CALLDATALOAD(0)
	runtimeCode := "600035600052" + "60206000f3"
	initCode := "6a" + runtimeCode + "600052" + "600b6015f3"
	code, address, err := Create(common.Hex2Bytes(initCode), cfg)
	require.NoError(t, err)
	assert.Equal(t, crypto.CreateAddress(origin, 0), address)
	assert.Equal(t, common.Hex2Bytes(runtimeCode), code)
	assert.Equal(t, code, db.GetCode(address))

	input := common.LeftPadBytes([]byte{0x99}, 32)
	ret, err := Call(address, input, cfg)
	require.NoError(t, err)
	assert.Equal(t, input, ret)
}

func TestCreateFailure(t *testing.T) {
	db := state.New()
	_, address, err := Create(common.Hex2Bytes("fe"), &Config{State: db})
	require.Error(t, err)
	assert.False(t, db.Exist(address))
}
