package common

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseWord(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want uint64
	}{
		{"", 0},
		{"0x", 0},
		{"0x0", 0},
		{"0x00ff", 0xff},
		{"255", 255},
		{"010", 10},
	} {
		w, err := ParseWord(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, *uint256.NewInt(tt.want), w, tt.in)
	}

	_, err := ParseWord("0xzz")
	assert.Error(t, err)
	_, err = ParseWord("-1")
	assert.Error(t, err)
	_, err = ParseWord("0x1" + "0000000000000000000000000000000000000000000000000000000000000000")
	assert.Error(t, err, "257-bit value")
}

func TestAddressConversions(t *testing.T) {
	a := HexToAddress("0x1000000000000000000000000000000000000aaa")
	assert.Equal(t, "0x1000000000000000000000000000000000000aaa", a.Hex())

	w := a.Word()
	assert.Equal(t, a, WordToAddress(&w))

	var short Address
	require.NoError(t, short.UnmarshalText([]byte("0xaaa")))
	assert.Equal(t, HexToAddress("0x0000000000000000000000000000000000000aaa"), short)

	// words wider than 160 bits keep their low 20 bytes
	wide := uint256.MustFromHex("0xffffffffffff1000000000000000000000000000000000000aaa")
	assert.Equal(t, a, WordToAddress(wide))
}

func TestHexHelpers(t *testing.T) {
	assert.Equal(t, []byte{0x01, 0x02}, FromHex("0x0102"))
	assert.Equal(t, []byte{0x01, 0x02}, FromHex("102"))
	assert.Equal(t, "0102", Bytes2Hex([]byte{1, 2}))
	assert.Empty(t, FromHex(""))

	_, err := DecodeHex("0xgg")
	assert.Error(t, err)

	h := HexToHash("0x20")
	assert.Equal(t, *uint256.NewInt(0x20), h.Word())
}
