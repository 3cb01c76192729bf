package common

import (
	"encoding/hex"
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

const (
	// HashLength is the expected length of the hash
	HashLength = 32
	// AddressLength is the expected length of the address
	AddressLength = 20
)

// Hash represents the 32 byte Keccak256 hash of arbitrary data.
type Hash [HashLength]byte

// BytesToHash sets b to hash.
// If b is larger than len(h), b will be cropped from the left.
func BytesToHash(b []byte) Hash {
	var h Hash
	h.SetBytes(b)
	return h
}

// HexToHash sets byte representation of s to hash.
func HexToHash(s string) Hash { return BytesToHash(FromHex(s)) }

// WordToHash returns the big-endian 32 byte form of w.
func WordToHash(w *uint256.Int) Hash { return Hash(w.Bytes32()) }

// Bytes gets the byte representation of the underlying hash.
func (h Hash) Bytes() []byte { return h[:] }

// Hex converts a hash to a hex string.
func (h Hash) Hex() string { return "0x" + hex.EncodeToString(h[:]) }

// Word interprets the hash as a big-endian 256-bit word.
func (h Hash) Word() uint256.Int {
	var w uint256.Int
	w.SetBytes32(h[:])
	return w
}

// String implements the stringer interface.
func (h Hash) String() string { return h.Hex() }

// SetBytes sets the hash to the value of b.
func (h *Hash) SetBytes(b []byte) {
	if len(b) > len(h) {
		b = b[len(b)-HashLength:]
	}
	copy(h[HashLength-len(b):], b)
}

// MarshalText returns the hex representation of h.
func (h Hash) MarshalText() ([]byte, error) { return []byte(h.Hex()), nil }

// UnmarshalText parses a hash in hex syntax.
func (h *Hash) UnmarshalText(input []byte) error {
	w, err := ParseWord(string(input))
	if err != nil {
		return err
	}
	*h = WordToHash(&w)
	return nil
}

// Address represents the 20 byte address of an account.
type Address [AddressLength]byte

// BytesToAddress returns Address with value b.
// If b is larger than len(h), b will be cropped from the left.
func BytesToAddress(b []byte) Address {
	var a Address
	a.SetBytes(b)
	return a
}

// HexToAddress returns Address with byte values of s.
// If s is larger than len(h), s will be cropped from the left.
func HexToAddress(s string) Address { return BytesToAddress(FromHex(s)) }

// WordToAddress keeps the low 20 bytes of w, the way stack operands name accounts.
func WordToAddress(w *uint256.Int) Address { return Address(w.Bytes20()) }

// Bytes gets the string representation of the underlying address.
func (a Address) Bytes() []byte { return a[:] }

// Hex returns the lowercase 0x-prefixed hex form of the address.
func (a Address) Hex() string { return "0x" + hex.EncodeToString(a[:]) }

// String implements fmt.Stringer.
func (a Address) String() string { return a.Hex() }

// Word returns the address as a 256-bit word, left-padded with zeros.
func (a Address) Word() uint256.Int {
	var w uint256.Int
	w.SetBytes20(a[:])
	return w
}

// SetBytes sets the address to the value of b.
// If b is larger than len(a), b will be cropped from the left.
func (a *Address) SetBytes(b []byte) {
	if len(b) > len(a) {
		b = b[len(b)-AddressLength:]
	}
	copy(a[AddressLength-len(b):], b)
}

// MarshalText returns the hex representation of a.
func (a Address) MarshalText() ([]byte, error) { return []byte(a.Hex()), nil }

// UnmarshalText parses an address in hex syntax. Short inputs are left-padded.
func (a *Address) UnmarshalText(input []byte) error {
	w, err := ParseWord(string(input))
	if err != nil {
		return err
	}
	*a = WordToAddress(&w)
	return nil
}

// FromHex returns the bytes represented by the hexadecimal string s.
// s may be prefixed with "0x". Odd-length input is left-padded with a zero nibble.
func FromHex(s string) []byte {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	return Hex2Bytes(s)
}

// Hex2Bytes returns the bytes represented by the hexadecimal string str.
func Hex2Bytes(str string) []byte {
	h, _ := hex.DecodeString(str)
	return h
}

// Bytes2Hex returns the lowercase hexadecimal encoding of d without a prefix.
func Bytes2Hex(d []byte) string {
	return hex.EncodeToString(d)
}

// DecodeHex is the strict form of FromHex, reporting malformed input.
func DecodeHex(s string) ([]byte, error) {
	if has0xPrefix(s) {
		s = s[2:]
	}
	if len(s)%2 == 1 {
		s = "0" + s
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid hex string %q: %v", s, err)
	}
	return b, nil
}

// ParseWord parses a 0x-prefixed hex or a decimal string into a 256-bit word.
// The empty string and a bare "0x" parse as zero.
func ParseWord(s string) (uint256.Int, error) {
	var w uint256.Int
	s = strings.TrimSpace(s)
	if s == "" || s == "0x" || s == "0X" {
		return w, nil
	}
	var (
		b  *big.Int
		ok bool
	)
	if has0xPrefix(s) {
		b, ok = new(big.Int).SetString(s[2:], 16)
	} else {
		b, ok = new(big.Int).SetString(s, 10)
	}
	if !ok {
		return w, fmt.Errorf("invalid word %q", s)
	}
	if b.Sign() < 0 {
		return w, fmt.Errorf("negative word %q", s)
	}
	if overflow := w.SetFromBig(b); overflow {
		return w, fmt.Errorf("word %q exceeds 256 bits", s)
	}
	return w, nil
}

// MustParseWord is like ParseWord but panics on malformed input.
func MustParseWord(s string) uint256.Int {
	w, err := ParseWord(s)
	if err != nil {
		panic(err)
	}
	return w
}

func has0xPrefix(str string) bool {
	return len(str) >= 2 && str[0] == '0' && (str[1] == 'x' || str[1] == 'X')
}

// CopyBytes returns an exact copy of the provided bytes.
func CopyBytes(b []byte) (copiedBytes []byte) {
	if b == nil {
		return nil
	}
	copiedBytes = make([]byte, len(b))
	copy(copiedBytes, b)
	return
}

// RightPadBytes zero-pads slice to the right up to length l.
func RightPadBytes(slice []byte, l int) []byte {
	if l <= len(slice) {
		return slice
	}
	padded := make([]byte, l)
	copy(padded, slice)
	return padded
}

// LeftPadBytes zero-pads slice to the left up to length l.
func LeftPadBytes(slice []byte, l int) []byte {
	if l <= len(slice) {
		return slice
	}
	padded := make([]byte, l)
	copy(padded[l-len(slice):], slice)
	return padded
}
