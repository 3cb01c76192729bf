package state

import (
	"sort"

	"github.com/entropyio/evmlite/common"
	"github.com/holiman/uint256"
)

// Storage maps a 256-bit key to a 256-bit value. A zero value is never held:
// writing zero deletes the key, so an absent key and a zero read alike.
type Storage map[common.Hash]uint256.Int

// Get returns the value stored under key, or zero.
func (s Storage) Get(key common.Hash) uint256.Int {
	return s[key]
}

// Set stores value under key, deleting the key when value is zero.
func (s Storage) Set(key common.Hash, value uint256.Int) {
	if value.IsZero() {
		delete(s, key)
		return
	}
	s[key] = value
}

// Copy returns an independent copy of s. A nil Storage copies to an empty one.
func (s Storage) Copy() Storage {
	cpy := make(Storage, len(s))
	for key, value := range s {
		cpy[key] = value
	}
	return cpy
}

// Keys returns the stored keys in ascending order.
func (s Storage) Keys() []common.Hash {
	keys := make([]common.Hash, 0, len(s))
	for key := range s {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		a, b := keys[i].Word(), keys[j].Word()
		return a.Lt(&b)
	})
	return keys
}

// Replace makes s hold exactly the entries of src.
func (s Storage) Replace(src Storage) {
	for key := range s {
		delete(s, key)
	}
	for key, value := range src {
		s.Set(key, value)
	}
}
