// Package fixture loads named JSON test vectors and checks interpreter results
// against their expectations.
package fixture

import (
	"io"
	"os"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/evm"
	"github.com/entropyio/evmlite/logger"
	"github.com/entropyio/evmlite/state"
	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
)

var (
	log  = logger.NewLogger("[fixture]")
	json = jsoniter.ConfigCompatibleWithStandardLibrary
)

// Code is a program, with its assembly listing for reference.
type Code struct {
	Asm string `json:"asm,omitempty"`
	Bin string `json:"bin"`
}

// Tx holds the transaction fields of a vector. Every field is optional.
type Tx struct {
	To       string `json:"to,omitempty"`
	From     string `json:"from,omitempty"`
	Origin   string `json:"origin,omitempty"`
	GasPrice string `json:"gasprice,omitempty"`
	Value    string `json:"value,omitempty"`
	Data     string `json:"data,omitempty"`
	Nonce    string `json:"nonce,omitempty"`
}

// Block holds the block fields of a vector. Every field is optional.
type Block struct {
	BaseFee    string `json:"basefee,omitempty"`
	Coinbase   string `json:"coinbase,omitempty"`
	Timestamp  string `json:"timestamp,omitempty"`
	Number     string `json:"number,omitempty"`
	Difficulty string `json:"difficulty,omitempty"`
	GasLimit   string `json:"gaslimit,omitempty"`
	ChainID    string `json:"chainid,omitempty"`
}

// Account is the pre-state of one address.
type Account struct {
	Balance string `json:"balance,omitempty"`
	Code    *Code  `json:"code,omitempty"`
}

// Expect lists what a run must produce. Absent fields are not checked.
type Expect struct {
	Success bool       `json:"success"`
	Stack   *[]string  `json:"stack,omitempty"`
	Logs    *[]evm.Log `json:"logs,omitempty"`
	Return  *string    `json:"return,omitempty"`
}

// Vector is one named test case.
type Vector struct {
	Name   string             `json:"name"`
	Hint   string             `json:"hint,omitempty"`
	Code   Code               `json:"code"`
	Tx     *Tx                `json:"tx,omitempty"`
	Block  *Block             `json:"block,omitempty"`
	State  map[string]Account `json:"state,omitempty"`
	Expect Expect             `json:"expect"`
}

// Load reads a JSON array of vectors from file.
func Load(file string) ([]*Vector, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "open fixtures")
	}
	defer f.Close()

	vectors, err := Decode(f)
	if err != nil {
		return nil, errors.Wrapf(err, "fixtures %s", file)
	}
	log.Infof("loaded %d vectors from %s", len(vectors), file)
	return vectors, nil
}

// Decode reads a JSON array of vectors.
func Decode(r io.Reader) ([]*Vector, error) {
	var vectors []*Vector
	if err := json.NewDecoder(r).Decode(&vectors); err != nil {
		return nil, errors.Wrap(err, "decode fixtures")
	}
	return vectors, nil
}

func parseWord(field, s string) (*uint256.Int, error) {
	if s == "" {
		return nil, nil
	}
	w, err := common.ParseWord(s)
	if err != nil {
		return nil, errors.Wrapf(err, "field %s", field)
	}
	return &w, nil
}

func parseAddress(field, s string) (*common.Address, error) {
	w, err := parseWord(field, s)
	if w == nil || err != nil {
		return nil, err
	}
	addr := common.WordToAddress(w)
	return &addr, nil
}

// TxContext converts the transaction fields.
func (t *Tx) TxContext() (tx evm.TxContext, err error) {
	if t == nil {
		return tx, nil
	}
	if tx.To, err = parseAddress("to", t.To); err != nil {
		return tx, err
	}
	if tx.From, err = parseAddress("from", t.From); err != nil {
		return tx, err
	}
	if tx.Origin, err = parseAddress("origin", t.Origin); err != nil {
		return tx, err
	}
	if tx.GasPrice, err = parseWord("gasprice", t.GasPrice); err != nil {
		return tx, err
	}
	if tx.Value, err = parseWord("value", t.Value); err != nil {
		return tx, err
	}
	if tx.Data, err = common.DecodeHex(t.Data); err != nil {
		return tx, errors.Wrap(err, "field data")
	}
	if t.Nonce != "" {
		nonce, err := parseWord("nonce", t.Nonce)
		if err != nil {
			return tx, err
		}
		if !nonce.IsUint64() {
			return tx, errors.Errorf("nonce %s exceeds 64 bits", t.Nonce)
		}
		tx.Nonce = nonce.Uint64()
	}
	return tx, nil
}

// BlockContext converts the block fields.
func (b *Block) BlockContext() (block evm.BlockContext, err error) {
	if b == nil {
		return block, nil
	}
	for _, f := range []struct {
		name string
		src  string
		dst  **uint256.Int
	}{
		{"basefee", b.BaseFee, &block.BaseFee},
		{"timestamp", b.Timestamp, &block.Timestamp},
		{"number", b.Number, &block.Number},
		{"difficulty", b.Difficulty, &block.Difficulty},
		{"gaslimit", b.GasLimit, &block.GasLimit},
		{"chainid", b.ChainID, &block.ChainID},
	} {
		if *f.dst, err = parseWord(f.name, f.src); err != nil {
			return block, err
		}
	}
	block.Coinbase, err = parseAddress("coinbase", b.Coinbase)
	return block, err
}

// NewState builds the pre-state of a vector.
func NewState(accounts map[string]Account) (*state.StateDB, error) {
	db := state.New()
	for key, account := range accounts {
		addr, err := parseAddress("state", key)
		if err != nil {
			return nil, err
		}
		if addr == nil {
			return nil, errors.New("state: empty address")
		}
		acc := state.NewAccount()
		if balance, err := parseWord("balance", account.Balance); err != nil {
			return nil, errors.Wrapf(err, "account %s", key)
		} else if balance != nil {
			acc.Balance = *balance
		}
		if account.Code != nil {
			if acc.Code, err = common.DecodeHex(account.Code.Bin); err != nil {
				return nil, errors.Wrapf(err, "account %s code", key)
			}
		}
		db.SetAccount(*addr, acc)
	}
	return db, nil
}

// Prepare decodes everything a run of v needs.
func (v *Vector) Prepare() (code []byte, tx evm.TxContext, block evm.BlockContext, db *state.StateDB, err error) {
	if code, err = common.DecodeHex(v.Code.Bin); err != nil {
		return nil, tx, block, nil, errors.Wrap(err, "code")
	}
	if tx, err = v.Tx.TxContext(); err != nil {
		return nil, tx, block, nil, errors.Wrap(err, "tx")
	}
	if block, err = v.Block.BlockContext(); err != nil {
		return nil, tx, block, nil, errors.Wrap(err, "block")
	}
	if db, err = NewState(v.State); err != nil {
		return nil, tx, block, nil, err
	}
	return code, tx, block, db, nil
}
