package evm

import (
	"github.com/entropyio/evmlite/common"
	"github.com/holiman/uint256"
	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// Log represents a contract log event, emitted by LOG0 to LOG4.
type Log struct {
	// address of the contract that generated the event, nil when the
	// executing address was unknown
	Address *common.Address
	// supplied by the contract, usually ABI-encoded
	Data []byte
	// list of topics provided by the contract, in stack order
	Topics []uint256.Int
}

type logMarshaling struct {
	Address string   `json:"address"`
	Data    string   `json:"data"`
	Topics  []string `json:"topics"`
}

// MarshalJSON renders data as unprefixed hex and topics as compact 0x words.
func (l *Log) MarshalJSON() ([]byte, error) {
	enc := logMarshaling{
		Data:   common.Bytes2Hex(l.Data),
		Topics: make([]string, len(l.Topics)),
	}
	if l.Address != nil {
		enc.Address = l.Address.Hex()
	}
	for i := range l.Topics {
		enc.Topics[i] = l.Topics[i].Hex()
	}
	return json.Marshal(&enc)
}

// UnmarshalJSON accepts the form produced by MarshalJSON.
func (l *Log) UnmarshalJSON(input []byte) error {
	var dec logMarshaling
	if err := json.Unmarshal(input, &dec); err != nil {
		return err
	}
	*l = Log{}
	if dec.Address != "" {
		addr := common.HexToAddress(dec.Address)
		l.Address = &addr
	}
	data, err := common.DecodeHex(dec.Data)
	if err != nil {
		return err
	}
	l.Data = data
	for _, topic := range dec.Topics {
		w, err := common.ParseWord(topic)
		if err != nil {
			return err
		}
		l.Topics = append(l.Topics, w)
	}
	return nil
}
