package evm

import (
	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/state"
	"github.com/holiman/uint256"
)

// Result is the outcome of one frame.
type Result struct {
	Success bool
	Err     error // reason the frame failed, nil on success

	Stack       []uint256.Int // final stack, top first
	Logs        []*Log        // newest first
	ReturnValue []byte

	// ReturnDataSize is the size of the frame's own RETURN or REVERT data when
	// it ran as a sub-call, otherwise the size reported by its last sub-call.
	ReturnDataSize uint64

	// Storage is the frame's storage after execution. It is only set for
	// DELEGATECALL frames, whose caller adopts it on success.
	Storage state.Storage
	// State is the global state, set when a non-delegate frame succeeded.
	State *state.StateDB
}

// Failed reports whether the frame ended in failure.
func (r *Result) Failed() bool { return !r.Success }

// Revert returns the concrete revert reason if the frame was reverted.
func (r *Result) Revert() []byte {
	if r.Err != ErrExecutionReverted {
		return nil
	}
	return r.ReturnValue
}

type resultMarshaling struct {
	Success bool     `json:"success"`
	Error   string   `json:"error,omitempty"`
	Stack   []string `json:"stack"`
	Logs    []*Log   `json:"logs"`
	Return  string   `json:"return"`
	Size    uint64   `json:"returnDataSize"`
}

// MarshalJSON renders the stack as compact 0x words and the return value as
// unprefixed hex.
func (r *Result) MarshalJSON() ([]byte, error) {
	enc := resultMarshaling{
		Success: r.Success,
		Stack:   make([]string, len(r.Stack)),
		Logs:    r.Logs,
		Return:  common.Bytes2Hex(r.ReturnValue),
		Size:    r.ReturnDataSize,
	}
	if enc.Logs == nil {
		enc.Logs = []*Log{}
	}
	if r.Err != nil {
		enc.Error = r.Err.Error()
	}
	for i := range r.Stack {
		enc.Stack[i] = r.Stack[i].Hex()
	}
	return json.Marshal(&enc)
}
