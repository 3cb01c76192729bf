package config

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/holiman/uint256"
	"github.com/naoina/toml"
	"github.com/pkg/errors"
)

const (
	// StaticCallScan refuses a STATICCALL whose target code contains the SSTORE byte.
	StaticCallScan = "scan"
	// StaticCallStrict runs the target read-only and fails any state mutation it attempts.
	StaticCallStrict = "strict"

	// DefaultMaxMemory bounds a single frame's memory. Without gas nothing else does.
	DefaultMaxMemory = 32 * 1024 * 1024
)

// UnlimitedGas is the value GAS reports; no gas is ever deducted.
var UnlimitedGas = func() uint256.Int {
	var w uint256.Int
	w.SetAllOne()
	return w
}()

var (
	// Default keeps behavioural parity with the reference fixtures.
	Default = Config{
		StaticCall:    StaticCallScan,
		PropagateLogs: false,
		JumpiNonZero:  false,
		MaxMemory:     DefaultMaxMemory,
		LogLevel:      "WARNING",
	}

	// Strict resolves the open behaviours the way a mainnet client would.
	Strict = Config{
		StaticCall:    StaticCallStrict,
		PropagateLogs: true,
		JumpiNonZero:  true,
		MaxMemory:     DefaultMaxMemory,
		LogLevel:      "WARNING",
	}
)

// StaticCallNames are user friendly descriptions used in the config banner.
var StaticCallNames = map[string]string{
	StaticCallScan:   "bytecode scan for SSTORE",
	StaticCallStrict: "read-only frames",
}

// Config is the interpreter configuration. It is loaded from TOML by the
// command line front end and handed to every top-level invocation.
type Config struct {
	StaticCall    string `toml:",omitempty"` // scan | strict
	PropagateLogs bool   // merge logs of successful sub-calls into the caller
	JumpiNonZero  bool   // JUMPI jumps on any non-zero condition instead of exactly 1
	MaxMemory     uint64 `toml:",omitempty"` // per-frame memory cap in bytes, 0 = DefaultMaxMemory
	LogLevel      string `toml:",omitempty"`
}

// String implements the fmt.Stringer interface.
func (c *Config) String() string {
	var banner string

	mode := StaticCallNames[c.StaticCall]
	if mode == "" {
		mode = "unknown"
	}
	banner += fmt.Sprintf("STATICCALL:     %v (%s)\n", c.StaticCall, mode)
	banner += fmt.Sprintf("Child logs:     %s\n", map[bool]string{true: "merged into caller", false: "kept per frame"}[c.PropagateLogs])
	banner += fmt.Sprintf("JUMPI:          %s\n", map[bool]string{true: "any non-zero condition", false: "condition == 1"}[c.JumpiNonZero])
	banner += fmt.Sprintf("Memory limit:   %d bytes\n", c.memoryLimit())
	banner += fmt.Sprintf("Gas:            unlimited (%s)\n", UnlimitedGas.Hex())
	return banner
}

// Validate checks that every field holds a value the interpreter understands.
func (c *Config) Validate() error {
	for _, check := range []struct {
		name  string
		value string
		known map[string]string
	}{
		{name: "StaticCall", value: c.StaticCall, known: StaticCallNames},
	} {
		if _, ok := check.known[check.value]; !ok {
			return fmt.Errorf("unsupported %v value %q", check.name, check.value)
		}
	}
	return nil
}

func (c *Config) memoryLimit() uint64 {
	if c.MaxMemory == 0 {
		return DefaultMaxMemory
	}
	return c.MaxMemory
}

// Rules is the flattened form of Config the interpreter consults on its hot
// path. It is resolved once per top-level invocation.
type Rules struct {
	StrictStatic  bool
	PropagateLogs bool
	JumpiNonZero  bool
	MaxMemory     uint64
}

// Rules resolves c. A nil config resolves to Default.
func (c *Config) Rules() Rules {
	if c == nil {
		c = &Default
	}
	return Rules{
		StrictStatic:  c.StaticCall == StaticCallStrict,
		PropagateLogs: c.PropagateLogs,
		JumpiNonZero:  c.JumpiNonZero,
		MaxMemory:     c.memoryLimit(),
	}
}

// Load reads a TOML configuration file on top of Default.
func Load(file string) (*Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, errors.Wrap(err, "open config")
	}
	defer f.Close()

	cfg := Default
	if err := toml.NewDecoder(bufio.NewReader(f)).Decode(&cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", file)
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrapf(err, "config %s", file)
	}
	return &cfg, nil
}

// Write encodes cfg as TOML.
func Write(w io.Writer, cfg *Config) error {
	out, err := toml.Marshal(cfg)
	if err != nil {
		return errors.Wrap(err, "encode config")
	}
	_, err = w.Write(out)
	return err
}
