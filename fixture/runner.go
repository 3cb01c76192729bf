package fixture

import (
	"fmt"
	"strings"

	"github.com/entropyio/evmlite/common"
	"github.com/entropyio/evmlite/config"
	"github.com/entropyio/evmlite/evm"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// Mismatch lists the differences between a result and its expectation.
type Mismatch struct {
	Name  string
	Diffs []string
}

func (m *Mismatch) Error() string {
	return fmt.Sprintf("vector %q:\n%s", m.Name, strings.Join(m.Diffs, "\n"))
}

// Run executes v as a top-level frame over its own pre-state.
func (v *Vector) Run(cfg *config.Config) (*evm.Result, error) {
	code, tx, block, db, err := v.Prepare()
	if err != nil {
		return nil, errors.Wrapf(err, "vector %q", v.Name)
	}
	return evm.NewInterpreter(db, cfg).Execute(code, tx, block, false, false), nil
}

// Check compares res with the expectations of v. It returns a *Mismatch when
// they differ.
func (v *Vector) Check(res *evm.Result) error {
	var diffs []string
	if res.Success != v.Expect.Success {
		diffs = append(diffs, fmt.Sprintf("success: want %v, got %v (err: %v)", v.Expect.Success, res.Success, res.Err))
	}
	if v.Expect.Stack != nil {
		want := make([]uint256.Int, len(*v.Expect.Stack))
		for i, item := range *v.Expect.Stack {
			w, err := common.ParseWord(item)
			if err != nil {
				return errors.Wrapf(err, "vector %q: expected stack", v.Name)
			}
			want[i] = w
		}
		if diff := cmp.Diff(want, res.Stack, cmpopts.EquateEmpty()); diff != "" {
			diffs = append(diffs, "stack (-want +got):\n"+diff)
		}
	}
	if v.Expect.Logs != nil {
		got := make([]evm.Log, len(res.Logs))
		for i, l := range res.Logs {
			got[i] = *l
		}
		if diff := cmp.Diff(*v.Expect.Logs, got, cmpopts.EquateEmpty()); diff != "" {
			diffs = append(diffs, "logs (-want +got):\n"+diff)
		}
	}
	if v.Expect.Return != nil {
		want := strings.ToLower(strings.TrimPrefix(*v.Expect.Return, "0x"))
		if got := common.Bytes2Hex(res.ReturnValue); got != want {
			diffs = append(diffs, fmt.Sprintf("return: want %q, got %q", want, got))
		}
	}
	if len(diffs) > 0 {
		return &Mismatch{Name: v.Name, Diffs: diffs}
	}
	return nil
}

// Failure is a vector that did not pass.
type Failure struct {
	Name string
	Err  error
}

// Report summarises a batch run.
type Report struct {
	Total    int
	Failures []Failure
}

// Passed returns the number of vectors that passed.
func (r *Report) Passed() int {
	return r.Total - len(r.Failures)
}

// RunAll runs and checks every vector whose name contains filter.
func RunAll(vectors []*Vector, cfg *config.Config, filter string) *Report {
	report := new(Report)
	for _, v := range vectors {
		if filter != "" && !strings.Contains(v.Name, filter) {
			continue
		}
		report.Total++
		res, err := v.Run(cfg)
		if err == nil {
			err = v.Check(res)
		}
		if err != nil {
			log.Warningf("FAIL %s", v.Name)
			report.Failures = append(report.Failures, Failure{Name: v.Name, Err: err})
			continue
		}
		log.Debugf("PASS %s", v.Name)
	}
	return report
}
