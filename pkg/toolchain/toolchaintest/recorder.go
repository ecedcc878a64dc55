// Package toolchaintest provides a scripted toolchain.Runner for tests.
package toolchaintest

import (
	"fmt"

	"genezio-rs/go/pkg/toolchain"
)

// Result is the scripted outcome of one matching invocation.
type Result struct {
	Stdout []byte
	Err    error
	// Hook runs before the result is returned, e.g. to drop files a real build would produce.
	Hook func(inv toolchain.Invocation)
}

// Recorder records every invocation in order and replays scripted results.
// Results are keyed by the invocation's String() form; unknown invocations succeed with no output.
type Recorder struct {
	Calls   []toolchain.Invocation
	Results map[string]Result
}

// New returns an empty Recorder.
func New() *Recorder {
	return &Recorder{Results: map[string]Result{}}
}

// On scripts the result for an exact command line.
func (r *Recorder) On(cmdline string, res Result) *Recorder {
	r.Results[cmdline] = res
	return r
}

// Fail scripts a failure for an exact command line.
func (r *Recorder) Fail(cmdline string) *Recorder {
	return r.On(cmdline, Result{Err: fmt.Errorf("%s: exit status 1", cmdline)})
}

func (r *Recorder) play(inv toolchain.Invocation) Result {
	r.Calls = append(r.Calls, inv)
	res := r.Results[inv.String()]
	if res.Hook != nil {
		res.Hook(inv)
	}
	return res
}

func (r *Recorder) Run(inv toolchain.Invocation) error {
	return r.play(inv).Err
}

func (r *Recorder) Output(inv toolchain.Invocation) ([]byte, error) {
	res := r.play(inv)
	if res.Err != nil {
		return nil, res.Err
	}
	return res.Stdout, nil
}

// Commands returns the recorded command lines in call order.
func (r *Recorder) Commands() []string {
	out := make([]string, 0, len(r.Calls))
	for _, c := range r.Calls {
		out = append(out, c.String())
	}
	return out
}

var _ toolchain.Runner = (*Recorder)(nil)
