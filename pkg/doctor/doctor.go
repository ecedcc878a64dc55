// Package doctor verifies that the cross-compilation toolchain and the
// genezio CLI are installed.
//
// Checks run strictly in order and stop at the first failure: each check
// presupposes the ones before it (listing rustup targets needs rustup).
package doctor

import (
	"errors"
	"fmt"
	"runtime"
	"strings"

	"genezio-rs/go/pkg/logbowl"
	"genezio-rs/go/pkg/toolchain"
)

// ErrCheckFailed is matched by every *CheckError.
var ErrCheckFailed = errors.New("doctor check failed")

// Probe tests one capability of the environment.
type Probe interface {
	Probe() error
}

// ProbeFunc adapts a function to Probe.
type ProbeFunc func() error

func (f ProbeFunc) Probe() error { return f() }

// Check is one named probe plus the advice shown when it fails.
type Check struct {
	Name        string
	Probe       Probe
	Problem     string
	Remediation string
}

// CheckError reports the first failed check.
type CheckError struct {
	Check string
	// Problem is the short description, e.g. "rustup not found".
	Problem     string
	Remediation string
	Cause       error
}

func (e *CheckError) Error() string {
	msg := e.Problem
	if msg == "" {
		msg = e.Check + " check failed"
	}
	if e.Remediation != "" {
		msg += ". HELP: " + e.Remediation
	}
	return msg
}

func (e *CheckError) Unwrap() error { return e.Cause }

func (e *CheckError) Is(target error) bool { return target == ErrCheckFailed }

// Report lists the checks that passed, in order.
type Report struct {
	Passed []string
}

// Doctor runs checks and logs each pass.
type Doctor struct {
	Log logbowl.Logger
	// OnPass is called after each passing check, e.g. to print "cargo: ok".
	OnPass func(name string)
}

// Run evaluates checks in order. Later probes are never invoked once one fails.
func (d Doctor) Run(checks []Check) (Report, error) {
	var report Report
	for _, c := range checks {
		d.Log.Debug("doctor", "probe", "progress", "Running check", "check", c.Name)
		if err := c.Probe.Probe(); err != nil {
			d.Log.Debug("doctor", "probe", "failure", "Check failed", "check", c.Name, "error", err)
			return report, &CheckError{Check: c.Name, Problem: c.Problem, Remediation: c.Remediation, Cause: err}
		}
		report.Passed = append(report.Passed, c.Name)
		d.Log.Debug("doctor", "probe", "ok", "Check passed", "check", c.Name)
		if d.OnPass != nil {
			d.OnPass(c.Name)
		}
	}
	return report, nil
}

// OSFamily passes on the operating systems the toolchain supports.
type OSFamily struct {
	GOOS      string
	Supported []string
}

func (p OSFamily) Probe() error {
	goos := p.GOOS
	if goos == "" {
		goos = runtime.GOOS
	}
	for _, s := range p.Supported {
		if goos == s {
			return nil
		}
	}
	return fmt.Errorf("unsupported operating system %q", goos)
}

// CommandSucceeds passes when the command exits zero. Output is discarded.
type CommandSucceeds struct {
	Runner toolchain.Runner
	Name   string
	Args   []string
}

func (p CommandSucceeds) Probe() error {
	return p.Runner.Run(toolchain.Invocation{Name: p.Name, Args: p.Args, Quiet: true})
}

// OutputContainsLine passes when one line of the command's stdout equals Line exactly.
type OutputContainsLine struct {
	Runner toolchain.Runner
	Name   string
	Args   []string
	Line   string
}

func (p OutputContainsLine) Probe() error {
	out, err := p.Runner.Output(toolchain.Invocation{Name: p.Name, Args: p.Args, Quiet: true})
	if err != nil {
		return err
	}
	for _, line := range strings.Split(string(out), "\n") {
		if strings.TrimRight(line, "\r") == p.Line {
			return nil
		}
	}
	return fmt.Errorf("%q not listed by %s", p.Line, toolchain.Invocation{Name: p.Name, Args: p.Args})
}
