package toolchain

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Invocation describes one external tool call.
type Invocation struct {
	Name  string
	Args  []string
	Dir   string
	Quiet bool // discard the child's stdout/stderr
}

func (i Invocation) String() string {
	if len(i.Args) == 0 {
		return i.Name
	}
	return i.Name + " " + strings.Join(i.Args, " ")
}

// Runner spawns external tools and blocks until they exit.
// Implementations must report both spawn failures and nonzero exits as errors.
type Runner interface {
	Run(inv Invocation) error
	Output(inv Invocation) ([]byte, error)
}

// ExecRunner is the os/exec backed Runner.
type ExecRunner struct {
	Stdout io.Writer
	Stderr io.Writer
}

// NewExecRunner streams child output to the process's own stdio.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{Stdout: os.Stdout, Stderr: os.Stderr}
}

func (r *ExecRunner) command(inv Invocation) *exec.Cmd {
	cmd := exec.Command(inv.Name, inv.Args...)
	cmd.Dir = inv.Dir
	cmd.Stdin = os.Stdin
	if !inv.Quiet {
		cmd.Stdout = r.Stdout
		cmd.Stderr = r.Stderr
	}
	return cmd
}

// Run waits for the child and fails on spawn errors or a nonzero exit.
func (r *ExecRunner) Run(inv Invocation) error {
	if err := r.command(inv).Run(); err != nil {
		return fmt.Errorf("%s: %w", inv, err)
	}
	return nil
}

// Output captures the child's stdout. Stderr follows the Quiet setting and is
// also kept so a failure can report what the tool printed.
func (r *ExecRunner) Output(inv Invocation) ([]byte, error) {
	cmd := r.command(inv)
	cmd.Stdin = nil
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	if cmd.Stderr != nil {
		cmd.Stderr = io.MultiWriter(cmd.Stderr, &stderr)
	} else {
		cmd.Stderr = &stderr
	}
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", inv, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", inv, err)
	}
	return stdout.Bytes(), nil
}
