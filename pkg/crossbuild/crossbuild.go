package crossbuild

import (
	"errors"
	"fmt"
	"path/filepath"

	"genezio-rs/go/pkg/logbowl"
	"genezio-rs/go/pkg/toolchain"
)

// ErrCompileFailed is returned for any clean or build failure.
var ErrCompileFailed = errors.New("failed to build with cargo")

// Profile selects optimization and whether the build cache is wiped first.
type Profile struct {
	Debug bool
	Clean bool
}

// Name is cargo's output directory name for the profile.
func (p Profile) Name() string {
	if p.Debug {
		return "debug"
	}
	return "release"
}

// Orchestrator drives cargo with a fixed cross-compilation parameter set.
type Orchestrator struct {
	Runner toolchain.Runner
	Cargo  string
	Params toolchain.Params
	Log    logbowl.Logger
}

// OutputDir is where cargo leaves the profile's binaries.
func (o Orchestrator) OutputDir(targetDir string, p Profile) string {
	return filepath.Join(targetDir, o.Params.TargetTriple, p.Name())
}

// BuildArgs is the cargo argument vector for p. Debug and release differ only in --release.
func (o Orchestrator) BuildArgs(p Profile) []string {
	args := []string{
		"build",
		"--target", o.Params.TargetTriple,
		"--config", o.Params.LinkerConfig(),
		"--config", o.Params.RustFlagsConfig(),
	}
	if !p.Debug {
		args = append(args, "--release")
	}
	return args
}

// Build optionally runs `cargo clean`, then cross-compiles. Neither step is retried.
//
// `cargo clean` removes the whole target directory, including other targets'
// caches and the staging directory.
func (o Orchestrator) Build(p Profile) error {
	if err := o.Params.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrCompileFailed, err)
	}

	if p.Clean {
		o.Log.Info("builder", "clean", "progress", "Cleaning cargo target directory...")
		if err := o.Runner.Run(toolchain.Invocation{Name: o.Cargo, Args: []string{"clean"}}); err != nil {
			o.Log.Debug("builder", "clean", "error", "cargo clean failed", "error", err)
			return fmt.Errorf("%w: clean: %v", ErrCompileFailed, err)
		}
	}

	o.Log.Info("builder", "build", "progress", "Compiling...", "target", o.Params.TargetTriple, "linker", o.Params.Linker, "profile", p.Name())
	if err := o.Runner.Run(toolchain.Invocation{Name: o.Cargo, Args: o.BuildArgs(p)}); err != nil {
		o.Log.Debug("builder", "build", "error", "cargo build failed", "error", err)
		return fmt.Errorf("%w: %v", ErrCompileFailed, err)
	}
	o.Log.Info("builder", "build", "success", "Compiled successfully", "profile", p.Name())
	return nil
}
