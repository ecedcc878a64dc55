package toolchain

import (
	"fmt"
	"strings"
)

// Values the genezio host requires. Changing any of them produces binaries
// the platform cannot load.
const (
	DefaultTargetTriple = "aarch64-unknown-linux-musl"
	DefaultLinker       = "aarch64-linux-gnu-gcc"
	DefaultLambdaCfg    = "genezio_with_lambda"
)

// DefaultCodegenFlags are passed to rustc as `-C <flag>` pairs: a static C
// runtime and the compiler support library.
var DefaultCodegenFlags = []string{"target-feature=+crt-static", "link-arg=-lgcc"}

// Params is the cross-compilation configuration handed to the orchestrator.
type Params struct {
	TargetTriple string
	Linker       string
	CodegenFlags []string
	// Cfg selects the single-invocation code path of the app macro.
	Cfg string
}

// DefaultParams returns the host-compatible parameter set.
func DefaultParams() Params {
	return Params{
		TargetTriple: DefaultTargetTriple,
		Linker:       DefaultLinker,
		CodegenFlags: append([]string(nil), DefaultCodegenFlags...),
		Cfg:          DefaultLambdaCfg,
	}
}

// RustFlags returns the flat rustflags list, e.g. ["-C", "target-feature=+crt-static", ..., "--cfg", "genezio_with_lambda"].
func (p Params) RustFlags() []string {
	flags := make([]string, 0, 2*len(p.CodegenFlags)+2)
	for _, f := range p.CodegenFlags {
		flags = append(flags, "-C", f)
	}
	if p.Cfg != "" {
		flags = append(flags, "--cfg", p.Cfg)
	}
	return flags
}

// LinkerConfig is the `--config` value selecting the external linker.
func (p Params) LinkerConfig() string {
	return fmt.Sprintf("target.%s.linker='%s'", p.TargetTriple, p.Linker)
}

// RustFlagsConfig is the `--config` value carrying RustFlags as a TOML array.
func (p Params) RustFlagsConfig() string {
	quoted := make([]string, 0, len(p.RustFlags()))
	for _, f := range p.RustFlags() {
		quoted = append(quoted, fmt.Sprintf("%q", f))
	}
	return fmt.Sprintf("target.%s.rustflags=[ %s ]", p.TargetTriple, strings.Join(quoted, ", "))
}

// Validate rejects parameter sets that cannot form a cargo invocation.
func (p Params) Validate() error {
	if p.TargetTriple == "" {
		return fmt.Errorf("target triple is empty")
	}
	if p.Linker == "" {
		return fmt.Errorf("linker is empty")
	}
	return nil
}
