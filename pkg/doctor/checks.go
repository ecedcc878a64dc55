package doctor

import (
	"fmt"

	"genezio-rs/go/pkg/config"
	"genezio-rs/go/pkg/toolchain"
)

const (
	helpOS      = "use a Linux or macOS machine (or WSL on Windows)"
	helpRustup  = "make sure you have rustup installed: https://rustup.rs/"
	helpCargo   = "make sure you have rust and cargo installed (using rustup): https://rustup.rs/"
	helpLinker  = "make sure you have the toolchain installed. more help here: https://github.com/laurci/genezio-rs"
	helpGenezio = "make sure you have genezio installed: https://genez.io/"
)

// Check names, in the order DefaultChecks runs them.
const (
	CheckOS      = "os"
	CheckRustup  = "rustup"
	CheckCargo   = "cargo"
	CheckTarget  = "target"
	CheckLinker  = "toolchain"
	CheckGenezio = "genezio"
)

// DefaultChecks is the shipped ordering: OS, rustup, cargo, the cross target,
// the cross linker, then the genezio CLI.
func DefaultChecks(runner toolchain.Runner, cfg config.Config) []Check {
	params := cfg.Params()
	version := []string{"--version"}

	return []Check{
		{
			Name:        CheckOS,
			Probe:       OSFamily{Supported: []string{"linux", "darwin"}},
			Problem:     "only Linux and MacOS are supported",
			Remediation: helpOS,
		},
		{
			Name:        CheckRustup,
			Probe:       CommandSucceeds{Runner: runner, Name: cfg.RustupBin, Args: version},
			Problem:     "rustup not found",
			Remediation: helpRustup,
		},
		{
			Name:        CheckCargo,
			Probe:       CommandSucceeds{Runner: runner, Name: cfg.CargoBin, Args: version},
			Problem:     "cargo not found",
			Remediation: helpCargo,
		},
		{
			Name: CheckTarget + " " + params.TargetTriple,
			Probe: OutputContainsLine{
				Runner: runner,
				Name:   cfg.RustupBin,
				Args:   []string{"target", "list", "--installed"},
				Line:   params.TargetTriple,
			},
			Problem:     params.TargetTriple + " target not found",
			Remediation: fmt.Sprintf("make sure you have the target available. install it with: `rustup target add %s`", params.TargetTriple),
		},
		{
			Name:        CheckLinker + " " + params.Linker,
			Probe:       CommandSucceeds{Runner: runner, Name: params.Linker, Args: version},
			Problem:     params.Linker + " toolchain not found",
			Remediation: helpLinker,
		},
		{
			Name:        CheckGenezio,
			Probe:       CommandSucceeds{Runner: runner, Name: cfg.GenezioBin, Args: version},
			Problem:     "genezio not found",
			Remediation: helpGenezio,
		},
	}
}
