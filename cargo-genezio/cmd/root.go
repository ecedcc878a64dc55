package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"genezio-rs/go/pkg/config"
	"genezio-rs/go/pkg/logbowl"
	"genezio-rs/go/pkg/toolchain"
)

var (
	log    logbowl.Logger
	cfg    config.Config
	runner toolchain.Runner

	dotenvPath string
)

var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "cargo-genezio",
		Short:         "Build and deploy Rust apps to genezio.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			log = logbowl.CreateWithOutput("cargo-genezio", cmd.ErrOrStderr())
			loaded, err := config.Load(cmd.Context(), dotenvPath)
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}
			cfg = loaded
			if runner == nil {
				runner = toolchain.NewExecRunner()
			}
			log.Debug("config", "load", "success", "Configuration loaded", "target", cfg.TargetTriple, "linker", cfg.Linker)
			return nil
		},
	}
	root.PersistentFlags().StringVar(&dotenvPath, "env-file", ".env", "Optional dotenv file with GENEZIO_* settings.")

	root.AddCommand(newBuildCmd())
	root.AddCommand(newDeployCmd())
	root.AddCommand(newDoctorCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newVersionCmd())
	return root
}

// Execute runs the CLI and exits 1 on any error.
func Execute() {
	os.Exit(run(rootCmd, os.Args[1:], os.Stderr))
}

func run(root *cobra.Command, args []string, stderr io.Writer) int {
	// `cargo genezio build` invokes us as `cargo-genezio genezio build`.
	if len(args) > 0 && args[0] == "genezio" {
		args = args[1:]
	}
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		if log.Logger != nil {
			log.Debug("system", "stop", "error", "Failed to execute command", "error", err)
		}
		fmt.Fprintf(stderr, "error: %v\n", err)
		return 1
	}
	return 0
}
