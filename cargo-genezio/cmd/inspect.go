package cmd

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"genezio-rs/go/pkg/launcher"
	"genezio-rs/go/pkg/metadata"
)

func newInspectCmd() *cobra.Command {
	var compareWith string

	cmd := &cobra.Command{
		Use:   "inspect [launcher-script]",
		Short: "Show the executable embedded in a generated launcher script",
		Long: `Decodes the payload of a generated launcher script and prints its size and sha256.
Without an argument the script in the current workspace's staging directory is used.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := scriptPath(args)
			if err != nil {
				return err
			}
			script, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("read launcher script: %w", err)
			}
			summary, err := launcher.Inspect(string(script))
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Launcher script: %s\n", path)
			fmt.Fprintf(out, "  Script Size: %d bytes\n", summary.ScriptSize)
			fmt.Fprintf(out, "  Payload Size: %d bytes\n", summary.PayloadSize)
			fmt.Fprintf(out, "  Payload SHA256: %s\n", summary.PayloadSHA256)

			if compareWith == "" {
				return nil
			}
			bin, err := os.ReadFile(compareWith)
			if err != nil {
				return fmt.Errorf("read executable: %w", err)
			}
			sum := sha256.Sum256(bin)
			if actual := hex.EncodeToString(sum[:]); actual != summary.PayloadSHA256 {
				log.Debug("inspect", "verify", "failure", "Payload does not match executable", "expected", actual, "embedded", summary.PayloadSHA256)
				return fmt.Errorf("payload does not match %s", compareWith)
			}
			log.Info("inspect", "verify", "success", "Payload matches executable", "path", compareWith)
			fmt.Fprintln(out, "  Matches:", compareWith)
			return nil
		},
	}

	cmd.Flags().StringVar(&compareWith, "compare", "", "Executable whose bytes the payload must equal.")
	return cmd
}

func scriptPath(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}
	ws, err := metadata.Resolver{Runner: runner, Cargo: cfg.CargoBin}.Resolve()
	if err != nil {
		return "", err
	}
	return filepath.Join(ws.StagingDir(), cfg.EntrypointFile), nil
}
