package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"genezio-rs/go/pkg/artifact"
	"genezio-rs/go/pkg/bundle"
	"genezio-rs/go/pkg/crossbuild"
	"genezio-rs/go/pkg/deploy"
	"genezio-rs/go/pkg/metadata"
	"genezio-rs/go/pkg/pipeline"
)

func newPipeline() pipeline.Pipeline {
	return pipeline.Pipeline{
		Metadata: metadata.Resolver{Runner: runner, Cargo: cfg.CargoBin},
		Compiler: crossbuild.Orchestrator{
			Runner: runner,
			Cargo:  cfg.CargoBin,
			Params: cfg.Params(),
			Log:    log,
		},
		Locator:        artifact.Locator{Pattern: cfg.ArtifactPattern},
		Deployer:       deploy.Invoker{Runner: runner, Genezio: cfg.GenezioBin, Log: log},
		ManifestFile:   cfg.ManifestFile,
		EntrypointFile: cfg.EntrypointFile,
		Log:            log,
	}
}

func addProfileFlags(cmd *cobra.Command, p *crossbuild.Profile) {
	cmd.Flags().BoolVarP(&p.Debug, "debug", "d", false, "Build in debug mode")
	cmd.Flags().BoolVarP(&p.Clean, "clean", "c", false, "Clean before building (runs `cargo clean`, wiping the whole target directory)")
}

func newBuildCmd() *cobra.Command {
	var (
		profile         crossbuild.Profile
		bundlePath      string
		excludePatterns []string
	)

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build the project",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newPipeline().Build(profile)
			if err != nil {
				return err
			}
			if bundlePath != "" {
				if err := writeBundle(res, bundlePath, excludePatterns); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Build finished: %s\n", res.StagingDir)
			return nil
		},
	}

	addProfileFlags(cmd, &profile)
	cmd.Flags().StringVar(&bundlePath, "bundle", "", "Also write the staging directory to this tar.zst file.")
	cmd.Flags().StringArrayVar(&excludePatterns, "exclude", []string{}, "Glob patterns to exclude from the bundle.")
	return cmd
}

func writeBundle(res pipeline.Result, outPath string, excludes []string) error {
	log.Info("archive", "pack", "progress", "Bundling staging directory...", "dir", res.StagingDir)
	data, idx, err := bundle.Create(res.StagingDir, bundle.Options{
		RunID:      res.RunID,
		Entrypoint: filepath.Base(res.Script),
		Exclude:    excludes,
		Log:        log,
	})
	if err != nil {
		return fmt.Errorf("bundle staging dir: %w", err)
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("write bundle: %w", err)
	}
	log.Info("archive", "pack", "success", "Bundle written", "path", outPath, "bytes", len(data), "files", len(idx.Files), "run", idx.RunID)
	return nil
}
