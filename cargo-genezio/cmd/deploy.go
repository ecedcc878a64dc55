package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"genezio-rs/go/pkg/crossbuild"
)

func newDeployCmd() *cobra.Command {
	var profile crossbuild.Profile

	cmd := &cobra.Command{
		Use:   "deploy",
		Short: "Deploy the project to genezio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := newPipeline().Deploy(profile)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Deploy finished")
			log.Debug("deploy", "finish", "complete", "Deployed staging directory", "dir", res.StagingDir)
			return nil
		},
	}

	addProfileFlags(cmd, &profile)
	return cmd
}
