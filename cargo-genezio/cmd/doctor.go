package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"genezio-rs/go/pkg/doctor"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Verify all dependencies",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ok := color.New(color.FgGreen).SprintFunc()
			bad := color.New(color.FgRed, color.Bold).SprintFunc()

			fmt.Fprintln(out, "Running doctor")
			d := doctor.Doctor{
				Log: log,
				OnPass: func(name string) {
					fmt.Fprintf(out, "%s: %s\n", name, ok("ok"))
				},
			}
			if _, err := d.Run(doctor.DefaultChecks(runner, cfg)); err != nil {
				var ce *doctor.CheckError
				if errors.As(err, &ce) {
					fmt.Fprintf(out, "%s: %s\n", ce.Check, bad("missing"))
				}
				return err
			}
			fmt.Fprintln(out, ok("all checks passed"))
			return nil
		},
	}
}
