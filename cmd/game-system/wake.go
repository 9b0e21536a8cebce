package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newWakeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "wake",
		Short: "Ping every service so cold instances start",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.newSession().Wake(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, o := range report.Outcomes {
				status := fmt.Sprintf("HTTP %d", o.StatusCode)
				if o.Err != nil {
					status = o.Err.Error()
				}
				mark := "ok"
				if !o.OK() {
					mark = "FAIL"
				}
				fmt.Fprintf(out, "%-4s %s (%s, %s)\n", mark, o.URL, status, o.Duration.Round(time.Millisecond))
			}
			fmt.Fprintf(out, "%d of %d services answered\n", len(report.Succeeded()), len(report.Outcomes))
			return nil
		},
	}
}
