package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ytget/game-system/internal/render"
)

func newPredictCmd(a *app) *cobra.Command {
	var date string

	cmd := &cobra.Command{
		Use:     "predict",
		Short:   "Predict the player count for a date (Model 1)",
		Example: `  game-system predict --date 2025-04-15`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day := time.Now()
			if date != "" {
				parsed, err := time.Parse(render.DateLayout, date)
				if err != nil {
					return fmt.Errorf("invalid --date %q, want YYYY-MM-DD", date)
				}
				day = parsed
			}

			s := a.newSession()
			if err := s.SubmitPrediction(cmd.Context(), day); err != nil {
				return err
			}

			p := s.Snapshot().Prediction
			fmt.Fprintf(cmd.OutOrStdout(), "Predicted player count for %s (%s): %s\n", p.Date, p.LongDate, p.Count)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "date as YYYY-MM-DD (default today)")
	return cmd
}
