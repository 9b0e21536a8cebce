package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ytget/game-system/internal/render"
	"github.com/ytget/game-system/internal/session"
)

// selection is one --game NAME=HOURS argument
type selection struct {
	Name  string
	Hours int
}

// parseSelection splits NAME=HOURS on the last '='; hours default to 0
func parseSelection(raw string) (selection, error) {
	name, hours := raw, "0"
	if i := strings.LastIndex(raw, "="); i >= 0 {
		name, hours = raw[:i], raw[i+1:]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return selection{}, fmt.Errorf("invalid --game %q: empty name", raw)
	}
	n, err := strconv.Atoi(strings.TrimSpace(hours))
	if err != nil || n < 0 {
		return selection{}, fmt.Errorf("invalid --game %q: hours must be a whole number >= 0", raw)
	}
	return selection{Name: name, Hours: n}, nil
}

func newRecommendCmd(a *app) *cobra.Command {
	var games []string

	cmd := &cobra.Command{
		Use:     "recommend",
		Short:   "Recommend games from the ones you played (Model 2)",
		Example: `  game-system recommend --game "Stardew Valley=40" --game "Hades=12"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(games) == 0 {
				return fmt.Errorf("at least one --game is required")
			}

			s := a.newSession()
			for i, raw := range games {
				sel, err := parseSelection(raw)
				if err != nil {
					return err
				}
				if i > 0 {
					if _, err := s.AddRow(); err != nil {
						return err
					}
				}
				if err := s.SetGame(i, sel.Name); err != nil {
					return fmt.Errorf("game %q: %w", sel.Name, err)
				}
				if err := s.SetHours(i, sel.Hours); err != nil {
					return fmt.Errorf("game %q: %w", sel.Name, err)
				}
			}

			if err := s.SubmitRecommendation(cmd.Context()); err != nil {
				return err
			}
			printRecommendations(cmd.OutOrStdout(), s.Snapshot())
			return nil
		},
	}
	cmd.Flags().StringArrayVarP(&games, "game", "g", nil, "game played as NAME=HOURS (repeatable)")
	return cmd
}

func printRecommendations(out io.Writer, snap session.Snapshot) {
	if len(snap.Recommendations) == 0 {
		fmt.Fprintln(out, "No recommendations returned")
		return
	}
	for i, rec := range snap.Recommendations {
		if i > 0 {
			fmt.Fprintln(out, "---")
		}
		printRecommendation(out, rec)
	}
}

func printRecommendation(out io.Writer, rec render.RecommendationView) {
	fmt.Fprintf(out, "%s (%s)\n", rec.Name, rec.GameID)
	fmt.Fprintf(out, "  Price: %s  Rating Ratio: %s\n", rec.Price, rec.RatingRatio)
	fmt.Fprintf(out, "  Genres: %s\n", rec.Genres)
	fmt.Fprintf(out, "  Tags: %s\n", rec.Tags)
}
