package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/keeper/internal/game/character"
	"github.com/cory-johannsen/keeper/internal/storage/postgres"
)

var improveCmd = &cobra.Command{
	Use:   "improve NAME",
	Short: "Run improvement checks for a stored sheet's marked skills",
	Long: `Rolls one improvement check per marked skill, raises the skills that
improve, clears every mark and saves the sheet. The ceiling is --cap when
given, else rules.improvement_cap.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSheet(cmd, args[0], func(a *app, repo *postgres.SheetRepository, s *character.Sheet) error {
			var limit *int
			if cmd.Flags().Changed("cap") {
				v, _ := cmd.Flags().GetInt("cap")
				limit = &v
			}
			results := a.keeper.PerformImprovementChecks(s, limit)
			if err := repo.SaveSkills(cmd.Context(), s); err != nil {
				return err
			}
			return emit(cmd, results, func() string {
				if len(results) == 0 {
					return "no skills marked for improvement"
				}
				lines := make([]string, 0, len(results))
				for _, r := range results {
					switch {
					case r.CheckRoll == 0:
						lines = append(lines, fmt.Sprintf("%s: cannot improve", r.Name))
					case r.Improved:
						lines = append(lines, fmt.Sprintf("%s: rolled %d, +%d -> %d", r.Name, r.CheckRoll, r.Gained, r.After))
					default:
						lines = append(lines, fmt.Sprintf("%s: rolled %d, no change (%d)", r.Name, r.CheckRoll, r.After))
					}
				}
				return strings.Join(lines, "\n")
			})
		})
	},
}

func init() {
	improveCmd.Flags().Int("cap", 0, "ceiling for improved skills (default rules.improvement_cap)")
	rootCmd.AddCommand(improveCmd)
}
