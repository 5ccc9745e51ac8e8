package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/keeper/internal/game/rules"
)

// checkOutput is the printed outcome of a bare check.
type checkOutput struct {
	Value      int              `json:"value"`
	Mode       string           `json:"mode"`
	Thresholds rules.Thresholds `json:"thresholds"`
	rules.TestResult
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Roll a percentile check against a value",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		value, _ := cmd.Flags().GetInt("value")
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := rules.ParseMode(modeName)
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		out := checkOutput{
			Value:      value,
			Mode:       mode.String(),
			Thresholds: rules.NewThresholds(value),
			TestResult: a.keeper.Check(value, mode),
		}
		return emit(cmd, out, func() string {
			return fmt.Sprintf("rolled %d vs %d/%d/%d (%s): %s",
				out.Roll, out.Thresholds.Value, out.Thresholds.Half, out.Thresholds.Fifth, out.Mode, out.Success)
		})
	},
}

func init() {
	checkCmd.Flags().Int("value", 50, "skill or attribute value")
	checkCmd.Flags().String("mode", "normal", "d100 mode: normal, advantage (bonus) or disadvantage (penalty)")
	rootCmd.AddCommand(checkCmd)
}
