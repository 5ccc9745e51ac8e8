package main

import (
	"github.com/spf13/cobra"
)

var rollCmd = &cobra.Command{
	Use:   "roll EXPR",
	Short: "Roll a dice expression",
	Long: `Evaluates a dice expression such as "2d6+4", "d%" or "(2d10kh1)*10+1d10"
and prints every kept die with the total.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		res, err := a.keeper.Roll(args[0])
		if err != nil {
			return err
		}
		return emit(cmd, res, res.String)
	},
}

func init() {
	rootCmd.AddCommand(rollCmd)
}
