package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/keeper/internal/game/inventory"
)

var weaponsCmd = &cobra.Command{
	Use:   "weapons",
	Short: "List the weapon catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		ws := a.weapons.AllWeapons()
		if era, _ := cmd.Flags().GetString("era"); era != "" {
			ws = a.weapons.ByEra(inventory.Era(era))
		}
		return emit(cmd, ws, func() string {
			var b strings.Builder
			for _, w := range ws {
				fmt.Fprintf(&b, "%-14s %-22s %-14s %s", w.ID, w.Name, w.Damage, w.Skill)
				if w.Impaling {
					b.WriteString(" [impale " + w.ImpaleDamage + "]")
				}
				if w.Range != nil {
					fmt.Fprintf(&b, " [%d/%d/%d yd]", w.Range.Short, w.Range.Medium, w.Range.Long)
				}
				b.WriteByte('\n')
			}
			return strings.TrimRight(b.String(), "\n")
		})
	},
}

func init() {
	weaponsCmd.Flags().String("era", "", "only list weapons of this era (classic1920s, pulp1940s)")
	rootCmd.AddCommand(weaponsCmd)
}
