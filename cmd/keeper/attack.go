package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/keeper/internal/game/combat"
)

var attackCmd = &cobra.Command{
	Use:   "attack",
	Short: "Resolve one attack",
	Long: `Resolves an attack with a catalog weapon: situational modifiers set the
bonus or penalty die, range and cover set the minimum success tier, and hits
roll damage. With --sheet the attacker's skill and damage bonus come from a
stored sheet and a hit is saved as an improvement mark.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := attackOptions(cmd)
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		weaponID, _ := cmd.Flags().GetString("weapon")
		w := a.weapons.Weapon(weaponID)
		if w == nil {
			return fmt.Errorf("unknown weapon %q", weaponID)
		}

		var res combat.AttackResult
		if sheetName, _ := cmd.Flags().GetString("sheet"); sheetName != "" {
			res, err = a.sheetAttack(cmd, sheetName, w, opts)
			if err != nil {
				return err
			}
		} else {
			value, _ := cmd.Flags().GetInt("skill")
			bonus, _ := cmd.Flags().GetString("db")
			res = a.keeper.Attack(w, value, opts, combat.DamageBonusExpr(bonus))
		}
		return emit(cmd, res, func() string { return formatAttack(res) })
	},
}

func init() {
	f := attackCmd.Flags()
	f.String("weapon", "", "weapon ID from the catalog")
	f.Int("skill", 50, "attacker's skill value (ignored with --sheet)")
	f.String("sheet", "", "attack as this stored sheet using the weapon's skill")
	f.String("db", "", "damage bonus expression for {DB}, e.g. 1d4 or -1 (ignored with --sheet)")
	f.Int("range", 0, "range to the target in yards")
	f.String("cover", "none", "target cover: none, light, medium or hard")
	f.String("size", "normal", "target size: small, normal or large")
	f.Bool("aimed", false, "attacker spent a round aiming")
	f.Bool("braced", false, "attacker is braced")
	f.Bool("moving", false, "attacker is moving")
	_ = attackCmd.MarkFlagRequired("weapon")
	rootCmd.AddCommand(attackCmd)
}

func attackOptions(cmd *cobra.Command) (combat.AttackOptions, error) {
	f := cmd.Flags()
	var opts combat.AttackOptions
	var errs []error

	coverName, _ := f.GetString("cover")
	cover, err := combat.ParseCover(coverName)
	errs = append(errs, err)
	sizeName, _ := f.GetString("size")
	size, err := combat.ParseTargetSize(sizeName)
	errs = append(errs, err)
	if err := errors.Join(errs...); err != nil {
		return opts, err
	}

	opts.Cover = cover
	opts.TargetSize = size
	opts.Aimed, _ = f.GetBool("aimed")
	opts.Braced, _ = f.GetBool("braced")
	opts.Moving, _ = f.GetBool("moving")
	if f.Changed("range") {
		yards, _ := f.GetInt("range")
		if yards < 0 {
			return opts, fmt.Errorf("range must be >= 0; got %d", yards)
		}
		opts = opts.AtRange(yards)
	}
	return opts, nil
}

func formatAttack(r combat.AttackResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: rolled %d (%s, needs %s): %s", r.Weapon.Name, r.Test.Roll, r.Mode, r.Required, r.Test.Success)
	if r.Classified != r.Test.Success {
		fmt.Fprintf(&b, " (was %s)", r.Classified)
	}
	if r.Damage != nil {
		fmt.Fprintf(&b, "\ndamage %s = %d", r.Damage.Resolved, r.Damage.Value)
		if r.Impaled {
			b.WriteString(" (impaled)")
		}
	}
	if r.Malfunctioned {
		b.WriteString("\nweapon malfunctioned")
	}
	return b.String()
}
