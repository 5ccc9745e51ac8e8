package main

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cory-johannsen/keeper/internal/game/character"
	"github.com/cory-johannsen/keeper/internal/game/combat"
	"github.com/cory-johannsen/keeper/internal/game/engine"
	"github.com/cory-johannsen/keeper/internal/game/inventory"
	"github.com/cory-johannsen/keeper/internal/game/rules"
	"github.com/cory-johannsen/keeper/internal/game/ruleset"
	"github.com/cory-johannsen/keeper/internal/storage/postgres"
)

var sheetCmd = &cobra.Command{
	Use:   "sheet",
	Short: "Manage stored investigator sheets",
}

var sheetCreateCmd = &cobra.Command{
	Use:   "create NAME",
	Short: "Create and store a new sheet",
	Long: `Creates a sheet from attribute values, catalog skills at their default
bases, explicit skill values and creation point allocations, then stores it.

  keeper sheet create "Harvey Walters" --attr STR=45,SIZ=65,DEX=50,EDU=85 \
      --base dodge,spot_hidden,firearms:Handgun --points "Spot Hidden=30" --cap 75`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := sheetFromFlags(cmd, args[0])
		if err != nil {
			return err
		}

		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		pool, err := postgres.NewPool(cmd.Context(), a.cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		created, err := postgres.NewSheetRepository(pool.DB()).Create(cmd.Context(), s)
		if err != nil {
			return err
		}
		return emit(cmd, created, func() string { return formatSheet(created) })
	},
}

var sheetShowCmd = &cobra.Command{
	Use:   "show NAME",
	Short: "Show a stored sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSheet(cmd, args[0], func(a *app, _ *postgres.SheetRepository, s *character.Sheet) error {
			return emit(cmd, s, func() string { return formatSheet(s) })
		})
	},
}

var sheetListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sheets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := newApp(cmd)
		if err != nil {
			return err
		}
		defer a.close()

		pool, err := postgres.NewPool(cmd.Context(), a.cfg.Database)
		if err != nil {
			return err
		}
		defer pool.Close()

		sheets, err := postgres.NewSheetRepository(pool.DB()).List(cmd.Context())
		if err != nil {
			return err
		}
		return emit(cmd, sheets, func() string {
			lines := make([]string, 0, len(sheets))
			for _, s := range sheets {
				lines = append(lines, fmt.Sprintf("%s  %s  %s", s.ID, s.Name, s.Occupation))
			}
			return strings.Join(lines, "\n")
		})
	},
}

var sheetCheckCmd = &cobra.Command{
	Use:   "check NAME SKILL",
	Short: "Roll a check against a stored sheet's skill or attribute",
	Long: `Rolls against SKILL on the sheet. SKILL may be a skill display name
("Spot Hidden") or an attribute code (DEX). A successful skill check marks
the skill for improvement when rules.mark_on_success is set.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		modeName, _ := cmd.Flags().GetString("mode")
		mode, err := rules.ParseMode(modeName)
		if err != nil {
			return err
		}
		return withSheet(cmd, args[0], func(a *app, repo *postgres.SheetRepository, s *character.Sheet) error {
			var res engine.SkillTestResult
			if attr, err := character.ParseAttribute(args[1]); err == nil {
				res = a.keeper.TestAttribute(s, attr, mode)
			} else {
				var ok bool
				res, ok = a.keeper.TestSkill(s, args[1], mode, a.keeper.Settings().MarkOnSuccess)
				if !ok {
					return fmt.Errorf("%w: %q on %s", engine.ErrSkillNotFound, args[1], s.Name)
				}
				if res.Marked {
					if err := repo.SaveSkills(cmd.Context(), s); err != nil {
						return err
					}
				}
			}
			return emit(cmd, res, func() string {
				line := fmt.Sprintf("%s %d (%s): rolled %d: %s", res.Name, res.Value, res.Mode, res.Roll, res.Success)
				if res.Marked {
					line += " (marked for improvement)"
				}
				return line
			})
		})
	},
}

var sheetDeleteCmd = &cobra.Command{
	Use:   "delete NAME",
	Short: "Delete a stored sheet",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withSheet(cmd, args[0], func(a *app, repo *postgres.SheetRepository, s *character.Sheet) error {
			if err := repo.Delete(cmd.Context(), s.ID); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted %s (%s)\n", s.Name, s.ID)
			return nil
		})
	},
}

func init() {
	f := sheetCreateCmd.Flags()
	f.StringToInt("attr", nil, "attribute values, e.g. STR=50,DEX=60")
	f.StringSlice("base", nil, "catalog skills at their default base, e.g. dodge,firearms:Handgun")
	f.StringToInt("skill", nil, "explicit skill values by display name")
	f.StringToInt("points", nil, "creation points to add per skill (catalog id or display name)")
	f.Int("cap", 0, "creation skill cap (0 = unbounded)")
	f.String("occupation", "", "occupation")
	f.Int("age", 0, "age")
	f.StringSlice("item", nil, "inventory items, NAME or NAME:QUANTITY")

	sheetCheckCmd.Flags().String("mode", "normal", "d100 mode: normal, advantage or disadvantage")

	sheetCmd.AddCommand(sheetCreateCmd, sheetShowCmd, sheetListCmd, sheetCheckCmd, sheetDeleteCmd)
	rootCmd.AddCommand(sheetCmd)
}

// withSheet opens the repository, loads the sheet named name, and runs fn.
func withSheet(cmd *cobra.Command, name string, fn func(a *app, repo *postgres.SheetRepository, s *character.Sheet) error) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	pool, err := postgres.NewPool(cmd.Context(), a.cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	repo := postgres.NewSheetRepository(pool.DB())
	s, err := repo.GetByName(cmd.Context(), name)
	if err != nil {
		return fmt.Errorf("sheet %q: %w", name, err)
	}
	return fn(a, repo, s)
}

// sheetAttack resolves an attack as the stored sheet sheetName, using the
// weapon's skill, and saves an improvement mark on a hit.
func (a *app) sheetAttack(cmd *cobra.Command, sheetName string, w *inventory.WeaponDef, opts combat.AttackOptions) (combat.AttackResult, error) {
	pool, err := postgres.NewPool(cmd.Context(), a.cfg.Database)
	if err != nil {
		return combat.AttackResult{}, err
	}
	defer pool.Close()

	repo := postgres.NewSheetRepository(pool.DB())
	s, err := repo.GetByName(cmd.Context(), sheetName)
	if err != nil {
		return combat.AttackResult{}, fmt.Errorf("sheet %q: %w", sheetName, err)
	}
	res, ok := a.keeper.PerformAttack(s, w, w.Skill, opts)
	if !ok {
		return res, fmt.Errorf("%w: %q on %s", engine.ErrSkillNotFound, w.Skill, s.Name)
	}
	if res.Hit() && a.keeper.Settings().MarkOnSuccess {
		if err := repo.SaveSkills(cmd.Context(), s); err != nil {
			return res, err
		}
	}
	return res, nil
}

// sheetFromFlags builds a new sheet named name from the create flags.
func sheetFromFlags(cmd *cobra.Command, name string) (*character.Sheet, error) {
	f := cmd.Flags()
	rawAttrs, _ := f.GetStringToInt("attr")
	attrs := make(map[character.Attribute]int, len(rawAttrs))
	var errs []error
	for code, v := range rawAttrs {
		a, err := character.ParseAttribute(code)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		attrs[a] = v
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}

	s, err := character.NewSheet(name, attrs)
	if err != nil {
		return nil, err
	}
	s.Occupation, _ = f.GetString("occupation")
	s.Age, _ = f.GetInt("age")
	if limit, _ := f.GetInt("cap"); limit > 0 {
		s.SetCreationSkillCap(&limit)
	}

	bases, _ := f.GetStringSlice("base")
	for _, id := range bases {
		t, err := parseSkillType(id)
		if err != nil {
			return nil, err
		}
		s.SetSkillType(t, nil)
	}

	explicit, _ := f.GetStringToInt("skill")
	for _, skillName := range sortedKeys(explicit) {
		v := explicit[skillName]
		s.SetSkill(character.Skill{Name: skillName, Value: v, Base: v})
	}

	points, _ := f.GetStringToInt("points")
	for _, key := range sortedKeys(points) {
		if t, err := parseSkillType(key); err == nil {
			s.AddToSkillType(t, points[key], nil)
		} else {
			s.AddToSkill(key, points[key], nil)
		}
	}

	items, _ := f.GetStringSlice("item")
	for _, raw := range items {
		item := inventory.NewItem(raw)
		if n, q, ok := strings.Cut(raw, ":"); ok {
			qty, err := strconv.Atoi(q)
			if err != nil {
				return nil, fmt.Errorf("item %q: bad quantity: %w", raw, err)
			}
			item = inventory.Item{Name: n, Quantity: qty}
		}
		s.Inventory.Add(item)
	}
	return s, nil
}

// parseSkillType parses "id" or "id:Specialization" into a catalog skill.
func parseSkillType(raw string) (ruleset.SkillType, error) {
	id, spec, _ := strings.Cut(strings.TrimSpace(raw), ":")
	t := ruleset.Skill(id)
	if spec != "" {
		t = ruleset.Specialized(id, spec)
	}
	if !t.Known() {
		return t, fmt.Errorf("unknown catalog skill %q", raw)
	}
	return t, nil
}

func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func formatSheet(s *character.Sheet) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s)", s.Name, s.ID)
	if s.Occupation != "" {
		fmt.Fprintf(&b, ", %s", s.Occupation)
	}
	if s.Age > 0 {
		fmt.Fprintf(&b, ", age %d", s.Age)
	}
	b.WriteString("\n")
	for _, a := range character.Attributes() {
		t := s.AttributeThresholds(a)
		fmt.Fprintf(&b, "  %s %3d %3d %3d\n", a.Code(), t.Value, t.Half, t.Fifth)
	}
	fmt.Fprintf(&b, "  Damage bonus %s, build %d\n", s.DamageBonusExpression(), s.Build())

	names := make([]string, 0, len(s.Skills))
	for n := range s.Skills {
		names = append(names, n)
	}
	sort.Strings(names)
	for _, n := range names {
		sk := s.Skills[n]
		t := sk.Thresholds()
		mark := " "
		if sk.MarkedForImprovement {
			mark = "*"
		}
		fmt.Fprintf(&b, "%s %-28s %3d %3d %3d\n", mark, sk.Name, t.Value, t.Half, t.Fifth)
	}
	for _, it := range s.Inventory.Items {
		fmt.Fprintf(&b, "  - %s x%d", it.Name, it.Quantity)
		if it.Notes != "" {
			fmt.Fprintf(&b, " (%s)", it.Notes)
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
