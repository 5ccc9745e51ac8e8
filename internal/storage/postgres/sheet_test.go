package postgres_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"github.com/cory-johannsen/keeper/internal/game/character"
	"github.com/cory-johannsen/keeper/internal/game/inventory"
	"github.com/cory-johannsen/keeper/internal/storage/postgres"
	"github.com/cory-johannsen/keeper/internal/testutil"
)

func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, time.Now().UnixNano())
}

func makeTestSheet(t testing.TB, name string) *character.Sheet {
	t.Helper()
	s, err := character.NewSheet(name, map[character.Attribute]int{
		character.STR: 50, character.CON: 60, character.DEX: 55, character.APP: 45,
		character.POW: 70, character.SIZ: 65, character.INT: 80, character.EDU: 75,
	})
	require.NoError(t, err)
	s.Occupation = "Antiquarian"
	s.Age = 38
	limit := 75
	s.SetCreationSkillCap(&limit)
	s.SetSkill(character.Skill{Name: "Spot Hidden", Value: 60, Base: 25})
	s.SetSkill(character.Skill{Name: "Library Use", Value: 70, Base: 20})
	s.Inventory.Add(inventory.Item{Name: "Lantern", Quantity: 1})
	s.Inventory.Add(inventory.Item{Name: ".38 rounds", Quantity: 12, Notes: "boxed"})
	return s
}

func TestSheetRepository(t *testing.T) {
	repo := postgres.NewSheetRepository(testutil.NewPool(t))
	ctx := context.Background()

	t.Run("Create", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("harvey"))
		created, err := repo.Create(ctx, s)
		require.NoError(t, err)
		assert.Equal(t, s.ID, created.ID)
		assert.Equal(t, s.Name, created.Name)
		assert.Equal(t, 65, created.Attribute(character.SIZ))
		require.NotNil(t, created.CreationSkillCap)
		assert.Equal(t, 75, *created.CreationSkillCap)
		assert.False(t, created.CreatedAt.IsZero())
		assert.False(t, created.UpdatedAt.IsZero())
	})

	t.Run("Create assigns an ID when missing", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("noid"))
		s.ID = uuid.Nil
		created, err := repo.Create(ctx, s)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, created.ID)
	})

	t.Run("DuplicateName", func(t *testing.T) {
		name := uniqueName("dup")
		_, err := repo.Create(ctx, makeTestSheet(t, name))
		require.NoError(t, err)
		_, err = repo.Create(ctx, makeTestSheet(t, name))
		assert.ErrorIs(t, err, postgres.ErrSheetNameTaken)
	})

	t.Run("GetByID roundtrips skills and inventory", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("roundtrip"))
		s.MarkForImprovement("Spot Hidden")
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)

		got, err := repo.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Name, got.Name)
		assert.Equal(t, "Antiquarian", got.Occupation)
		assert.Equal(t, 38, got.Age)
		assert.Equal(t, s.Attributes, got.Attributes)
		assert.Equal(t, s.Skills, got.Skills)
		assert.Equal(t, s.Inventory.Items, got.Inventory.Items)
	})

	t.Run("GetByName", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("byname"))
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
		got, err := repo.GetByName(ctx, s.Name)
		require.NoError(t, err)
		assert.Equal(t, s.ID, got.ID)
	})

	t.Run("GetByID NotFound", func(t *testing.T) {
		_, err := repo.GetByID(ctx, uuid.New())
		assert.ErrorIs(t, err, postgres.ErrSheetNotFound)
	})

	t.Run("List includes created sheets", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("listed"))
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
		sheets, err := repo.List(ctx)
		require.NoError(t, err)
		var names []string
		for _, sh := range sheets {
			names = append(names, sh.Name)
		}
		assert.Contains(t, names, s.Name)
		assert.IsNonDecreasing(t, names)
	})

	t.Run("SaveSkills", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("improve"))
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)

		sk, _ := s.SkillNamed("Spot Hidden")
		sk.Value = 66
		sk.MarkedForImprovement = true
		s.SetSkill(sk)
		s.SetSkill(character.Skill{Name: "Occult", Value: 15, Base: 5})
		require.NoError(t, repo.SaveSkills(ctx, s))

		got, err := repo.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, 66, got.Skills["Spot Hidden"].Value)
		assert.True(t, got.Skills["Spot Hidden"].MarkedForImprovement)
		assert.Equal(t, 15, got.Skills["Occult"].Value)
		assert.Len(t, got.Skills, 3)
	})

	t.Run("SaveSkills NotFound", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("ghost"))
		assert.ErrorIs(t, repo.SaveSkills(ctx, s), postgres.ErrSheetNotFound)
	})

	t.Run("SaveInventory replaces items", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("pack"))
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)

		s.Inventory.RemoveAll("Lantern")
		s.Inventory.Add(inventory.NewItem("Crowbar"))
		require.NoError(t, repo.SaveInventory(ctx, s))

		got, err := repo.GetByID(ctx, s.ID)
		require.NoError(t, err)
		assert.Equal(t, s.Inventory.Items, got.Inventory.Items)
		assert.Equal(t, 0, got.Inventory.Count("Lantern"))
	})

	t.Run("Delete", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("doomed"))
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
		require.NoError(t, repo.Delete(ctx, s.ID))
		_, err = repo.GetByID(ctx, s.ID)
		assert.ErrorIs(t, err, postgres.ErrSheetNotFound)
		assert.ErrorIs(t, repo.Delete(ctx, s.ID), postgres.ErrSheetNotFound)
	})

	t.Run("Property_SaveSkillsPersists", func(t *testing.T) {
		s := makeTestSheet(t, uniqueName("prop"))
		_, err := repo.Create(ctx, s)
		require.NoError(t, err)
		rapid.Check(t, func(rt *rapid.T) {
			value := rapid.IntRange(0, 99).Draw(rt, "value")
			marked := rapid.Bool().Draw(rt, "marked")
			s.SetSkill(character.Skill{Name: "Spot Hidden", Value: value, Base: 25, MarkedForImprovement: marked})
			require.NoError(rt, repo.SaveSkills(ctx, s))
			got, err := repo.GetByID(ctx, s.ID)
			require.NoError(rt, err)
			assert.Equal(rt, value, got.Skills["Spot Hidden"].Value)
			assert.Equal(rt, marked, got.Skills["Spot Hidden"].MarkedForImprovement)
		})
	})
}
