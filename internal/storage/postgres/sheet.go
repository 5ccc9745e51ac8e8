package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cory-johannsen/keeper/internal/game/character"
	"github.com/cory-johannsen/keeper/internal/game/inventory"
)

// ErrSheetNotFound is returned when a sheet lookup yields no results.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrSheetNameTaken is returned when creating a sheet with a name already in use.
var ErrSheetNameTaken = errors.New("sheet name already taken")

// SheetRepository provides investigator sheet persistence operations.
type SheetRepository struct {
	db *pgxpool.Pool
}

// NewSheetRepository creates a SheetRepository backed by the given pool.
//
// Precondition: db must be a valid, open connection pool.
func NewSheetRepository(db *pgxpool.Pool) *SheetRepository {
	return &SheetRepository{db: db}
}

const sheetColumns = `id, name, occupation, age, attributes, creation_skill_cap, created_at, updated_at`

// Create inserts s with its skills and inventory in one transaction.
//
// Precondition: s.Name must be non-empty; a zero s.ID is replaced with a new one.
// Postcondition: Returns the stored sheet with timestamps set, or ErrSheetNameTaken on duplicate.
func (r *SheetRepository) Create(ctx context.Context, s *character.Sheet) (*character.Sheet, error) {
	id := s.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	attrs := s.Attributes
	if attrs == nil {
		attrs = map[character.Attribute]int{}
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("beginning sheet insert: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	out := *s
	out.Attributes = nil
	err = tx.QueryRow(ctx, `
		INSERT INTO sheets (id, name, occupation, age, attributes, creation_skill_cap)
		VALUES ($1,$2,$3,$4,$5,$6)
		RETURNING `+sheetColumns,
		id, s.Name, s.Occupation, s.Age, attrs, s.CreationSkillCap,
	).Scan(
		&out.ID, &out.Name, &out.Occupation, &out.Age, &out.Attributes,
		&out.CreationSkillCap, &out.CreatedAt, &out.UpdatedAt,
	)
	if err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrSheetNameTaken
		}
		return nil, fmt.Errorf("inserting sheet: %w", err)
	}
	if err := upsertSkills(ctx, tx, out.ID, s.Skills); err != nil {
		return nil, err
	}
	if err := replaceItems(ctx, tx, out.ID, s.Inventory.Items); err != nil {
		return nil, err
	}
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("committing sheet insert: %w", err)
	}

	out.Skills = make(map[string]character.Skill, len(s.Skills))
	for k, v := range s.Skills {
		out.Skills[k] = v
	}
	out.Inventory = inventory.Inventory{Items: append([]inventory.Item(nil), s.Inventory.Items...)}
	return &out, nil
}

// GetByID retrieves a sheet with its skills and inventory.
//
// Postcondition: Returns the Sheet or ErrSheetNotFound.
func (r *SheetRepository) GetByID(ctx context.Context, id uuid.UUID) (*character.Sheet, error) {
	return r.get(ctx, `SELECT `+sheetColumns+` FROM sheets WHERE id = $1`, id)
}

// GetByName retrieves a sheet by its unique name.
//
// Postcondition: Returns the Sheet or ErrSheetNotFound.
func (r *SheetRepository) GetByName(ctx context.Context, name string) (*character.Sheet, error) {
	return r.get(ctx, `SELECT `+sheetColumns+` FROM sheets WHERE name = $1`, name)
}

func (r *SheetRepository) get(ctx context.Context, query string, arg any) (*character.Sheet, error) {
	var s character.Sheet
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&s.ID, &s.Name, &s.Occupation, &s.Age, &s.Attributes,
		&s.CreationSkillCap, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrSheetNotFound
		}
		return nil, fmt.Errorf("querying sheet: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT name, value, base, marked FROM sheet_skills
		WHERE sheet_id = $1 ORDER BY name`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("querying sheet skills: %w", err)
	}
	skills, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (character.Skill, error) {
		var sk character.Skill
		err := row.Scan(&sk.Name, &sk.Value, &sk.Base, &sk.MarkedForImprovement)
		return sk, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning sheet skills: %w", err)
	}
	s.Skills = make(map[string]character.Skill, len(skills))
	for _, sk := range skills {
		s.Skills[sk.Name] = sk
	}

	rows, err = r.db.Query(ctx, `
		SELECT name, quantity, notes FROM sheet_items
		WHERE sheet_id = $1 ORDER BY position`, s.ID)
	if err != nil {
		return nil, fmt.Errorf("querying sheet items: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByPos[inventory.Item])
	if err != nil {
		return nil, fmt.Errorf("scanning sheet items: %w", err)
	}
	s.Inventory.Items = items
	return &s, nil
}

// List returns every sheet's ID and name, ordered by name.
func (r *SheetRepository) List(ctx context.Context) ([]character.Sheet, error) {
	rows, err := r.db.Query(ctx, `SELECT id, name, occupation FROM sheets ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("listing sheets: %w", err)
	}
	sheets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (character.Sheet, error) {
		var s character.Sheet
		err := row.Scan(&s.ID, &s.Name, &s.Occupation)
		return s, err
	})
	if err != nil {
		return nil, fmt.Errorf("scanning sheet row: %w", err)
	}
	return sheets, nil
}

// SaveSkills persists the value, base and improvement flag of every skill on s.
//
// Precondition: s.ID must reference an existing sheet.
// Postcondition: Returns nil on success, ErrSheetNotFound if no sheet matches.
func (r *SheetRepository) SaveSkills(ctx context.Context, s *character.Sheet) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning skill save: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `UPDATE sheets SET updated_at = NOW() WHERE id = $1`, s.ID)
	if err != nil {
		return fmt.Errorf("touching sheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetNotFound
	}
	if err := upsertSkills(ctx, tx, s.ID, s.Skills); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing skill save: %w", err)
	}
	return nil
}

// SaveInventory replaces the stored inventory of s.
//
// Postcondition: Returns nil on success, ErrSheetNotFound if no sheet matches.
func (r *SheetRepository) SaveInventory(ctx context.Context, s *character.Sheet) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning inventory save: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	tag, err := tx.Exec(ctx, `UPDATE sheets SET updated_at = NOW() WHERE id = $1`, s.ID)
	if err != nil {
		return fmt.Errorf("touching sheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetNotFound
	}
	if err := replaceItems(ctx, tx, s.ID, s.Inventory.Items); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing inventory save: %w", err)
	}
	return nil
}

// Delete removes a sheet with its skills and items.
//
// Postcondition: Returns nil on success, ErrSheetNotFound if no sheet matches.
func (r *SheetRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM sheets WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("deleting sheet: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrSheetNotFound
	}
	return nil
}

func upsertSkills(ctx context.Context, tx pgx.Tx, id uuid.UUID, skills map[string]character.Skill) error {
	if len(skills) == 0 {
		return nil
	}
	batch := &pgx.Batch{}
	for key, sk := range skills {
		batch.Queue(`
			INSERT INTO sheet_skills (sheet_id, name, value, base, marked)
			VALUES ($1,$2,$3,$4,$5)
			ON CONFLICT (sheet_id, name) DO UPDATE
			SET value = EXCLUDED.value, base = EXCLUDED.base, marked = EXCLUDED.marked`,
			id, key, sk.Value, sk.Base, sk.MarkedForImprovement,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving sheet skills: %w", err)
	}
	return nil
}

func replaceItems(ctx context.Context, tx pgx.Tx, id uuid.UUID, items []inventory.Item) error {
	batch := &pgx.Batch{}
	batch.Queue(`DELETE FROM sheet_items WHERE sheet_id = $1`, id)
	for i, it := range items {
		batch.Queue(`
			INSERT INTO sheet_items (sheet_id, position, name, quantity, notes)
			VALUES ($1,$2,$3,$4,$5)`,
			id, i, it.Name, it.Quantity, it.Notes,
		)
	}
	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("saving sheet items: %w", err)
	}
	return nil
}
