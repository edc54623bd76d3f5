// Package sqlite provides a SQLite-backed content store for nationality and
// class records.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	sqlitemigrate "github.com/louisbranch/sheetkeeper/internal/platform/storage/sqlitemigrate"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/character"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/domain/rules"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/storage"
	"github.com/louisbranch/sheetkeeper/internal/services/sheet/storage/sqlite/migrations"
	_ "modernc.org/sqlite"
)

const (
	kindNationality = "nationality"
	kindClass       = "class"
)

// Store persists content records in SQLite.
type Store struct {
	sqlDB *sql.DB
}

var _ storage.ContentStore = (*Store)(nil)

// record is the shape shared by nationalities and classes.
type record struct {
	ID              string
	Name            string
	Characteristics []rules.CharacteristicModifier
	Skills          []rules.SkillBonus
}

// Open opens a SQLite content store and applies embedded migrations.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}
	cleanPath := filepath.Clean(path)
	dsn := cleanPath + "?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=5000&_synchronous=NORMAL"
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	if err := sqlDB.Ping(); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping sqlite db: %w", err)
	}
	if _, err := sqlitemigrate.ApplyMigrations(context.Background(), sqlDB, migrations.FS, ""); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return &Store{sqlDB: sqlDB}, nil
}

// Close closes the SQLite handle.
func (s *Store) Close() error {
	if s == nil || s.sqlDB == nil {
		return nil
	}
	return s.sqlDB.Close()
}

// LookupNationality returns one nationality by id or storage.ErrNotFound.
func (s *Store) LookupNationality(ctx context.Context, id string) (rules.Nationality, error) {
	rec, err := s.get(ctx, kindNationality, id)
	if err != nil {
		return rules.Nationality{}, err
	}
	return rules.Nationality{
		ID:                      rec.ID,
		Name:                    rec.Name,
		CharacteristicModifiers: rec.Characteristics,
		SkillBonuses:            rec.Skills,
	}, nil
}

// LookupClass returns one class by id or storage.ErrNotFound.
func (s *Store) LookupClass(ctx context.Context, id string) (rules.Class, error) {
	rec, err := s.get(ctx, kindClass, id)
	if err != nil {
		return rules.Class{}, err
	}
	return rules.Class{
		ID:                      rec.ID,
		Name:                    rec.Name,
		CharacteristicModifiers: rec.Characteristics,
		SkillBonuses:            rec.Skills,
	}, nil
}

// PutNationality inserts or replaces a nationality and its modifiers.
func (s *Store) PutNationality(ctx context.Context, nationality rules.Nationality) error {
	return s.put(ctx, kindNationality, record{
		ID:              nationality.ID,
		Name:            nationality.Name,
		Characteristics: nationality.CharacteristicModifiers,
		Skills:          nationality.SkillBonuses,
	})
}

// PutClass inserts or replaces a class and its modifiers.
func (s *Store) PutClass(ctx context.Context, class rules.Class) error {
	return s.put(ctx, kindClass, record{
		ID:              class.ID,
		Name:            class.Name,
		Characteristics: class.CharacteristicModifiers,
		Skills:          class.SkillBonuses,
	})
}

// ListNationalities returns every nationality ordered by id.
func (s *Store) ListNationalities(ctx context.Context) ([]rules.Nationality, error) {
	records, err := s.list(ctx, kindNationality)
	if err != nil {
		return nil, err
	}
	out := make([]rules.Nationality, 0, len(records))
	for _, rec := range records {
		out = append(out, rules.Nationality{
			ID:                      rec.ID,
			Name:                    rec.Name,
			CharacteristicModifiers: rec.Characteristics,
			SkillBonuses:            rec.Skills,
		})
	}
	return out, nil
}

// ListClasses returns every class ordered by id.
func (s *Store) ListClasses(ctx context.Context) ([]rules.Class, error) {
	records, err := s.list(ctx, kindClass)
	if err != nil {
		return nil, err
	}
	out := make([]rules.Class, 0, len(records))
	for _, rec := range records {
		out = append(out, rules.Class{
			ID:                      rec.ID,
			Name:                    rec.Name,
			CharacteristicModifiers: rec.Characteristics,
			SkillBonuses:            rec.Skills,
		})
	}
	return out, nil
}

func tableFor(kind string) string {
	if kind == kindClass {
		return "classes"
	}
	return "nationalities"
}

func (s *Store) ready(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.sqlDB == nil {
		return fmt.Errorf("storage is not configured")
	}
	return nil
}

func (s *Store) get(ctx context.Context, kind, id string) (record, error) {
	if err := s.ready(ctx); err != nil {
		return record{}, err
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return record{}, storage.ErrNotFound
	}

	rec := record{ID: id}
	err := s.sqlDB.QueryRowContext(ctx,
		"SELECT name FROM "+tableFor(kind)+" WHERE id = ?", id,
	).Scan(&rec.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return record{}, storage.ErrNotFound
	}
	if err != nil {
		return record{}, fmt.Errorf("get %s: %w", kind, err)
	}
	if err := s.loadModifiers(ctx, kind, &rec); err != nil {
		return record{}, err
	}
	return rec, nil
}

func (s *Store) list(ctx context.Context, kind string) ([]record, error) {
	if err := s.ready(ctx); err != nil {
		return nil, err
	}
	rows, err := s.sqlDB.QueryContext(ctx, "SELECT id, name FROM "+tableFor(kind)+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", kind, err)
	}
	var records []record
	for rows.Next() {
		var rec record
		if err := rows.Scan(&rec.ID, &rec.Name); err != nil {
			_ = rows.Close()
			return nil, fmt.Errorf("scan %s: %w", kind, err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, fmt.Errorf("iterate %s: %w", kind, err)
	}
	_ = rows.Close()

	for i := range records {
		if err := s.loadModifiers(ctx, kind, &records[i]); err != nil {
			return nil, err
		}
	}
	return records, nil
}

func (s *Store) loadModifiers(ctx context.Context, kind string, rec *record) error {
	rows, err := s.sqlDB.QueryContext(ctx,
		`SELECT characteristic, skill_category, skill_name, delta, exclusive
		 FROM content_modifiers
		 WHERE record_kind = ? AND record_id = ?
		 ORDER BY position`,
		kind, rec.ID,
	)
	if err != nil {
		return fmt.Errorf("load %s modifiers: %w", kind, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			characteristic string
			category       string
			name           string
			delta          int
			exclusive      bool
		)
		if err := rows.Scan(&characteristic, &category, &name, &delta, &exclusive); err != nil {
			return fmt.Errorf("scan %s modifier: %w", kind, err)
		}
		if characteristic != "" {
			key, err := character.ParseKey(characteristic)
			if err != nil {
				return fmt.Errorf("%s %q: %w", kind, rec.ID, err)
			}
			rec.Characteristics = append(rec.Characteristics, rules.CharacteristicModifier{
				Characteristic: key,
				Delta:          delta,
				Exclusive:      exclusive,
			})
			continue
		}
		rec.Skills = append(rec.Skills, rules.SkillBonus{
			Category:  category,
			Name:      name,
			Delta:     delta,
			Exclusive: exclusive,
		})
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate %s modifiers: %w", kind, err)
	}
	return nil
}

func (s *Store) put(ctx context.Context, kind string, rec record) error {
	return s.write(ctx, kind+" write", []kindRecord{{kind: kind, rec: rec}})
}

// PutCatalog writes every nationality and class in one transaction. Nothing
// is stored when any record is rejected.
func (s *Store) PutCatalog(ctx context.Context, nationalities []rules.Nationality, classes []rules.Class) error {
	batch := make([]kindRecord, 0, len(nationalities)+len(classes))
	for _, n := range nationalities {
		batch = append(batch, kindRecord{kind: kindNationality, rec: record{
			ID:              n.ID,
			Name:            n.Name,
			Characteristics: n.CharacteristicModifiers,
			Skills:          n.SkillBonuses,
		}})
	}
	for _, c := range classes {
		batch = append(batch, kindRecord{kind: kindClass, rec: record{
			ID:              c.ID,
			Name:            c.Name,
			Characteristics: c.CharacteristicModifiers,
			Skills:          c.SkillBonuses,
		}})
	}
	return s.write(ctx, "catalog write", batch)
}

type kindRecord struct {
	kind string
	rec  record
}

func (s *Store) write(ctx context.Context, op string, batch []kindRecord) error {
	if err := s.ready(ctx); err != nil {
		return err
	}
	for i := range batch {
		item := &batch[i]
		item.rec.ID = strings.TrimSpace(item.rec.ID)
		if item.rec.ID == "" {
			return fmt.Errorf("%s id is required", item.kind)
		}
		for _, cm := range item.rec.Characteristics {
			if err := character.ValidateKey(cm.Characteristic); err != nil {
				return fmt.Errorf("%s %s: %w", item.kind, item.rec.ID, err)
			}
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin %s: %w", op, err)
	}
	for _, item := range batch {
		if err := writeRecord(ctx, tx, item.kind, item.rec); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit %s: %w", op, err)
	}
	return nil
}

func writeRecord(ctx context.Context, tx *sql.Tx, kind string, rec record) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO `+tableFor(kind)+` (id, name, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name = excluded.name, updated_at = excluded.updated_at`,
		rec.ID,
		strings.TrimSpace(rec.Name),
		time.Now().UTC().UnixMilli(),
	); err != nil {
		return fmt.Errorf("upsert %s: %w", kind, err)
	}
	if _, err := tx.ExecContext(ctx,
		"DELETE FROM content_modifiers WHERE record_kind = ? AND record_id = ?",
		kind, rec.ID,
	); err != nil {
		return fmt.Errorf("clear %s modifiers: %w", kind, err)
	}

	const insert = `INSERT INTO content_modifiers (
		   record_kind, record_id, position, characteristic, skill_category, skill_name, delta, exclusive
		 ) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	position := 0
	for _, cm := range rec.Characteristics {
		if _, err := tx.ExecContext(ctx, insert,
			kind, rec.ID, position, cm.Characteristic.String(), "", "", cm.Delta, cm.Exclusive,
		); err != nil {
			return fmt.Errorf("insert %s modifier: %w", kind, err)
		}
		position++
	}
	for _, sb := range rec.Skills {
		if _, err := tx.ExecContext(ctx, insert,
			kind, rec.ID, position, "", strings.TrimSpace(sb.Category), strings.TrimSpace(sb.Name), sb.Delta, sb.Exclusive,
		); err != nil {
			return fmt.Errorf("insert %s modifier: %w", kind, err)
		}
		position++
	}
	return nil
}
