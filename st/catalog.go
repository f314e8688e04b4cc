package st

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/edix-io/Edix/core"
)

// StructureRow is one catalog entry: a structure name, its provisioned
// table and the schema document.
type StructureRow struct {
	Name       string
	TableName  string
	Definition []byte
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SaveStructure upserts a catalog entry, preserving created_at across
// re-registration.
func (s *Store) SaveStructure(name, tableName string, definition []byte) error {
	if err := s.ensureInitialized(); err != nil {
		return err
	}

	now := time.Now().UTC()
	createdAt := now

	var existing time.Time
	err := s.db.QueryRow(`SELECT created_at FROM edix_structures WHERE name = ?`, name).Scan(&existing)
	switch {
	case err == nil:
		createdAt = existing
	case !errors.Is(err, sql.ErrNoRows):
		return err
	}

	_, err = s.db.Exec(
		`INSERT OR REPLACE INTO edix_structures (name, table_name, definition, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		name, tableName, string(definition), createdAt, now,
	)
	return err
}

// GetStructure resolves a structure name to its catalog entry.
func (s *Store) GetStructure(name string) (*StructureRow, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	row := StructureRow{Name: name}
	var definition string
	err := s.db.QueryRow(
		`SELECT table_name, definition, created_at, updated_at FROM edix_structures WHERE name = ?`,
		name,
	).Scan(&row.TableName, &definition, &row.CreatedAt, &row.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", core.ErrStructureNotFound, name)
	}
	if err != nil {
		return nil, err
	}

	row.Definition = []byte(definition)
	return &row, nil
}

// ListStructures returns every catalog entry ordered by name.
func (s *Store) ListStructures() ([]StructureRow, error) {
	if err := s.ensureInitialized(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT name, table_name, definition, created_at, updated_at FROM edix_structures ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var structures []StructureRow
	for rows.Next() {
		var row StructureRow
		var definition string
		if err := rows.Scan(&row.Name, &row.TableName, &definition, &row.CreatedAt, &row.UpdatedAt); err != nil {
			return nil, err
		}
		row.Definition = []byte(definition)
		structures = append(structures, row)
	}
	return structures, rows.Err()
}

// DeleteStructure removes a catalog entry and drops its data table and
// id sequence.
func (s *Store) DeleteStructure(name string) error {
	row, err := s.GetStructure(name)
	if err != nil {
		return err
	}

	if _, err := s.db.Exec(fmt.Sprintf(`DROP TABLE IF EXISTS %s`, quoteIdent(row.TableName))); err != nil {
		return err
	}
	if _, err := s.db.Exec(fmt.Sprintf(`DROP SEQUENCE IF EXISTS %s`, quoteIdent(row.TableName+"_id_seq"))); err != nil {
		return err
	}
	_, err = s.db.Exec(`DELETE FROM edix_structures WHERE name = ?`, name)
	return err
}
