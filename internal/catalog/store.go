package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// Store is the sqlite-backed relational store.
// The sync engine reads it but never writes catalog rows on its own.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS variables (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	variable_type        TEXT NOT NULL,
	parameter_id         TEXT NOT NULL DEFAULT '',
	group_parameter      TEXT NOT NULL DEFAULT '',
	variable_code        TEXT NOT NULL UNIQUE,
	variable_name        TEXT NOT NULL,
	des_var_eng          TEXT NOT NULL DEFAULT '',
	variable_description TEXT NOT NULL DEFAULT '',
	customer_loan_level  TEXT NOT NULL DEFAULT '',
	group_level_1        TEXT NOT NULL DEFAULT '',
	group_level_2        TEXT NOT NULL DEFAULT '',
	created_at           TIMESTAMP NOT NULL,
	updated_at           TIMESTAMP NOT NULL
);

CREATE TABLE IF NOT EXISTS documents (
	id            TEXT PRIMARY KEY,
	filename      TEXT NOT NULL,
	document_type TEXT NOT NULL,
	content       TEXT NOT NULL,
	file_size     INTEGER NOT NULL,
	created_at    TIMESTAMP NOT NULL
);
`

// OpenStore opens (and if necessary initializes) the sqlite database at path.
// Use ":memory:" for tests.
func OpenStore(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

const variableColumns = `id, variable_type, parameter_id, group_parameter, variable_code,
	variable_name, des_var_eng, variable_description, customer_loan_level,
	group_level_1, group_level_2, created_at, updated_at`

// ListVariables returns all catalog variables in arbitrary order.
func (s *Store) ListVariables(ctx context.Context) ([]*VariableRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+variableColumns+` FROM variables`)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}
	defer rows.Close()

	var records []*VariableRecord
	for rows.Next() {
		record, err := scanVariable(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// GetVariable returns a single variable by primary key.
func (s *Store) GetVariable(ctx context.Context, id int64) (*VariableRecord, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+variableColumns+` FROM variables WHERE id = ?`, id)
	record, err := scanVariable(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrVariableNotFound
	}
	return record, err
}

// InsertVariable adds a variable row and returns its assigned id.
func (s *Store) InsertVariable(ctx context.Context, v *VariableRecord) (int64, error) {
	now := time.Now().UTC()
	result, err := s.db.ExecContext(ctx, `
		INSERT INTO variables (
			variable_type, parameter_id, group_parameter, variable_code,
			variable_name, des_var_eng, variable_description, customer_loan_level,
			group_level_1, group_level_2, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		v.VariableType, v.ParameterID, v.GroupParameter, v.VariableCode,
		v.VariableName, v.DesVarEng, v.VariableDescription, v.CustomerLoanLevel,
		v.GroupLevel1, v.GroupLevel2, now, now,
	)
	if err != nil {
		return 0, fmt.Errorf("insert variable %s: %w", v.VariableCode, err)
	}
	return result.LastInsertId()
}

// InsertDocument adds a document record with its extracted text.
func (s *Store) InsertDocument(ctx context.Context, d *DocumentRecord) error {
	createdAt := d.CreatedAt
	if createdAt.IsZero() {
		createdAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, filename, document_type, content, file_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		d.ID, d.Filename, d.DocumentType, d.Content, d.FileSize, createdAt,
	)
	if err != nil {
		return fmt.Errorf("insert document %s: %w", d.ID, err)
	}
	return nil
}

// GetDocument returns a document record by id, including its extracted text.
// Feeds the rule extraction and summarization paths.
func (s *Store) GetDocument(ctx context.Context, id string) (*DocumentRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, filename, document_type, content, file_size, created_at
		FROM documents WHERE id = ?`, id)

	var d DocumentRecord
	err := row.Scan(&d.ID, &d.Filename, &d.DocumentType, &d.Content, &d.FileSize, &d.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrDocumentNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return &d, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanVariable(row rowScanner) (*VariableRecord, error) {
	var v VariableRecord
	err := row.Scan(
		&v.ID, &v.VariableType, &v.ParameterID, &v.GroupParameter, &v.VariableCode,
		&v.VariableName, &v.DesVarEng, &v.VariableDescription, &v.CustomerLoanLevel,
		&v.GroupLevel1, &v.GroupLevel2, &v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan variable: %w", err)
	}
	return &v, nil
}
