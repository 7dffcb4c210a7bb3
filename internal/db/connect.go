package db

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite
)

type Driver string

const (
	DriverSQLite   Driver = "sqlite"
	DriverPostgres Driver = "postgres"
)

// Open opens a DB and ensures schema exists.
func Open(ctx context.Context, driver Driver, dsn string) (*sql.DB, error) {
	var drvName string
	switch driver {
	case DriverSQLite:
		drvName = "sqlite" // modernc driver
		if dsn == "" {
			dsn = "file:anseval.db?cache=shared&mode=rwc&_pragma=busy_timeout(5000)"
		}
	case DriverPostgres:
		drvName = "pgx" // pgx stdlib driver
		if dsn == "" {
			dsn = "postgres://localhost:5432/anseval?sslmode=disable"
		}
	default:
		return nil, fmt.Errorf("unsupported driver: %s", driver)
	}

	db, err := sql.Open(drvName, dsn)
	if err != nil {
		return nil, err
	}
	if err := db.PingContext(ctx); err != nil {
		return nil, err
	}

	if err := ensureSchema(ctx, db, driver); err != nil {
		return nil, err
	}
	return db, nil
}

func ensureSchema(ctx context.Context, db *sql.DB, driver Driver) error {
	var schema string
	switch driver {
	case DriverSQLite:
		schema = schemaSQLite
	case DriverPostgres:
		schema = schemaPostgres
	}
	_, err := db.ExecContext(ctx, schema)
	return err
}

const schemaSQLite = `
PRAGMA foreign_keys=ON;

CREATE TABLE IF NOT EXISTS answer_sheets (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  user_name TEXT NOT NULL DEFAULT '',
  exam_code TEXT NOT NULL,
  answer_type TEXT NOT NULL DEFAULT 'descriptive',
  file_path TEXT NOT NULL DEFAULT '',
  structured_json TEXT NOT NULL,
  summarized_json TEXT NOT NULL,
  marks_json TEXT NOT NULL,
  total_marks INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'Pending',
  evaluation_method TEXT,
  evaluated_at INTEGER,
  evaluated_by TEXT,
  uploaded_at INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sheets_exam_status
  ON answer_sheets (exam_code, answer_type, status);
CREATE INDEX IF NOT EXISTS idx_sheets_student
  ON answer_sheets (student_id);

CREATE TABLE IF NOT EXISTS answer_keys (
  exam_code TEXT PRIMARY KEY,
  exam_name TEXT NOT NULL,
  answer_type TEXT NOT NULL DEFAULT 'objective',
  answer_key_json TEXT NOT NULL,
  created_by TEXT,
  created_at INTEGER NOT NULL,
  updated_at INTEGER NOT NULL
);
`

const schemaPostgres = `
CREATE TABLE IF NOT EXISTS answer_sheets (
  id TEXT PRIMARY KEY,
  student_id TEXT NOT NULL,
  user_name TEXT NOT NULL DEFAULT '',
  exam_code TEXT NOT NULL,
  answer_type TEXT NOT NULL DEFAULT 'descriptive',
  file_path TEXT NOT NULL DEFAULT '',
  structured_json TEXT NOT NULL,
  summarized_json TEXT NOT NULL,
  marks_json TEXT NOT NULL,
  total_marks INTEGER NOT NULL DEFAULT 0,
  status TEXT NOT NULL DEFAULT 'Pending',
  evaluation_method TEXT,
  evaluated_at BIGINT,
  evaluated_by TEXT,
  uploaded_at BIGINT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_sheets_exam_status
  ON answer_sheets (exam_code, answer_type, status);
CREATE INDEX IF NOT EXISTS idx_sheets_student
  ON answer_sheets (student_id);

CREATE TABLE IF NOT EXISTS answer_keys (
  exam_code TEXT PRIMARY KEY,
  exam_name TEXT NOT NULL,
  answer_type TEXT NOT NULL DEFAULT 'objective',
  answer_key_json TEXT NOT NULL,
  created_by TEXT,
  created_at BIGINT NOT NULL,
  updated_at BIGINT NOT NULL
);
`
