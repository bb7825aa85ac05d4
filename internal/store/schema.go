package store

import (
	"database/sql"
	"fmt"
	"strings"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
	_ "github.com/mattn/go-sqlite3"
)

func init() {
	sqlite_vec.Auto()
}

const createChunksTable = `
CREATE TABLE IF NOT EXISTS chunks (
	id TEXT PRIMARY KEY,
	file_path TEXT NOT NULL,
	file_hash TEXT NOT NULL,
	language TEXT NOT NULL,
	symbol TEXT NOT NULL,
	node_kind TEXT NOT NULL,
	content TEXT NOT NULL,
	start_line INTEGER NOT NULL,
	end_line INTEGER NOT NULL,
	summary TEXT
)`

const createChunksFileIndex = `CREATE INDEX IF NOT EXISTS idx_chunks_file_path ON chunks(file_path)`

// createSchema creates the row table plus the two vec0 virtual tables that
// back content and summary k-NN search. vec0 tables are single-vector by
// design, so two independent vector columns become two independent tables
// joined back to chunks by id.
func createSchema(db *sql.DB, dim int) error {
	if _, err := db.Exec(createChunksTable); err != nil {
		return fmt.Errorf("store: create chunks table: %w", err)
	}
	if _, err := db.Exec(createChunksFileIndex); err != nil {
		return fmt.Errorf("store: create chunks index: %w", err)
	}

	vecSQL := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS chunks_vec USING vec0(
		id TEXT PRIMARY KEY,
		vector float[%d]
	)`, dim)
	if _, err := db.Exec(vecSQL); err != nil {
		return fmt.Errorf("store: create chunks_vec: %w", err)
	}

	summaryVecSQL := fmt.Sprintf(`CREATE VIRTUAL TABLE IF NOT EXISTS chunks_summary_vec USING vec0(
		id TEXT PRIMARY KEY,
		vector float[%d]
	)`, dim)
	if _, err := db.Exec(summaryVecSQL); err != nil {
		return fmt.Errorf("store: create chunks_summary_vec: %w", err)
	}

	return nil
}

// schemaDimension returns the vector width the existing chunks_vec table
// was created with, or 0 if the table does not exist yet.
func schemaDimension(db *sql.DB) (int, error) {
	var sqlText sql.NullString
	err := db.QueryRow(`SELECT sql FROM sqlite_master WHERE type='table' AND name='chunks_vec'`).Scan(&sqlText)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("store: read chunks_vec schema: %w", err)
	}
	if !sqlText.Valid {
		return 0, nil
	}
	var dim int
	if _, scanErr := fmt.Sscanf(extractFloatArity(sqlText.String), "%d", &dim); scanErr != nil {
		return 0, nil
	}
	return dim, nil
}

// extractFloatArity pulls the "N" out of "float[N]" in a vec0 CREATE TABLE
// statement's sql text. Returns "" if the pattern is absent.
func extractFloatArity(ddl string) string {
	const marker = "float["
	i := strings.Index(ddl, marker)
	if i < 0 {
		return ""
	}
	rest := ddl[i+len(marker):]
	j := strings.Index(rest, "]")
	if j < 0 {
		return ""
	}
	return rest[:j]
}
