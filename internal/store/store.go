// Package store holds the on-disk vector table of indexed code chunks.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	sqlite_vec "github.com/asg017/sqlite-vec-go-bindings/cgo"
)

// ChunkRecord is the persisted form of a chunk.Chunk: the spec's
// ChunkRecord plus the file-level hash used for reconciliation.
type ChunkRecord struct {
	ID            string
	FilePath      string
	FileHash      string
	Language      string
	Symbol        string
	NodeKind      string
	Content       string
	StartLine     int
	EndLine       int
	Summary       string
	Vector        []float32
	SummaryVector []float32 // nil when Summary == "", or when embedding the summary failed
}

// SearchResult is one row returned by a k-NN search.
type SearchResult struct {
	ID        string
	FilePath  string
	StartLine int
	EndLine   int
	Symbol    string
	Content   string
	Summary   string
	Score     float32
}

// Store wraps one SQLite database holding a chunks table and its two vec0
// companion tables.
type Store struct {
	db  *sql.DB
	dim int
}

func dbFilePath(dbDir, tableName string) string {
	return filepath.Join(dbDir, tableName+".db")
}

// OpenOrCreate opens the table at dbDir/tableName.db, creating it (and the
// directory) if absent. If reindex is true, any existing file is removed
// first. An existing file whose chunks_vec dimension disagrees with dim
// surfaces an error unless reindex is set.
func OpenOrCreate(dbDir string, dim int, tableName string, reindex bool) (*Store, error) {
	if err := os.MkdirAll(dbDir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create db dir: %w", err)
	}

	path := dbFilePath(dbDir, tableName)
	if reindex {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("store: remove existing table for reindex: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}

	existingDim, err := schemaDimension(db)
	if err != nil {
		db.Close()
		return nil, err
	}
	if existingDim != 0 && existingDim != dim {
		db.Close()
		return nil, fmt.Errorf("store: schema dimension mismatch: table has %d, requested %d — run with --reindex", existingDim, dim)
	}

	if err := createSchema(db, dim); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db, dim: dim}, nil
}

// TryOpen opens an existing table read-only-in-intent, returning (nil, nil)
// if the table file does not exist.
func TryOpen(dbDir string, dim int, tableName string) (*Store, error) {
	path := dbFilePath(dbDir, tableName)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}
	return OpenOrCreate(dbDir, dim, tableName, false)
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) CountRows() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count rows: %w", err)
	}
	return n, nil
}

func (s *Store) CountFiles() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(DISTINCT file_path) FROM chunks`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count files: %w", err)
	}
	return n, nil
}

func (s *Store) ListFiles() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT file_path FROM chunks`)
	if err != nil {
		return nil, fmt.Errorf("store: list files: %w", err)
	}
	defer rows.Close()

	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			return nil, fmt.Errorf("store: scan file path: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// Clear removes every row from all three tables, leaving the schema intact.
func (s *Store) Clear() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin clear: %w", err)
	}
	defer tx.Rollback()

	for _, table := range []string{"chunks", "chunks_vec", "chunks_summary_vec"} {
		if _, err := tx.Exec("DELETE FROM " + table); err != nil {
			return fmt.Errorf("store: clear %s: %w", table, err)
		}
	}
	return tx.Commit()
}

func (s *Store) GetFileHash(filePath string) (string, bool, error) {
	var hash string
	err := s.db.QueryRow(`SELECT file_hash FROM chunks WHERE file_path = ? LIMIT 1`, filePath).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("store: get file hash: %w", err)
	}
	return hash, true, nil
}

// DeleteFile removes all rows for filePath from all three tables.
func (s *Store) DeleteFile(filePath string) error {
	ids, err := s.idsForFile(filePath)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin delete: %w", err)
	}
	defer tx.Rollback()

	if err := deleteByIDs(tx, "chunks_vec", ids); err != nil {
		return err
	}
	if err := deleteByIDs(tx, "chunks_summary_vec", ids); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM chunks WHERE file_path = ?`, filePath); err != nil {
		return fmt.Errorf("store: delete chunks rows: %w", err)
	}

	return tx.Commit()
}

func (s *Store) idsForFile(filePath string) ([]string, error) {
	rows, err := s.db.Query(`SELECT id FROM chunks WHERE file_path = ?`, filePath)
	if err != nil {
		return nil, fmt.Errorf("store: list ids for file: %w", err)
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("store: scan id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func deleteByIDs(tx *sql.Tx, table string, ids []string) error {
	stmt, err := tx.Prepare(fmt.Sprintf("DELETE FROM %s WHERE id = ?", table))
	if err != nil {
		return fmt.Errorf("store: prepare delete from %s: %w", table, err)
	}
	defer stmt.Close()

	for _, id := range ids {
		if _, err := stmt.Exec(id); err != nil {
			return fmt.Errorf("store: delete %s from %s: %w", id, table, err)
		}
	}
	return nil
}

// Insert batch-appends records. A no-op on empty input. Rows go into chunks
// and chunks_vec always; chunks_summary_vec only for records with a summary
// vector.
func (s *Store) Insert(records []ChunkRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin insert: %w", err)
	}
	defer tx.Rollback()

	chunkStmt, err := tx.Prepare(`INSERT INTO chunks
		(id, file_path, file_hash, language, symbol, node_kind, content, start_line, end_line, summary)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare chunk insert: %w", err)
	}
	defer chunkStmt.Close()

	vecStmt, err := tx.Prepare(`INSERT INTO chunks_vec (id, vector) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare vector insert: %w", err)
	}
	defer vecStmt.Close()

	summaryVecStmt, err := tx.Prepare(`INSERT INTO chunks_summary_vec (id, vector) VALUES (?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare summary vector insert: %w", err)
	}
	defer summaryVecStmt.Close()

	for _, r := range records {
		var summary sql.NullString
		if r.Summary != "" {
			summary = sql.NullString{String: r.Summary, Valid: true}
		}

		if _, err := chunkStmt.Exec(r.ID, r.FilePath, r.FileHash, r.Language, r.Symbol, r.NodeKind,
			r.Content, r.StartLine, r.EndLine, summary); err != nil {
			return fmt.Errorf("store: insert chunk %s: %w", r.ID, err)
		}

		vecBytes, err := sqlite_vec.SerializeFloat32(r.Vector)
		if err != nil {
			return fmt.Errorf("store: serialize vector for %s: %w", r.ID, err)
		}
		if _, err := vecStmt.Exec(r.ID, vecBytes); err != nil {
			return fmt.Errorf("store: insert vector for %s: %w", r.ID, err)
		}

		if len(r.SummaryVector) > 0 {
			summaryVecBytes, err := sqlite_vec.SerializeFloat32(r.SummaryVector)
			if err != nil {
				return fmt.Errorf("store: serialize summary vector for %s: %w", r.ID, err)
			}
			if _, err := summaryVecStmt.Exec(r.ID, summaryVecBytes); err != nil {
				return fmt.Errorf("store: insert summary vector for %s: %w", r.ID, err)
			}
		}
	}

	return tx.Commit()
}

// Search runs k-NN on the content vector column.
func (s *Store) Search(vector []float32, limit int) ([]SearchResult, error) {
	return s.searchVecTable("chunks_vec", vector, limit)
}

// SearchBySummary runs k-NN on the summary vector column. Rows without a
// summary never appear in chunks_summary_vec, so no extra filter is needed.
func (s *Store) SearchBySummary(vector []float32, limit int) ([]SearchResult, error) {
	return s.searchVecTable("chunks_summary_vec", vector, limit)
}

func (s *Store) searchVecTable(table string, vector []float32, limit int) ([]SearchResult, error) {
	queryBytes, err := sqlite_vec.SerializeFloat32(vector)
	if err != nil {
		return nil, fmt.Errorf("store: serialize query vector: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT c.id, c.file_path, c.start_line, c.end_line, c.symbol, c.content, c.summary, v.distance
		FROM (
			SELECT id, vector, distance
			FROM %s
			WHERE vector MATCH ? AND k = ?
			ORDER BY distance
		) v
		JOIN chunks c ON c.id = v.id
		ORDER BY v.distance
	`, table)

	rows, err := s.db.Query(query, queryBytes, limit)
	if err != nil {
		return nil, fmt.Errorf("store: search %s: %w", table, err)
	}
	defer rows.Close()

	var results []SearchResult
	for rows.Next() {
		var r SearchResult
		var summary sql.NullString
		if err := rows.Scan(&r.ID, &r.FilePath, &r.StartLine, &r.EndLine, &r.Symbol, &r.Content, &summary, &r.Score); err != nil {
			return nil, fmt.Errorf("store: scan search result: %w", err)
		}
		if summary.Valid {
			r.Summary = summary.String
		}
		results = append(results, r)
	}
	return results, rows.Err()
}
