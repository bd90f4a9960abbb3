// Package store persists learning runs to SQLite: the run metadata, the
// learned transforms in order, and the final per-word analyses.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/morphlearn/pkg/morph"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	wordlist TEXT NOT NULL,
	params TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	finished_at TIMESTAMP
);

CREATE TABLE IF NOT EXISTS transforms (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	position INTEGER NOT NULL,
	kind TEXT NOT NULL,
	affix1 TEXT NOT NULL,
	affix2 TEXT NOT NULL,
	type_count INTEGER NOT NULL,
	token_count INTEGER NOT NULL,
	UNIQUE(run_id, position)
);

CREATE TABLE IF NOT EXISTS words (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id INTEGER NOT NULL REFERENCES runs(id),
	word TEXT NOT NULL,
	count INTEGER NOT NULL,
	class TEXT NOT NULL,
	analysis TEXT NOT NULL,
	segmentation TEXT,
	UNIQUE(run_id, word)
);

CREATE INDEX IF NOT EXISTS idx_words_run_class ON words(run_id, class);
`

// DBExecutor is an interface that allows methods to accept either *sql.DB or *sql.Tx
type DBExecutor interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
	Query(query string, args ...interface{}) (*sql.Rows, error)
	QueryRow(query string, args ...interface{}) *sql.Row
}

// Open opens (creating if needed) a results database and applies the schema.
func Open(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening results database: %w", err)
	}
	if err := InitDB(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

// InitDB applies the schema to the given DB connection.
func InitDB(db *sql.DB) error {
	for _, s := range strings.Split(schemaSQL, ";") {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		if _, err := db.Exec(s); err != nil {
			return fmt.Errorf("applying schema: %w", err)
		}
	}
	return nil
}

// CreateRun records the start of a learning run and returns its id.
func CreateRun(db DBExecutor, wordlist, params string) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO runs (wordlist, params, started_at) VALUES (?, ?, ?)`,
		wordlist, params, time.Now(),
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// FinishRun stamps a run as finished.
func FinishRun(db DBExecutor, runID int64) error {
	if runID <= 0 {
		return fmt.Errorf("runID must be positive")
	}
	_, err := db.Exec(`UPDATE runs SET finished_at = ? WHERE id = ?`, time.Now(), runID)
	return err
}

// InsertTransform records one learned transform at its position in the
// learning order.
func InsertTransform(db DBExecutor, runID int64, position int, t *morph.Transform) error {
	if runID <= 0 {
		return fmt.Errorf("runID must be positive")
	}
	_, err := db.Exec(
		`INSERT INTO transforms (run_id, position, kind, affix1, affix2, type_count, token_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		runID, position, t.Type().String(), t.Affix1().Text(), t.Affix2().Text(),
		t.TypeCount(), t.TokenCount(),
	)
	if err != nil {
		return fmt.Errorf("insert transform %s: %w", t, err)
	}
	return nil
}

// InsertWord records one analyzed word. segmentation may be empty, in which
// case NULL is stored.
func InsertWord(db DBExecutor, runID int64, word *morph.Word, analysis, segmentation string) error {
	if runID <= 0 {
		return fmt.Errorf("runID must be positive")
	}
	var seg interface{}
	if segmentation != "" {
		seg = segmentation
	}
	_, err := db.Exec(
		`INSERT INTO words (run_id, word, count, class, analysis, segmentation)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		runID, word.Text(), word.Count(), word.Set().String(), analysis, seg,
	)
	if err != nil {
		return fmt.Errorf("insert word %q: %w", word.Text(), err)
	}
	return nil
}

// WordRow is a stored analysis row.
type WordRow struct {
	Word         string
	Count        int64
	Class        string
	Analysis     string
	Segmentation string
}

// GetWord returns the stored row for a word in a run.
func GetWord(db DBExecutor, runID int64, word string) (*WordRow, error) {
	var row WordRow
	var seg sql.NullString
	err := db.QueryRow(
		`SELECT word, count, class, analysis, segmentation FROM words WHERE run_id = ? AND word = ?`,
		runID, word,
	).Scan(&row.Word, &row.Count, &row.Class, &row.Analysis, &seg)
	if err != nil {
		return nil, err
	}
	if seg.Valid {
		row.Segmentation = seg.String
	}
	return &row, nil
}

// CountWordsByClass returns how many stored words of a run are in each class.
func CountWordsByClass(db DBExecutor, runID int64) (map[string]int64, error) {
	rows, err := db.Query(
		`SELECT class, COUNT(*) FROM words WHERE run_id = ? GROUP BY class`, runID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var class string
		var n int64
		if err := rows.Scan(&class, &n); err != nil {
			return nil, err
		}
		counts[class] = n
	}
	return counts, rows.Err()
}

// SaveRun persists a completed run: the learned transforms and every
// analyzable word's analysis, batched through transactions.
func SaveRun(db *sql.DB, runID int64, lex *morph.Lexicon, learned []*morph.Transform, segment bool) error {
	bw := NewBatchWriter(db, 500)

	for i, t := range learned {
		position, transform := i, t
		bw.Submit(func(tx *sql.Tx) error {
			return InsertTransform(tx, runID, position, transform)
		})
	}

	for _, text := range lex.WordStrings() {
		word := lex.Word(text)
		if !word.ShouldAnalyze() {
			continue
		}
		analysis := word.Analyze()
		segmentation := ""
		if segment {
			segmentation = word.Segmentation()
		}
		w := word
		bw.Submit(func(tx *sql.Tx) error {
			return InsertWord(tx, runID, w, analysis, segmentation)
		})
	}

	if err := bw.Close(); err != nil {
		return err
	}
	return FinishRun(db, runID)
}
