package store

import (
	"database/sql"
	"strings"
	"testing"

	_ "github.com/mattn/go-sqlite3"

	"github.com/japaniel/morphlearn/pkg/corpus"
	"github.com/japaniel/morphlearn/pkg/morph"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	// Ensure single connection to avoid separate in-memory DBs per connection.
	db.SetMaxOpenConns(1)
	if err := InitDB(db); err != nil {
		t.Fatalf("init schema: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// learnedLexicon builds a small analyzed lexicon with one learned transform.
func learnedLexicon(t *testing.T) (*morph.Lexicon, *morph.Transform) {
	t.Helper()
	lex, err := corpus.ReadWordlist(strings.NewReader("10 walk\n5 walked\n3 fish\n"), 0, 0, nil)
	if err != nil {
		t.Fatalf("read wordlist: %v", err)
	}
	trans := morph.NewTransform(lex.Affix("", morph.Suffix), lex.Affix("ed", morph.Suffix))
	morph.ScoreTransform(trans, lex, false, false, false)
	lex.MoveTransformPairs(trans, nil, false, false, false, false)
	trans.MarkLearned()
	return lex, trans
}

func TestSaveRunRoundTrip(t *testing.T) {
	db := setupTestDB(t)
	lex, trans := learnedLexicon(t)

	runID, err := CreateRun(db, "wordlist.txt", "params.yaml")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := SaveRun(db, runID, lex, []*morph.Transform{trans}, true); err != nil {
		t.Fatalf("save run: %v", err)
	}

	row, err := GetWord(db, runID, "walked")
	if err != nil {
		t.Fatalf("get word: %v", err)
	}
	if row.Analysis != "WALK +(ed)" {
		t.Errorf("analysis = %q, want WALK +(ed)", row.Analysis)
	}
	if row.Segmentation != "_walk +ed" {
		t.Errorf("segmentation = %q, want _walk +ed", row.Segmentation)
	}
	if row.Class != "derived" {
		t.Errorf("class = %q, want derived", row.Class)
	}
	if row.Count != 5 {
		t.Errorf("count = %d, want 5", row.Count)
	}

	counts, err := CountWordsByClass(db, runID)
	if err != nil {
		t.Fatalf("count by class: %v", err)
	}
	if counts["base"] != 1 || counts["derived"] != 1 || counts["unmodeled"] != 1 {
		t.Errorf("class counts = %v", counts)
	}

	var finished sql.NullTime
	if err := db.QueryRow(`SELECT finished_at FROM runs WHERE id = ?`, runID).Scan(&finished); err != nil {
		t.Fatalf("query run: %v", err)
	}
	if !finished.Valid {
		t.Errorf("run not stamped as finished")
	}
}

func TestSaveRunWithoutSegmentation(t *testing.T) {
	db := setupTestDB(t)
	lex, trans := learnedLexicon(t)

	runID, err := CreateRun(db, "wordlist.txt", "params.yaml")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := SaveRun(db, runID, lex, []*morph.Transform{trans}, false); err != nil {
		t.Fatalf("save run: %v", err)
	}

	row, err := GetWord(db, runID, "walked")
	if err != nil {
		t.Fatalf("get word: %v", err)
	}
	if row.Segmentation != "" {
		t.Errorf("segmentation = %q, want empty (stored NULL)", row.Segmentation)
	}
}

func TestInsertTransformPosition(t *testing.T) {
	db := setupTestDB(t)
	_, trans := learnedLexicon(t)

	runID, err := CreateRun(db, "wordlist.txt", "params.yaml")
	if err != nil {
		t.Fatalf("create run: %v", err)
	}
	if err := InsertTransform(db, runID, 0, trans); err != nil {
		t.Fatalf("insert transform: %v", err)
	}
	// Reusing a position within a run must fail.
	if err := InsertTransform(db, runID, 0, trans); err == nil {
		t.Errorf("expected unique constraint error on duplicate position")
	}

	var kind, affix2 string
	var typeCount int64
	err = db.QueryRow(
		`SELECT kind, affix2, type_count FROM transforms WHERE run_id = ? AND position = 0`, runID,
	).Scan(&kind, &affix2, &typeCount)
	if err != nil {
		t.Fatalf("query transform: %v", err)
	}
	if kind != "suffix" || affix2 != "ed" || typeCount != 1 {
		t.Errorf("stored transform = %s/%s/%d, want suffix/ed/1", kind, affix2, typeCount)
	}
}

func TestBatchWriterFlushesOnClose(t *testing.T) {
	db := setupTestDB(t)
	if _, err := db.Exec(`CREATE TABLE items (n INTEGER)`); err != nil {
		t.Fatalf("create table: %v", err)
	}

	bw := NewBatchWriter(db, 4)
	for i := 0; i < 10; i++ {
		n := i
		if err := bw.Submit(func(tx *sql.Tx) error {
			_, err := tx.Exec(`INSERT INTO items (n) VALUES (?)`, n)
			return err
		}); err != nil {
			t.Fatalf("submit %d: %v", n, err)
		}
	}
	if err := bw.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	var count int
	if err := db.QueryRow(`SELECT COUNT(*) FROM items`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 10 {
		t.Errorf("items = %d, want 10", count)
	}

	if err := bw.Submit(func(tx *sql.Tx) error { return nil }); err != ErrBatchWriterClosed {
		t.Errorf("submit after close = %v, want ErrBatchWriterClosed", err)
	}
}

func TestBatchWriterReportsError(t *testing.T) {
	db := setupTestDB(t)

	bw := NewBatchWriter(db, 1)
	if err := bw.Submit(func(tx *sql.Tx) error {
		_, err := tx.Exec(`INSERT INTO missing_table (n) VALUES (1)`)
		return err
	}); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if err := bw.Close(); err == nil {
		t.Errorf("expected the batch error to surface from Close")
	}
}
