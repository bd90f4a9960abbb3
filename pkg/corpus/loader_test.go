package corpus

import (
	"strings"
	"testing"

	"github.com/japaniel/morphlearn/pkg/morph"
)

func TestReadWordlist(t *testing.T) {
	input := "500 dog\n30 dogs\n\n2147483648 the\n"
	lex, err := ReadWordlist(strings.NewReader(input), 0, 0, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if got := lex.Word("dog").Count(); got != 500 {
		t.Errorf("dog count = %d, want 500", got)
	}
	// Counts above 32 bits must survive.
	if got := lex.Word("the").Count(); got != 2147483648 {
		t.Errorf("the count = %d, want 2147483648", got)
	}
	if got := lex.TokenCount(); got != 500+30+2147483648 {
		t.Errorf("token count = %d", got)
	}
	// Frequencies must be ready without a separate update.
	if !lex.Word("the").IsFrequent() {
		t.Errorf("the should be frequent after loading")
	}
}

func TestReadWordlistDuplicate(t *testing.T) {
	input := "500 dog\n10 dog\n"
	lex, err := ReadWordlist(strings.NewReader(input), 0, 0, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	// First entry wins.
	if got := lex.Word("dog").Count(); got != 500 {
		t.Errorf("dog count = %d, want 500", got)
	}
	if got := lex.TokenCount(); got != 500 {
		t.Errorf("token count = %d, want 500", got)
	}
}

func TestReadWordlistMalformed(t *testing.T) {
	tests := []string{
		"dog 500\n",       // count and word swapped
		"500\n",           // missing word
		"500 dog cat\n",   // extra field
		"5.5 dog\n",       // non-integer count
		"ok\n500 dog\n",   // error names line 1
	}
	for _, input := range tests {
		if _, err := ReadWordlist(strings.NewReader(input), 0, 0, nil); err == nil {
			t.Errorf("expected error for %q", input)
		}
	}
}

func TestReadWordlistMalformedLineNumber(t *testing.T) {
	input := "500 dog\n\nbogus line here\n"
	_, err := ReadWordlist(strings.NewReader(input), 0, 0, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "line 3") {
		t.Errorf("error does not name the line: %v", err)
	}
}

func TestLookupEncoding(t *testing.T) {
	if _, err := LookupEncoding(""); err != nil {
		t.Errorf("empty name should mean UTF-8: %v", err)
	}
	if _, err := LookupEncoding("ISO-8859-1"); err != nil {
		t.Errorf("ISO-8859-1 should resolve: %v", err)
	}
	if _, err := LookupEncoding("no-such-charset"); err == nil {
		t.Errorf("expected error for unknown charset")
	}
}

func TestWriteAnalysis(t *testing.T) {
	lex, err := ReadWordlist(strings.NewReader("10 walk\n5 walked\n"), 0, 0, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	trans := morph.NewTransform(lex.Affix("", morph.Suffix), lex.Affix("ed", morph.Suffix))
	morph.ScoreTransform(trans, lex, false, false, false)
	lex.MoveTransformPairs(trans, nil, false, false, false, false)

	var out strings.Builder
	if err := WriteAnalysis(&out, lex, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	want := "walk\tWALK\nwalked\tWALK +(ed)\n"
	if out.String() != want {
		t.Errorf("analysis output = %q, want %q", out.String(), want)
	}

	out.Reset()
	if err := WriteAnalysis(&out, lex, true); err != nil {
		t.Fatalf("write with segmentation: %v", err)
	}
	want = "walk\tWALK\t_walk\nwalked\tWALK +(ed)\t_walk +ed\n"
	if out.String() != want {
		t.Errorf("segmented output = %q, want %q", out.String(), want)
	}
}

func TestWriteAnalysisSkipsSynthetic(t *testing.T) {
	lex, err := ReadWordlist(strings.NewReader("10 walk\n"), 0, 0, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	lex.AddWord(morph.NewWord("walken", 5, false, true))

	var out strings.Builder
	if err := WriteAnalysis(&out, lex, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	if strings.Contains(out.String(), "walken") {
		t.Errorf("synthetic word leaked into output: %q", out.String())
	}
}

func TestWriteConflationSets(t *testing.T) {
	lex, err := ReadWordlist(strings.NewReader("10 walk\n5 walked\n4 walks\n"), 0, 0, nil)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	ed := morph.NewTransform(lex.Affix("", morph.Suffix), lex.Affix("ed", morph.Suffix))
	morph.ScoreTransform(ed, lex, false, false, false)
	lex.MoveTransformPairs(ed, nil, false, false, false, false)

	s := morph.NewTransform(lex.Affix("", morph.Suffix), lex.Affix("s", morph.Suffix))
	morph.ScoreTransform(s, lex, false, false, false)
	lex.MoveTransformPairs(s, nil, false, false, false, false)

	var out strings.Builder
	if err := WriteConflationSets(&out, lex); err != nil {
		t.Fatalf("write: %v", err)
	}
	if got := out.String(); got != "walk,walked,walks\n" {
		t.Errorf("conflation sets = %q, want walk,walked,walks", got)
	}
}
