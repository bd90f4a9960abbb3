package morph

import (
	"testing"
)

// buildLexicon creates a lexicon where every word clears the frequency
// thresholds.
func buildLexicon(t *testing.T, counts map[string]int64) *Lexicon {
	t.Helper()
	lex := NewLexicon(0, 0)
	for text, count := range counts {
		if !lex.AddWord(NewWord(text, count, true, false)) {
			t.Fatalf("duplicate word %q", text)
		}
	}
	lex.UpdateFrequencies()
	return lex
}

func suffixTransform(t *testing.T, lex *Lexicon, affix1, affix2 string) *Transform {
	t.Helper()
	a1 := lex.Affix(affix1, Suffix)
	a2 := lex.Affix(affix2, Suffix)
	if a1 == nil || a2 == nil {
		t.Fatalf("affixes %q, %q not indexed", affix1, affix2)
	}
	return NewTransform(a1, a2)
}

func TestScoreTransformPlain(t *testing.T) {
	lex := buildLexicon(t, map[string]int64{
		"walk": 10, "walked": 5, "talk": 8,
	})

	trans := suffixTransform(t, lex, "", "ed")
	ScoreTransform(trans, lex, false, false, false)

	if trans.TypeCount() != 1 {
		t.Fatalf("TypeCount = %d, want 1", trans.TypeCount())
	}
	if trans.TokenCount() != 15 {
		t.Errorf("TokenCount = %d, want 15", trans.TokenCount())
	}
	pair := WordPair{Base: lex.Word("walk"), Derived: lex.Word("walked"), Accom: AccomNone}
	if _, ok := trans.WordPairs()[pair]; !ok {
		t.Errorf("missing pair walk/walked")
	}
	if trans.NormalPairCount() != 1 || trans.AccomPairCount() != 0 {
		t.Errorf("pair counts = %d/%d, want 1/0", trans.NormalPairCount(), trans.AccomPairCount())
	}
}

func TestScoreWordDoubling(t *testing.T) {
	lex := buildLexicon(t, map[string]int64{
		"pin": 10, "pinned": 5,
	})

	trans := suffixTransform(t, lex, "", "ed")
	ScoreTransform(trans, lex, false, true, false)

	pair := WordPair{Base: lex.Word("pin"), Derived: lex.Word("pinned"), Accom: AccomDoubling}
	if _, ok := trans.WordPairs()[pair]; !ok {
		t.Fatalf("missing doubled pair pin/pinned, got %v", trans.PairsText())
	}
	if trans.AccomPairCount() != 1 {
		t.Errorf("AccomPairCount = %d, want 1", trans.AccomPairCount())
	}
}

func TestScoreWordUndoubling(t *testing.T) {
	lex := buildLexicon(t, map[string]int64{
		"cane": 10, "caned": 5,
	})

	trans := suffixTransform(t, lex, "", "ed")
	ScoreTransform(trans, lex, false, true, false)

	pair := WordPair{Base: lex.Word("cane"), Derived: lex.Word("caned"), Accom: AccomUndoubling}
	if _, ok := trans.WordPairs()[pair]; !ok {
		t.Fatalf("missing undoubled pair cane/caned, got %v", trans.PairsText())
	}
}

func TestScoreWordNoDoublingWithoutFlag(t *testing.T) {
	lex := buildLexicon(t, map[string]int64{
		"pin": 10, "pinned": 5,
	})

	trans := suffixTransform(t, lex, "", "ed")
	ScoreTransform(trans, lex, false, false, false)

	if trans.TypeCount() != 0 {
		t.Errorf("TypeCount = %d, want 0 with accommodation off", trans.TypeCount())
	}
}

func TestScoreWordShortDerived(t *testing.T) {
	// "feed" ends in "ed" but its residual stem is too short to carry the
	// affix, so fee/feed must not pair.
	lex := buildLexicon(t, map[string]int64{
		"fee": 10, "feed": 5,
	})

	trans := suffixTransform(t, lex, "", "ed")
	ScoreTransform(trans, lex, false, false, false)

	if trans.TypeCount() != 0 {
		t.Errorf("TypeCount = %d, want 0", trans.TypeCount())
	}
}

func TestScoreWordInferredDerived(t *testing.T) {
	lex := NewLexicon(0, 0)
	lex.AddWord(NewWord("walk", 10, true, false))
	lex.AddWord(NewWord("walked", 5, false, true))
	lex.UpdateFrequencies()

	// Inferred words may not serve as derived forms unless explicitly allowed.
	trans := suffixTransform(t, lex, "", "ed")
	ScoreTransform(trans, lex, false, false, false)
	if trans.TypeCount() != 0 {
		t.Errorf("TypeCount = %d, want 0 with inferred derivation off", trans.TypeCount())
	}

	trans = suffixTransform(t, lex, "", "ed")
	ScoreTransform(trans, lex, false, false, true)
	if trans.TypeCount() != 1 {
		t.Errorf("TypeCount = %d, want 1 with inferred derivation on", trans.TypeCount())
	}
}

func TestMakeStemAndDerived(t *testing.T) {
	ed := NewAffix("ed", Suffix)
	un := NewAffix("un", Prefix)

	if got := MakeStem("walked", ed); got != "walk" {
		t.Errorf("MakeStem(walked, ed) = %q, want walk", got)
	}
	if got := MakeStem("unfit", un); got != "fit" {
		t.Errorf("MakeStem(unfit, un) = %q, want fit", got)
	}
	if got := MakeDerived("pin", ed, true, false); got != "pinned" {
		t.Errorf("MakeDerived doubling = %q, want pinned", got)
	}
	if got := MakeDerived("cane", ed, false, true); got != "caned" {
		t.Errorf("MakeDerived undoubling = %q, want caned", got)
	}
	if got := MakeDerived("fit", un, false, false); got != "unfit" {
		t.Errorf("MakeDerived prefix = %q, want unfit", got)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic when doubling and undoubling together")
		}
	}()
	MakeDerived("pin", ed, true, true)
}

func TestInferBase(t *testing.T) {
	null := NewAffix("", Suffix)
	ed := NewAffix("ed", Suffix)
	trans := NewTransform(null, ed)

	w := NewWord("walked", 1, true, false)
	if got := InferBase(w, trans); got != "walk" {
		t.Errorf("InferBase(walked, ($, ed)) = %q, want walk", got)
	}

	unNull := NewAffix("", Prefix)
	un := NewAffix("un", Prefix)
	prefixTrans := NewTransform(unNull, un)
	w = NewWord("unfit", 1, true, false)
	if got := InferBase(w, prefixTrans); got != "fit" {
		t.Errorf("InferBase(unfit, ($, un)+) = %q, want fit", got)
	}
}

func TestTransformKeyAndString(t *testing.T) {
	null := NewAffix("", Suffix)
	ed := NewAffix("ed", Suffix)
	trans := NewTransform(null, ed)

	if got := trans.Key(); got != "s:$,ed" {
		t.Errorf("Key = %q, want s:$,ed", got)
	}
	if got := trans.String(); got != "+($, ed)" {
		t.Errorf("String = %q, want +($, ed)", got)
	}

	un := NewTransform(NewAffix("", Prefix), NewAffix("un", Prefix))
	if got := un.Key(); got != "p:$,un" {
		t.Errorf("Key = %q, want p:$,un", got)
	}
	if got := un.String(); got != "($, un)+" {
		t.Errorf("String = %q, want ($, un)+", got)
	}
}

func TestTransformAnalyzeAndSegmentationToken(t *testing.T) {
	null := NewAffix("", Suffix)
	ed := NewAffix("ed", Suffix)
	ing := NewAffix("ing", Suffix)

	add := NewTransform(null, ed)
	if got := add.Analyze(); got != "+(ed)" {
		t.Errorf("addition Analyze = %q, want +(ed)", got)
	}
	if got := add.SegmentationToken(); got != "+ed" {
		t.Errorf("addition SegmentationToken = %q, want +ed", got)
	}

	remove := NewTransform(ed, null)
	if got := remove.Analyze(); got != "-(ed)" {
		t.Errorf("removal Analyze = %q, want -(ed)", got)
	}
	if got := remove.SegmentationToken(); got != "-ed" {
		t.Errorf("removal SegmentationToken = %q, want -ed", got)
	}

	rewrite := NewTransform(ed, ing)
	if got := rewrite.Analyze(); got != "+(ing)" {
		t.Errorf("rewrite Analyze = %q, want +(ing)", got)
	}
	if got := rewrite.SegmentationToken(); got != "-ed +ing" {
		t.Errorf("rewrite SegmentationToken = %q, want -ed +ing", got)
	}

	prefix := NewTransform(NewAffix("", Prefix), NewAffix("un", Prefix))
	if got := prefix.Analyze(); got != "(un)+" {
		t.Errorf("prefix Analyze = %q, want (un)+", got)
	}
}

func TestWeightedTypeCount(t *testing.T) {
	lex := buildLexicon(t, map[string]int64{
		"walk": 10, "walked": 5,
	})
	trans := suffixTransform(t, lex, "", "ed")
	ScoreTransform(trans, lex, false, false, false)

	// Length two, exponent one: the type count doubles.
	if got := trans.WeightedTypeCount(1); got != 2 {
		t.Errorf("WeightedTypeCount(1) = %d, want 2", got)
	}
	if got := trans.WeightedTypeCount(0); got != 1 {
		t.Errorf("WeightedTypeCount(0) = %d, want 1", got)
	}
}

func TestNewTransformTypeMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("expected panic mixing prefix and suffix")
		}
	}()
	NewTransform(NewAffix("un", Prefix), NewAffix("ed", Suffix))
}
