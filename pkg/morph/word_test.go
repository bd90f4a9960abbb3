package morph

import (
	"testing"
)

// derive wires derived to base under trans, including root propagation the
// way the lexicon does during a move.
func derive(base, derived *Word, trans *Transform, accom Accommodation) {
	base.AddDerived(derived)
	derived.SetBase(base)
	derived.SetTransform(trans, accom)
	if base.Root() == nil {
		base.SetRoot(base)
	} else {
		derived.SetRoot(base.Root())
	}
}

func TestAnalyzeSuffixChain(t *testing.T) {
	bake := NewWord("bake", 10, true, false)
	baker := NewWord("baker", 5, true, false)
	bakers := NewWord("bakers", 2, true, false)

	er := NewTransform(NewAffix("", Suffix), NewAffix("er", Suffix))
	s := NewTransform(NewAffix("", Suffix), NewAffix("s", Suffix))
	derive(bake, baker, er, AccomNone)
	derive(baker, bakers, s, AccomNone)

	if got := bake.Analyze(); got != "BAKE" {
		t.Errorf("bake analysis = %q, want BAKE", got)
	}
	if got := baker.Analyze(); got != "BAKE +(er)" {
		t.Errorf("baker analysis = %q, want BAKE +(er)", got)
	}
	if got := bakers.Analyze(); got != "BAKE +(er) +(s)" {
		t.Errorf("bakers analysis = %q, want BAKE +(er) +(s)", got)
	}
	if bakers.Root() != bake {
		t.Errorf("bakers root = %v, want bake", bakers.Root())
	}
}

func TestAnalyzePrefix(t *testing.T) {
	fit := NewWord("fit", 10, true, false)
	unfit := NewWord("unfit", 5, true, false)

	un := NewTransform(NewAffix("", Prefix), NewAffix("un", Prefix))
	derive(fit, unfit, un, AccomNone)

	if got := unfit.Analyze(); got != "(un)+ FIT" {
		t.Errorf("unfit analysis = %q, want (un)+ FIT", got)
	}
	if got := unfit.Segmentation(); got != "+un _fit" {
		t.Errorf("unfit segmentation = %q, want +un _fit", got)
	}
}

func TestAnalyzeInferredRootMarked(t *testing.T) {
	// Inferred bases are excluded from output, and roots that cannot appear
	// are starred in the analyses of their derived forms.
	base := NewWord("recurse", 5, false, true)
	derived := NewWord("recursed", 3, true, false)

	ed := NewTransform(NewAffix("", Suffix), NewAffix("ed", Suffix))
	derive(base, derived, ed, AccomNone)

	if got := derived.Analyze(); got != "RECURSE* +(ed)" {
		t.Errorf("analysis = %q, want RECURSE* +(ed)", got)
	}
}

func TestSegmentationAccommodation(t *testing.T) {
	pin := NewWord("pin", 10, true, false)
	pinned := NewWord("pinned", 5, true, false)
	cane := NewWord("cane", 10, true, false)
	caned := NewWord("caned", 5, true, false)

	ed := NewTransform(NewAffix("", Suffix), NewAffix("ed", Suffix))
	derive(pin, pinned, ed, AccomDoubling)
	derive(cane, caned, ed, AccomUndoubling)

	if got := pinned.Segmentation(); got != "_pin $+n +ed" {
		t.Errorf("pinned segmentation = %q, want _pin $+n +ed", got)
	}
	if got := caned.Segmentation(); got != "_cane $-e +ed" {
		t.Errorf("caned segmentation = %q, want _cane $-e +ed", got)
	}
}

func TestCompoundAnalysis(t *testing.T) {
	bake := NewWord("bake", 10, true, false)
	bakers := NewWord("bakers", 5, true, false)
	field := NewWord("field", 8, true, false)
	bakersfield := NewWord("bakersfield", 2, true, false)

	ers := NewTransform(NewAffix("", Suffix), NewAffix("ers", Suffix))
	derive(bake, bakers, ers, AccomNone)
	field.SetRoot(field)

	bakersfield.MakeCompound([]*Word{bakers, field})

	if !bakersfield.IsCompound() || bakersfield.Set() != WSCompound {
		t.Fatalf("word not reclassified as compound")
	}
	if got := bakersfield.Analyze(); got != "BAKE +(ers) FIELD" {
		t.Errorf("compound analysis = %q, want BAKE +(ers) FIELD", got)
	}
	if got := bakersfield.Segmentation(); got != "_bake +ers || _field" {
		t.Errorf("compound segmentation = %q, want _bake +ers || _field", got)
	}
}

func TestSetRootCyclePanics(t *testing.T) {
	w := NewWord("loop", 1, true, false)
	w.AddDerived(w)

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic on circular derivation")
		}
	}()
	w.SetRoot(w)
}

func TestRemoveTransformPairMissingPanics(t *testing.T) {
	w := NewWord("walk", 1, true, false)
	trans := NewTransform(NewAffix("", Suffix), NewAffix("ed", Suffix))
	pair := TransformPair{Transform: trans, Pair: WordPair{Base: w, Derived: w}}

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic removing an absent transform pair")
		}
	}()
	w.RemoveTransformPair(pair)
}

func TestDerivedWordsString(t *testing.T) {
	walk := NewWord("walk", 10, true, false)
	walk.AddDerived(NewWord("walks", 1, true, false))
	walk.AddDerived(NewWord("walked", 1, true, false))
	walk.AddDerived(NewWord("walking", 1, true, false))

	if got := walk.DerivedWordsString(); got != "walk,walked,walking,walks" {
		t.Errorf("DerivedWordsString = %q", got)
	}
}

func TestExternalAnalysis(t *testing.T) {
	w := NewWord("hopeful", 3, true, false)
	w.SetExternalAnalysis("HOPE +(ful)")
	if got := w.Analyze(); got != "HOPE +(ful)" {
		t.Errorf("Analyze = %q, want the external analysis", got)
	}

	defer func() {
		if recover() == nil {
			t.Errorf("expected panic segmenting an externally analyzed word")
		}
	}()
	w.Segmentation()
}
