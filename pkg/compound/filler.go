package compound

import (
	"strings"

	"github.com/japaniel/morphlearn/pkg/morph"
)

// FillerResult is one way of extending a word prefix with filler: the derived
// text, the base it came from, and the transform and accommodation that
// produced it.
type FillerResult struct {
	DerivedText string
	BaseWord    *morph.Word
	Derivation  *morph.Transform
	Accom       morph.Accommodation
}

// Filler applies learned transforms to word prefixes to form the derived
// words that appear inside compounds. Only suffix rules can fill: a prefix
// rule would rewrite the left edge of the component, which the search has
// already matched.
type Filler struct {
	suffixes []*morph.Transform
}

// NewFiller creates a filler from the learned transforms, keeping the suffix
// rules.
func NewFiller(transforms []*morph.Transform) *Filler {
	f := &Filler{}
	for _, transform := range transforms {
		if transform.Type() == morph.Suffix {
			f.suffixes = append(f.suffixes, transform)
		}
	}
	return f
}

// FilledSuffixes returns every legal way of deriving a filler form from the
// prefix word such that the result is still a prefix of the full word.
func (f *Filler) FilledSuffixes(fullWord string, prefixWord *morph.Word, doubling bool) []FillerResult {
	var filled []FillerResult
	for _, transform := range f.suffixes {
		derived, accom, ok := makeFillerDerived(fullWord, prefixWord.Text(), doubling, transform.Affix1(), transform.Affix2())
		if ok {
			filled = append(filled, FillerResult{
				DerivedText: derived,
				BaseWord:    prefixWord,
				Derivation:  transform,
				Accom:       accom,
			})
		}
	}
	return filled
}

// makeFillerDerived applies the affix rewrite to the prefix word and reports
// the first resulting form that is still a prefix of the full word, probing
// plain concatenation first and then, when accommodation applies, the doubled
// and undoubled stems.
func makeFillerDerived(fullWord, prefixWord string, doubling bool, affix1, affix2 *morph.Affix) (string, morph.Accommodation, bool) {
	if !morph.HasAffixText(prefixWord, affix1) {
		return "", morph.AccomNone, false
	}

	stem := morph.MakeStem(prefixWord, affix1)
	derived := morph.MakeDerived(stem, affix2, false, false)
	if strings.HasPrefix(fullWord, derived) {
		return derived, morph.AccomNone, true
	}

	if doubling && affix1.IsNull() {
		derived = morph.MakeDerived(stem, affix2, true, false)
		if strings.HasPrefix(fullWord, derived) {
			return derived, morph.AccomDoubling, true
		}

		derived = morph.MakeDerived(stem, affix2, false, true)
		if strings.HasPrefix(fullWord, derived) && derived != stem {
			return derived, morph.AccomUndoubling, true
		}
	}

	return "", morph.AccomNone, false
}
