// Package compound decomposes words into sequences of known words, optionally
// joined by "filler" forms built by applying learned transforms to word
// prefixes. A beam search over splits accepts a decomposition only when it
// scores at least as well as the word left whole.
package compound

import (
	"log"

	"github.com/japaniel/morphlearn/pkg/morph"
)

const (
	// minCompoundLength is the minimum length in characters of both a
	// compound and each of its components.
	minCompoundLength = 4
	// beamSize bounds the number of hypotheses extended per generation.
	beamSize = 200
)

// BreakCompounds tries to split every eligible word in the given set,
// reclassifying successfully split words as compounds. Learned transforms,
// when given, serve as filler between components; nil disables filler.
// New filler words and re-derived duplicates are committed through the
// lexicon afterward, keeping the hypothesized transforms consistent when
// optimization is on. Returns the number of words split.
func BreakCompounds(
	lex *morph.Lexicon, set morph.WordSet,
	learnedTransforms, hypTransforms []*morph.Transform,
	opt, reEval, doubling, deriveInferred bool,
	relations *morph.TransformRelations,
) int {
	nCompounds := 0

	var filler *Filler
	if learnedTransforms != nil {
		filler = NewFiller(learnedTransforms)
	}

	// New words are collected per deriving transform and moved after the
	// scan, so the set being iterated is not grown mid-scan.
	transformPairs := make(map[*morph.Transform]map[morph.WordPair]struct{})

	for word := range lex.SetWords(set) {
		if word.IsCompound() || word.Len() < minCompoundLength {
			continue
		}

		bestHyp := breakWord(word, filler, lex, relations, doubling)
		if bestHyp == nil {
			continue
		}

		if len(bestHyp.words) > 1 {
			nCompounds++
			lex.MakeCompoundWord(word, bestHyp.words)
		}

		for _, compoundElement := range bestHyp.words {
			// A filler form duplicating an existing word is reconciled onto
			// the lexicon's own entry instead of being inserted.
			duplicate := compoundElement.IsDuplicate()
			if duplicate {
				lexWord := lex.Word(compoundElement.Text())
				lexWord.SetBase(compoundElement.Base())
				lexWord.SetTransform(compoundElement.Derivation(), compoundElement.DerivationAccommodation())
				compoundElement = lexWord
			}

			if duplicate || lex.Word(compoundElement.Text()) == nil {
				addPair(transformPairs, compoundElement)
			}
		}
	}

	for transform, pairs := range transformPairs {
		// Newly created filler words are synthetic and still need lexicon
		// entries before they can be moved.
		for pair := range pairs {
			if !pair.Derived.ShouldAnalyze() {
				lex.AddWord(pair.Derived)
			}
		}
		lex.MoveWordPairs(transform, hypTransforms, opt, reEval, doubling, deriveInferred, pairs)
	}

	return nCompounds
}

func addPair(transformPairs map[*morph.Transform]map[morph.WordPair]struct{}, derived *morph.Word) {
	transform := derived.Derivation()
	pairs := transformPairs[transform]
	if pairs == nil {
		pairs = make(map[morph.WordPair]struct{})
		transformPairs[transform] = pairs
	}
	pairs[morph.WordPair{
		Base:    derived.Base(),
		Derived: derived,
		Accom:   derived.DerivationAccommodation(),
	}] = struct{}{}
}

// breakWord runs the beam search for one word and returns the accepted
// hypothesis, or nil if the word should stay whole. Single-word hypotheses
// without a derivation are discarded since they just restate the word.
func breakWord(word *morph.Word, filler *Filler, lex *morph.Lexicon, relations *morph.TransformRelations, doubling bool) *hypothesis {
	currHyps := []*hypothesis{newHypothesis(word.Text())}
	var completeHyps []*hypothesis

	announced := false
	for len(currHyps) > 0 {
		sortHypotheses(currHyps)
		generation := currHyps
		if len(generation) > beamSize {
			if !announced {
				log.Printf("Word over beam size: %s", word)
				announced = true
			}
			generation = generation[:beamSize]
		}

		var newHyps []*hypothesis
		for _, hyp := range generation {
			for _, result := range hyp.extendAll(lex, filler, relations, doubling) {
				if result.isComplete() {
					if len(result.words) == 1 && result.words[0].Derivation() == nil {
						continue
					}
					completeHyps = append(completeHyps, result)
				} else {
					newHyps = append(newHyps, result)
				}
			}
		}
		currHyps = newHyps
	}

	if len(completeHyps) == 0 {
		return nil
	}
	return pickHypothesis(completeHyps, word)
}

// getPrefixes returns every known word that is a prefix of the text, plus,
// when filler is given, derived forms built by applying filler transforms to
// non-UNMODELED prefix words. allowFull permits a prefix covering the whole
// text.
func getPrefixes(
	text string, lex *morph.Lexicon, allowFull bool,
	filler *Filler, relations *morph.TransformRelations, doubling bool,
) []*morph.Word {
	runes := []rune(text)
	max := len(runes)
	if !allowFull {
		max--
	}

	var prefixes []*morph.Word
	for i := minCompoundLength; i <= max; i++ {
		if prefixWord := lex.Word(string(runes[:i])); prefixWord != nil {
			prefixes = append(prefixes, prefixWord)
		}
	}

	if filler == nil {
		return prefixes
	}

	for i := minCompoundLength; i <= max; i++ {
		prefix := string(runes[:i])
		baseWord := lex.Word(prefix)
		if baseWord == nil || baseWord.Set() == morph.WSUnmodeled {
			continue
		}

		for _, result := range filler.FilledSuffixes(text, baseWord, doubling) {
			// A filler form that duplicates a lexicon word is only usable
			// when that word is UNMODELED; re-deriving it here is then an
			// analysis, not a conflict.
			dupeWord := lex.Word(result.DerivedText)
			duplicate := false
			if dupeWord != nil {
				if dupeWord.Set() != morph.WSUnmodeled {
					continue
				}
				duplicate = true
			}

			if relations != nil && !relations.IsGoodRelation(result.BaseWord.Derivation(), result.Derivation) {
				continue
			}

			// A new filler word takes half the count of the prefix it came
			// from; a duplicate keeps the count of the existing word.
			count := baseWord.Count() / 2
			if duplicate {
				count = dupeWord.Count()
			}
			prefixWord := morph.NewWord(result.DerivedText, count, false, false)
			if duplicate {
				prefixWord.MarkDuplicate()
			}

			// The derivation is recorded on the word now and committed to
			// the lexicon only if this split is accepted.
			prefixWord.SetBase(result.BaseWord)
			prefixWord.SetTransform(result.Derivation, result.Accom)

			prefixes = append(prefixes, prefixWord)
		}
	}

	return prefixes
}
