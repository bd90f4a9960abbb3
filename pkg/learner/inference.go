package learner

import (
	"fmt"

	"github.com/japaniel/morphlearn/pkg/morph"
)

// baseInference infers base forms implied by learned rules. A hypothesized
// base is recorded the first time it is implied and only materialized when it
// is implied a second time, which keeps single coincidental overlaps from
// creating words.
type baseInference struct {
	inferredBases map[string]struct{}
}

func newBaseInference() *baseInference {
	return &baseInference{inferredBases: make(map[string]struct{})}
}

// inferBases walks the UNMODELED words carrying the transform's output affix,
// reverses the rule on each, and returns the hypothesized bases that cleared
// the two-observation gate as new synthetic words.
func (b *baseInference) inferBases(lex *morph.Lexicon, transform *morph.Transform) []*morph.Word {
	var newWords []*morph.Word
	for w := range transform.Affix2().Words() {
		if w.Set() != morph.WSUnmodeled {
			continue
		}

		baseText := morph.InferBase(w, transform)
		if lex.Word(baseText) != nil {
			continue
		}

		if _, seen := b.inferredBases[baseText]; seen {
			// The new word takes the token count of the word that promoted it.
			newWords = append(newWords, morph.NewWord(baseText, w.Count(), false, true))
		} else {
			b.inferredBases[baseText] = struct{}{}
		}
	}
	return newWords
}

// inferConservatively infers bases from the newest learned transform, adds
// them to the lexicon as BASE words, and, when recomputation is enabled,
// scores each new base against every learned transform, moving discovered
// pairs immediately so a word cannot be derived twice later.
func (b *baseInference) inferConservatively(l *Learner, hypTransforms []*morph.Transform) {
	newBaseCount := 0
	newPairCount := 0

	newestTransform := l.learned[len(l.learned)-1]
	newWords := b.inferBases(l.lex, newestTransform)
	for _, newBase := range newWords {
		l.lex.AddWord(newBase)
		l.lex.MoveWord(newBase, morph.WSBase)
		newBaseCount++

		if !l.cfg.BaseInferenceRecompute {
			continue
		}
		for _, trans := range l.learned {
			if !newBase.HasAffix(trans.Affix1()) {
				continue
			}
			if morph.ScoreWord(trans, newBase, l.lex, l.cfg.ReEval, l.cfg.Doubling, l.cfg.DeriveInferredForms) {
				newPairCount++
				l.lex.MoveTransformPairs(trans, hypTransforms, l.cfg.TransformOptimization,
					l.cfg.ReEval, l.cfg.Doubling, l.cfg.DeriveInferredForms)
			}
		}
	}

	if newBaseCount > 0 {
		l.lex.UpdateFrequencies()
	}

	// Keep the hypothesized transforms' scores aware of the new bases,
	// except for the transform just learned.
	if l.cfg.TransformOptimization {
		for _, newBase := range newWords {
			for _, trans := range hypTransforms {
				if trans != newestTransform && newBase.HasAffix(trans.Affix1()) {
					morph.ScoreWord(trans, newBase, l.lex, l.cfg.ReEval, l.cfg.Doubling, l.cfg.DeriveInferredForms)
				}
			}
		}
	}

	if l.BaseInfLog != nil {
		fmt.Fprintf(l.BaseInfLog, "# Learned transform %s\n", newestTransform)
		for _, newBase := range newWords {
			fmt.Fprintln(l.BaseInfLog, newBase.DerivedWordsString())
		}
		fmt.Fprintln(l.BaseInfLog)
	}

	l.logf("%d new pairs inferred by conservative inference.", newPairCount)
}
