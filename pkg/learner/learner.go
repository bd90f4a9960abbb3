// Package learner implements the rule-induction loop: hypothesizing affix
// rewrite rules from the most productive affixes, scoring them against the
// lexicon, vetting the ranked candidates, and committing the winner by moving
// the word pairs it covers.
package learner

import (
	"fmt"
	"io"
	"log"
	"sort"

	"github.com/japaniel/morphlearn/pkg/compound"
	"github.com/japaniel/morphlearn/pkg/morph"
	"github.com/japaniel/morphlearn/pkg/params"
)

// Learner drives rule induction over a lexicon. One Learner handles one run;
// it is not safe for concurrent use.
type Learner struct {
	lex *morph.Lexicon
	cfg *params.Config

	learned     []*morph.Transform
	learnedKeys map[string]struct{}
	badKeys     map[string]struct{}
	indexed     map[string]*morph.Transform

	relations *morph.TransformRelations
	inference *baseInference

	// Logger is used for progress messages. nil means no logging.
	Logger *log.Logger

	// Snapshot, when set, is called to dump the current analysis under a
	// label: iteration numbers during learning and "precompound" before
	// final compounding.
	Snapshot func(label string) error

	// SnapshotCompounds controls whether the "precompound" snapshot is
	// written when final compounding is enabled.
	SnapshotCompounds bool

	// BaseInfLog, when set, receives the bases materialized by base
	// inference after each learned rule.
	BaseInfLog io.Writer
}

// New creates a learner over the given lexicon and parameters.
func New(lex *morph.Lexicon, cfg *params.Config) *Learner {
	return &Learner{
		lex:         lex,
		cfg:         cfg,
		learnedKeys: make(map[string]struct{}),
		badKeys:     make(map[string]struct{}),
		indexed:     make(map[string]*morph.Transform),
		relations:   morph.NewTransformRelations(),
		inference:   newBaseInference(),
	}
}

// LearnedTransforms returns the accepted transforms in learning order.
func (l *Learner) LearnedTransforms() []*morph.Transform { return l.learned }

// Relations returns the transform-relation tracker maintained during the run.
func (l *Learner) Relations() *morph.TransformRelations { return l.relations }

// Learn runs the full induction loop, then final compounding and simplex
// analysis if configured. After Learn returns, the lexicon holds the final
// classification and derivation links for every word.
func (l *Learner) Learn() error {
	l.logf("Lexicon stats:\n%s\n", l.lex.Status())

	if l.cfg.Hyphenation {
		l.logf("Handling hyphenation...")
		l.lex.ProcessHyphenation()
		l.logf("Lexicon stats:\n%s\n", l.lex.Status())
	}

	l.logf("Starting learning...")
	for i := 0; i < l.cfg.MaxIterations; i++ {
		l.logf("Iteration %d", i+1)
		l.logf("Lexicon stats:\n%s", l.lex.Status())
		l.logf("Base size: %d", len(l.lex.SetWords(morph.WSBase)))
		l.logf("Derived size: %d", len(l.lex.SetWords(morph.WSDerived)))
		l.logf("Unmodeled size: %d", len(l.lex.SetWords(morph.WSUnmodeled)))

		l.logf("Hypothesizing and scoring transforms...")
		hypTransforms := l.hypothesizeTransforms()

		// Score with doubling and inferred derivation off so rules cannot
		// earn their rank through accommodation alone.
		const scoreDoubling = false
		const scoreInferred = false
		if l.cfg.TransformOptimization {
			if i == 0 {
				for _, trans := range hypTransforms {
					morph.ScoreTransform(trans, l.lex, l.cfg.ScoreReEval, scoreDoubling, scoreInferred)
				}
			} else {
				l.incrementalScoreTransforms(hypTransforms, scoreDoubling, scoreInferred)
			}
			l.indexed = indexTransforms(hypTransforms)
		} else {
			for _, trans := range hypTransforms {
				morph.ScoreTransform(trans, l.lex, l.cfg.ScoreReEval, scoreDoubling, scoreInferred)
			}
		}

		l.sortTransforms(hypTransforms)

		if l.cfg.TransformDebug {
			for _, trans := range hypTransforms {
				l.logf("%s", trans.VerboseString(l.cfg.WeightingExponent))
			}
		}

		topTransforms := hypTransforms
		if len(topTransforms) > l.cfg.TopAffixes {
			topTransforms = topTransforms[:l.cfg.TopAffixes]
		}
		bestTransform := l.selectTransform(topTransforms)

		if bestTransform == nil {
			l.logf("Out of good transforms to learn. Learning complete.\n")
			break
		}
		l.logf("Selected %s", bestTransform)

		// Re-scoring with re-evaluation, doubling, and inferred derivation
		// enabled gives the accepted rule its full, accurate pair set.
		if l.cfg.ReEval {
			reEvalTransform := morph.NewTransform(bestTransform.Affix1(), bestTransform.Affix2())
			morph.ScoreTransform(reEvalTransform, l.lex, l.cfg.ReEval, l.cfg.Doubling, l.cfg.DeriveInferredForms)
			bestTransform = reEvalTransform
		}

		l.logf("Learned %s", bestTransform.VerboseString(l.cfg.WeightingExponent))
		// Moves must not change word sets beyond the pairs themselves, so
		// re-evaluation and doubling are off while updating scores.
		l.lex.MoveTransformPairs(bestTransform, hypTransforms, l.cfg.TransformOptimization,
			false, scoreDoubling, scoreInferred)

		// Marking learned only after the move keeps the unmoved-pair
		// tracking scoped to pairs added from here on.
		bestTransform.MarkLearned()
		l.learned = append(l.learned, bestTransform)
		l.learnedKeys[bestTransform.Key()] = struct{}{}

		if l.cfg.TransformRelations {
			l.relations.InferRelations(l.lex)
			l.logf("Transform relationships:\n%s", l.relations)
		}

		if l.cfg.BaseInference {
			l.inference.inferConservatively(l, hypTransforms)
		}

		if l.cfg.IterCompounding {
			l.logf("Handling iteration compounding...")
			n := compound.BreakCompounds(l.lex, morph.WSBase, l.learned, hypTransforms,
				l.cfg.TransformOptimization, l.cfg.ReEval, l.cfg.Doubling,
				l.cfg.DeriveInferredForms, l.activeRelations())
			l.logf("Broke %d compounds in base", n)
			if l.cfg.AggrCompounding {
				n = compound.BreakCompounds(l.lex, morph.WSUnmodeled, l.learned, hypTransforms,
					l.cfg.TransformOptimization, l.cfg.ReEval, l.cfg.Doubling,
					l.cfg.DeriveInferredForms, l.activeRelations())
				l.logf("Broke %d compounds in unmodeled", n)
			}
		}

		// Snapshots are one-indexed: the first iteration and every fifth.
		if l.cfg.IterationAnalysis && l.Snapshot != nil && (i == 0 || (i+1)%5 == 0) {
			if err := l.Snapshot(fmt.Sprintf("%d", i+1)); err != nil {
				return fmt.Errorf("writing iteration analysis: %w", err)
			}
		}
	}

	if l.cfg.FinalCompounding {
		if l.SnapshotCompounds && l.Snapshot != nil {
			if err := l.Snapshot("precompound"); err != nil {
				return fmt.Errorf("writing precompound analysis: %w", err)
			}
		}

		// Filler rules only apply when compounding ran during iterations;
		// otherwise splits are over plain lexicon words.
		var fillerRules []*morph.Transform
		if l.cfg.IterCompounding {
			fillerRules = l.learned
		}

		l.logf("Handling final compounding...")
		// Learning is over, so there are no hypothesized transforms left to
		// maintain and optimization can be off.
		n := compound.BreakCompounds(l.lex, morph.WSBase, fillerRules, nil, false,
			l.cfg.ReEval, l.cfg.Doubling, l.cfg.DeriveInferredForms, l.activeRelations())
		l.logf("Broke %d compounds in base", n)
		n = compound.BreakCompounds(l.lex, morph.WSUnmodeled, fillerRules, nil, false,
			l.cfg.ReEval, l.cfg.Doubling, l.cfg.DeriveInferredForms, l.activeRelations())
		l.logf("Broke %d compounds in unmodeled", n)
	}

	if l.cfg.AnalyzeSimplexWords {
		l.logf("Analyzing simplex words...")
		n := compound.AnalyzeSimplexWords(l.lex, morph.WSUnmodeled, l.learned,
			l.cfg.Doubling, l.activeRelations())
		l.logf("Analyzed %d words in unmodeled", n)
	}

	return nil
}

// activeRelations returns the relation tracker when sequence filtering is on,
// nil otherwise.
func (l *Learner) activeRelations() *morph.TransformRelations {
	if l.cfg.TransformRelations {
		return l.relations
	}
	return nil
}

// hypothesizeTransforms builds the iteration's candidate transforms from the
// cross product of the top source affixes (over BASE and UNMODELED words) and
// the top target affixes (over UNMODELED words), excluding identical pairs,
// tautological re-attachment pairs, and transforms already judged bad.
func (l *Learner) hypothesizeTransforms() []*morph.Transform {
	topBUPrefixes := l.lex.TopAffixes(l.cfg.TopAffixes, morph.Prefix, morph.ScopeBaseUnmod, l.cfg.WeightedAffixes)
	topUPrefixes := l.lex.TopAffixes(l.cfg.TopAffixes, morph.Prefix, morph.ScopeUnmod, l.cfg.WeightedAffixes)
	topBUSuffixes := l.lex.TopAffixes(l.cfg.TopAffixes, morph.Suffix, morph.ScopeBaseUnmod, l.cfg.WeightedAffixes)
	topUSuffixes := l.lex.TopAffixes(l.cfg.TopAffixes, morph.Suffix, morph.ScopeUnmod, l.cfg.WeightedAffixes)

	var transforms []*morph.Transform
	transforms = l.makeTransforms(transforms, topBUPrefixes, topUPrefixes, morph.Prefix)
	transforms = l.makeTransforms(transforms, topBUSuffixes, topUSuffixes, morph.Suffix)
	return transforms
}

func (l *Learner) makeTransforms(transforms []*morph.Transform, sources, targets []*morph.Affix, typ morph.AffixType) []*morph.Transform {
	for _, affix1 := range sources {
		for _, affix2 := range targets {
			if affix1 == affix2 || morph.IsBadAffixPair(affix1, affix2, typ) {
				continue
			}
			trans := morph.NewTransform(affix1, affix2)
			if _, bad := l.badKeys[trans.Key()]; !bad {
				transforms = append(transforms, trans)
			}
		}
	}
	return transforms
}

// incrementalScoreTransforms reuses the scores of transforms identical by key
// to ones scored in the previous iteration and scores the rest from scratch.
func (l *Learner) incrementalScoreTransforms(hypTransforms []*morph.Transform, doubling, deriveInferred bool) {
	for i, hyp := range hypTransforms {
		if scored, ok := l.indexed[hyp.Key()]; ok {
			hypTransforms[i] = scored
		} else {
			morph.ScoreTransform(hyp, l.lex, l.cfg.ScoreReEval, doubling, deriveInferred)
		}
	}
}

func indexTransforms(transforms []*morph.Transform) map[string]*morph.Transform {
	index := make(map[string]*morph.Transform, len(transforms))
	for _, trans := range transforms {
		index[trans.Key()] = trans
	}
	return index
}

// sortTransforms ranks candidates descending by weighted or raw type count,
// with token count and then the transform text as tie-breaks.
func (l *Learner) sortTransforms(transforms []*morph.Transform) {
	count := func(t *morph.Transform) int64 { return t.TypeCount() }
	if l.cfg.WeightedTransforms {
		exponent := l.cfg.WeightingExponent
		count = func(t *morph.Transform) int64 { return t.WeightedTypeCount(exponent) }
	}

	sort.Slice(transforms, func(i, j int) bool {
		ci, cj := count(transforms[i]), count(transforms[j])
		if ci != cj {
			return ci > cj
		}
		if transforms[i].TokenCount() != transforms[j].TokenCount() {
			return transforms[i].TokenCount() > transforms[j].TokenCount()
		}
		return transforms[i].String() < transforms[j].String()
	})
}

// selectTransform scans the ranked candidates and returns the first that
// survives vetting, or nil if the bad-transform window is exhausted first.
// Rejections for low type count or low segmentation precision count against
// the window; conflicts and overlap rejections do not.
func (l *Learner) selectTransform(topTransforms []*morph.Transform) *morph.Transform {
	l.logf("Selecting a transform...")
	nBadTransforms := 0

	for i, bestTransform := range topTransforms {
		if nBadTransforms >= l.cfg.WindowSize {
			return nil
		}

		l.logf("Vetting transform %s", bestTransform.VerboseString(l.cfg.WeightingExponent))

		if bestTransform.TypeCount() < l.cfg.TypeThreshold {
			l.logf("Transform has too few types.")
			nBadTransforms++
			l.badKeys[bestTransform.Key()] = struct{}{}
			continue
		}

		if l.isConflict(bestTransform) {
			l.badKeys[bestTransform.Key()] = struct{}{}
			continue
		}

		baseOverlap := l.baseOverlap(bestTransform)
		stemOverlap := l.stemOverlap(bestTransform)
		var overlapRatio float64
		switch {
		case baseOverlap+stemOverlap == 0:
			l.logf("Overlap ratio: undefined (no base or stem overlap)")
			overlapRatio = 0
		case baseOverlap == 0:
			l.logf("Overlap ratio: undefined (no base overlap, but stem overlap of %d)", stemOverlap)
			overlapRatio = l.cfg.OverlapThreshold + 1
		default:
			overlapRatio = float64(stemOverlap) / float64(baseOverlap)
			l.logf("Overlap ratio: %g", overlapRatio)
		}
		if overlapRatio > l.cfg.OverlapThreshold {
			l.logf("Overlap ratio too high.")
			continue
		}

		if i+1 < len(topTransforms) {
			secondTransform := topTransforms[i+1]
			if isTie(bestTransform, secondTransform) {
				l.logf("Breaking tie between %s and %s", bestTransform, secondTransform)
				bestTransform = breakTie(bestTransform, secondTransform)
			}
		}

		segPrecision := morph.SegPrecision(bestTransform)
		l.logf("Seg. Precision: %g", segPrecision)
		if segPrecision < l.cfg.PrecisionThreshold {
			l.logf("Seg. Precision too low")
			nBadTransforms++
			l.badKeys[bestTransform.Key()] = struct{}{}
			continue
		}

		return bestTransform
	}

	return nil
}

// isConflict reports whether the candidate or its exact inverse has already
// been learned.
func (l *Learner) isConflict(t *morph.Transform) bool {
	if _, ok := l.learnedKeys[t.Key()]; ok {
		l.logf("Conflict: Transform already learned.")
		return true
	}
	inverse := morph.NewTransform(t.Affix2(), t.Affix1())
	if _, ok := l.learnedKeys[inverse.Key()]; ok {
		l.logf("Conflict: Inverse of transform already learned.")
		return true
	}
	return false
}

// baseOverlap counts the transform's pairs whose base is already BASE.
func (l *Learner) baseOverlap(t *morph.Transform) int {
	overlap := 0
	for pair := range t.WordPairs() {
		if pair.Base.Set() == morph.WSBase {
			overlap++
		}
	}
	return overlap
}

// stemOverlap counts the transform's pairs whose base shares a fixed-length
// prefix with some existing BASE word.
func (l *Learner) stemOverlap(t *morph.Transform) int {
	stemLength := l.cfg.OverlapStemLength

	baseStems := make(map[string]struct{})
	for word := range l.lex.SetWords(morph.WSBase) {
		if runes := []rune(word.Text()); len(runes) > stemLength {
			baseStems[string(runes[:stemLength])] = struct{}{}
		}
	}

	overlap := 0
	for pair := range t.WordPairs() {
		runes := []rune(pair.Base.Text())
		if len(runes) < stemLength {
			continue
		}
		if _, ok := baseStems[string(runes[:stemLength])]; ok {
			overlap++
		}
	}
	return overlap
}

// isTie reports whether two adjacent candidates are mutual inverses with the
// same type count.
func isTie(trans1, trans2 *morph.Transform) bool {
	return trans1.Affix1() == trans2.Affix2() &&
		trans1.Affix2() == trans2.Affix1() &&
		trans1.TypeCount() == trans2.TypeCount()
}

// breakTie awards the win to whichever inverse has more pairs where the base
// is more frequent than the derived form. Ties go to the first.
func breakTie(trans1, trans2 *morph.Transform) *morph.Transform {
	baseScore, derivedScore := 0, 0
	for pair := range trans1.WordPairs() {
		if pair.Base.Count() > pair.Derived.Count() {
			baseScore++
		} else if pair.Derived.Count() > pair.Base.Count() {
			derivedScore++
		}
	}
	if baseScore >= derivedScore {
		return trans1
	}
	return trans2
}

func (l *Learner) logf(format string, args ...any) {
	if l.Logger != nil {
		l.Logger.Printf(format, args...)
	}
}
