package morph

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Accommodation is the orthographic adjustment applied to a stem when
// building a derived form.
type Accommodation int

const (
	// AccomNone means plain concatenation.
	AccomNone Accommodation = iota
	// AccomDoubling repeats the last character of the stem.
	AccomDoubling
	// AccomUndoubling deletes the last character of the stem.
	AccomUndoubling
)

// WordPair is a base/derived pairing covered by a transform, plus the
// accommodation it required. Pairs are values so they can key maps directly.
type WordPair struct {
	Base    *Word
	Derived *Word
	Accom   Accommodation
}

// IsAccommodated reports whether the pair required orthographic accommodation.
func (p WordPair) IsAccommodated() bool { return p.Accom != AccomNone }

func (p WordPair) String() string {
	return p.Base.text + "/" + p.Derived.text
}

// TransformPair ties a word pair to the transform that covers it, so a word
// can be unlinked from every transform it participates in when it moves.
type TransformPair struct {
	Transform *Transform
	Pair      WordPair
}

func (tp TransformPair) String() string {
	return tp.Transform.String() + ": " + tp.Pair.String()
}

// Transform is a candidate or learned rewrite rule replacing affix1 with
// affix2, both of the same type. It accumulates the word pairs it covers and
// frequent-pair type/token counts used for ranking.
type Transform struct {
	affix1 *Affix
	affix2 *Affix
	typ    AffixType
	length int

	pairs   map[WordPair]struct{}
	unmoved map[WordPair]struct{} // allocated when learned

	typeCount       int64
	tokenCount      int64
	normalPairCount int64
	accomPairCount  int64

	learned bool
}

// NewTransform creates an empty transform over two affixes of the same type.
// Mixing a prefix with a suffix is a programming error.
func NewTransform(affix1, affix2 *Affix) *Transform {
	if affix1.typ != affix2.typ {
		panic("morph: transform affixes must have the same type")
	}
	length := affix2.length - affix1.length
	if length < 0 {
		length = -length
	}
	return &Transform{
		affix1: affix1,
		affix2: affix2,
		typ:    affix1.typ,
		length: length,
		pairs:  make(map[WordPair]struct{}),
	}
}

// Affix1 returns the source affix of the rule.
func (t *Transform) Affix1() *Affix { return t.affix1 }

// Affix2 returns the output affix of the rule.
func (t *Transform) Affix2() *Affix { return t.affix2 }

// Type returns whether the transform rewrites prefixes or suffixes.
func (t *Transform) Type() AffixType { return t.typ }

// Len returns the length difference between the two affixes, in characters.
func (t *Transform) Len() int { return t.length }

// IsLearned reports whether the transform has been accepted by the learner.
func (t *Transform) IsLearned() bool { return t.learned }

// TypeCount returns the number of frequent word pairs covered.
func (t *Transform) TypeCount() int64 { return t.typeCount }

// TokenCount returns the summed token counts of frequent pairs covered.
func (t *Transform) TokenCount() int64 { return t.tokenCount }

// NormalPairCount returns the frequent pairs built without accommodation.
func (t *Transform) NormalPairCount() int64 { return t.normalPairCount }

// AccomPairCount returns the frequent pairs built with accommodation.
func (t *Transform) AccomPairCount() int64 { return t.accomPairCount }

// WordPairs returns all pairs covered by the transform, frequent or not.
func (t *Transform) WordPairs() map[WordPair]struct{} { return t.pairs }

// UnmovedPairs returns pairs added since the transform was learned that have
// not yet been moved by the lexicon. Nil before the transform is learned.
func (t *Transform) UnmovedPairs() map[WordPair]struct{} { return t.unmoved }

// ResetUnmoved clears the unmoved-pair set after the lexicon has moved them.
func (t *Transform) ResetUnmoved() { t.unmoved = make(map[WordPair]struct{}) }

// MarkLearned marks the transform as accepted and starts tracking pairs added
// afterward, which is what lets learned transforms re-apply incrementally.
func (t *Transform) MarkLearned() {
	t.learned = true
	t.unmoved = make(map[WordPair]struct{})
}

// WeightedTypeCount returns the type count weighted by the transform's length
// raised to the given exponent. Zero-length transforms weigh as length one.
func (t *Transform) WeightedTypeCount(exponent float64) int64 {
	length := t.length
	if length < 1 {
		length = 1
	}
	return int64(math.Round(float64(t.typeCount) * math.Pow(float64(length), exponent)))
}

// Key returns the transform's identity key, "p:affix1,affix2" for prefix
// rules and "s:affix1,affix2" for suffix rules. Scored transforms are indexed
// by key so identical hypotheses can be reused across iterations.
func (t *Transform) Key() string {
	kind := "s"
	if t.typ == Prefix {
		kind = "p"
	}
	return kind + ":" + t.affix1.String() + "," + t.affix2.String()
}

// AddWordPair records that the transform covers the base/derived pair,
// counting it if both words are frequent and cross-linking the words.
func (t *Transform) AddWordPair(base, derived *Word, accom Accommodation) {
	pair := WordPair{Base: base, Derived: derived, Accom: accom}

	if base.frequent && derived.frequent {
		t.typeCount++
		t.tokenCount += base.count + derived.count
		if accom == AccomNone {
			t.normalPairCount++
		} else {
			t.accomPairCount++
		}
	}

	t.pairs[pair] = struct{}{}
	if t.learned {
		t.unmoved[pair] = struct{}{}
	}

	tPair := TransformPair{Transform: t, Pair: pair}
	base.AddTransformPair(tPair)
	derived.AddTransformPair(tPair)
}

// RemoveWordPair removes a pair from the transform and reverses its counts.
// The caller unlinks the pair from the words themselves. Pairs are never
// removed after learning, so the unmoved set is untouched.
func (t *Transform) RemoveWordPair(pair WordPair) {
	if _, ok := t.pairs[pair]; !ok {
		panic("morph: cannot remove pair: " + pair.String())
	}
	delete(t.pairs, pair)

	if pair.Base.frequent && pair.Derived.frequent {
		t.typeCount--
		t.tokenCount -= pair.Base.count + pair.Derived.count
		if pair.Accom == AccomNone {
			t.normalPairCount--
		} else {
			t.accomPairCount--
		}
	}
}

// ScoreTransform counts the words a transform covers, testing every word
// containing affix1. Covered pairs are recorded on the transform but not
// moved.
func ScoreTransform(t *Transform, lex *Lexicon, reEval, doubling, deriveInferred bool) {
	for base := range t.affix1.words {
		ScoreWord(t, base, lex, reEval, doubling, deriveInferred)
	}
}

// ScoreWord tests whether a word participates in a transform, adding the pair
// to the transform if it does. The plain derived form is probed first, then,
// when accommodation applies (doubling on and a null source affix), the
// doubled and undoubled forms. The undoubled form is only probed when the
// stem's last character matches affix2's first, and is rejected if it equals
// the base itself.
func ScoreWord(t *Transform, base *Word, lex *Lexicon, reEval, doubling, deriveInferred bool) bool {
	if !isLegalBaseSet(base.set, reEval) {
		return false
	}

	stem := MakeStem(base.text, t.affix1)

	derived := lex.Word(MakeDerived(stem, t.affix2, false, false))
	if isLegalDerived(derived, base.set, t.affix2, reEval, deriveInferred) {
		t.AddWordPair(base, derived, AccomNone)
		return true
	}

	if doubling && t.affix1.IsNull() {
		derived = lex.Word(MakeDerived(stem, t.affix2, true, false))
		if isLegalDerived(derived, base.set, t.affix2, reEval, deriveInferred) {
			t.AddWordPair(base, derived, AccomDoubling)
			return true
		}

		stemRunes := []rune(stem)
		affixRunes := []rune(t.affix2.text)
		if stemRunes[len(stemRunes)-1] == affixRunes[0] {
			derived = lex.Word(MakeDerived(stem, t.affix2, false, true))
			if derived != base && isLegalDerived(derived, base.set, t.affix2, reEval, deriveInferred) {
				t.AddWordPair(base, derived, AccomUndoubling)
				return true
			}
		}
	}

	return false
}

// isLegalDerived checks that the derived candidate exists, may be derived,
// forms a legal word-set pair with the base, and actually carries affix2.
// The affix check matters for short words like "feed" with the affix "ed":
// the residual stem is below the minimum, so the word does not carry the
// affix despite ending in it.
func isLegalDerived(derived *Word, baseSet WordSet, affix2 *Affix, reEval, deriveInferred bool) bool {
	return derived != nil &&
		(!derived.inferred || deriveInferred) &&
		isLegalPairSets(baseSet, derived.set, reEval) &&
		affix2.HasWord(derived)
}

// isLegalBaseSet reports whether a word in the given set may serve as a base.
// Without re-evaluation, derived forms may not.
func isLegalBaseSet(set WordSet, reEval bool) bool {
	if reEval {
		return true
	}
	return set != WSDerived
}

// isLegalPairSets reports whether a (base set, derived set) combination may
// form a pair. (BASE, UNMODELED) and (UNMODELED, UNMODELED) are always legal;
// re-evaluation additionally allows (BASE, BASE) and (DERIVED, UNMODELED).
func isLegalPairSets(baseSet, derivedSet WordSet, reEval bool) bool {
	switch baseSet {
	case WSBase:
		switch derivedSet {
		case WSUnmodeled:
			return true
		case WSBase:
			return reEval
		}
	case WSDerived:
		if derivedSet == WSUnmodeled {
			return reEval
		}
	case WSUnmodeled:
		return derivedSet == WSUnmodeled
	}
	return false
}

// MakeStem removes the affix from a word to produce the stem.
func MakeStem(word string, affix *Affix) string {
	runes := []rune(word)
	if affix.typ == Prefix {
		return string(runes[affix.length:])
	}
	return string(runes[:len(runes)-affix.length])
}

// MakeDerived attaches the affix to a stem, optionally doubling or undoubling
// the stem's last character first. Requesting both is a programming error.
func MakeDerived(stem string, affix *Affix, doubling, undoubling bool) string {
	if doubling && undoubling {
		panic("morph: cannot both double and undouble")
	}

	runes := []rune(stem)
	if doubling {
		stem = stem + string(runes[len(runes)-1])
	} else if undoubling {
		stem = string(runes[:len(runes)-1])
	}

	if affix.typ == Prefix {
		return affix.text + stem
	}
	return stem + affix.text
}

// InferBase reverses a transform on a word, producing the text of the base
// that would have derived it.
func InferBase(w *Word, t *Transform) string {
	runes := []rune(w.text)
	if t.typ == Prefix {
		return t.affix1.text + string(runes[t.affix2.length:])
	}
	return string(runes[:len(runes)-t.affix2.length]) + t.affix1.text
}

// SegPrecision computes the transform's segmentation precision: the types it
// covers divided by the frequent types containing affix2.
func SegPrecision(t *Transform) float64 {
	return float64(t.typeCount) / float64(t.affix2.freqTypeCount)
}

// Analyze renders the transform's analysis term: "+(affix2)" for additions
// and rewrites, "-(affix1)" for pure removals, with the sign on the side the
// affix attaches to.
func (t *Transform) Analyze() string {
	var body, sign string
	if t.affix2.IsNull() {
		body = t.affix1.String()
		sign = "-"
	} else {
		body = t.affix2.String()
		sign = "+"
	}

	if t.typ == Prefix {
		return "(" + body + ")" + sign
	}
	return sign + "(" + body + ")"
}

// SegmentationToken renders the transform's segmentation term: "+affix2" for
// additions, "-affix1" for removals, or both for rewrites.
func (t *Transform) SegmentationToken() string {
	switch {
	case t.affix1.IsNull():
		return "+" + t.affix2.text
	case t.affix2.IsNull():
		return "-" + t.affix1.text
	default:
		return "-" + t.affix1.text + " +" + t.affix2.text
	}
}

// PairsText returns all covered pairs sorted and space-joined, for rule dumps.
func (t *Transform) PairsText() string {
	pairs := make([]string, 0, len(t.pairs))
	for pair := range t.pairs {
		pairs = append(pairs, pair.String())
	}
	sort.Strings(pairs)
	return strings.Join(pairs, " ")
}

// samplePairs returns the pair total and a few sorted example pairs.
func (t *Transform) samplePairs() string {
	const nSamples = 3

	pairs := make([]string, 0, nSamples)
	for pair := range t.pairs {
		if len(pairs) >= nSamples {
			break
		}
		pairs = append(pairs, pair.String())
	}
	sort.Strings(pairs)
	return fmt.Sprintf("(%d) %s", len(t.pairs), strings.Join(pairs, ", "))
}

// VerboseString renders the transform with its statistics and sample pairs,
// for progress output.
func (t *Transform) VerboseString(weightingExponent float64) string {
	return fmt.Sprintf("%s\nWeighted Types: %d, Types: %d, Tokens: %d, Pairs: %d, Normal/Accom. Pairs: %d/%d\nSamples: %s",
		t, t.WeightedTypeCount(weightingExponent), t.typeCount, t.tokenCount,
		len(t.pairs), t.normalPairCount, t.accomPairCount, t.samplePairs())
}

func (t *Transform) String() string {
	affixes := "(" + t.affix1.String() + ", " + t.affix2.String() + ")"
	if t.typ == Prefix {
		return affixes + "+"
	}
	return "+" + affixes
}
