package morph

import (
	"fmt"
	"sort"
	"strings"
)

// WordSet is the classification state of a word in the learner. A word is in
// exactly one set at a time and moves between them only through the lexicon.
type WordSet int

const (
	// WSUnmodeled marks words with no known derivation.
	WSUnmodeled WordSet = iota
	// WSBase marks words serving as the source of at least one derivation.
	WSBase
	// WSDerived marks words produced by a transform from a base.
	WSDerived
	// WSCompound marks words split into two or more component words.
	WSCompound
)

func (s WordSet) String() string {
	switch s {
	case WSUnmodeled:
		return "unmodeled"
	case WSBase:
		return "base"
	case WSDerived:
		return "derived"
	case WSCompound:
		return "compound"
	}
	return fmt.Sprintf("WordSet(%d)", int(s))
}

// Word is a lexicon entry: its text, token count, classification, and links to
// its base, root, deriving transform, and derived forms.
type Word struct {
	text     string
	length   int // in characters, not bytes
	count    int64
	freq     float64
	frequent bool

	set             WordSet
	base            *Word
	root            *Word
	derivation      *Transform
	derivationAccom Accommodation

	analyze   bool // excluded from output when false (synthetic words)
	inferred  bool
	compound  bool
	duplicate bool

	externalAnalysis string
	components       []*Word

	derived        map[*Word]struct{}
	prefixes       map[*Affix]struct{}
	suffixes       map[*Affix]struct{}
	transformPairs map[TransformPair]struct{}
}

// NewWord creates an unmodeled word. Words excluded from analysis
// (shouldAnalyze false) are synthetic: inferred bases or compound fillers.
func NewWord(text string, count int64, shouldAnalyze, isInferred bool) *Word {
	return &Word{
		text:           text,
		length:         len([]rune(text)),
		count:          count,
		freq:           -1, // not yet computed
		set:            WSUnmodeled,
		analyze:        shouldAnalyze,
		inferred:       isInferred,
		derived:        make(map[*Word]struct{}),
		prefixes:       make(map[*Affix]struct{}),
		suffixes:       make(map[*Affix]struct{}),
		transformPairs: make(map[TransformPair]struct{}),
	}
}

// Text returns the word's text, which is also its lexicon key.
func (w *Word) Text() string { return w.text }

// Len returns the length of the word in characters.
func (w *Word) Len() int { return w.length }

// Count returns the word's token count.
func (w *Word) Count() int64 { return w.count }

// Set returns the word set the word currently belongs to.
func (w *Word) Set() WordSet { return w.set }

// Base returns the word's base, or nil if it has none.
func (w *Word) Base() *Word { return w.base }

// Root returns the word's root, or nil if it has none.
func (w *Word) Root() *Word { return w.root }

// Derivation returns the transform that derives the word, or nil.
func (w *Word) Derivation() *Transform { return w.derivation }

// DerivationAccommodation returns the accommodation used by the derivation.
func (w *Word) DerivationAccommodation() Accommodation { return w.derivationAccom }

// ShouldAnalyze reports whether the word appears in analysis output.
func (w *Word) ShouldAnalyze() bool { return w.analyze }

// IsInferred reports whether the word was inferred rather than observed.
func (w *Word) IsInferred() bool { return w.inferred }

// IsCompound reports whether the word has been split into components.
func (w *Word) IsCompound() bool { return w.compound }

// IsDuplicate reports whether the word is a synthetic filler that duplicates
// an existing lexicon entry.
func (w *Word) IsDuplicate() bool { return w.duplicate }

// IsFrequent reports whether the word clears the learner's count and
// frequency thresholds. Valid only after the owning lexicon's
// UpdateFrequencies has run.
func (w *Word) IsFrequent() bool { return w.frequent }

// Components returns the ordered component words of a compound, or nil.
func (w *Word) Components() []*Word { return w.components }

// MarkDuplicate marks a compound-filler word as duplicating an existing
// lexicon entry so it can be reconciled instead of inserted.
func (w *Word) MarkDuplicate() { w.duplicate = true }

// SetBase sets the word's base.
func (w *Word) SetBase(base *Word) { w.base = base }

// SetTransform records the transform and accommodation that derive this word.
func (w *Word) SetTransform(t *Transform, accom Accommodation) {
	w.derivation = t
	w.derivationAccom = accom
}

// SetRoot sets the word's root and propagates it to every derived form.
// A word may never be its own descendant; a cycle means the lexicon state is
// corrupt and cannot be continued from.
func (w *Word) SetRoot(root *Word) {
	w.root = root
	for derived := range w.derived {
		if derived == w {
			panic("morph: circular derivation at " + w.text)
		}
		derived.SetRoot(root)
	}
}

// SetExternalAnalysis forces the word's analysis string, bypassing the
// derivation chain. Used by simplex word analysis.
func (w *Word) SetExternalAnalysis(analysis string) { w.externalAnalysis = analysis }

// AddDerived records a word derived from this one.
func (w *Word) AddDerived(derived *Word) { w.derived[derived] = struct{}{} }

// Derived returns the set of words directly derived from this one.
func (w *Word) Derived() map[*Word]struct{} { return w.derived }

// AddCount increases the word's token count. The lexicon must refresh
// frequencies before the new count affects scoring.
func (w *Word) AddCount(count int64) { w.count += count }

// HasAffix reports whether the word was indexed as containing the affix.
func (w *Word) HasAffix(affix *Affix) bool {
	var ok bool
	if affix.typ == Prefix {
		_, ok = w.prefixes[affix]
	} else {
		_, ok = w.suffixes[affix]
	}
	return ok
}

// AddAffix records that the word contains the affix.
func (w *Word) AddAffix(affix *Affix) {
	if affix.typ == Prefix {
		w.prefixes[affix] = struct{}{}
	} else {
		w.suffixes[affix] = struct{}{}
	}
}

// TransformPairs returns every transform pairing the word participates in,
// in either role.
func (w *Word) TransformPairs() map[TransformPair]struct{} { return w.transformPairs }

// AddTransformPair records the word's participation in a transform pairing.
func (w *Word) AddTransformPair(pair TransformPair) { w.transformPairs[pair] = struct{}{} }

// RemoveTransformPair removes a pairing. Removing a pairing that was never
// added indicates corrupted bookkeeping.
func (w *Word) RemoveTransformPair(pair TransformPair) {
	if _, ok := w.transformPairs[pair]; !ok {
		panic("morph: cannot remove transform pair: " + pair.String())
	}
	delete(w.transformPairs, pair)
}

// setFrequency recomputes the word's normalized frequency against the token
// total and caches whether it clears the thresholds.
func (w *Word) setFrequency(tokenTotal int64, countThreshold int64, freqThreshold float64) {
	w.freq = float64(w.count) / float64(tokenTotal)
	w.frequent = w.count > countThreshold && w.freq > freqThreshold
}

// MakeCompound reclassifies the word as a compound of the given components.
// The caller is the lexicon or the decomposer, which also maintains indices.
func (w *Word) MakeCompound(components []*Word) {
	w.compound = true
	w.set = WSCompound
	w.components = components
}

// Analyze generates the word's morphological analysis: the root in upper case
// with one "+(affix)" term per derivation step, prefixes before the root and
// suffixes after, deepest derivation closest to the root. Inferred roots are
// marked with a trailing asterisk.
func (w *Word) Analyze() string {
	if w.externalAnalysis != "" {
		return w.externalAnalysis
	}

	var prefixes, suffixes []string
	rootText := w.analyzeRoot()
	if w.root != nil && !w.root.analyze {
		rootText += "*"
	}

	for current := w; current.derivation != nil; current = current.base {
		term := current.derivation.Analyze()
		if current.derivation.Type() == Prefix {
			prefixes = append(prefixes, term)
		} else {
			suffixes = append([]string{term}, suffixes...)
		}
	}

	var out strings.Builder
	if len(prefixes) > 0 {
		out.WriteString(strings.Join(prefixes, " "))
		out.WriteByte(' ')
	}
	out.WriteString(rootText)
	if len(suffixes) > 0 {
		out.WriteByte(' ')
		out.WriteString(strings.Join(suffixes, " "))
	}
	return out.String()
}

// Segmentation generates the word's low-level segmentation: "_root" plus
// "+affix"/"-affix" terms, with accommodation boundaries marked by a
// "^"/"$" side marker, a "+"/"-" operation, and the accommodated character.
func (w *Word) Segmentation() string {
	if w.externalAnalysis != "" {
		panic("morph: cannot generate segmentation from an external analysis")
	}

	var prefixes, suffixes []string
	rootText := w.segmentRoot()

	for current := w; current.derivation != nil; current = current.base {
		seg := current.derivation.SegmentationToken()
		accom := accommodationSegment(current.base, current.derivation.Type(), current.derivationAccom)
		if current.derivation.Type() == Prefix {
			prefixes = append(prefixes, seg)
			if accom != "" {
				prefixes = append(prefixes, accom)
			}
		} else {
			suffixes = append([]string{seg}, suffixes...)
			if accom != "" {
				suffixes = append([]string{accom}, suffixes...)
			}
		}
	}

	var out strings.Builder
	if len(prefixes) > 0 {
		out.WriteString(strings.Join(prefixes, " "))
		out.WriteByte(' ')
	}
	out.WriteString(rootText)
	if len(suffixes) > 0 {
		out.WriteByte(' ')
		out.WriteString(strings.Join(suffixes, " "))
	}
	return out.String()
}

// accommodationSegment renders the boundary marker for an accommodated
// derivation: the side of the base the accommodation touched, the operation,
// and the character involved. Empty for unaccommodated derivations.
func accommodationSegment(base *Word, typ AffixType, accom Accommodation) string {
	if accom == AccomNone {
		return ""
	}

	var out strings.Builder
	if typ == Prefix {
		out.WriteByte('^')
	} else {
		out.WriteByte('$')
	}
	if accom == AccomDoubling {
		out.WriteByte('+')
	} else {
		out.WriteByte('-')
	}

	runes := []rune(base.text)
	if typ == Prefix {
		out.WriteString(string(runes[0]))
	} else {
		out.WriteString(string(runes[len(runes)-1]))
	}
	return out.String()
}

// analyzeRoot generates the analysis of the word's root: for compounds the
// analyses of all components, otherwise the root (or the word itself) in
// upper case.
func (w *Word) analyzeRoot() string {
	if w.set == WSCompound {
		analyses := make([]string, 0, len(w.components))
		for _, c := range w.components {
			analyses = append(analyses, c.Analyze())
		}
		return strings.Join(analyses, " ")
	}
	if w.root != nil {
		return strings.ToUpper(w.root.text)
	}
	return strings.ToUpper(w.text)
}

// segmentRoot generates the segmentation of the word's root.
func (w *Word) segmentRoot() string {
	if w.set == WSCompound {
		segs := make([]string, 0, len(w.components))
		for _, c := range w.components {
			segs = append(segs, c.Segmentation())
		}
		return strings.Join(segs, " || ")
	}
	if w.root != nil {
		return "_" + w.root.text
	}
	return "_" + w.text
}

// DerivedWordsString renders the word followed by all its derived forms,
// comma separated and sorted. Used for conflation-set output.
func (w *Word) DerivedWordsString() string {
	texts := make([]string, 0, len(w.derived))
	for d := range w.derived {
		texts = append(texts, d.text)
	}
	sort.Strings(texts)

	var out strings.Builder
	out.WriteString(w.text)
	for _, t := range texts {
		out.WriteByte(',')
		out.WriteString(t)
	}
	return out.String()
}

func (w *Word) String() string { return w.text }
