package morph

import (
	"fmt"
	"sort"
	"strings"
)

// AffixScope selects which word sets an affix's type count is computed over
// when ranking affixes.
type AffixScope int

const (
	// ScopeAll counts frequent words in every indexed set.
	ScopeAll AffixScope = iota
	// ScopeBaseUnmod counts frequent BASE and UNMODELED words.
	ScopeBaseUnmod
	// ScopeUnmod counts frequent UNMODELED words only.
	ScopeUnmod
)

// Lexicon is the representation of all words in the language being learned:
// the word map, the affix indices, and the BASE/DERIVED/UNMODELED partition.
// Compound words leave the partition and are not indexed by set.
type Lexicon struct {
	words    map[string]*Word
	prefixes map[string]*Affix
	suffixes map[string]*Affix

	base    map[*Word]struct{}
	derived map[*Word]struct{}
	unmod   map[*Word]struct{}

	tokenCount     int64
	validSetCounts bool

	countThreshold int64
	freqThreshold  float64
}

// NewLexicon creates an empty lexicon. Words must exceed both thresholds to
// be counted as frequent.
func NewLexicon(countThreshold int64, freqThreshold float64) *Lexicon {
	return &Lexicon{
		words:          make(map[string]*Word),
		prefixes:       make(map[string]*Affix),
		suffixes:       make(map[string]*Affix),
		base:           make(map[*Word]struct{}),
		derived:        make(map[*Word]struct{}),
		unmod:          make(map[*Word]struct{}),
		countThreshold: countThreshold,
		freqThreshold:  freqThreshold,
	}
}

// Status renders the lexicon's size for progress output.
func (l *Lexicon) Status() string {
	return fmt.Sprintf("Types: %d Tokens: %d", len(l.words), l.tokenCount)
}

// TokenCount returns the total token count over all words.
func (l *Lexicon) TokenCount() int64 { return l.tokenCount }

// Word returns the word with the given text, or nil.
func (l *Lexicon) Word(text string) *Word { return l.words[text] }

// Words returns the word map, keyed by text.
func (l *Lexicon) Words() map[string]*Word { return l.words }

// WordStrings returns all word texts in sorted order.
func (l *Lexicon) WordStrings() []string {
	texts := make([]string, 0, len(l.words))
	for text := range l.words {
		texts = append(texts, text)
	}
	sort.Strings(texts)
	return texts
}

// SetWords returns the word set for one of the indexed classifications.
func (l *Lexicon) SetWords(set WordSet) map[*Word]struct{} {
	switch set {
	case WSBase:
		return l.base
	case WSDerived:
		return l.derived
	case WSUnmodeled:
		return l.unmod
	}
	panic("morph: no indexed word set for " + set.String())
}

// IsWordInSet reports whether a word with the given text exists and is in the
// given set.
func (l *Lexicon) IsWordInSet(text string, set WordSet) bool {
	w := l.words[text]
	return w != nil && w.set == set
}

// Affix returns the affix with the given text and type, or nil if no word has
// carried it.
func (l *Lexicon) Affix(text string, typ AffixType) *Affix {
	if typ == Prefix {
		return l.prefixes[text]
	}
	return l.suffixes[text]
}

// AddWord adds a word to the lexicon as UNMODELED and indexes its affixes.
// Returns false without changes if the text is already present.
func (l *Lexicon) AddWord(word *Word) bool {
	if _, ok := l.words[word.text]; ok {
		return false
	}
	l.words[word.text] = word

	l.addAffixes(word, Prefix)
	l.addAffixes(word, Suffix)

	l.unmod[word] = struct{}{}
	l.tokenCount += word.count
	return true
}

// addAffixes indexes every candidate affix of the word, creating affixes on
// first sight.
func (l *Lexicon) addAffixes(word *Word, typ AffixType) {
	affixMap := l.affixMap(typ)
	for _, text := range AffixesOf(word.text, typ) {
		affix := affixMap[text]
		if affix == nil {
			affix = NewAffix(text, typ)
			affixMap[text] = affix
		}
		affix.addWord(word)
		word.AddAffix(affix)
	}
}

func (l *Lexicon) affixMap(typ AffixType) map[string]*Affix {
	if typ == Prefix {
		return l.prefixes
	}
	return l.suffixes
}

// UpdateFrequencies recomputes every word's frequency against the current
// token total and refreshes the affixes' frequent-type counts. Must run after
// any bulk change to counts or membership.
func (l *Lexicon) UpdateFrequencies() {
	for _, w := range l.words {
		w.setFrequency(l.tokenCount, l.countThreshold, l.freqThreshold)
	}
	for _, a := range l.prefixes {
		a.countFreqWords()
	}
	for _, a := range l.suffixes {
		a.countFreqWords()
	}
}

// countAffixWordSets refreshes the per-set affix counts and marks them valid.
func (l *Lexicon) countAffixWordSets() {
	for _, a := range l.prefixes {
		a.countWordSets()
	}
	for _, a := range l.suffixes {
		a.countWordSets()
	}
	l.validSetCounts = true
}

// TopAffixes returns the n affixes of the given type with the highest
// (optionally weighted) type count over the scope, refreshing the cached
// per-set counts first if any word has moved. Ties order by affix text.
func (l *Lexicon) TopAffixes(n int, typ AffixType, scope AffixScope, weighted bool) []*Affix {
	if !l.validSetCounts {
		l.countAffixWordSets()
	}

	affixMap := l.affixMap(typ)
	ordered := make([]*Affix, 0, len(affixMap))
	for _, a := range affixMap {
		ordered = append(ordered, a)
	}
	sort.Slice(ordered, func(i, j int) bool {
		ci, cj := ordered[i].scopeCount(scope, weighted), ordered[j].scopeCount(scope, weighted)
		if ci != cj {
			return ci > cj
		}
		return ordered[i].text < ordered[j].text
	})

	if len(ordered) > n {
		ordered = ordered[:n]
	}
	return ordered
}

// MoveWord moves a word between the indexed sets. Compounds are handled by
// MakeCompoundWord, not here.
func (l *Lexicon) MoveWord(word *Word, set WordSet) {
	delete(l.SetWords(word.set), word)
	word.set = set
	l.SetWords(set)[word] = struct{}{}
}

// MakeCompoundWord reclassifies a word as a compound of the given components
// and removes it from the indexed partition.
func (l *Lexicon) MakeCompoundWord(word *Word, components []*Word) {
	if !word.compound {
		delete(l.SetWords(word.set), word)
	}
	word.MakeCompound(components)
	l.validSetCounts = false
}

// MoveTransformPairs moves the words covered by a transform into their new
// sets. For a transform being learned for the first time this moves every
// pair; for an already-learned transform only the pairs added since the last
// move.
func (l *Lexicon) MoveTransformPairs(
	learned *Transform, hypTransforms []*Transform,
	opt, reEval, doubling, deriveInferred bool,
) {
	pairs := learned.WordPairs()
	if learned.IsLearned() {
		pairs = learned.UnmovedPairs()
	}
	l.MoveWordPairs(learned, hypTransforms, opt, reEval, doubling, deriveInferred, pairs)
}

// MoveWordPairs commits a set of word pairs under a deriving transform:
// pruning duplicate derivations, wiring base/derived/root links, and moving
// the words between sets. With opt enabled it also keeps the hypothesized
// transforms' scores consistent by unlinking moved words and rescoring new
// bases.
//
// When one derived form has several pairs, a pair without accommodation beats
// any accommodated one, and between two accommodated pairs the one with the
// shorter base (doubling) beats the longer (undoubling).
func (l *Lexicon) MoveWordPairs(
	derivingTransform *Transform, hypTransforms []*Transform,
	opt, reEval, doubling, deriveInferred bool,
	pairs map[WordPair]struct{},
) {
	var unmodBaseWords, baseDerivedWords, unmodDerivedWords []*Word

	prunedPairs := make(map[WordPair]struct{}, len(pairs))
	derivedPairs := make(map[*Word]WordPair, len(pairs))

	for pair := range pairs {
		if oldPair, ok := derivedPairs[pair.Derived]; ok {
			if !oldPair.IsAccommodated() {
				continue
			}
			if pair.IsAccommodated() && pair.Base.length >= oldPair.Base.length {
				continue
			}
			delete(prunedPairs, oldPair)
		}
		prunedPairs[pair] = struct{}{}
		derivedPairs[pair.Derived] = pair
	}

	for pair := range prunedPairs {
		base, derived := pair.Base, pair.Derived

		base.AddDerived(derived)
		derived.SetBase(base)
		derived.SetTransform(derivingTransform, pair.Accom)

		// Setting the base's root propagates to everything derived from it.
		if base.root == nil {
			base.SetRoot(base)
		} else {
			derived.SetRoot(base.root)
		}

		// A base already in DERIVED stays there.
		if base.set == WSUnmodeled {
			l.MoveWord(base, WSBase)
			unmodBaseWords = append(unmodBaseWords, base)
		}

		// The derived form may come from BASE (demotion on re-analysis) or
		// from UNMODELED (first analysis).
		switch derived.set {
		case WSBase:
			baseDerivedWords = append(baseDerivedWords, derived)
			l.MoveWord(derived, WSDerived)
		case WSUnmodeled:
			unmodDerivedWords = append(unmodDerivedWords, derived)
			l.MoveWord(derived, WSDerived)
		}
	}

	if derivingTransform.IsLearned() {
		derivingTransform.ResetUnmoved()
	}

	l.validSetCounts = false

	if !opt {
		return
	}

	l.removeWordsTransforms(unmodBaseWords)
	l.removeWordsTransforms(baseDerivedWords)
	l.removeWordsTransforms(unmodDerivedWords)

	l.ScoreWordsTransforms(unmodBaseWords, hypTransforms, reEval, doubling, deriveInferred)
}

// ScoreWordsTransforms rescores words against every transform whose source
// affix they carry.
func (l *Lexicon) ScoreWordsTransforms(
	words []*Word, transforms []*Transform,
	reEval, doubling, deriveInferred bool,
) {
	for _, word := range words {
		for _, transform := range transforms {
			if word.HasAffix(transform.Affix1()) {
				ScoreWord(transform, word, l, reEval, doubling, deriveInferred)
			}
		}
	}
}

// removeWordsTransforms unlinks moved words from every transform pairing they
// participate in, in either role, reversing the transforms' counts.
func (l *Lexicon) removeWordsTransforms(movedWords []*Word) {
	for _, movedWord := range movedWords {
		for tPair := range movedWord.transformPairs {
			wordPair := tPair.Pair

			tPair.Transform.RemoveWordPair(wordPair)
			delete(movedWord.transformPairs, tPair)
			if wordPair.Base == movedWord {
				wordPair.Derived.RemoveTransformPair(tPair)
			} else {
				wordPair.Base.RemoveTransformPair(tPair)
			}
		}
	}
}

// ProcessHyphenation splits every hyphenated word into component entries,
// creating components that have not been seen (with the original's count) and
// incrementing those that have, then reclassifies the original as a compound
// of its components. Frequencies are refreshed afterward.
func (l *Lexicon) ProcessHyphenation() {
	for _, text := range l.WordStrings() {
		if !strings.Contains(text, "-") {
			continue
		}
		w := l.words[text]

		var componentWords []*Word
		for _, componentText := range strings.Split(text, "-") {
			if componentText == "" {
				continue
			}

			componentWord := l.words[componentText]
			if componentWord == nil {
				componentWord = NewWord(componentText, w.count, false, false)
				l.AddWord(componentWord)
			} else {
				componentWord.AddCount(w.count)
			}
			componentWords = append(componentWords, componentWord)
		}

		if len(componentWords) > 1 {
			l.MakeCompoundWord(w, componentWords)
		}
	}

	l.UpdateFrequencies()
}
