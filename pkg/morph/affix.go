// Package morph holds the mutable word/affix/transform graph that the learner
// operates on: the lexicon with its BASE/DERIVED/UNMODELED partition, affix
// candidates with their usage statistics, and rewrite-rule transforms with the
// word pairs they cover.
package morph

import (
	"sort"
)

const (
	// MaxAffixLength bounds the length of candidate affixes generated for a word.
	MaxAffixLength = 5
	// MinStemLength is the minimum residual stem length for a candidate affix.
	MinStemLength = 3
)

// AffixType distinguishes prefixes from suffixes.
type AffixType int

const (
	Prefix AffixType = iota
	Suffix
)

func (t AffixType) String() string {
	if t == Prefix {
		return "prefix"
	}
	return "suffix"
}

// Affix is a candidate prefix or suffix string plus the set of words observed
// to contain it and derived counts. The empty string is the "null" affix.
// Counts split by word set are cached and recomputed by the lexicon whenever
// membership changes; they are -1 until the first recount.
type Affix struct {
	text   string
	typ    AffixType
	words  map[*Word]struct{}
	length int
	weight int64

	typeCount     int64
	freqTypeCount int64
	tokenCount    int64

	baseTypeCount    int64
	derivedTypeCount int64
	unmodTypeCount   int64
}

// NewAffix creates an affix with zero counts and an empty word set.
func NewAffix(text string, typ AffixType) *Affix {
	length := len([]rune(text))
	weight := int64(length)
	if weight < 1 {
		weight = 1
	}
	return &Affix{
		text:             text,
		typ:              typ,
		words:            make(map[*Word]struct{}),
		length:           length,
		weight:           weight,
		baseTypeCount:    -1,
		derivedTypeCount: -1,
		unmodTypeCount:   -1,
	}
}

// AffixesOf returns the candidate affix strings of the given type contained in
// text. The null affix is included whenever the whole word can serve as a stem;
// non-null affixes are limited to MaxAffixLength characters and must leave a
// stem of at least MinStemLength characters.
func AffixesOf(text string, typ AffixType) []string {
	runes := []rune(text)
	length := len(runes)

	var affixes []string
	if length >= MinStemLength {
		affixes = append(affixes, "")
	}

	for i := 1; i < length; i++ {
		switch typ {
		case Prefix:
			if i <= MaxAffixLength && length-i >= MinStemLength {
				affixes = append(affixes, string(runes[:i]))
			}
		case Suffix:
			if length-i <= MaxAffixLength && i >= MinStemLength {
				affixes = append(affixes, string(runes[i:]))
			}
		}
	}

	return affixes
}

// IsBadAffixPair reports whether a rule rewriting affix1 to affix2 would just
// remove characters and stick them back on, for example the suffix pair
// (e, ed) or the prefix pair (be, de). Any shared slice at the attachment edge
// of the two affixes makes the pair bad. A null affix1 is never bad.
func IsBadAffixPair(affix1, affix2 *Affix, typ AffixType) bool {
	if affix1.length == 0 {
		return false
	}

	r1 := []rune(affix1.text)
	r2 := []rune(affix2.text)
	for i := 1; i <= len(r1); i++ {
		if i > len(r2) {
			break
		}
		switch typ {
		case Prefix:
			if string(r1[len(r1)-i:]) == string(r2[len(r2)-i:]) {
				return true
			}
		case Suffix:
			if string(r1[:i]) == string(r2[:i]) {
				return true
			}
		}
	}

	return false
}

// HasAffixText reports whether text carries the affix, requiring the residual
// stem to be at least MinStemLength characters.
func HasAffixText(text string, affix *Affix) bool {
	runes := []rune(text)
	if len(runes)-affix.length < MinStemLength {
		return false
	}
	switch affix.typ {
	case Prefix:
		return affix.text == string(runes[:affix.length])
	default:
		return affix.text == string(runes[len(runes)-affix.length:])
	}
}

// Text returns the affix text; empty for the null affix.
func (a *Affix) Text() string { return a.text }

// Type returns whether the affix is a prefix or suffix.
func (a *Affix) Type() AffixType { return a.typ }

// IsNull reports whether this is the null affix.
func (a *Affix) IsNull() bool { return a.length == 0 }

// Len returns the length of the affix text in characters.
func (a *Affix) Len() int { return a.length }

// Words returns the words observed to contain the affix.
func (a *Affix) Words() map[*Word]struct{} { return a.words }

// HasWord reports whether the word is in the affix's word set.
func (a *Affix) HasWord(w *Word) bool {
	_, ok := a.words[w]
	return ok
}

// SortedWords returns the affix's words ordered by text for deterministic
// iteration.
func (a *Affix) SortedWords() []*Word {
	words := make([]*Word, 0, len(a.words))
	for w := range a.words {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool { return words[i].text < words[j].text })
	return words
}

// TypeCount returns the number of word types containing the affix.
func (a *Affix) TypeCount() int64 { return a.typeCount }

// FreqTypeCount returns the number of frequent word types containing the affix.
func (a *Affix) FreqTypeCount() int64 { return a.freqTypeCount }

// TokenCount returns the number of word tokens containing the affix.
func (a *Affix) TokenCount() int64 { return a.tokenCount }

// BaseTypeCount returns the cached count of frequent BASE types with the affix.
func (a *Affix) BaseTypeCount() int64 { return a.baseTypeCount }

// DerivedTypeCount returns the cached count of frequent DERIVED types with the affix.
func (a *Affix) DerivedTypeCount() int64 { return a.derivedTypeCount }

// UnmodTypeCount returns the cached count of frequent UNMODELED types with the affix.
func (a *Affix) UnmodTypeCount() int64 { return a.unmodTypeCount }

// addWord adds a word to the affix's word set and updates its counts.
func (a *Affix) addWord(w *Word) {
	a.typeCount++
	a.tokenCount += w.count
	a.words[w] = struct{}{}
}

// countFreqWords recounts the frequent types containing the affix. Word
// frequency changes whenever the lexicon's token total does, so this must run
// after every bulk insertion.
func (a *Affix) countFreqWords() {
	a.freqTypeCount = 0
	for w := range a.words {
		if w.frequent {
			a.freqTypeCount++
		}
	}
}

// countWordSets recounts the frequent types containing the affix per word set.
// Compounds are not indexed and do not count toward any set.
func (a *Affix) countWordSets() {
	a.baseTypeCount = 0
	a.derivedTypeCount = 0
	a.unmodTypeCount = 0

	for w := range a.words {
		if !w.frequent {
			continue
		}
		switch w.set {
		case WSBase:
			a.baseTypeCount++
		case WSDerived:
			a.derivedTypeCount++
		case WSUnmodeled:
			a.unmodTypeCount++
		}
	}
}

// scopeCount returns the (optionally weighted) type count of the affix over
// the given scope.
func (a *Affix) scopeCount(scope AffixScope, weighted bool) int64 {
	var n int64
	switch scope {
	case ScopeAll:
		n = a.baseTypeCount + a.derivedTypeCount + a.unmodTypeCount
	case ScopeBaseUnmod:
		n = a.baseTypeCount + a.unmodTypeCount
	case ScopeUnmod:
		n = a.unmodTypeCount
	}
	if weighted {
		n *= a.weight
	}
	return n
}

func (a *Affix) String() string {
	if a.length == 0 {
		return "$"
	}
	return a.text
}
