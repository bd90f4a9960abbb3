package compound

import (
	"math"
	"sort"
	"strings"

	"github.com/japaniel/morphlearn/pkg/morph"
)

// hypothesis is one state in the beam search splitting a word: the component
// words found so far and the text still to be covered.
type hypothesis struct {
	words         []*morph.Word
	remainingText string
}

func newHypothesis(remainingText string) *hypothesis {
	return &hypothesis{remainingText: remainingText}
}

// extend returns a copy of the hypothesis with one more word consumed from
// the front of the remaining text.
func (h *hypothesis) extend(newWord *morph.Word) *hypothesis {
	words := make([]*morph.Word, len(h.words), len(h.words)+1)
	copy(words, h.words)
	runes := []rune(h.remainingText)
	return &hypothesis{
		words:         append(words, newWord),
		remainingText: string(runes[newWord.Len():]),
	}
}

// extendAll returns every hypothesis reachable from this one by consuming one
// more prefix word. A prefix may only cover the whole remaining text after
// the first word, so a single-word split must come from a filler derivation.
func (h *hypothesis) extendAll(lex *morph.Lexicon, filler *Filler, relations *morph.TransformRelations, doubling bool) []*hypothesis {
	prefixWords := getPrefixes(h.remainingText, lex, len(h.words) > 0, filler, relations, doubling)

	extended := make([]*hypothesis, 0, len(prefixWords))
	for _, prefixWord := range prefixWords {
		extended = append(extended, h.extend(prefixWord))
	}
	return extended
}

// isComplete reports whether the hypothesis covers the whole word.
func (h *hypothesis) isComplete() bool { return h.remainingText == "" }

// score returns the geometric mean of the component words' counts.
func (h *hypothesis) score() float64 {
	prod := 1.0
	for _, word := range h.words {
		prod *= float64(word.Count())
	}
	return math.Pow(prod, 1.0/float64(len(h.words)))
}

func (h *hypothesis) String() string {
	var out strings.Builder
	for _, word := range h.words {
		out.WriteString(word.Text())
		out.WriteByte('|')
	}
	out.WriteString(h.remainingText)
	return out.String()
}

// sortHypotheses orders a frontier best first. The sort is stable so equal
// scores keep their generation order.
func sortHypotheses(hyps []*hypothesis) {
	sort.SliceStable(hyps, func(i, j int) bool {
		return hyps[i].score() > hyps[j].score()
	})
}

// pickHypothesis returns the best-scoring complete hypothesis, but only if it
// scores at least as well as leaving the word whole. The word's own score is
// its token count.
func pickHypothesis(completeHyps []*hypothesis, word *morph.Word) *hypothesis {
	var bestHyp *hypothesis
	bestScore := 0.0
	for _, hyp := range completeHyps {
		if score := hyp.score(); score > bestScore {
			bestHyp = hyp
			bestScore = score
		}
	}

	if bestScore >= float64(word.Count()) {
		return bestHyp
	}
	return nil
}
