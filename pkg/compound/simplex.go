package compound

import (
	"log"
	"math"
	"sort"
	"strings"

	"github.com/japaniel/morphlearn/pkg/morph"
)

// maxSimplexGenerations caps the analysis search, since chained filler
// derivations do not have to consume characters the way compound splits do.
const maxSimplexGenerations = 1000

// AnalyzeSimplexWords tries to analyze words left in the given set at the end
// of learning by fixing a known prefix word as the root and covering the rest
// with chained suffix transforms. Accepted words get an external analysis
// string but keep their classification. Returns the number of words analyzed.
func AnalyzeSimplexWords(
	lex *morph.Lexicon, set morph.WordSet,
	learnedTransforms []*morph.Transform,
	doubling bool, relations *morph.TransformRelations,
) int {
	newAnalyses := 0

	var filler *Filler
	if learnedTransforms != nil {
		filler = NewFiller(learnedTransforms)
	}

	for word := range lex.SetWords(set) {
		if word.IsCompound() || word.Len() < minCompoundLength {
			continue
		}

		best := analyzeWord(word, filler, lex, relations, doubling)
		if best == nil {
			continue
		}

		var analysis strings.Builder
		analysis.WriteString(best.base.Analyze())
		for _, t := range best.derivingTransforms {
			analysis.WriteByte(' ')
			analysis.WriteString(t.Analyze())
		}
		word.SetExternalAnalysis(analysis.String())
		newAnalyses++
	}

	return newAnalyses
}

// analyzeWord seeds the search with every non-UNMODELED prefix word as a
// candidate root and extends each with filler transforms until the full word
// is covered, returning the best complete analysis, or nil.
func analyzeWord(word *morph.Word, filler *Filler, lex *morph.Lexicon, relations *morph.TransformRelations, doubling bool) *analysisResult {
	runes := []rune(word.Text())

	var currResults []*analysisResult
	for i := minCompoundLength; i <= len(runes)-1; i++ {
		prefixWord := lex.Word(string(runes[:i]))
		if prefixWord != nil && prefixWord.Set() != morph.WSUnmodeled {
			currResults = append(currResults, newAnalysisResult(prefixWord))
		}
	}

	var completeResults []*analysisResult
	announced := false
	for generations := 0; len(currResults) > 0; generations++ {
		if generations > maxSimplexGenerations {
			log.Printf("Infinite loop on %s", word)
			break
		}

		sortAnalyses(currResults)
		generation := currResults
		if len(generation) > beamSize {
			if !announced {
				log.Printf("Word over beam size: %s", word)
				announced = true
			}
			generation = generation[:beamSize]
		}

		var newResults []*analysisResult
		for _, hyp := range generation {
			for _, result := range hyp.extendAll(filler, relations, doubling, word.Text()) {
				if result.complete {
					completeResults = append(completeResults, result)
				} else {
					newResults = append(newResults, result)
				}
			}
		}
		currResults = newResults
	}

	if len(completeResults) == 0 {
		return nil
	}
	sortAnalyses(completeResults)
	return completeResults[0]
}

// analysisResult is one state in the simplex analysis search: a root word,
// the text covered so far, and the transforms applied in order.
type analysisResult struct {
	base               *morph.Word
	text               string
	derivingTransforms []*morph.Transform
	complete           bool
}

func newAnalysisResult(base *morph.Word) *analysisResult {
	return &analysisResult{base: base, text: base.Text()}
}

// extendAll returns every analysis reachable from this one by one more filler
// transform, marking as complete any that cover the full word.
func (r *analysisResult) extendAll(filler *Filler, relations *morph.TransformRelations, doubling bool, fullWord string) []*analysisResult {
	var filled []*analysisResult
	for _, transform := range filler.suffixes {
		if relations != nil && len(r.derivingTransforms) > 0 &&
			!relations.IsGoodRelation(r.derivingTransforms[len(r.derivingTransforms)-1], transform) {
			continue
		}

		derived, _, ok := makeFillerDerived(fullWord, r.text, doubling, transform.Affix1(), transform.Affix2())
		if !ok {
			continue
		}

		transforms := make([]*morph.Transform, len(r.derivingTransforms), len(r.derivingTransforms)+1)
		copy(transforms, r.derivingTransforms)
		next := &analysisResult{
			base:               r.base,
			text:               derived,
			derivingTransforms: append(transforms, transform),
			complete:           derived == fullWord,
		}
		filled = append(filled, next)
	}
	return filled
}

// transformScore is the geometric mean of the applied transforms' type
// counts, the secondary ranking key after the root's count.
func (r *analysisResult) transformScore() float64 {
	prod := 1.0
	for _, t := range r.derivingTransforms {
		prod *= float64(t.TypeCount())
	}
	return math.Pow(prod, 1.0/float64(len(r.derivingTransforms)))
}

func sortAnalyses(results []*analysisResult) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].base.Count() != results[j].base.Count() {
			return results[i].base.Count() > results[j].base.Count()
		}
		return results[i].transformScore() > results[j].transformScore()
	})
}

func (r *analysisResult) String() string {
	var out strings.Builder
	out.WriteString(r.base.Text())
	for _, t := range r.derivingTransforms {
		out.WriteByte(' ')
		out.WriteString(t.String())
	}
	return out.String()
}
