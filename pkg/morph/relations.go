package morph

import (
	"sort"
	"strconv"
	"strings"
)

// minRelationCount is the number of observations above which a
// preceding/following transform sequence is considered good.
const minRelationCount = 1

// TransformRelations tracks which learned transforms have been observed to
// follow which others in derivation chains, so that chained rule application
// can be restricted to attested sequences. A nil preceding transform stands
// for a root.
type TransformRelations struct {
	counts map[*Transform]map[*Transform]int
	good   map[*Transform]map[*Transform]struct{}
}

// NewTransformRelations creates an empty relation tracker. InferRelations
// must run before the tracker can be queried.
func NewTransformRelations() *TransformRelations {
	return &TransformRelations{}
}

// InferRelations rebuilds the relation counts from the derivation chains of
// the lexicon's DERIVED words, then marks the sequences seen often enough as
// good. Synthetic words and chains mixing prefix and suffix rules are
// skipped.
func (r *TransformRelations) InferRelations(lex *Lexicon) {
	r.counts = make(map[*Transform]map[*Transform]int)
	r.good = make(map[*Transform]map[*Transform]struct{})

	for w := range lex.SetWords(WSDerived) {
		if !w.ShouldAnalyze() {
			continue
		}

		following := w.Derivation()
		// Nil for root words.
		preceding := w.Base().Derivation()

		if preceding != nil && following.Type() != preceding.Type() {
			continue
		}

		r.addRelation(preceding, following)
	}

	r.markGoodRelations()
}

func (r *TransformRelations) addRelation(preceding, following *Transform) {
	preceders := r.counts[following]
	if preceders == nil {
		preceders = make(map[*Transform]int)
		r.counts[following] = preceders
	}
	preceders[preceding]++
}

func (r *TransformRelations) markGoodRelations() {
	for following, preceders := range r.counts {
		good := make(map[*Transform]struct{})
		r.good[following] = good
		for preceding, count := range preceders {
			if count > minRelationCount {
				good[preceding] = struct{}{}
			}
		}
	}
}

// IsGoodRelation reports whether the following transform has been observed
// to follow the preceding one often enough. A preceding transform of a
// different affix type is treated as a root. Querying a transform that the
// last InferRelations never saw means the relations are stale.
func (r *TransformRelations) IsGoodRelation(preceding, following *Transform) bool {
	if preceding != nil && preceding.Type() != following.Type() {
		preceding = nil
	}

	good, ok := r.good[following]
	if !ok {
		panic("morph: transform relations are out of date")
	}

	_, ok = good[preceding]
	return ok
}

// String renders every transform with the counts of the transforms observed
// to precede it, omitting sequences below the goodness threshold.
func (r *TransformRelations) String() string {
	var out strings.Builder
	for following, preceders := range r.counts {
		out.WriteString(following.String())
		out.WriteString(" \t")

		lines := make([]string, 0, len(preceders))
		for preceding, count := range preceders {
			if count <= minRelationCount {
				continue
			}
			name := "root"
			if preceding != nil {
				name = preceding.String()
			}
			lines = append(lines, name+":"+strconv.Itoa(count))
		}
		sort.Strings(lines)
		out.WriteString(strings.Join(lines, " "))
		out.WriteString("\n")
	}
	return out.String()
}
