package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding"

	"github.com/japaniel/morphlearn/pkg/morph"
)

// WriteAnalysisFile writes the lexicon's analyses to a file in the given
// encoding, one "word<TAB>analysis" line per analyzable word in sorted order,
// with a segmentation column when segment is on.
func WriteAnalysisFile(path string, lex *morph.Lexicon, enc encoding.Encoding, segment bool) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating analysis file: %w", err)
	}

	if err := WriteAnalysis(enc.NewEncoder().Writer(f), lex, segment); err != nil {
		f.Close()
		return fmt.Errorf("writing analysis file %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing analysis file %s: %w", path, err)
	}
	return nil
}

// WriteAnalysis writes the analyses of every analyzable word to w. Synthetic
// words (inferred bases, new filler forms) are skipped.
func WriteAnalysis(w io.Writer, lex *morph.Lexicon, segment bool) error {
	bw := bufio.NewWriter(w)
	for _, text := range lex.WordStrings() {
		word := lex.Word(text)
		if !word.ShouldAnalyze() {
			continue
		}

		bw.WriteString(text)
		bw.WriteByte('\t')
		bw.WriteString(word.Analyze())
		if segment {
			bw.WriteByte('\t')
			bw.WriteString(word.Segmentation())
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteConflationSets writes one line per BASE word listing the word and
// everything derived from it.
func WriteConflationSets(w io.Writer, lex *morph.Lexicon) error {
	bw := bufio.NewWriter(w)
	for _, word := range sortedSetWords(lex, morph.WSBase) {
		bw.WriteString(word.DerivedWordsString())
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteTransforms dumps the learned transforms with their statistics and
// covered pairs.
func WriteTransforms(w io.Writer, transforms []*morph.Transform, weightingExponent float64) error {
	bw := bufio.NewWriter(w)
	for _, t := range transforms {
		bw.WriteString(t.VerboseString(weightingExponent))
		bw.WriteByte('\n')
		bw.WriteString(t.PairsText())
		if _, err := bw.WriteString("\n\n"); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// sortedSetWords returns a set's words ordered by text.
func sortedSetWords(lex *morph.Lexicon, set morph.WordSet) []*morph.Word {
	words := make([]*morph.Word, 0, len(lex.SetWords(set)))
	for _, text := range lex.WordStrings() {
		word := lex.Word(text)
		if word.Set() == set {
			words = append(words, word)
		}
	}
	return words
}
