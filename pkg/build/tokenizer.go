// Package build turns raw text into frequency wordlists for the learner:
// local files, remote corpora, or extracted web articles, tokenized
// concurrently and written as "count word" lines.
package build

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/ikawaha/kagome-dict/ipa"
	"github.com/ikawaha/kagome/v2/tokenizer"
)

// Tokenizer splits raw text into word tokens for counting.
type Tokenizer interface {
	Tokenize(text string) []string
}

// FieldTokenizer splits on anything that is not a letter, an apostrophe, or a
// hyphen, and lowercases. Suitable for space-delimited languages; hyphens are
// kept so the learner's hyphenation pass can handle them.
type FieldTokenizer struct{}

func (FieldTokenizer) Tokenize(text string) []string {
	words := strings.FieldsFunc(text, func(r rune) bool {
		return !unicode.IsLetter(r) && r != '\'' && r != '-'
	})
	out := words[:0]
	for _, w := range words {
		w = strings.Trim(w, "'-")
		if w == "" {
			continue
		}
		out = append(out, strings.ToLower(w))
	}
	return out
}

// MorphTokenizer segments unspaced text (Japanese) with a morphological
// analyzer. When Lemmatize is set it emits dictionary forms instead of
// surface forms, which collapses inflection before counting.
type MorphTokenizer struct {
	t         *tokenizer.Tokenizer
	Lemmatize bool
}

// NewMorphTokenizer creates a tokenizer backed by the bundled IPA dictionary.
func NewMorphTokenizer(lemmatize bool) (*MorphTokenizer, error) {
	t, err := tokenizer.New(ipa.Dict(), tokenizer.OmitBosEos())
	if err != nil {
		return nil, err
	}
	return &MorphTokenizer{t: t, Lemmatize: lemmatize}, nil
}

func (m *MorphTokenizer) Tokenize(text string) []string {
	tokens := m.t.Tokenize(text)
	var out []string
	for _, token := range tokens {
		if token.Class == tokenizer.DUMMY {
			continue
		}
		if strings.TrimSpace(token.Surface) == "" {
			continue
		}

		word := token.Surface
		if m.Lemmatize {
			// IPA feature 6 is the base form, "*" when unknown.
			features := token.Features()
			if len(features) > 6 && features[6] != "*" {
				word = features[6]
			}
		}
		out = append(out, word)
	}
	return out
}

var (
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby annotations (<rt>, <rp>) from HTML before article
// extraction. Without this the reading gets appended to every annotated word
// and the token counts double-count furigana.
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	return reRP.ReplaceAll(cleaned, []byte{})
}
