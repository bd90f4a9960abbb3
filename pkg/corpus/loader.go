// Package corpus reads frequency wordlists and writes analysis files,
// converting to and from non-UTF-8 encodings when asked.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/ianaindex"

	"github.com/japaniel/morphlearn/pkg/morph"
)

// statusInterval is how many word types are loaded between progress updates.
const statusInterval = 50000

// LookupEncoding resolves an encoding by its IANA name ("ISO-8859-1",
// "UTF-8", ...). An empty name means UTF-8.
func LookupEncoding(name string) (encoding.Encoding, error) {
	if name == "" {
		return encoding.Nop, nil
	}
	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return nil, fmt.Errorf("unknown encoding %q", name)
	}
	return enc, nil
}

// LoadWordlist loads a frequency wordlist file into a fresh lexicon. Each
// line is a token count, whitespace, and a word, for example:
//
//	500 dog
//
// A malformed line is an error. A duplicate word is a warning; the first
// entry wins. The returned lexicon has its frequencies computed.
func LoadWordlist(path string, enc encoding.Encoding, countThreshold int64, freqThreshold float64, logger *log.Logger) (*morph.Lexicon, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening wordlist: %w", err)
	}
	defer f.Close()

	lex, err := ReadWordlist(enc.NewDecoder().Reader(f), countThreshold, freqThreshold, logger)
	if err != nil {
		return nil, fmt.Errorf("reading wordlist %s: %w", path, err)
	}
	return lex, nil
}

// ReadWordlist reads wordlist lines from r into a fresh lexicon.
func ReadWordlist(r io.Reader, countThreshold int64, freqThreshold float64, logger *log.Logger) (*morph.Lexicon, error) {
	lex := morph.NewLexicon(countThreshold, freqThreshold)

	var typesLoaded, tokensLoaded int64
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		word, err := parseWordlistEntry(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNo, err)
		}

		if !lex.AddWord(word) {
			if logger != nil {
				logger.Printf("Warning: Duplicate word in wordlist: %s", word.Text())
			}
			continue
		}
		tokensLoaded += word.Count()

		typesLoaded++
		if logger != nil && typesLoaded%statusInterval == 0 {
			logger.Printf("%d types loaded...", typesLoaded)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if logger != nil {
		logger.Printf("%d types loaded.", typesLoaded)
		logger.Printf("%d tokens loaded.", tokensLoaded)
	}

	lex.UpdateFrequencies()
	return lex, nil
}

// parseWordlistEntry parses one "count word" line.
func parseWordlistEntry(line string) (*morph.Word, error) {
	parts := strings.Fields(line)
	if len(parts) != 2 {
		return nil, fmt.Errorf("malformed wordlist entry %q", line)
	}

	count, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("malformed count in wordlist entry %q: %w", line, err)
	}

	return morph.NewWord(parts[1], count, true, false), nil
}
