// Command buildwordlist tokenizes text files and web articles into a
// frequency wordlist suitable for morphlearn.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"syscall"

	"github.com/japaniel/morphlearn/pkg/build"
	"github.com/japaniel/morphlearn/pkg/corpus"
)

// stringList collects a repeatable flag.
type stringList []string

func (s *stringList) String() string { return strings.Join(*s, ",") }

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

func main() {
	var urls stringList
	outFlag := flag.String("out", "wordlist.txt", "Output wordlist file")
	encodingFlag := flag.String("encoding", "", "IANA charset of input files and output (default UTF-8)")
	tokFlag := flag.String("tokenizer", "fields", "Tokenizer: fields, ja, or ja-lemma")
	workersFlag := flag.Int("workers", runtime.NumCPU(), "Tokenization workers")
	fetchFlag := flag.String("fetch", "", "Download a corpus from this URL before tokenizing")
	fetchOutFlag := flag.String("fetch-out", "corpus.txt", "Where to cache the downloaded corpus")
	flag.Var(&urls, "url", "Web page to extract and tokenize (repeatable)")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] [corpus file ...]\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	enc, err := corpus.LookupEncoding(*encodingFlag)
	if err != nil {
		log.Fatalf("Failed to resolve encoding: %v", err)
	}

	var tok build.Tokenizer
	switch *tokFlag {
	case "fields":
		tok = build.FieldTokenizer{}
	case "ja", "ja-lemma":
		mt, err := build.NewMorphTokenizer(*tokFlag == "ja-lemma")
		if err != nil {
			log.Fatalf("Failed to create tokenizer: %v", err)
		}
		tok = mt
	default:
		log.Fatalf("Unknown tokenizer %q", *tokFlag)
	}

	files := flag.Args()
	if *fetchFlag != "" {
		if err := build.EnsureCorpus(ctx, *fetchFlag, *fetchOutFlag); err != nil {
			log.Fatalf("Failed to fetch corpus: %v", err)
		}
		files = append(files, *fetchOutFlag)
	}
	if len(files) == 0 && len(urls) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	b := build.NewBuilder(ctx, tok, *workersFlag)

	for _, path := range files {
		fmt.Printf("Tokenizing %s...\n", path)
		if err := b.SubmitFile(path, enc); err != nil {
			log.Fatalf("Failed to read corpus: %v", err)
		}
	}
	for _, u := range urls {
		fmt.Printf("Fetching %s...\n", u)
		if err := b.SubmitURL(u); err != nil {
			log.Fatalf("Failed to queue URL: %v", err)
		}
	}

	if err := b.Close(); err != nil {
		log.Fatalf("Tokenization failed: %v", err)
	}

	entries := b.Entries()
	if err := b.WriteWordlistFile(*outFlag, enc); err != nil {
		log.Fatalf("Failed to write wordlist: %v", err)
	}
	fmt.Printf("Wrote %d word types to %s\n", len(entries), *outFlag)
}
