package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/japaniel/morphlearn/pkg/corpus"
	"github.com/japaniel/morphlearn/pkg/learner"
	"github.com/japaniel/morphlearn/pkg/params"
	"github.com/japaniel/morphlearn/pkg/store"
)

func main() {
	encodingFlag := flag.String("encoding", "", "IANA charset of the wordlist and output (default UTF-8)")
	segmentFlag := flag.Bool("segment", false, "Write a segmentation column next to each analysis")
	conflationFlag := flag.String("conflation-sets", "", "Write conflation sets to this file")
	baseInfFlag := flag.String("base-inf", "", "Log inferred bases to this file")
	transformsFlag := flag.String("transforms", "", "Write learned transforms and their pairs to this file")
	compoundsFlag := flag.Bool("compounds", false, "Also write the analysis as it was before final compounding")
	dbFlag := flag.String("db", "", "Persist the run to this SQLite database")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(),
			"Usage: %s [flags] wordlist params output\n\nFlags:\n", os.Args[0])
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 3 {
		flag.Usage()
		os.Exit(2)
	}
	wordlistPath := flag.Arg(0)
	paramsPath := flag.Arg(1)
	outputPath := flag.Arg(2)

	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := params.Load(paramsPath)
	if err != nil {
		log.Fatalf("Failed to load parameters: %v", err)
	}

	enc, err := corpus.LookupEncoding(*encodingFlag)
	if err != nil {
		log.Fatalf("Failed to resolve encoding: %v", err)
	}

	logger.Printf("Loading wordlist %s...", wordlistPath)
	lex, err := corpus.LoadWordlist(wordlistPath, enc, cfg.FrequentTypeThreshold, cfg.FrequentProbThreshold, logger)
	if err != nil {
		log.Fatalf("Failed to load wordlist: %v", err)
	}

	l := learner.New(lex, cfg)
	l.Logger = logger
	l.SnapshotCompounds = *compoundsFlag
	l.Snapshot = func(label string) error {
		return corpus.WriteAnalysisFile(snapshotPath(outputPath, label), lex, enc, *segmentFlag)
	}

	if *baseInfFlag != "" {
		f, err := os.Create(*baseInfFlag)
		if err != nil {
			log.Fatalf("Failed to create base inference log: %v", err)
		}
		defer f.Close()
		l.BaseInfLog = enc.NewEncoder().Writer(f)
	}

	if err := l.Learn(); err != nil {
		log.Fatalf("Learning failed: %v", err)
	}

	logger.Printf("Writing analysis to %s...", outputPath)
	if err := corpus.WriteAnalysisFile(outputPath, lex, enc, *segmentFlag); err != nil {
		log.Fatalf("Failed to write analysis: %v", err)
	}

	if *conflationFlag != "" {
		f, err := os.Create(*conflationFlag)
		if err != nil {
			log.Fatalf("Failed to create conflation sets file: %v", err)
		}
		if err := corpus.WriteConflationSets(enc.NewEncoder().Writer(f), lex); err != nil {
			f.Close()
			log.Fatalf("Failed to write conflation sets: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to close conflation sets file: %v", err)
		}
	}

	if *transformsFlag != "" {
		f, err := os.Create(*transformsFlag)
		if err != nil {
			log.Fatalf("Failed to create transforms file: %v", err)
		}
		if err := corpus.WriteTransforms(enc.NewEncoder().Writer(f), l.LearnedTransforms(), cfg.WeightingExponent); err != nil {
			f.Close()
			log.Fatalf("Failed to write transforms: %v", err)
		}
		if err := f.Close(); err != nil {
			log.Fatalf("Failed to close transforms file: %v", err)
		}
	}

	if *dbFlag != "" {
		conn, err := store.Open(*dbFlag)
		if err != nil {
			log.Fatalf("Failed to open results database: %v", err)
		}
		defer conn.Close()

		runID, err := store.CreateRun(conn, wordlistPath, paramsPath)
		if err != nil {
			log.Fatalf("Failed to create run: %v", err)
		}
		if err := store.SaveRun(conn, runID, lex, l.LearnedTransforms(), *segmentFlag); err != nil {
			log.Fatalf("Failed to save run: %v", err)
		}
		logger.Printf("Run %d saved to %s", runID, *dbFlag)
	}

	logger.Printf("Done.")
}

// snapshotPath inserts a label before the output file's extension, so
// out/analysis.txt becomes out/analysis_precompound.txt.
func snapshotPath(outputPath, label string) string {
	dir := filepath.Dir(outputPath)
	base := filepath.Base(outputPath)
	ext := filepath.Ext(base)
	name := strings.TrimSuffix(base, ext)
	return filepath.Join(dir, name+"_"+label+ext)
}
