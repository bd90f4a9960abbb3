package build

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/go-shiori/go-readability"
	"golang.org/x/text/encoding"
)

// maxArticleSize bounds how much HTML is read from an untrusted URL.
const maxArticleSize = 10 * 1024 * 1024

// Builder accumulates token frequency counts from texts, files, and web
// articles. Documents are tokenized concurrently on a worker pool; the count
// table is guarded by a mutex. Call Close before reading results.
type Builder struct {
	tok  Tokenizer
	pool *WorkerPool

	mu     sync.Mutex
	counts map[string]int64

	errMu   sync.Mutex
	lastErr error
}

// NewBuilder creates a Builder tokenizing with tok on the given number of
// workers and starts the pool.
func NewBuilder(ctx context.Context, tok Tokenizer, workers int) *Builder {
	b := &Builder{
		tok:    tok,
		pool:   NewWorkerPool(workers, 0),
		counts: make(map[string]int64),
	}
	b.pool.Start(ctx)
	return b
}

// AddText tokenizes and counts a document synchronously.
func (b *Builder) AddText(text string) {
	words := b.tok.Tokenize(text)
	b.mu.Lock()
	for _, w := range words {
		b.counts[w]++
	}
	b.mu.Unlock()
}

func (b *Builder) recordErr(err error) {
	b.errMu.Lock()
	if b.lastErr == nil {
		b.lastErr = err
	}
	b.errMu.Unlock()
}

// SubmitText queues a document for tokenization on the pool.
func (b *Builder) SubmitText(text string) error {
	return b.pool.Submit(func(ctx context.Context) error {
		b.AddText(text)
		return nil
	})
}

// SubmitFile queues a local text file. Each line is a document, so large
// corpora tokenize in parallel without loading whole files per job.
func (b *Builder) SubmitFile(path string, enc encoding.Encoding) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening corpus file: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(enc.NewDecoder().Reader(f))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if err := b.SubmitText(line); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading corpus file %s: %w", path, err)
	}
	return nil
}

// SubmitURL queues a web page: fetch, extract the article text, tokenize.
func (b *Builder) SubmitURL(pageURL string) error {
	return b.pool.Submit(func(ctx context.Context) error {
		text, err := fetchArticle(ctx, pageURL)
		if err != nil {
			b.recordErr(fmt.Errorf("fetching %s: %w", pageURL, err))
			return err
		}
		b.AddText(text)
		return nil
	})
}

// Close waits for queued documents to finish and returns the first error a
// background job hit.
func (b *Builder) Close() error {
	b.pool.Close()
	b.errMu.Lock()
	defer b.errMu.Unlock()
	return b.lastErr
}

// Entry is one word and its token count.
type Entry struct {
	Word  string
	Count int64
}

// Entries returns the counts sorted by descending count, ties by word.
func (b *Builder) Entries() []Entry {
	b.mu.Lock()
	entries := make([]Entry, 0, len(b.counts))
	for w, c := range b.counts {
		entries = append(entries, Entry{Word: w, Count: c})
	}
	b.mu.Unlock()

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].Count != entries[j].Count {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Word < entries[j].Word
	})
	return entries
}

// WriteWordlist writes the accumulated counts as wordlist lines.
func (b *Builder) WriteWordlist(w io.Writer) error {
	bw := bufio.NewWriter(w)
	for _, e := range b.Entries() {
		if _, err := fmt.Fprintf(bw, "%d %s\n", e.Count, e.Word); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// WriteWordlistFile writes the wordlist to a file in the given encoding.
func (b *Builder) WriteWordlistFile(path string, enc encoding.Encoding) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating wordlist file: %w", err)
	}
	if err := b.WriteWordlist(enc.NewEncoder().Writer(f)); err != nil {
		f.Close()
		return fmt.Errorf("writing wordlist %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("closing wordlist %s: %w", path, err)
	}
	return nil
}

// fetchArticle downloads a page and extracts its readable article text.
func fetchArticle(ctx context.Context, pageURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", pageURL, nil)
	if err != nil {
		return "", err
	}
	// Some hosts reject clients without a browser-looking User-Agent.
	req.Header.Set("User-Agent", "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9,ja;q=0.8")

	client := &http.Client{Timeout: 30 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("got status %s", resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxArticleSize))
	if err != nil {
		return "", err
	}
	if int64(len(body)) >= int64(maxArticleSize) {
		return "", fmt.Errorf("page exceeds %d byte limit", maxArticleSize)
	}

	body = SanitizeRuby(body)

	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", err
	}
	article, err := readability.FromReader(bytes.NewReader(body), parsed)
	if err != nil {
		return "", fmt.Errorf("extracting article: %w", err)
	}
	return article.TextContent, nil
}
