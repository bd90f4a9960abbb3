package build

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// EnsureCorpus makes sure a corpus file exists at path, downloading it from
// url if missing. Gzipped downloads (.gz) are decompressed; tarballs (.tgz,
// .tar.gz) have their first regular file extracted.
func EnsureCorpus(ctx context.Context, url, path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return err
	}

	fmt.Printf("Corpus not found at %s. Downloading from %s...\n", path, url)
	return downloadCorpus(ctx, url, path)
}

func downloadCorpus(ctx context.Context, url, destPath string) error {
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("User-Agent", "morphlearn-cli")

	client := &http.Client{Timeout: 10 * time.Minute}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("download failed: %s", resp.Status)
	}

	var src io.Reader = resp.Body
	switch {
	case strings.HasSuffix(url, ".tgz") || strings.HasSuffix(url, ".tar.gz"):
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src, err = firstTarFile(tar.NewReader(gz))
		if err != nil {
			return err
		}
	case strings.HasSuffix(url, ".gz"):
		gz, err := gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to create gzip reader: %w", err)
		}
		defer gz.Close()
		src = gz
	}

	out, err := os.Create(destPath)
	if err != nil {
		return fmt.Errorf("failed to create corpus file: %w", err)
	}
	if _, err := io.Copy(out, src); err != nil {
		out.Close()
		os.Remove(destPath)
		return fmt.Errorf("failed to write corpus file: %w", err)
	}
	return out.Close()
}

// firstTarFile positions the tar reader at its first regular file.
func firstTarFile(tr *tar.Reader) (io.Reader, error) {
	for {
		header, err := tr.Next()
		if err == io.EOF {
			return nil, fmt.Errorf("no regular file found in archive")
		}
		if err != nil {
			return nil, fmt.Errorf("error reading tar archive: %w", err)
		}
		if header.Typeflag == tar.TypeReg {
			return tr, nil
		}
	}
}
