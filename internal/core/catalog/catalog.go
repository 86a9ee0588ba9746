// Package catalog loads the candidate gene universe and derives the seeded
// sample and batch plan a run works through.
package catalog

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"
)

const headerPrefix = "approved symbol"

// CatalogTooSmallError is returned when fewer unique symbols than required were parsed.
type CatalogTooSmallError struct {
	Have int
	Want int
}

func (e *CatalogTooSmallError) Error() string {
	return fmt.Sprintf("gene catalog too small after parsing: %d symbols, need at least %d", e.Have, e.Want)
}

// Parse reads one symbol per line, skipping blanks and the header line.
// The first occurrence of a symbol wins and order is preserved.
func Parse(r io.Reader) ([]string, error) {
	var symbols []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		symbol := strings.TrimSpace(scanner.Text())
		if symbol == "" || strings.HasPrefix(strings.ToLower(symbol), headerPrefix) {
			continue
		}
		if _, ok := seen[symbol]; ok {
			continue
		}
		seen[symbol] = struct{}{}
		symbols = append(symbols, symbol)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	return symbols, nil
}

// Load parses the catalog at path and enforces a minimum size.
func Load(fs afero.Fs, path string, minSize int) ([]string, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog '%s': %w", path, err)
	}
	defer f.Close()

	symbols, err := Parse(f)
	if err != nil {
		return nil, err
	}
	if len(symbols) < minSize {
		return nil, &CatalogTooSmallError{Have: len(symbols), Want: minSize}
	}
	return symbols, nil
}

// Fetcher downloads the catalog when no cached copy exists.
type Fetcher struct {
	Client  *http.Client
	Timeout time.Duration
}

func NewFetcher() *Fetcher {
	return &Fetcher{
		Client:  &http.Client{},
		Timeout: 60 * time.Second,
	}
}

// Ensure returns path, downloading url into it first if the file is absent.
func (f *Fetcher) Ensure(ctx context.Context, fs afero.Fs, path, url string) (string, error) {
	exists, err := afero.Exists(fs, path)
	if err != nil {
		return "", fmt.Errorf("failed to stat catalog '%s': %w", path, err)
	}
	if exists {
		return path, nil
	}
	if url == "" {
		return "", fmt.Errorf("catalog '%s' not found and no download URL configured", path)
	}

	zap.L().Info("downloading gene catalog", zap.String("url", url), zap.String("path", path))

	ctx, cancel := context.WithTimeout(ctx, f.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create catalog request: %w", err)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("catalog download failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("catalog download returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read catalog body: %w", err)
	}

	if err := fs.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create catalog directory: %w", err)
	}
	if err := afero.WriteFile(fs, path, body, 0o644); err != nil {
		return "", fmt.Errorf("failed to cache catalog: %w", err)
	}
	return path, nil
}
