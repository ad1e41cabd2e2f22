package amalgam

import (
	"context"
	"fmt"
	"os"
	"strings"

	"fortio.org/log"
	lru "github.com/hashicorp/golang-lru/v2"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultCacheSize is the number of file texts kept per run.
	DefaultCacheSize = 1024
	maxParallelReads = 16
	utf8BOM          = "\uFEFF"
)

// --- Source Reading ---

// sourceReader reads file texts for a single run. Texts are kept in a bounded
// LRU keyed by absolute path; an evicted file is simply read again.
type sourceReader struct {
	cache *lru.Cache[string, string]
}

func newSourceReader(size int) (*sourceReader, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create source cache: %w", err)
	}
	return &sourceReader{cache: cache}, nil
}

// Read returns the text of path. A leading UTF-8 byte order mark is dropped.
func (r *sourceReader) Read(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if text, ok := r.cache.Get(path); ok {
		log.LogVf("Cache hit for %s", path)
		return text, nil
	}
	log.LogVf("Cache miss for %s, reading", path)
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	text := strings.TrimPrefix(string(data), utf8BOM)
	r.cache.Add(path, text)
	return text, nil
}

// ReadAll reads paths concurrently and returns their texts in the same order
// as paths, whatever order the reads complete in. The first failure cancels
// the remaining reads.
func (r *sourceReader) ReadAll(ctx context.Context, paths []string) ([]string, error) {
	texts := make([]string, len(paths))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, path := range paths {
		i, path := i, path // per-iteration copies (pre-Go 1.22 loop semantics)
		g.Go(func() error {
			text, err := r.Read(gCtx, path)
			if err != nil {
				return err
			}
			texts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return texts, nil
}

// --- End Source Reading ---
