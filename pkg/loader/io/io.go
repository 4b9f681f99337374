package io

import (
	"context"
	"os"
	"sync"

	"github.com/statref/uscite/pkg/loader"

	"golang.org/x/sync/singleflight"
)

// IOCorpusFileLoader loads corpus files directly from the local filesystem
// with caching. Concurrent requests for the same file share a single read.
type IOCorpusFileLoader struct {
	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewIOCorpusFileLoader creates a new filesystem-based corpus loader.
func NewIOCorpusFileLoader() *IOCorpusFileLoader {
	return &IOCorpusFileLoader{
		cache: make(map[string][]byte),
	}
}

// GetFileText reads the file content from the filesystem. Results are cached.
func (l *IOCorpusFileLoader) GetFileText(ctx context.Context, file loader.CorpusFile) ([]byte, error) {
	key := loader.CacheKey(file)

	l.cacheMu.RLock()
	if cached, ok := l.cache[key]; ok {
		l.cacheMu.RUnlock()
		return cached, nil
	}
	l.cacheMu.RUnlock()

	result, err, _ := l.group.Do(key, func() (any, error) {
		l.cacheMu.RLock()
		if cached, ok := l.cache[key]; ok {
			l.cacheMu.RUnlock()
			return cached, nil
		}
		l.cacheMu.RUnlock()

		data, err := os.ReadFile(file.FilePath)
		if err != nil {
			return nil, err
		}

		l.cacheMu.Lock()
		l.cache[key] = data
		l.cacheMu.Unlock()

		return data, nil
	})
	if err != nil {
		return nil, err
	}

	return result.([]byte), nil
}
