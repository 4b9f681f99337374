package s3

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"golang.org/x/sync/singleflight"

	"github.com/statref/uscite/pkg/loader"
)

// S3CorpusFileLoader is a CorpusFileLoader implementation that loads US
// Code snapshots from an S3 bucket. It uses the AWS SDK v2 for Go.
//
// This loader is useful when corpus snapshots are mirrored to object
// storage instead of the local filesystem, e.g. for worker fleets that
// rebuild the graph without a shared disk.
type S3CorpusFileLoader struct {
	bucket string
	client *s3.Client

	cache   map[string][]byte
	cacheMu sync.RWMutex
	group   singleflight.Group
}

// NewS3CorpusFileLoaderWithClient creates a new S3CorpusFileLoader using
// an existing s3.Client. The worker shares one client between corpus
// listing and file loading.
func NewS3CorpusFileLoaderWithClient(bucket string, client *s3.Client) *S3CorpusFileLoader {
	return &S3CorpusFileLoader{
		bucket: bucket,
		client: client,
		cache:  make(map[string][]byte),
	}
}

// GetFileText downloads the object behind file.FilePath. Results are
// cached; concurrent requests for the same key share a single download.
func (l *S3CorpusFileLoader) GetFileText(ctx context.Context, file loader.CorpusFile) ([]byte, error) {
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

		obj, err := l.client.GetObject(ctx, &s3.GetObjectInput{
			Bucket: aws.String(l.bucket),
			Key:    aws.String(file.FilePath),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to get corpus file from S3: %w", err)
		}
		defer obj.Body.Close()

		buf := new(bytes.Buffer)
		if _, err := io.Copy(buf, obj.Body); err != nil {
			return nil, fmt.Errorf("failed to read corpus file contents: %w", err)
		}
		data := buf.Bytes()

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
