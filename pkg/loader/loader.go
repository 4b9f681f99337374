package loader

import "context"

// CorpusFile represents one US Code title file (USLM XML) to be scanned
// for citations. The actual bytes are retrieved via the associated
// CorpusFileLoader, so the same pipeline works against local snapshots and
// object storage.
type CorpusFile struct {
	ID       string
	FilePath string
	Loader   CorpusFileLoader
}

// NewCorpusFileParams defines the input parameters for creating a
// CorpusFile.
type NewCorpusFileParams struct {
	ID       string
	FilePath string
	Loader   CorpusFileLoader
}

// NewCorpusFile creates a CorpusFile from the provided parameters.
func NewCorpusFile(params NewCorpusFileParams) CorpusFile {
	return CorpusFile{
		ID:       params.ID,
		FilePath: params.FilePath,
		Loader:   params.Loader,
	}
}

// CorpusFileLoader defines the interface for loading the contents of a
// CorpusFile.
type CorpusFileLoader interface {
	GetFileText(ctx context.Context, file CorpusFile) ([]byte, error)
}

// CacheKey generates a unique cache key for a CorpusFile based on its ID
// and path.
func CacheKey(file CorpusFile) string {
	return file.ID + ":" + file.FilePath
}
