package graph

// IndexClient drives citation graph builds. It controls how many corpus
// files are scanned in parallel.
//
// An IndexClient should be created using NewIndexClient.
type IndexClient struct {
	parallelFiles int
}

// NewIndexClientParams defines the configuration parameters for creating
// a new IndexClient.
//
// ParallelFiles controls how many corpus files are extracted concurrently.
type NewIndexClientParams struct {
	ParallelFiles int
}

// NewIndexClient creates and returns a new IndexClient configured with the
// provided parameters.
func NewIndexClient(params NewIndexClientParams) *IndexClient {
	parallelFiles := params.ParallelFiles
	if parallelFiles <= 0 {
		parallelFiles = 4
	}
	return &IndexClient{
		parallelFiles: parallelFiles,
	}
}
