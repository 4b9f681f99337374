package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/statref/uscite/internal/db"
	"github.com/statref/uscite/internal/storage"
	"github.com/statref/uscite/internal/timing"
	"github.com/statref/uscite/internal/util"
	"github.com/statref/uscite/pkg/graph"
	"github.com/statref/uscite/pkg/leaselock"
	"github.com/statref/uscite/pkg/loader"
	"github.com/statref/uscite/pkg/loader/s3"
	"github.com/statref/uscite/pkg/logger"
	storepgx "github.com/statref/uscite/pkg/store/pgx"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ReindexMsg asks the worker to rebuild the citation graph from the USLM
// corpus under CorpusPrefix in the corpus bucket.
type ReindexMsg struct {
	Message      string `json:"message"`
	JobID        string `json:"job_id"`
	CorpusPrefix string `json:"corpus_prefix"`
}

// ProcessReindexMessage rebuilds the citation graph from the corpus
// snapshot in S3. The schema is migrated here, not in the API server, so
// the citations table only exists once a build has started. A lease lock
// keeps concurrent reindex jobs from interleaving their commits.
func ProcessReindexMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	conn *pgxpool.Pool,
	msg string,
) error {
	data := new(ReindexMsg)
	if err := json.Unmarshal([]byte(msg), &data); err != nil {
		return err
	}

	migrationsPath := util.GetEnvString("MIGRATIONS_PATH", "file://migrations")
	err := util.RetryErrWithContext(ctx, 3, func(ctx context.Context) error {
		return db.RunMigrations(util.GetEnv("DATABASE_URL"), migrationsPath)
	})
	if err != nil {
		return err
	}

	keys, err := storage.ListFilesWithPrefix(ctx, s3Client, data.CorpusPrefix)
	if err != nil {
		return fmt.Errorf("failed to list corpus files: %w", err)
	}
	sort.Strings(keys)

	s3Bucket := util.GetEnvString("AWS_BUCKET", "uscite")
	s3L := s3.NewS3CorpusFileLoaderWithClient(s3Bucket, s3Client)

	files := make([]loader.CorpusFile, 0, len(keys))
	for _, key := range keys {
		if !strings.HasSuffix(key, ".xml") {
			continue
		}
		files = append(files, loader.NewCorpusFile(loader.NewCorpusFileParams{
			ID:       key,
			FilePath: key,
			Loader:   s3L,
		}))
	}

	if len(files) == 0 {
		logger.Warn("[Queue] No corpus files found for reindex", "job_id", data.JobID, "prefix", data.CorpusPrefix)
		return nil
	}

	logger.Info("[Queue] Starting reindex", "job_id", data.JobID, "files", len(files))

	if prevMs, err := timing.LastIndexDuration(ctx, conn); err == nil && prevMs > 0 {
		logger.Info("[Queue] Previous index run", "job_id", data.JobID, "duration_ms", prevMs)
	}

	indexClient := graph.NewIndexClient(graph.NewIndexClientParams{
		ParallelFiles: int(util.GetEnvNumeric("INDEX_PARALLEL_FILES", 4)),
	})
	storageClient := storepgx.NewCitationDBStorage(conn)

	lockClient := leaselock.New(conn)
	return lockClient.WithLease(ctx, "citations:index", leaselock.Options{
		TTL:         10 * time.Minute,
		RenewEvery:  4 * time.Minute,
		Wait:        true,
		TokenPrefix: fmt.Sprintf("reindex/%s/", data.JobID),
	}, func(leaseCtx context.Context) error {
		start := time.Now()
		report, err := indexClient.BuildGraph(leaseCtx, files, storageClient)
		if err != nil {
			return err
		}

		durationMs := time.Since(start).Milliseconds()
		if err := timing.RecordIndexRun(ctx, conn, data.JobID, report, durationMs); err != nil {
			logger.Warn("[Queue] Failed to record index run", "job_id", data.JobID, "err", err)
		}

		logger.Info(
			"[Queue] Reindex completed",
			"job_id", data.JobID,
			"files_indexed", report.FilesIndexed,
			"files_failed", report.FilesFailed,
			"citations_inserted", report.CitationsInserted,
			"duration_ms", durationMs,
		)

		return nil
	})
}
