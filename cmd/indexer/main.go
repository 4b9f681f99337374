package main

import (
	"context"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/statref/uscite/internal/db"
	"github.com/statref/uscite/internal/timing"
	"github.com/statref/uscite/internal/util"
	"github.com/statref/uscite/pkg/graph"
	"github.com/statref/uscite/pkg/loader"
	loaderio "github.com/statref/uscite/pkg/loader/io"
	"github.com/statref/uscite/pkg/logger"
	"github.com/statref/uscite/pkg/logger/console"
	storepgx "github.com/statref/uscite/pkg/store/pgx"

	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/lib/pq"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// indexer builds the citation graph from a local USLM corpus directory
// in one shot, without going through the queue. Useful for development
// and for seeding a fresh database.
func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	corpusDir := util.GetEnvString("CORPUS_DIR", "corpus")
	if len(os.Args) > 1 {
		corpusDir = os.Args[1]
	}

	dbURL := util.GetEnv("DATABASE_URL")
	migrationsPath := util.GetEnvString("MIGRATIONS_PATH", "file://migrations")
	if err := db.RunMigrations(dbURL, migrationsPath); err != nil {
		logger.Fatal("Failed to run migrations", "err", err)
	}

	conn, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		logger.Fatal("Unable to connect to database", "err", err)
	}
	defer conn.Close()

	ioL := loaderio.NewIOCorpusFileLoader()
	var files []loader.CorpusFile
	err = filepath.WalkDir(corpusDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() || !strings.HasSuffix(path, ".xml") {
			return nil
		}
		files = append(files, loader.NewCorpusFile(loader.NewCorpusFileParams{
			ID:       path,
			FilePath: path,
			Loader:   ioL,
		}))
		return nil
	})
	if err != nil {
		logger.Fatal("Failed to walk corpus directory", "dir", corpusDir, "err", err)
	}
	if len(files) == 0 {
		logger.Fatal("No corpus files found", "dir", corpusDir)
	}

	jobID, err := gonanoid.New()
	if err != nil {
		logger.Fatal("Failed to generate job id", "err", err)
	}

	indexClient := graph.NewIndexClient(graph.NewIndexClientParams{
		ParallelFiles: int(util.GetEnvNumeric("INDEX_PARALLEL_FILES", 4)),
	})
	storageClient := storepgx.NewCitationDBStorage(conn)

	start := time.Now()
	report, err := indexClient.BuildGraph(ctx, files, storageClient)
	if err != nil {
		logger.Fatal("Failed to build citation graph", "err", err)
	}

	durationMs := time.Since(start).Milliseconds()
	if err := timing.RecordIndexRun(ctx, conn, jobID, report, durationMs); err != nil {
		logger.Warn("Failed to record index run", "job_id", jobID, "err", err)
	}

	logger.Info(
		"Index run finished",
		"job_id", jobID,
		"files_indexed", report.FilesIndexed,
		"files_failed", report.FilesFailed,
		"citations_found", report.CitationsFound,
		"citations_inserted", report.CitationsInserted,
		"duration_ms", durationMs,
	)
}
