package routes

import (
	"encoding/json"
	"net/http"

	"github.com/statref/uscite/internal/queue"
	"github.com/statref/uscite/internal/server/middleware"
	"github.com/statref/uscite/internal/util"
	"github.com/statref/uscite/pkg/logger"

	_ "github.com/go-playground/validator"
	"github.com/labstack/echo/v4"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ReindexHandler enqueues a full rebuild of the citation graph from the
// USLM corpus snapshot. The build itself runs on the worker.
func ReindexHandler(c echo.Context) error {
	type reindexBody struct {
		CorpusPrefix string `json:"corpus_prefix"`
	}

	type reindexResponse struct {
		Message string `json:"message"`
		JobID   string `json:"job_id,omitempty"`
	}

	data := new(reindexBody)
	if err := c.Bind(data); err != nil {
		return c.JSON(http.StatusBadRequest, reindexResponse{Message: "Invalid request body"})
	}
	if data.CorpusPrefix == "" {
		data.CorpusPrefix = util.GetEnvString("CORPUS_PREFIX", "corpus/")
	}

	jobID, err := gonanoid.New()
	if err != nil {
		logger.Error("Failed to generate job id", "err", err)
		return c.JSON(http.StatusInternalServerError, reindexResponse{Message: "Internal server error"})
	}

	msg := queue.ReindexMsg{
		Message:      "Reindex citation graph",
		JobID:        jobID,
		CorpusPrefix: data.CorpusPrefix,
	}
	msgBytes, err := json.Marshal(msg)
	if err != nil {
		logger.Error("Failed to marshal reindex message", "err", err)
		return c.JSON(http.StatusInternalServerError, reindexResponse{Message: "Internal server error"})
	}

	ch := c.(*middleware.AppContext).App.Queue
	if err := queue.PublishFIFO(ch, queue.ReindexQueue, msgBytes); err != nil {
		logger.Error("Failed to enqueue reindex job", "job_id", jobID, "err", err)
		return c.JSON(http.StatusInternalServerError, reindexResponse{Message: "Internal server error"})
	}

	logger.Info("Enqueued reindex job", "job_id", jobID, "prefix", data.CorpusPrefix)

	return c.JSON(http.StatusAccepted, reindexResponse{
		Message: "Reindex queued",
		JobID:   jobID,
	})
}
