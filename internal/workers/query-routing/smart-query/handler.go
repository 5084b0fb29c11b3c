// internal/workers/query-routing/smart-query/handler.go
package smartquery

import (
	"context"
	"encoding/json"
	"fmt"

	apperrors "nft-query-router/internal/common/errors"
	"nft-query-router/internal/common/logger"
	"nft-query-router/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const TaskType = "smart-query"

// Handler exposes the pipeline as a zeebe job worker. Job variables carry a
// Query; the Response is written back as the completion variables.
type Handler struct {
	config   *Config
	pipeline *Pipeline
	errors   *apperrors.ErrorHandler
	logger   logger.Logger
}

func NewHandler(config *Config, pipeline *Pipeline, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:   config,
		pipeline: pipeline,
		errors:   apperrors.NewErrorHandler(l),
		logger:   l,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) error {
	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	q, err := decodeQuery(job.Variables)
	if err != nil {
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	resp := h.pipeline.Run(ctx, q)
	if resp.Error != "" {
		err := apperrors.NewInvalidRequestError(resp.Error)
		h.errors.HandleJobError(ctx, client, job, err)
		return err
	}

	return h.completeJob(ctx, client, job, resp)
}

func decodeQuery(variables string) (models.Query, error) {
	var q models.Query
	if err := json.Unmarshal([]byte(variables), &q); err != nil {
		return q, apperrors.NewInvalidRequestError(fmt.Sprintf("parse input: %v", err))
	}
	return q, nil
}

func (h *Handler) completeJob(ctx context.Context, client worker.JobClient, job entities.Job, resp *models.Response) error {
	cmd, err := client.NewCompleteJobCommand().
		JobKey(job.Key).
		VariablesFromObject(resp)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err.Error()})
		return err
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err.Error()})
		return err
	}
	return nil
}
