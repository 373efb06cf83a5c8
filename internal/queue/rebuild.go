package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/rabbitmq/amqp091-go"

	"github.com/fmadore/IWAC-spatial-overview/internal/config"
	"github.com/fmadore/IWAC-spatial-overview/internal/pipeline"
	"github.com/fmadore/IWAC-spatial-overview/internal/storage"
	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
)

// RebuildJob is the message carried on rebuild_queue. RunID correlates log
// lines across the enqueuing server and the worker; zero-valued fields fall
// back to the worker's configuration.
type RebuildJob struct {
	RunID       string   `json:"runId"`
	Steps       []string `json:"steps,omitempty"`
	WeightMin   int      `json:"weightMin,omitempty"`
	RequestedBy string   `json:"requestedBy,omitempty"`
	Publish     bool     `json:"publish,omitempty"`
}

// Validate rejects jobs the worker would fail on anyway, so the server can
// refuse them at enqueue time instead of letting them cycle through retries.
func (j *RebuildJob) Validate() error {
	if err := pipeline.ValidateSteps(j.Steps); err != nil {
		return err
	}
	if j.WeightMin < 0 {
		return fmt.Errorf("weightMin must not be negative, got %d", j.WeightMin)
	}
	return nil
}

// EnqueueRebuild publishes a rebuild job onto the work queue.
func EnqueueRebuild(ch *amqp091.Channel, job RebuildJob) error {
	if err := job.Validate(); err != nil {
		return err
	}

	data, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("failed to marshal rebuild job: %w", err)
	}
	if err := util.RetryErr(publishMaxTries, func() error {
		return PublishFIFO(ch, RebuildQueue, data)
	}); err != nil {
		return fmt.Errorf("failed to publish rebuild job: %w", err)
	}

	logger.Info("[Queue] Rebuild job enqueued", "runId", job.RunID, "requestedBy", job.RequestedBy)
	return nil
}

// ProcessRebuild runs the pipeline for one rebuild job. The s3 client may be
// nil; jobs asking to publish then fail and retry until one is configured.
func ProcessRebuild(ctx context.Context, cfg config.Config, s3Client *s3.Client, msgBody []byte) error {
	var job RebuildJob
	if err := json.Unmarshal(msgBody, &job); err != nil {
		return fmt.Errorf("failed to decode rebuild job: %w", err)
	}
	if err := job.Validate(); err != nil {
		return fmt.Errorf("invalid rebuild job: %w", err)
	}

	if job.WeightMin > 0 {
		cfg.WeightMin = job.WeightMin
	}

	logger.Info(
		"[Queue] Rebuild starting",
		"runId", job.RunID,
		"requestedBy", job.RequestedBy,
		"weightMin", cfg.WeightMin,
	)

	runner := pipeline.NewRunner(pipeline.NewRunnerParams{Config: cfg})
	result, err := runner.Run(ctx, job.Steps)
	if err != nil {
		return fmt.Errorf("rebuild run failed: %w", err)
	}

	if job.Publish {
		if s3Client == nil {
			return fmt.Errorf("rebuild job requests publishing but no S3 client is configured")
		}
		prefix := util.GetEnvString("PUBLISH_PREFIX", "data")
		files, err := storage.PublishDir(ctx, s3Client, cfg.DataDir, prefix)
		if err != nil {
			return fmt.Errorf("failed to publish rebuild output: %w", err)
		}
		logger.Info("[Queue] Rebuild output published", "runId", job.RunID, "files", files)
	}

	logger.Info("[Queue] Rebuild finished", "runId", job.RunID, "pipelineRunId", result.RunID)
	return nil
}
