package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/fmadore/IWAC-spatial-overview/internal/config"
	"github.com/fmadore/IWAC-spatial-overview/internal/queue"
	"github.com/fmadore/IWAC-spatial-overview/internal/storage"
	"github.com/fmadore/IWAC-spatial-overview/internal/util"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger"
	"github.com/fmadore/IWAC-spatial-overview/pkg/logger/console"
)

func main() {
	util.LoadEnv()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// logger
	debug := util.GetEnvBool("DEBUG", false)
	consoleLogger := console.NewConsoleLogger(console.ConsoleLoggerParams{
		Debug: debug,
	})
	logger.Init(consoleLogger)

	cfg, err := config.Load(util.GetEnv("PIPELINE_CONFIG"))
	if err != nil {
		logger.Fatal("Invalid pipeline configuration", "err", err)
	}

	// S3 is only needed for jobs that publish; skip it when unconfigured.
	var s3Client *s3.Client
	if util.GetEnv("AWS_ENDPOINT") != "" {
		s3Client = storage.NewS3Client(ctx)
	}

	// Init rabbitmq
	conn := queue.Init()
	defer conn.Close()

	// Init rabbitmq queues if not exist
	ch, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open channel", "err", err)
	}
	defer ch.Close()

	if err := queue.SetupQueues(ch, []string{queue.RebuildQueue}); err != nil {
		logger.Fatal("Failed to set up queues", "err", err)
	}

	logger.Info("Listening for messages")

	// Prefetch 1 so a long rebuild never buffers further jobs on this worker.
	consumerCh, err := conn.Channel()
	if err != nil {
		logger.Fatal("Failed to open consumer channel", "err", err)
	}
	defer consumerCh.Close()

	err = consumerCh.Qos(1, 0, true)
	if err != nil {
		logger.Fatal("Failed to set QoS", "err", err)
	}

	msgs, err := consumerCh.Consume(
		queue.RebuildQueue,
		queue.RebuildQueue+"_consumer",
		false, // autoAck
		false, // exclusive
		false, // noLocal
		false, // noWait
		nil,   // args
	)
	if err != nil {
		logger.Fatal("Failed to start consuming", "queue", queue.RebuildQueue, "err", err)
	}

	for {
		select {
		case <-ctx.Done():
			logger.Info("Shutdown signal received, exiting...")
			return
		case msg, ok := <-msgs:
			if !ok {
				logger.Info("Message channel closed", "queue", queue.RebuildQueue)
				return
			}

			startTime := time.Now()
			logger.Info("Received message", "queue", queue.RebuildQueue)

			processingErr := queue.ProcessRebuild(ctx, cfg, s3Client, msg.Body)

			// If there was an error send to retry or dead-letter, otherwise ack the message
			if processingErr != nil {
				logger.Error("Error processing message", "queue", queue.RebuildQueue, "err", processingErr)
				handleProcessingError(consumerCh, msg, queue.RebuildQueue)
			} else {
				if err := msg.Ack(false); err != nil {
					logger.Error("Failed to ack message", "err", err)
				}
				logger.Info("Message processed successfully", "queue", queue.RebuildQueue)
			}

			logger.Info("Processing time", "duration", util.FormatDuration(time.Since(startTime)))
			logger.Info("Waiting for next message")
		}
	}
}

func handleProcessingError(ch *amqp.Channel, msg amqp.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	// If message has exhausted its retries, send to dead-letter
	if retries >= queue.MaxRetries {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish(
			"",
			dlqName,
			false,
			false,
			amqp.Publishing{
				ContentType: "application/json",
				Body:        msg.Body,
				Headers:     msg.Headers,
			},
		)
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	retryName := queueName + "_retry"
	headers := msg.Headers
	if headers == nil {
		headers = amqp.Table{}
	}
	headers["x-retries"] = retries + 1

	pubErr := ch.Publish(
		"",
		retryName,
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        msg.Body,
			Headers:     headers,
		},
	)
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
