package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"url-event-pipeline/internal/config"
	"url-event-pipeline/internal/services"
	"url-event-pipeline/pkg/server"
)

var container *server.Container

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// The enricher never publishes
	cfg.Publisher.Type = "mock"

	container, err = server.NewContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}
}

func handler(ctx context.Context, event services.FirehoseEvent) (events.KinesisFirehoseResponse, error) {
	return container.EnrichmentService.TransformBatch(ctx, event), nil
}

func main() {
	awslambda.Start(handler)
}
