package main

import (
	"context"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"

	"url-event-pipeline/internal/config"
	"url-event-pipeline/internal/services"
)

var streamService services.StreamService

func init() {
	if _, err := config.GetOptimizedConfig(); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	streamService = services.NewStreamService()
}

func handler(ctx context.Context, event events.KinesisEvent) (events.KinesisEventResponse, error) {
	return streamService.ProcessRecords(ctx, event), nil
}

func main() {
	awslambda.Start(handler)
}
