package main

import (
	"context"
	"encoding/json"

	awslambda "github.com/aws/aws-lambda-go/lambda"

	"url-event-pipeline/internal/config"
	"url-event-pipeline/internal/services"
)

var replicationService services.ReplicationService

func init() {
	if _, err := config.GetOptimizedConfig(); err != nil {
		panic("Failed to load configuration: " + err.Error())
	}
	replicationService = services.NewReplicationService()
}

func handler(ctx context.Context, payload json.RawMessage) (*services.ReplicationResult, error) {
	return replicationService.HandleEvent(ctx, payload)
}

func main() {
	awslambda.Start(handler)
}
