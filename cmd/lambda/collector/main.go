package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-lambda-go/events"
	awslambda "github.com/aws/aws-lambda-go/lambda"
	"github.com/sirupsen/logrus"

	"url-event-pipeline/internal/config"
	"url-event-pipeline/internal/handlers"
	"url-event-pipeline/internal/models"
	"url-event-pipeline/pkg/lambda"
	"url-event-pipeline/pkg/server"
)

var (
	container        *server.Container
	collectorHandler *handlers.CollectorHandler
)

func init() {
	cfg, err := config.GetOptimizedConfig()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	container, err = server.NewContainer(cfg)
	if err != nil {
		panic("Failed to initialize container: " + err.Error())
	}

	collectorHandler = handlers.NewCollectorHandler(container.CollectorService, cfg.ServiceName)
}

// handler accepts ALB, API Gateway and direct invocations. The payload shape
// is detected before decoding.
func handler(ctx context.Context, payload json.RawMessage) (any, error) {
	kind := lambda.DetectEnvelope(payload)
	logrus.WithField("envelope", kind.String()).Debug("Received collector invocation")

	switch kind {
	case lambda.EnvelopeALB:
		var event events.ALBTargetGroupRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("failed to decode ALB request: %w", err)
		}
		req, err := lambda.FromALB(event)
		if err != nil {
			return lambda.ToALB(badRequest(err)), nil
		}
		return lambda.ToALB(collectorHandler.Route(ctx, req)), nil

	case lambda.EnvelopeAPIGateway:
		var event events.APIGatewayProxyRequest
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("failed to decode API Gateway request: %w", err)
		}
		req, err := lambda.FromAPIGateway(event)
		if err != nil {
			return lambda.ToAPIGateway(badRequest(err)), nil
		}
		return lambda.ToAPIGateway(collectorHandler.Route(ctx, req)), nil

	default:
		var event models.Event
		if err := json.Unmarshal(payload, &event); err != nil {
			return nil, fmt.Errorf("failed to decode direct invocation: %w", err)
		}
		return collectorHandler.HandleDirect(ctx, event), nil
	}
}

func badRequest(err error) *lambda.Response {
	body, _ := json.Marshal(handlers.ErrorResponse{Error: "Invalid request body", Message: err.Error()})
	return &lambda.Response{
		StatusCode: 400,
		Headers: map[string]string{
			"Content-Type":                "application/json",
			"Access-Control-Allow-Origin": "*",
		},
		Body: body,
	}
}

func main() {
	awslambda.Start(handler)
}
