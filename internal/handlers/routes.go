package handlers

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"url-event-pipeline/internal/services"
	"url-event-pipeline/pkg/lambda"
)

// Route dispatches a collector request by path. Handler errors and panics
// become 500 responses.
func (h *CollectorHandler) Route(ctx context.Context, req *lambda.Request) (resp *lambda.Response) {
	defer recoverResponse(&resp)

	var err error
	path := req.Path

	switch {
	case path == "/health":
		resp, err = h.HandleHealth(ctx, req)
	case strings.HasPrefix(path, "/pixel.gif"), strings.HasPrefix(path, "/track.gif"):
		resp, err = h.HandlePixel(ctx, req)
	case strings.HasPrefix(path, "/collect"), strings.HasPrefix(path, "/track"):
		resp, err = h.HandleCollect(ctx, req)
	case strings.HasPrefix(path, "/js/tracker.js"):
		resp, err = h.HandleScript(ctx, req)
	default:
		resp = notFound()
	}

	if err != nil {
		logrus.WithFields(logrus.Fields{
			"method": req.Method,
			"path":   path,
			"error":  err.Error(),
		}).Error("Collector request failed")
		return internalError(err)
	}

	return resp
}

// RouterConfig holds configuration for setting up routes
type RouterConfig struct {
	ServiceName       string
	CollectorService  services.CollectorService
	EnrichmentService services.EnrichmentService
	// RecordLister is set when the publisher keeps records locally
	RecordLister RecordLister
}

// SetupRoutes configures the development server routes. Every path not
// registered here is served by the collector router.
func SetupRoutes(router *gin.Engine, config *RouterConfig) {
	collectorHandler := NewCollectorHandler(config.CollectorService, config.ServiceName)
	enrichHandler := NewEnrichHandler(config.EnrichmentService)

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	router.POST("/enrich", enrichHandler.Enrich)

	if config.RecordLister != nil {
		router.GET("/events", NewEventsHandler(config.RecordLister).ListEvents)
	}

	router.NoRoute(collectorHandler.Gin)
}
