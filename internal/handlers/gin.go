package handlers

import (
	"encoding/base64"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"url-event-pipeline/pkg/lambda"
)

// Gin adapts the collector router to gin so the development server shares
// the Lambda code path
func (h *CollectorHandler) Gin(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "Invalid request body",
			Message: err.Error(),
		})
		return
	}

	resp := h.Route(c.Request.Context(), requestFromGin(c, body))
	writeGinResponse(c, resp)
}

func requestFromGin(c *gin.Context, body []byte) *lambda.Request {
	headers := make(map[string]string, len(c.Request.Header))
	for k, v := range c.Request.Header {
		if len(v) > 0 {
			headers[k] = v[0]
		}
	}
	if _, ok := headers["X-Forwarded-For"]; !ok {
		headers["X-Forwarded-For"] = c.ClientIP()
	}

	query := make(map[string]string)
	for k, v := range c.Request.URL.Query() {
		if len(v) > 0 {
			query[k] = v[0]
		}
	}

	return &lambda.Request{
		Method:      c.Request.Method,
		Path:        c.Request.URL.Path,
		Headers:     headers,
		QueryParams: query,
		Body:        body,
	}
}

func writeGinResponse(c *gin.Context, resp *lambda.Response) {
	body := resp.Body
	if resp.IsBase64Encoded {
		decoded, err := base64.StdEncoding.DecodeString(string(resp.Body))
		if err != nil {
			c.JSON(http.StatusInternalServerError, ErrorResponse{
				Error:   "Internal server error",
				Message: err.Error(),
			})
			return
		}
		body = decoded
	}

	contentType := resp.Headers["Content-Type"]
	for k, v := range resp.Headers {
		if k != "Content-Type" {
			c.Header(k, v)
		}
	}
	c.Data(resp.StatusCode, contentType, body)
}
