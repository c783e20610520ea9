package handlers

import (
	"encoding/json"
	"net/http"

	"url-event-pipeline/pkg/lambda"
)

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

const (
	corsAllowMethods = "GET, POST, OPTIONS"
	corsAllowHeaders = "Content-Type, Authorization"
)

// jsonResponse encodes body as a JSON response carrying the CORS origin header
func jsonResponse(status int, body any, extra map[string]string) *lambda.Response {
	data, err := json.Marshal(body)
	if err != nil {
		status = http.StatusInternalServerError
		data = []byte(`{"error":"Internal server error","message":"failed to encode response"}`)
	}

	headers := map[string]string{
		"Content-Type":                "application/json",
		"Access-Control-Allow-Origin": "*",
	}
	for k, v := range extra {
		headers[k] = v
	}

	return &lambda.Response{
		StatusCode: status,
		Headers:    headers,
		Body:       data,
	}
}

func errorResponse(status int, err, message string) *lambda.Response {
	return jsonResponse(status, ErrorResponse{Error: err, Message: message}, nil)
}

func notFound() *lambda.Response {
	return errorResponse(http.StatusNotFound, "Not Found", "Endpoint not found")
}

func methodNotAllowed() *lambda.Response {
	return errorResponse(http.StatusMethodNotAllowed, "Method Not Allowed", "Only GET and POST methods are supported")
}

func internalError(err error) *lambda.Response {
	return jsonResponse(http.StatusInternalServerError, ErrorResponse{
		Error:   "Internal server error",
		Message: err.Error(),
	}, map[string]string{
		"Access-Control-Allow-Methods": corsAllowMethods,
		"Access-Control-Allow-Headers": corsAllowHeaders,
	})
}
