package lambda

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/aws/aws-lambda-go/events"
)

// EnvelopeKind identifies the shape of an incoming invocation payload
type EnvelopeKind int

const (
	// EnvelopeDirect is a payload invoked directly, without an HTTP wrapper
	EnvelopeDirect EnvelopeKind = iota
	// EnvelopeALB is an Application Load Balancer target group request
	EnvelopeALB
	// EnvelopeAPIGateway is an API Gateway REST proxy request
	EnvelopeAPIGateway
)

func (k EnvelopeKind) String() string {
	switch k {
	case EnvelopeALB:
		return "alb"
	case EnvelopeAPIGateway:
		return "api_gateway"
	default:
		return "direct"
	}
}

// DetectEnvelope inspects a raw payload. A request context carrying an elb
// key wins over an httpMethod key.
func DetectEnvelope(payload json.RawMessage) EnvelopeKind {
	var probe struct {
		HTTPMethod     *string `json:"httpMethod"`
		RequestContext *struct {
			ELB json.RawMessage `json:"elb"`
		} `json:"requestContext"`
	}
	if err := json.Unmarshal(payload, &probe); err != nil {
		return EnvelopeDirect
	}

	if probe.RequestContext != nil && len(probe.RequestContext.ELB) > 0 {
		return EnvelopeALB
	}
	if probe.HTTPMethod != nil {
		return EnvelopeAPIGateway
	}
	return EnvelopeDirect
}

// FromALB converts a load balancer request into a generic Request. Query
// parameters arrive URL-encoded from the load balancer.
func FromALB(event events.ALBTargetGroupRequest) (*Request, error) {
	query := make(map[string]string, len(event.QueryStringParameters))
	for k, v := range event.QueryStringParameters {
		key, err := url.QueryUnescape(k)
		if err != nil {
			key = k
		}
		value, err := url.QueryUnescape(v)
		if err != nil {
			value = v
		}
		query[key] = value
	}

	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	return &Request{
		Method:      defaultMethod(event.HTTPMethod),
		Path:        defaultPath(event.Path),
		Headers:     event.Headers,
		QueryParams: query,
		Body:        body,
	}, nil
}

// FromAPIGateway converts an API Gateway proxy request into a generic Request
func FromAPIGateway(event events.APIGatewayProxyRequest) (*Request, error) {
	body, err := decodeBody(event.Body, event.IsBase64Encoded)
	if err != nil {
		return nil, err
	}

	query := event.QueryStringParameters
	if query == nil {
		query = map[string]string{}
	}

	return &Request{
		Method:      defaultMethod(event.HTTPMethod),
		Path:        defaultPath(event.Path),
		Headers:     event.Headers,
		QueryParams: query,
		Body:        body,
	}, nil
}

// ToALB converts a generic Response into a load balancer response
func ToALB(resp *Response) events.ALBTargetGroupResponse {
	return events.ALBTargetGroupResponse{
		StatusCode:        resp.StatusCode,
		StatusDescription: fmt.Sprintf("%d %s", resp.StatusCode, http.StatusText(resp.StatusCode)),
		Headers:           resp.Headers,
		Body:              string(resp.Body),
		IsBase64Encoded:   resp.IsBase64Encoded,
	}
}

// ToAPIGateway converts a generic Response into an API Gateway proxy response
func ToAPIGateway(resp *Response) events.APIGatewayProxyResponse {
	return events.APIGatewayProxyResponse{
		StatusCode:      resp.StatusCode,
		Headers:         resp.Headers,
		Body:            string(resp.Body),
		IsBase64Encoded: resp.IsBase64Encoded,
	}
}

func decodeBody(body string, isBase64 bool) ([]byte, error) {
	if !isBase64 {
		return []byte(body), nil
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 body: %w", err)
	}
	return decoded, nil
}

func defaultMethod(method string) string {
	if method == "" {
		return http.MethodGet
	}
	return method
}

func defaultPath(path string) string {
	if path == "" {
		return "/"
	}
	return path
}
