package lambda

import (
	"encoding/base64"
	"encoding/json"
	"testing"

	"github.com/aws/aws-lambda-go/events"
)

func TestDetectEnvelope(t *testing.T) {
	tests := []struct {
		name    string
		payload string
		want    EnvelopeKind
	}{
		{"alb", `{"httpMethod":"GET","path":"/health","requestContext":{"elb":{"targetGroupArn":"arn"}}}`, EnvelopeALB},
		{"api gateway", `{"httpMethod":"POST","path":"/collect","requestContext":{"stage":"prod"}}`, EnvelopeAPIGateway},
		{"direct", `{"url":"https://example.com","user_id":"u1"}`, EnvelopeDirect},
		{"not json", `nope`, EnvelopeDirect},
		{"array", `[1,2]`, EnvelopeDirect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectEnvelope(json.RawMessage(tt.payload)); got != tt.want {
				t.Errorf("DetectEnvelope() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFromALB(t *testing.T) {
	req, err := FromALB(events.ALBTargetGroupRequest{
		HTTPMethod:            "POST",
		Path:                  "/collect",
		QueryStringParameters: map[string]string{"utm_source": "spring%20sale"},
		Headers:               map[string]string{"user-agent": "curl"},
		Body:                  base64.StdEncoding.EncodeToString([]byte(`{"url":"x"}`)),
		IsBase64Encoded:       true,
	})
	if err != nil {
		t.Fatalf("FromALB failed: %v", err)
	}

	if req.Method != "POST" || req.Path != "/collect" {
		t.Errorf("Unexpected method/path %s %s", req.Method, req.Path)
	}
	if req.QueryParams["utm_source"] != "spring sale" {
		t.Errorf("Expected decoded query value, got %q", req.QueryParams["utm_source"])
	}
	if string(req.Body) != `{"url":"x"}` {
		t.Errorf("Expected decoded body, got %s", req.Body)
	}
}

func TestFromAPIGateway_Defaults(t *testing.T) {
	req, err := FromAPIGateway(events.APIGatewayProxyRequest{})
	if err != nil {
		t.Fatalf("FromAPIGateway failed: %v", err)
	}
	if req.Method != "GET" || req.Path != "/" {
		t.Errorf("Expected GET /, got %s %s", req.Method, req.Path)
	}
	if req.QueryParams == nil {
		t.Error("Expected non-nil query params")
	}

	if _, err := FromAPIGateway(events.APIGatewayProxyRequest{Body: "%%%", IsBase64Encoded: true}); err == nil {
		t.Error("Expected error for invalid base64 body")
	}
}

func TestToALB(t *testing.T) {
	resp := ToALB(&Response{
		StatusCode:      200,
		Headers:         map[string]string{"Content-Type": "image/gif"},
		Body:            []byte("R0lGOD"),
		IsBase64Encoded: true,
	})

	if resp.StatusDescription != "200 OK" {
		t.Errorf("Unexpected status description %q", resp.StatusDescription)
	}
	if !resp.IsBase64Encoded || resp.Body != "R0lGOD" {
		t.Error("Expected base64 body to be passed through")
	}

	gw := ToAPIGateway(&Response{StatusCode: 404, Body: []byte(`{}`)})
	if gw.StatusCode != 404 || gw.Body != `{}` {
		t.Errorf("Unexpected API Gateway response %+v", gw)
	}
}
