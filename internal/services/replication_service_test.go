package services

import (
	"context"
	"encoding/json"
	"testing"
)

func TestReplicationService_HandleEvent(t *testing.T) {
	tests := []struct {
		name     string
		payload  string
		wantBody string
		wantErr  bool
	}{
		{
			name:     "dms running",
			payload:  `{"source":"aws.dms","detail-type":"DMS Replication State Change","detail":{"state":"running"}}`,
			wantBody: "Processed DMS event: running",
		},
		{
			name:     "dms failed",
			payload:  `{"source":"aws.dms","detail":{"state":"failed"}}`,
			wantBody: "Processed DMS event: failed",
		},
		{
			name:     "dms without detail",
			payload:  `{"source":"aws.dms"}`,
			wantBody: "Processed DMS event: ",
		},
		{
			name:     "direct transformation request",
			payload:  `{"table":"events","operation":"INSERT"}`,
			wantBody: "Transformation completed",
		},
		{
			name:     "other event source",
			payload:  `{"source":"aws.s3","detail":{"state":"running"}}`,
			wantBody: "Transformation completed",
		},
		{
			name:    "not an object",
			payload: `"hello"`,
			wantErr: true,
		},
	}

	svc := NewReplicationService()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := svc.HandleEvent(context.Background(), json.RawMessage(tt.payload))

			if tt.wantErr {
				if err == nil {
					t.Error("Expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if result.StatusCode != 200 {
				t.Errorf("Expected status 200, got %d", result.StatusCode)
			}
			if result.Body != tt.wantBody {
				t.Errorf("Expected body %q, got %q", tt.wantBody, result.Body)
			}
		})
	}
}
