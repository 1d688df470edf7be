package ollama

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/goccy/go-json"
)

func TestClient_Generate(t *testing.T) {
	tests := []struct {
		name         string
		status       int
		responseBody string
		want         string
		wantErr      string
	}{
		{
			name:         "Success",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"  nostalgic \n"}}`,
			want:         "nostalgic",
		},
		{
			name:         "Server error",
			status:       http.StatusInternalServerError,
			responseBody: `{"error":"model not loaded"}`,
			wantErr:      "model not loaded",
		},
		{
			name:         "Empty content",
			status:       http.StatusOK,
			responseBody: `{"message":{"role":"assistant","content":"   "}}`,
			wantErr:      "empty response",
		},
		{
			name:         "Error field with 200",
			status:       http.StatusOK,
			responseBody: `{"error":"context length exceeded"}`,
			wantErr:      "context length exceeded",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			var gotRequest chatRequest
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.Path != "/api/chat" {
					w.WriteHeader(http.StatusNotFound)
					return
				}
				if r.Method != http.MethodPost {
					w.WriteHeader(http.StatusMethodNotAllowed)
					return
				}
				if err := json.NewDecoder(r.Body).Decode(&gotRequest); err != nil {
					w.WriteHeader(http.StatusBadRequest)
					return
				}
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.responseBody))
			}))
			defer srv.Close()

			client := NewClient(srv.URL+"/", "", 0.4)
			got, err := client.Generate(context.Background(), "test prompt")

			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("expected error containing %q, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, got)
			}
			if gotRequest.Model != defaultModel {
				t.Fatalf("expected model %s, got %q", defaultModel, gotRequest.Model)
			}
			if gotRequest.Stream {
				t.Fatalf("expected non-streaming request")
			}
			if gotRequest.Options == nil || gotRequest.Options.Temperature != 0.4 {
				t.Fatalf("expected temperature 0.4, got %+v", gotRequest.Options)
			}
			if len(gotRequest.Messages) != 1 {
				t.Fatalf("expected 1 message, got %d", len(gotRequest.Messages))
			}
			if gotRequest.Messages[0].Role != "user" || gotRequest.Messages[0].Content != "test prompt" {
				t.Fatalf("user message mismatch")
			}
		})
	}
}

func TestClient_GenerateCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewClient(srv.URL, "llama3", 0).Generate(ctx, "hi"); err == nil {
		t.Fatalf("expected error for canceled context")
	}
}
