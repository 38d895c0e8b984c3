package service

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
)

func completionServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("Authorization = %q", got)
		}

		var req completionRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Errorf("decoding request: %v", err)
		}
		if req.Model != "mistralai/mistral-7b-instruct" {
			t.Errorf("model = %q", req.Model)
		}
		if len(req.Messages) != 2 || req.Messages[0].Role != "system" || req.Messages[1].Role != "user" {
			t.Errorf("messages = %+v", req.Messages)
		}

		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
}

func TestCompleteTrimsReply(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"  hello there \n"}}]}`)
	defer srv.Close()

	client := NewOpenRouterClient(srv.URL, "test-key", "mistralai/mistral-7b-instruct", zerolog.Nop())
	got, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello there" {
		t.Fatalf("got %q", got)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := completionServer(t, http.StatusOK, `{"choices":[]}`)
	defer srv.Close()

	client := NewOpenRouterClient(srv.URL, "test-key", "mistralai/mistral-7b-instruct", zerolog.Nop())
	got, err := client.Complete(context.Background(), "system", "user")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "" {
		t.Fatalf("want empty reply, got %q", got)
	}
}

func TestCompleteServerError(t *testing.T) {
	srv := completionServer(t, http.StatusBadGateway, `{"error":"upstream"}`)
	defer srv.Close()

	client := NewOpenRouterClient(srv.URL, "test-key", "mistralai/mistral-7b-instruct", zerolog.Nop())
	_, err := client.Complete(context.Background(), "system", "user")
	if !errors.Is(err, ErrCompletionUnavailable) {
		t.Fatalf("want ErrCompletionUnavailable, got %v", err)
	}
}
