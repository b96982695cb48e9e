package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zakahfir/microflow-ai/internal/llm"
)

func TestComplete(t *testing.T) {
	var gotReq chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer sk-test" {
			t.Errorf("authorization = %q", auth)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotReq); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": `{"nom_client": null}`}},
			},
		})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "sk-test"}, srv.Client())
	got, err := c.Complete(context.Background(), "analyse ce devis")
	if err != nil {
		t.Fatalf("Complete: %v", err)
	}
	if got != `{"nom_client": null}` {
		t.Errorf("output = %q", got)
	}
	if gotReq.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", gotReq.Model)
	}
	if gotReq.ResponseFormat.Type != "json_object" {
		t.Errorf("response format = %q", gotReq.ResponseFormat.Type)
	}
	if len(gotReq.Messages) != 1 || gotReq.Messages[0].Content != "analyse ce devis" {
		t.Errorf("messages = %+v", gotReq.Messages)
	}
}

func TestCompleteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "rate limited"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL, APIKey: "sk-test"}, srv.Client())
	_, err := c.Complete(context.Background(), "prompt")
	if !errors.Is(err, llm.ErrBackendUnavailable) {
		t.Errorf("err = %v, want ErrBackendUnavailable", err)
	}
}

func TestCompleteEmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer srv.Close()

	c := New(Config{BaseURL: srv.URL}, srv.Client())
	_, err := c.Complete(context.Background(), "prompt")
	if !errors.Is(err, llm.ErrBackendUnavailable) {
		t.Errorf("err = %v, want ErrBackendUnavailable", err)
	}
}
