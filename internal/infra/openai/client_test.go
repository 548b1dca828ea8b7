package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestCreateChatCompletion(t *testing.T) {
	var got ChatCompletionRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("неожиданный путь %s", r.URL.Path)
		}
		if r.Header.Get("Authorization") != "Bearer sk-test" {
			t.Errorf("нет заголовка авторизации")
		}
		_ = json.NewDecoder(r.Body).Decode(&got)
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"  Hei!  "}}],"usage":{"prompt_tokens":3,"completion_tokens":2,"total_tokens":5}}`))
	}))
	defer srv.Close()

	zero := 0.0
	client := NewClient("sk-test", srv.URL+"/v1/", time.Second)
	resp, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{
		Model:       "gpt-4o-mini",
		Temperature: &zero,
		Messages:    []ChatMessage{{Role: RoleUser, Content: "hei"}},
	})
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if resp.Content() != "Hei!" {
		t.Fatalf("неожиданный ответ %q", resp.Content())
	}
	if got.Temperature == nil || *got.Temperature != 0 {
		t.Fatalf("нулевая температура должна уходить в запросе")
	}
}

func TestCreateChatCompletionAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"type":"insufficient_quota","message":"quota exceeded"}}`))
	}))
	defer srv.Close()

	client := NewClient("sk-test", srv.URL, time.Second)
	_, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{Model: "m"})
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("ожидали APIError, получили %v", err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests || apiErr.Message != "quota exceeded" {
		t.Fatalf("неожиданная ошибка: %+v", apiErr)
	}
}

func TestCreateChatCompletionNoKey(t *testing.T) {
	client := NewClient(" ", "", time.Second)
	if _, err := client.CreateChatCompletion(context.Background(), ChatCompletionRequest{}); err == nil {
		t.Fatal("ожидали ошибку без ключа")
	}
}
