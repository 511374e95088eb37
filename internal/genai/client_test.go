// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

package genai

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/petmatchdev/petmatch/internal/config"
	"github.com/petmatchdev/petmatch/internal/models"
)

func testRequest(recommended bool) Request {
	return Request{
		Item: models.Item{
			ItemID:      "EST-14",
			CategoryID:  "CATS",
			Name:        "Manx Tailless",
			Description: "<p>Great for <b>reducing</b> mouse populations</p>",
		},
		Profile: models.Profile{
			ResidenceEnv: "House with garden",
			PetSizePref:  "Small",
		},
		Recommended: recommended,
		Conditions:  []models.Attribute{models.AttrResidenceEnv, models.AttrPetSizePref},
	}
}

func newTestClient(baseURL string) *Client {
	cfg := config.Default().Generator
	cfg.BaseURL = baseURL
	cfg.APIKey = "test-key"
	cfg.Timeout = 2 * time.Second
	cfg.RatePerSecond = 0 // no limiter in tests
	return NewClient(cfg, zerolog.Nop())
}

func completionHandler(t *testing.T, content string, gotPrompt *string) http.HandlerFunc {
	t.Helper()
	return func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/chat/completions" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		if auth := r.Header.Get("Authorization"); auth != "Bearer test-key" {
			t.Errorf("authorization header = %q", auth)
		}

		body, _ := io.ReadAll(r.Body)
		var req chatRequest
		if err := json.Unmarshal(body, &req); err != nil {
			t.Errorf("decode request: %v", err)
		}
		if gotPrompt != nil && len(req.Messages) == 2 {
			*gotPrompt = req.Messages[1].Content
		}

		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"role": "assistant", "content": content}},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}
}

func TestGenerateMessage(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(completionHandler(t, "  A great garden companion.  ", &prompt))
	defer srv.Close()

	c := newTestClient(srv.URL)
	msg, err := c.GenerateMessage(context.Background(), testRequest(true))
	if err != nil {
		t.Fatalf("GenerateMessage: %v", err)
	}
	if msg != "A great garden companion." {
		t.Errorf("message = %q, want trimmed completion", msg)
	}

	// Recommended prompts list matched preferences and strip HTML.
	if !strings.Contains(prompt, "residence environment: House with garden") {
		t.Errorf("prompt missing matched preference:\n%s", prompt)
	}
	if strings.Contains(prompt, "<p>") || strings.Contains(prompt, "<b>") {
		t.Errorf("prompt should not contain HTML markup:\n%s", prompt)
	}
}

func TestGenerateMessageMismatchPrompt(t *testing.T) {
	var prompt string
	srv := httptest.NewServer(completionHandler(t, "Maybe not the best fit.", &prompt))
	defer srv.Close()

	c := newTestClient(srv.URL)
	if _, err := c.GenerateMessage(context.Background(), testRequest(false)); err != nil {
		t.Fatalf("GenerateMessage: %v", err)
	}
	if !strings.Contains(prompt, `The customer prefers residence environment "House with garden", but this pet does not match.`) {
		t.Errorf("mismatch prompt phrasing wrong:\n%s", prompt)
	}
	if !strings.Contains(prompt, "not a good match") {
		t.Errorf("mismatch prompt missing framing:\n%s", prompt)
	}
}

func TestGenerateMessageProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited","type":"rate_limit_error"}}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GenerateMessage(context.Background(), testRequest(true))
	if err == nil {
		t.Fatal("expected error from provider failure")
	}
	if !strings.Contains(err.Error(), "rate limited") {
		t.Errorf("error should carry the provider message, got %v", err)
	}
}

func TestGenerateMessageEmptyCompletion(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"   "}}]}`))
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	_, err := c.GenerateMessage(context.Background(), testRequest(true))
	if !errors.Is(err, ErrEmptyCompletion) {
		t.Errorf("error = %v, want ErrEmptyCompletion", err)
	}
}

func TestGenerateMessageContextCancelled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Drain the body so the server's background read can observe the
		// client disconnect and cancel the request context.
		_, _ = io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer srv.Close()

	c := newTestClient(srv.URL)
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := c.GenerateMessage(ctx, testRequest(true)); err == nil {
		t.Fatal("expected error from cancelled context")
	}
}

func TestFallbackMessage(t *testing.T) {
	if got := FallbackMessage(true); got != "We recommend this pet based on your preferences." {
		t.Errorf("recommended fallback = %q", got)
	}
	if got := FallbackMessage(false); got != "This pet may not be the best match for your preferences." {
		t.Errorf("not-recommended fallback = %q", got)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"<p>Friendly <b>cat</b></p>", "Friendly  cat"},
		{"no markup", "no markup"},
		{"", ""},
		{"<img src='x'/>tail", "tail"},
	}
	for _, tt := range tests {
		if got := stripHTML(tt.in); got != tt.want {
			t.Errorf("stripHTML(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestConditionsInOrder(t *testing.T) {
	set := models.NewAttributeSet(models.AttrPetColorPref, models.AttrResidenceEnv, models.AttrCarePeriod)
	got := ConditionsInOrder(set)
	want := []models.Attribute{models.AttrResidenceEnv, models.AttrCarePeriod, models.AttrPetColorPref}
	if len(got) != len(want) {
		t.Fatalf("ConditionsInOrder = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("ConditionsInOrder[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}
