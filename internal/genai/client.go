// PetMatch - Survey-Driven Pet Recommendations
// Copyright 2026 petmatchdev
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/petmatchdev/petmatch

// Package genai generates recommendation explanation text through an
// OpenAI-compatible chat-completions API. The client carries its own
// resilience: a per-call timeout, a client-side rate limiter, and a
// circuit breaker so a degraded provider cannot stall a refresh cycle
// request by request.
package genai

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	gobreaker "github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/petmatchdev/petmatch/internal/config"
	"github.com/petmatchdev/petmatch/internal/metrics"
	"github.com/petmatchdev/petmatch/internal/models"
)

// ErrEmptyCompletion is returned when the provider answers 200 with no
// usable message content.
var ErrEmptyCompletion = errors.New("empty completion")

// Request describes one message to generate. Conditions lists the
// attribute slots the text should mention, in presentation order:
// matched slots for a recommended item, mismatched slots otherwise.
type Request struct {
	Item        models.Item
	Profile     models.Profile
	Recommended bool
	Conditions  []models.Attribute
}

// Generator produces explanation text for a scoring decision. The
// refresh orchestrator and any synchronous call site depend on this
// interface, not on the HTTP client.
type Generator interface {
	GenerateMessage(ctx context.Context, req Request) (string, error)
}

// Client is an OpenAI-compatible chat-completions client.
type Client struct {
	cfg     config.GeneratorConfig
	http    *http.Client
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker[string]
	logger  zerolog.Logger
}

// NewClient creates a generator client from configuration.
//
//nolint:gocritic // logger passed by value is acceptable for zerolog
func NewClient(cfg config.GeneratorConfig, logger zerolog.Logger) *Client {
	log := logger.With().Str("component", "genai").Logger()

	var limiter *rate.Limiter
	if cfg.RatePerSecond > 0 {
		burst := cfg.RateBurst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RatePerSecond), burst)
	}

	const cbName = "genai"
	metrics.CircuitBreakerState.WithLabelValues(cbName).Set(0) // 0 = closed

	breaker := gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        cbName,
		MaxRequests: 2,
		Interval:    time.Minute,
		Timeout:     2 * time.Minute,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < 5 {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= 0.6
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("from", from.String()).Str("to", to.String()).Msg("generator circuit breaker state change")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
	})

	return &Client{
		cfg:     cfg,
		http:    &http.Client{Timeout: cfg.Timeout},
		limiter: limiter,
		breaker: breaker,
		logger:  log,
	}
}

func stateToFloat(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// GenerateMessage produces one explanation message. Rate limiting
// waits (bounded by ctx), then the call runs under the circuit
// breaker with the configured per-call timeout.
func (c *Client) GenerateMessage(ctx context.Context, req Request) (string, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", fmt.Errorf("rate limit wait: %w", err)
		}
	}

	start := time.Now()
	msg, err := c.breaker.Execute(func() (string, error) {
		return c.complete(ctx, buildPrompt(req))
	})
	metrics.GeneratorDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		switch {
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.GeneratorRequests.WithLabelValues("rejected").Inc()
		default:
			metrics.GeneratorRequests.WithLabelValues("failure").Inc()
		}
		return "", err
	}

	metrics.GeneratorRequests.WithLabelValues("success").Inc()
	return msg, nil
}

func (c *Client) complete(ctx context.Context, prompt string) (string, error) {
	body, err := json.Marshal(chatRequest{
		Model: c.cfg.Model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: prompt},
		},
		MaxTokens:   c.cfg.MaxTokens,
		Temperature: c.cfg.Temperature,
	})
	if err != nil {
		return "", fmt.Errorf("marshal chat request: %w", err)
	}

	url := strings.TrimRight(c.cfg.BaseURL, "/") + "/v1/chat/completions"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build chat request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.cfg.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	}

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return "", fmt.Errorf("read chat response: %w", err)
	}

	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return "", fmt.Errorf("decode chat response (status %d): %w", resp.StatusCode, err)
	}

	if resp.StatusCode != http.StatusOK {
		if parsed.Error != nil {
			return "", fmt.Errorf("chat completion failed: %s (%s)", parsed.Error.Message, parsed.Error.Type)
		}
		return "", fmt.Errorf("chat completion failed with status %d", resp.StatusCode)
	}

	if len(parsed.Choices) == 0 {
		return "", ErrEmptyCompletion
	}
	content := strings.TrimSpace(parsed.Choices[0].Message.Content)
	if content == "" {
		return "", ErrEmptyCompletion
	}
	return content, nil
}
