package conversion

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/liushuangls/go-anthropic/v2"
	"golang.org/x/time/rate"

	"github.com/codeshift-app/codeshift/internal/config"
)

// Invoker sends a composed instruction to the external text-generation
// service and returns its raw reply. Implementations must honor ctx
// cancellation and surface failures as ErrModelUnavailable or ErrEmptyReply.
type Invoker interface {
	Invoke(ctx context.Context, instruction string) (string, error)
}

const maxInvokeRetries = 3

// AnthropicInvoker calls the Anthropic Messages API. Outbound calls are paced
// by a client-side limiter and retried a bounded number of times when the API
// reports rate limiting.
type AnthropicInvoker struct {
	client  *anthropic.Client
	cfg     config.AnthropicConfig
	limiter *rate.Limiter
}

func NewAnthropicInvoker(cfg config.AnthropicConfig) *AnthropicInvoker {
	return &AnthropicInvoker{
		client:  anthropic.NewClient(cfg.APIKey),
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.MaxCallsPerSecond), 1),
	}
}

func (a *AnthropicInvoker) Invoke(ctx context.Context, instruction string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.Timeout)
	defer cancel()

	if err := a.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("%w: %s", ErrModelUnavailable, err)
	}

	temperature := a.cfg.Temperature
	resp, err := a.createMessageWithRetry(ctx, anthropic.MessagesRequest{
		Model:       a.cfg.Model,
		Messages:    []anthropic.Message{anthropic.NewUserTextMessage(instruction)},
		Temperature: &temperature,
		MaxTokens:   a.cfg.MaxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrModelUnavailable, err)
	}

	if len(resp.Content) == 0 {
		return "", ErrEmptyReply
	}

	text := resp.GetFirstContentText()
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyReply
	}
	return text, nil
}

func (a *AnthropicInvoker) createMessageWithRetry(ctx context.Context, req anthropic.MessagesRequest) (*anthropic.MessagesResponse, error) {
	var resp anthropic.MessagesResponse
	var err error

	for retries := 0; retries < maxInvokeRetries; retries++ {
		resp, err = a.client.CreateMessages(ctx, req)
		if err == nil {
			return &resp, nil
		}

		var apiErr *anthropic.APIError
		if errors.As(err, &apiErr) && apiErr.IsRateLimitErr() {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(retries+1) * time.Second):
				slog.Warn("model call rate limited, retrying", "attempt", retries+1)
				continue
			}
		}

		return nil, err
	}

	return nil, fmt.Errorf("max retries reached: %w", err)
}
