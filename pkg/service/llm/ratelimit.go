package llm

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"golang.org/x/time/rate"

	"github.com/the-ledger/ledger/pkg/domain/model/errs"
)

// DefaultRequestsPerMinute is the provider-side request budget applied
// when no explicit limit is configured.
const DefaultRequestsPerMinute = 30

// rateLimitedClient spreads model calls over time with a token bucket
// shared across every session it creates. Agent loops can issue several
// generations per user turn, so the gate sits on the generation call,
// not on session creation.
type rateLimitedClient struct {
	gollem.LLMClient
	limiter *rate.Limiter
}

type rateLimitedSession struct {
	gollem.Session
	limiter *rate.Limiter
}

// NewRateLimited wraps an LLM client so that generation and embedding
// calls wait for the shared token bucket. rpm values below 1 fall back
// to DefaultRequestsPerMinute. The bucket holds a single token: bursts
// are flattened into an even request cadence.
func NewRateLimited(client gollem.LLMClient, rpm int) gollem.LLMClient {
	if rpm < 1 {
		rpm = DefaultRequestsPerMinute
	}
	return &rateLimitedClient{
		LLMClient: client,
		limiter:   rate.NewLimiter(rate.Limit(float64(rpm)/60.0), 1),
	}
}

func (x *rateLimitedClient) NewSession(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
	ssn, err := x.LLMClient.NewSession(ctx, opts...)
	if err != nil {
		return nil, err
	}
	return &rateLimitedSession{Session: ssn, limiter: x.limiter}, nil
}

func (x *rateLimitedClient) GenerateEmbedding(ctx context.Context, dimension int, input []string) ([][]float64, error) {
	if err := x.limiter.Wait(ctx); err != nil {
		return nil, goerr.Wrap(err, "canceled while waiting for LLM rate limit", goerr.T(errs.TagRateLimit))
	}
	return x.LLMClient.GenerateEmbedding(ctx, dimension, input)
}

func (x *rateLimitedSession) GenerateContent(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
	if err := x.limiter.Wait(ctx); err != nil {
		return nil, goerr.Wrap(err, "canceled while waiting for LLM rate limit", goerr.T(errs.TagRateLimit))
	}
	return x.Session.GenerateContent(ctx, input...)
}
