package llm_test

import (
	"context"
	"testing"
	"time"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"

	"github.com/the-ledger/ledger/pkg/service/llm"
)

func newCountingClient(genCount *int) gollem.LLMClient {
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
					*genCount++
					return &gollem.Response{Texts: []string{"ok"}}, nil
				},
			}, nil
		},
		GenerateEmbeddingFunc: func(ctx context.Context, dimension int, input []string) ([][]float64, error) {
			return make([][]float64, len(input)), nil
		},
	}
}

func TestRateLimited_PassesThrough(t *testing.T) {
	ctx := context.Background()
	var genCount int

	client := llm.NewRateLimited(newCountingClient(&genCount), 6000)

	ssn := gt.R1(client.NewSession(ctx)).NoError(t)
	resp := gt.R1(ssn.GenerateContent(ctx, gollem.Text("hello"))).NoError(t)
	gt.A(t, resp.Texts).Length(1)
	gt.Value(t, genCount).Equal(1)

	embeddings := gt.R1(client.GenerateEmbedding(ctx, 8, []string{"a", "b"})).NoError(t)
	gt.A(t, embeddings).Length(2)
}

func TestRateLimited_SecondCallWaits(t *testing.T) {
	ctx := context.Background()
	var genCount int

	// 60 RPM means one token per second with a bucket of one.
	client := llm.NewRateLimited(newCountingClient(&genCount), 60)
	ssn := gt.R1(client.NewSession(ctx)).NoError(t)

	start := time.Now()
	gt.R1(ssn.GenerateContent(ctx, gollem.Text("first"))).NoError(t)
	gt.R1(ssn.GenerateContent(ctx, gollem.Text("second"))).NoError(t)
	elapsed := time.Since(start)

	gt.Value(t, genCount).Equal(2)
	gt.True(t, elapsed >= 500*time.Millisecond)
}

func TestRateLimited_CanceledWhileWaiting(t *testing.T) {
	var genCount int

	// 1 RPM: the second call would wait close to a minute.
	client := llm.NewRateLimited(newCountingClient(&genCount), 1)
	ssn := gt.R1(client.NewSession(context.Background())).NoError(t)
	gt.R1(ssn.GenerateContent(context.Background(), gollem.Text("first"))).NoError(t)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := ssn.GenerateContent(ctx, gollem.Text("second"))
	gt.Error(t, err)
	gt.Value(t, genCount).Equal(1)
}

func TestRateLimited_DefaultsInvalidRPM(t *testing.T) {
	ctx := context.Background()
	var genCount int

	client := llm.NewRateLimited(newCountingClient(&genCount), 0)
	ssn := gt.R1(client.NewSession(ctx)).NoError(t)
	gt.R1(ssn.GenerateContent(ctx, gollem.Text("hello"))).NoError(t)
	gt.Value(t, genCount).Equal(1)
}
