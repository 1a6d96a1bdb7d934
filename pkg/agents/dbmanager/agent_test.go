package dbmanager_test

import (
	"context"
	"errors"
	"testing"

	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/mock"
	"github.com/m-mizutani/gt"

	"github.com/the-ledger/ledger/pkg/agents/dbmanager"
	"github.com/the-ledger/ledger/pkg/domain/model/asset"
	"github.com/the-ledger/ledger/pkg/repository/memory"
	"github.com/the-ledger/ledger/pkg/utils/test"
)

func newMockLLMClient(genContent func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error)) gollem.LLMClient {
	return &mock.LLMClientMock{
		NewSessionFunc: func(ctx context.Context, opts ...gollem.SessionOption) (gollem.Session, error) {
			return &mock.SessionMock{
				GenerateContentFunc: genContent,
				HistoryFunc: func() (*gollem.History, error) {
					return &gollem.History{}, nil
				},
				AppendHistoryFunc: func(history *gollem.History) error {
					return nil
				},
			}, nil
		},
	}
}

func TestAgent_Specs(t *testing.T) {
	repo := memory.New()
	agent := dbmanager.New(newMockLLMClient(nil), repo)

	specs := gt.R1(agent.Specs(context.Background())).NoError(t)
	gt.A(t, specs).Length(1)
	gt.Value(t, specs[0].Name).Equal(dbmanager.ToolName)
	queryParam := specs[0].Parameters["query"]
	gt.NotNil(t, queryParam)
	gt.True(t, queryParam.Required)
}

func TestAgent_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("returns the answer from the reasoning loop", func(t *testing.T) {
		llmClient := newMockLLMClient(func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			return &gollem.Response{
				Texts: []string{"You own one laptop worth $2,000."},
			}, nil
		})
		agent := dbmanager.New(llmClient, memory.New())

		resp := gt.R1(agent.Run(ctx, dbmanager.ToolName, map[string]any{
			"query": "How many laptops do I own?",
		})).NoError(t)
		gt.Value(t, resp["result"]).Equal("You own one laptop worth $2,000.")
	})

	t.Run("degrades LLM failure to a textual result", func(t *testing.T) {
		llmClient := newMockLLMClient(func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			return nil, errors.New("model unavailable")
		})
		agent := dbmanager.New(llmClient, memory.New())

		resp := gt.R1(agent.Run(ctx, dbmanager.ToolName, map[string]any{
			"query": "What is my most valuable asset?",
		})).NoError(t)
		gt.Value(t, resp["result"]).Equal("tool failed to retrieve anything")
	})

	t.Run("degrades an empty response to a textual result", func(t *testing.T) {
		llmClient := newMockLLMClient(func(ctx context.Context, input ...gollem.Input) (*gollem.Response, error) {
			return &gollem.Response{}, nil
		})
		agent := dbmanager.New(llmClient, memory.New())

		resp := gt.R1(agent.Run(ctx, dbmanager.ToolName, map[string]any{
			"query": "List everything",
		})).NoError(t)
		gt.Value(t, resp["result"]).Equal("tool failed to retrieve anything")
	})

	t.Run("rejects unknown tool name", func(t *testing.T) {
		agent := dbmanager.New(newMockLLMClient(nil), memory.New())

		_, err := agent.Run(ctx, "ask_somebody_else", map[string]any{"query": "hi"})
		gt.Error(t, err)
	})

	t.Run("rejects missing query parameter", func(t *testing.T) {
		agent := dbmanager.New(newMockLLMClient(nil), memory.New())

		_, err := agent.Run(ctx, dbmanager.ToolName, map[string]any{})
		gt.Error(t, err)
	})
}

func TestRunQuery_WithRealLLM(t *testing.T) {
	llmClient := test.NewGeminiClient(t)
	ctx := context.Background()

	repo := memory.New()
	gt.R1(repo.CreateAsset(ctx, asset.CreateRequest{
		Name:     "MacBook Pro",
		Category: "electronics",
		Value:    2000,
		Status:   "active",
	})).NoError(t)

	agent := dbmanager.New(llmClient, repo)

	answer := gt.R1(agent.RunQuery(ctx, "What is the most valuable asset?")).NoError(t)
	t.Log("[answer]", answer)
	gt.S(t, answer).Contains("MacBook")
}
