package assetmanager

import (
	"context"
	_ "embed"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/the-ledger/ledger/pkg/agents/dbmanager"
	"github.com/the-ledger/ledger/pkg/agents/history"
	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/domain/model/chat"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/domain/types"
	"github.com/the-ledger/ledger/pkg/utils/logging"
)

//go:embed prompt/system.md
var systemPrompt string

// Agent is the user-facing conversation agent. It answers small talk and
// general finance questions itself and delegates every data question to
// the database manager, which it sees as a single tool. Conversation
// history is kept per thread and trimmed before each model call.
type Agent struct {
	llmClient gollem.LLMClient
	delegate  gollem.ToolSet
	threads   *chat.Store
	policy    *history.Policy
}

var _ interfaces.ChatAgent = &Agent{}

type Option func(*Agent)

// WithHistoryPolicy overrides the default history trimming policy.
func WithHistoryPolicy(p *history.Policy) Option {
	return func(a *Agent) {
		a.policy = p
	}
}

// WithDelegate replaces the database manager tool set. Intended for tests.
func WithDelegate(ts gollem.ToolSet) Option {
	return func(a *Agent) {
		a.delegate = ts
	}
}

func New(llmClient gollem.LLMClient, repo interfaces.Repository, opts ...Option) *Agent {
	a := &Agent{
		llmClient: llmClient,
		delegate:  dbmanager.New(llmClient, repo),
		threads:   chat.NewStore(),
		policy:    history.NewPolicy(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RunQuery runs one conversation turn on the given thread and returns
// the agent's reply. Turns on the same thread are serialized; the stored
// history is replaced only after a successful turn.
func (a *Agent) RunQuery(ctx context.Context, threadID types.ThreadID, userText string) (string, error) {
	if userText == "" {
		return "", goerr.New("empty question", goerr.T(errs.TagInvalidRequest))
	}
	if threadID == types.EmptyThreadID {
		threadID = types.DefaultThreadID
	}

	logger := logging.From(ctx)
	thread := a.threads.Thread(threadID)

	var answer string
	err := thread.Do(func(current *gollem.History) (*gollem.History, error) {
		trimmed := a.policy.TrimHistory(current)
		if current != nil && trimmed != current {
			logger.Debug("trimmed conversation history",
				"thread_id", threadID,
				"before", len(current.Messages),
				"after", len(trimmed.Messages))
		}

		agentOpts := []gollem.Option{
			gollem.WithToolSets(a.delegate),
			gollem.WithSystemPrompt(systemPrompt),
			gollem.WithLogger(logger),
		}
		if trimmed != nil {
			agentOpts = append(agentOpts, gollem.WithHistory(trimmed))
		}
		agent := gollem.New(a.llmClient, agentOpts...)

		resp, err := agent.Execute(ctx, gollem.Text(userText))
		if err != nil {
			return nil, goerr.Wrap(err, "failed to execute asset manager agent",
				goerr.T(errs.TagLLM),
				goerr.V("thread_id", threadID))
		}
		if resp == nil || resp.IsEmpty() {
			return nil, goerr.New("asset manager returned an empty response",
				goerr.T(errs.TagLLM),
				goerr.V("thread_id", threadID))
		}
		answer = resp.String()

		session := agent.Session()
		if session == nil {
			logger.Warn("agent session is nil after execution", "thread_id", threadID)
			return trimmed, nil
		}
		newHistory, err := session.History()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to get history from agent session",
				goerr.T(errs.TagLLM))
		}
		return newHistory, nil
	})
	if err != nil {
		return "", err
	}

	logger.Info("conversation turn completed", "thread_id", threadID)
	return answer, nil
}

// Threads exposes the thread store. Intended for tests.
func (a *Agent) Threads() *chat.Store {
	return a.threads
}
