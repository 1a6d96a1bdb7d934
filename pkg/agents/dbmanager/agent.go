package dbmanager

import (
	"context"
	_ "embed"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/the-ledger/ledger/pkg/domain/interfaces"
	"github.com/the-ledger/ledger/pkg/domain/model/errs"
	"github.com/the-ledger/ledger/pkg/tool/assets"
	"github.com/the-ledger/ledger/pkg/utils/logging"
)

//go:embed prompt/system.md
var systemPrompt string

// ToolName is how the asset manager addresses this agent.
const ToolName = "ask_db_manager"

// Agent is the database delegate. Toward its parent it looks like a
// single tool taking a natural-language query; internally each
// invocation is a fresh reasoning episode over the typed asset tools.
// No state is carried between calls.
type Agent struct {
	llmClient gollem.LLMClient
	toolSet   gollem.ToolSet
}

var _ gollem.ToolSet = &Agent{}

func New(llmClient gollem.LLMClient, repo interfaces.Repository) *Agent {
	return &Agent{
		llmClient: llmClient,
		toolSet:   assets.New(repo),
	}
}

// Specs implements gollem.ToolSet
func (a *Agent) Specs(_ context.Context) ([]gollem.ToolSpec, error) {
	return []gollem.ToolSpec{
		{
			Name:        ToolName,
			Description: "Ask the Database Manager questions about stored assets. Pass the user's natural language query directly. Example: \"Find my most expensive laptop\" or \"Total value of assets\".",
			Parameters: map[string]*gollem.Parameter{
				"query": {
					Type:        gollem.TypeString,
					Description: "Natural language question about asset data",
					Required:    true,
				},
			},
		},
	}, nil
}

// Run implements gollem.ToolSet. Failures inside the reasoning loop are
// degraded to a textual result so the calling agent can recover
// conversationally instead of aborting its own loop.
func (a *Agent) Run(ctx context.Context, name string, args map[string]any) (map[string]any, error) {
	logger := logging.From(ctx)

	if name != ToolName {
		return nil, goerr.New("unknown function", goerr.V("name", name))
	}

	query, ok := args["query"].(string)
	if !ok || query == "" {
		return nil, goerr.New("query parameter is required")
	}

	logger.Info("delegating query to database manager", "query", query)

	answer, err := a.RunQuery(ctx, query)
	if err != nil {
		errs.Handle(ctx, goerr.Wrap(err, "database manager failed to answer", goerr.V("query", query)))
		return map[string]any{
			"result": "tool failed to retrieve anything",
		}, nil
	}

	return map[string]any{
		"result": answer,
	}, nil
}

// RunQuery answers a natural-language question about asset data by
// selecting and executing the suitable query tool, then summarizing the
// structured result in prose.
func (a *Agent) RunQuery(ctx context.Context, question string) (string, error) {
	agent := gollem.New(
		a.llmClient,
		gollem.WithToolSets(a.toolSet),
		gollem.WithSystemPrompt(systemPrompt),
		gollem.WithLogger(logging.From(ctx)),
	)

	resp, err := agent.Execute(ctx, gollem.Text(question))
	if err != nil {
		return "", goerr.Wrap(err, "failed to execute database manager agent",
			goerr.T(errs.TagLLM),
			goerr.V("question", question))
	}
	if resp == nil || resp.IsEmpty() {
		return "", goerr.New("database manager returned an empty response",
			goerr.T(errs.TagLLM),
			goerr.V("question", question))
	}

	return resp.String(), nil
}
