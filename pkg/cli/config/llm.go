package config

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
	"github.com/m-mizutani/gollem/llm/claude"
	"github.com/m-mizutani/gollem/llm/gemini"
	"github.com/the-ledger/ledger/pkg/service/llm"
	"github.com/urfave/cli/v3"
)

// LLMCfg selects the model provider for the agents. Claude wins when
// both providers are configured. Every client is wrapped with the shared
// request rate limiter.
type LLMCfg struct {
	claudeModel     string
	claudeProjectID string
	claudeLocation  string

	geminiModel     string
	geminiProjectID string
	geminiLocation  string

	requestsPerMinute int
}

func (x *LLMCfg) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "claude-model",
			Usage:       "Claude model name",
			Sources:     cli.EnvVars("LEDGER_CLAUDE_MODEL"),
			Value:       "claude-sonnet-4@20250514",
			Destination: &x.claudeModel,
			Category:    "Claude",
		},
		&cli.StringFlag{
			Name:        "claude-project-id",
			Usage:       "Google Cloud Project ID for Claude Vertex AI",
			Sources:     cli.EnvVars("LEDGER_CLAUDE_PROJECT_ID"),
			Destination: &x.claudeProjectID,
			Category:    "Claude",
		},
		&cli.StringFlag{
			Name:        "claude-location",
			Usage:       "Google Cloud location for Claude Vertex AI",
			Sources:     cli.EnvVars("LEDGER_CLAUDE_LOCATION"),
			Value:       "us-east5",
			Destination: &x.claudeLocation,
			Category:    "Claude",
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini model",
			Destination: &x.geminiModel,
			Category:    "Gemini",
			Value:       "gemini-2.5-flash",
			Sources:     cli.EnvVars("LEDGER_GEMINI_MODEL"),
		},
		&cli.StringFlag{
			Name:        "gemini-project-id",
			Usage:       "GCP Project ID for Vertex AI",
			Destination: &x.geminiProjectID,
			Category:    "Gemini",
			Sources:     cli.EnvVars("LEDGER_GEMINI_PROJECT_ID"),
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "GCP Location for Vertex AI",
			Value:       "us-central1",
			Destination: &x.geminiLocation,
			Category:    "Gemini",
			Sources:     cli.EnvVars("LEDGER_GEMINI_LOCATION"),
		},
		&cli.IntFlag{
			Name:        "llm-rpm",
			Usage:       "Max LLM requests per minute",
			Value:       llm.DefaultRequestsPerMinute,
			Destination: &x.requestsPerMinute,
			Category:    "LLM",
			Sources:     cli.EnvVars("LEDGER_LLM_RPM"),
		},
	}
}

func (x LLMCfg) LogValue() slog.Value {
	attrs := []slog.Attr{
		slog.String("provider", x.ActiveProvider()),
		slog.Int("requests_per_minute", x.requestsPerMinute),
	}

	if x.claudeProjectID != "" {
		attrs = append(attrs,
			slog.String("claude_model", x.claudeModel),
			slog.String("claude_project_id", x.claudeProjectID),
			slog.String("claude_location", x.claudeLocation),
		)
	}
	if x.geminiProjectID != "" {
		attrs = append(attrs,
			slog.String("gemini_model", x.geminiModel),
			slog.String("gemini_project_id", x.geminiProjectID),
			slog.String("gemini_location", x.geminiLocation),
		)
	}

	return slog.GroupValue(attrs...)
}

func (x *LLMCfg) ActiveProvider() string {
	switch {
	case x.claudeProjectID != "":
		return "claude"
	case x.geminiProjectID != "":
		return "gemini"
	default:
		return "none"
	}
}

// Configure creates the LLM client, preferring Claude when configured.
func (x *LLMCfg) Configure(ctx context.Context) (gollem.LLMClient, error) {
	var client gollem.LLMClient
	var err error

	switch x.ActiveProvider() {
	case "claude":
		client, err = x.configureClaude(ctx)
	case "gemini":
		client, err = x.configureGemini(ctx)
	default:
		return nil, goerr.New("no LLM provider configured, set either claude-project-id or gemini-project-id")
	}
	if err != nil {
		return nil, err
	}

	return llm.NewRateLimited(client, x.requestsPerMinute), nil
}

func (x *LLMCfg) configureClaude(ctx context.Context) (gollem.LLMClient, error) {
	options := []claude.VertexOption{
		claude.WithVertexModel(x.claudeModel),
	}

	client, err := claude.NewWithVertex(ctx, x.claudeLocation, x.claudeProjectID, options...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Claude Vertex AI client",
			goerr.V("projectID", x.claudeProjectID),
			goerr.V("location", x.claudeLocation),
			goerr.V("model", x.claudeModel))
	}

	return client, nil
}

func (x *LLMCfg) configureGemini(ctx context.Context) (gollem.LLMClient, error) {
	options := []gemini.Option{
		gemini.WithModel(x.geminiModel),
	}

	client, err := gemini.New(ctx, x.geminiProjectID, x.geminiLocation, options...)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create Gemini client",
			goerr.V("projectID", x.geminiProjectID),
			goerr.V("location", x.geminiLocation),
			goerr.V("model", x.geminiModel))
	}

	return client, nil
}
