package config_test

import (
	"context"
	"log/slog"
	"testing"

	"github.com/m-mizutani/gt"
	"github.com/the-ledger/ledger/pkg/cli/config"
	"github.com/the-ledger/ledger/pkg/service/llm"
	"github.com/urfave/cli/v3"
)

func requestsPerMinute(t *testing.T, cfg *config.LLMCfg) int64 {
	t.Helper()
	for _, attr := range cfg.LogValue().Group() {
		if attr.Key == "requests_per_minute" {
			return attr.Value.Int64()
		}
	}
	t.Fatal("requests_per_minute not found in log value")
	return 0
}

func TestLLMCfgRequestRate(t *testing.T) {
	t.Run("defaults to the standard rate", func(t *testing.T) {
		cfg := &config.LLMCfg{}
		app := &cli.Command{
			Name:  "test",
			Flags: cfg.Flags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				gt.Value(t, requestsPerMinute(t, cfg)).Equal(int64(llm.DefaultRequestsPerMinute))
				return nil
			},
		}
		gt.NoError(t, app.Run(context.Background(), []string{"test"}))
	})

	t.Run("parses the llm-rpm flag", func(t *testing.T) {
		cfg := &config.LLMCfg{}
		app := &cli.Command{
			Name:  "test",
			Flags: cfg.Flags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				gt.Value(t, requestsPerMinute(t, cfg)).Equal(int64(10))
				return nil
			},
		}
		gt.NoError(t, app.Run(context.Background(), []string{"test", "--llm-rpm", "10"}))
	})
}

func TestLLMCfgProviderSelection(t *testing.T) {
	t.Run("no provider configured", func(t *testing.T) {
		cfg := &config.LLMCfg{}
		app := &cli.Command{
			Name:  "test",
			Flags: cfg.Flags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				gt.Value(t, cfg.ActiveProvider()).Equal("none")
				_, err := cfg.Configure(ctx)
				gt.Error(t, err)
				return nil
			},
		}
		gt.NoError(t, app.Run(context.Background(), []string{"test"}))
	})

	t.Run("claude wins over gemini", func(t *testing.T) {
		cfg := &config.LLMCfg{}
		app := &cli.Command{
			Name:  "test",
			Flags: cfg.Flags(),
			Action: func(ctx context.Context, cmd *cli.Command) error {
				gt.Value(t, cfg.ActiveProvider()).Equal("claude")
				return nil
			},
		}
		gt.NoError(t, app.Run(context.Background(), []string{
			"test",
			"--claude-project-id", "proj-a",
			"--gemini-project-id", "proj-b",
		}))
	})
}

var _ slog.LogValuer = config.LLMCfg{}
