package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/the-ledger/ledger/pkg/agents/assetmanager"
	"github.com/the-ledger/ledger/pkg/cli/config"
	"github.com/the-ledger/ledger/pkg/domain/types"
	"github.com/the-ledger/ledger/pkg/utils/logging"
	"github.com/the-ledger/ledger/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdChat() *cli.Command {
	var (
		query       string
		databaseCfg config.Database
		llmCfg      config.LLMCfg
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "query",
				Aliases:     []string{"q"},
				Usage:       "Query prompt (if not provided, interactive mode will start)",
				Destination: &query,
			},
		},
		databaseCfg.Flags(),
		llmCfg.Flags(),
	)

	return &cli.Command{
		Name:    "chat",
		Aliases: []string{"c"},
		Usage:   "Chat with the asset manager about your assets",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := databaseCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure database")
			}
			defer safe.Close(ctx, repo)

			llmClient, err := llmCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure LLM client")
			}

			agent := assetmanager.New(llmClient, repo)
			threadID := types.NewThreadID()

			if query != "" {
				answer, err := agent.RunQuery(ctx, threadID, query)
				if err != nil {
					return goerr.Wrap(err, "failed to run query")
				}
				fmt.Println(answer)
				return nil
			}

			return runInteractiveMode(ctx, agent, threadID)
		},
	}
}

func runInteractiveMode(ctx context.Context, agent *assetmanager.Agent, threadID types.ThreadID) error {
	logger := logging.From(ctx)
	logger.Info("Starting interactive chat mode")

	fmt.Println("💬 Interactive chat mode started. Type 'exit' or 'quit' to end the session.")
	fmt.Println("📝 Ask about your assets, their values, or general finance topics.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)

	for {
		fmt.Print("> ")

		input, _, err := reader.ReadLine()
		if err != nil {
			if err == io.EOF {
				fmt.Println("\n👋 Session ended.")
				break
			}
			return goerr.Wrap(err, "failed to read input")
		}

		message := strings.TrimSpace(string(input))
		if message == "" {
			continue
		}

		if message == "exit" || message == "quit" {
			fmt.Println("👋 Session ended.")
			break
		}

		answer, err := agent.RunQuery(ctx, threadID, message)
		if err != nil {
			fmt.Printf("❌ Error: %s\n", err.Error())
			logger.Error("Chat error", "error", err)
			continue
		}

		fmt.Printf("💬 %s\n\n", answer)
	}

	return nil
}
