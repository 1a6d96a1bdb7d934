package cli

import (
	"context"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/the-ledger/ledger/pkg/agents/assetmanager"
	"github.com/the-ledger/ledger/pkg/cli/config"
	server "github.com/the-ledger/ledger/pkg/controller/http"
	websocket_controller "github.com/the-ledger/ledger/pkg/controller/websocket"
	"github.com/the-ledger/ledger/pkg/utils/logging"
	"github.com/the-ledger/ledger/pkg/utils/safe"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var (
		addr        string
		disableChat bool
		databaseCfg config.Database
		llmCfg      config.LLMCfg
		sentryCfg   config.Sentry
	)

	flags := joinFlags(
		[]cli.Flag{
			&cli.StringFlag{
				Name:        "addr",
				Aliases:     []string{"a"},
				Sources:     cli.EnvVars("LEDGER_ADDR"),
				Usage:       "Listen address (default: 127.0.0.1:8080)",
				Value:       "127.0.0.1:8080",
				Destination: &addr,
			},
			&cli.BoolFlag{
				Name:        "disable-chat",
				Usage:       "Serve only the asset CRUD API without the chat agent",
				Sources:     cli.EnvVars("LEDGER_DISABLE_CHAT"),
				Destination: &disableChat,
			},
		},
		databaseCfg.Flags(),
		llmCfg.Flags(),
		sentryCfg.Flags(),
	)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start the asset ledger HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			logger := logging.From(ctx)

			if err := sentryCfg.Configure(); err != nil {
				return err
			}

			repo, err := databaseCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure database")
			}
			defer safe.Close(ctx, repo)

			serverOptions := []server.Options{}
			if !disableChat {
				llmClient, err := llmCfg.Configure(ctx)
				if err != nil {
					return goerr.Wrap(err, "failed to configure LLM client")
				}

				agent := assetmanager.New(llmClient, repo)
				serverOptions = append(serverOptions,
					server.WithChatAgent(agent),
					server.WithWebSocketHandler(websocket_controller.NewHandler(agent)),
				)
			} else {
				logger.Info("chat agent disabled, serving asset API only")
			}

			logger.Info("starting server",
				"addr", addr,
				"database", databaseCfg,
				"llm", llmCfg,
				"chat_enabled", !disableChat,
			)

			httpServer := http.Server{
				Addr:              addr,
				Handler:           server.New(repo, serverOptions...),
				ReadTimeout:       30 * time.Second,
				ReadHeaderTimeout: 10 * time.Second,
				BaseContext: func(l net.Listener) context.Context {
					return ctx
				},
			}

			errCh := make(chan error, 1)
			go func() {
				defer close(errCh)
				if err := httpServer.ListenAndServe(); err != nil {
					errCh <- err
				}
			}()

			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

			select {
			case err := <-errCh:
				return err
			case <-sigCh:
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				return httpServer.Shutdown(ctx)
			}
		},
	}
}
