package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"NewsDigest/internal/app"
	"NewsDigest/internal/config"
	"NewsDigest/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "newsdigest",
		Short:         "Ranked news headline digests",
		Long:          "Fetches top headlines for a topic and country, scores them for relevance and serves the ranked digest over HTTP.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return fmt.Errorf("load .env: %w", err)
			}
			return nil
		},
	}

	root.AddCommand(newServeCmd(), newRunCmd(), newWalletCmd())
	return root
}

// loadApplication reads configuration and builds the application with a stderr logger,
// so stdout stays reserved for command output.
func loadApplication(cmd *cobra.Command) (*app.Application, *slog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}

	logger := logging.NewWithWriter(cmd.ErrOrStderr(), cfg.Logging.Level, cfg.Logging.Format)
	return app.New(cfg, logger), logger, nil
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve /run, /health and /metrics, delivering scheduled digests when configured",
		RunE: func(cmd *cobra.Command, args []string) error {
			application, logger, err := loadApplication(cmd)
			if err != nil {
				return err
			}

			if err := application.Serve(cmd.Context()); err != nil {
				logger.Error("application stopped", "error", err)
				return err
			}
			return nil
		},
	}
}

func newRunCmd() *cobra.Command {
	var overrides config.Overrides

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Assemble one digest and print it as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			if overrides.MaxHeadlines < 0 {
				return errors.New("--max must be positive")
			}

			application, logger, err := loadApplication(cmd)
			if err != nil {
				return err
			}

			response, err := application.RunOnce(cmd.Context(), overrides)
			if err != nil {
				logger.Error("digest failed", "error", err)
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(response)
		},
	}

	cmd.Flags().StringVar(&overrides.Topic, "topic", "", "topic to query and score against (default from NEWS_TOPIC)")
	cmd.Flags().StringVar(&overrides.Country, "country", "", "country code for top headlines (default from NEWSAPI_COUNTRY)")
	cmd.Flags().IntVar(&overrides.MaxHeadlines, "max", 0, "maximum number of headlines (default from MAX_HEADLINES)")

	return cmd
}
