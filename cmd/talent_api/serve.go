package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jonathan/talent-match/internal/config"
	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/jonathan/talent-match/internal/fields"
	"github.com/jonathan/talent-match/internal/ingestion"
	"github.com/jonathan/talent-match/internal/llm"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/server"
	"github.com/jonathan/talent-match/internal/server/ratelimit"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the authentication, document, candidate, company and match endpoints.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().Int("port", 8080, "Port to listen on")
	serveCmd.Flags().Bool("migrate", false, "Apply the database schema before serving")
	_ = v.BindPFlag("server.port", serveCmd.Flags().Lookup("port"))
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	database, err := db.Connect(ctx, cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	if migrate, _ := cmd.Flags().GetBool("migrate"); migrate {
		if err := database.Migrate(ctx); err != nil {
			return err
		}
		logger.Info("database schema applied")
	}

	jwtConfig, err := config.NewJWTConfig()
	if err != nil {
		return fmt.Errorf("failed to load JWT config: %w", err)
	}
	passwordConfig, err := config.NewPasswordConfig()
	if err != nil {
		return fmt.Errorf("failed to load password config: %w", err)
	}

	p, cleanup, err := newPipeline(ctx, cfg, database, cfg.LLM.Enabled, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	ranker := ranking.NewRanker(p.generator, database, cfg.Match.DefaultLimit, cfg.Match.MaxLimit, logger)

	srv, err := server.New(server.Config{
		Port:          cfg.Server.Port,
		ReadTimeout:   cfg.Server.ReadTimeout,
		WriteTimeout:  cfg.Server.WriteTimeout,
		MaxUploadSize: cfg.Ingestion.MaxUploadSize,
	}, server.Deps{
		Store:     database,
		Ingestor:  p.orchestrator,
		Matcher:   ranker,
		JWT:       jwtConfig,
		Passwords: passwordConfig,
		RateLimit: ratelimit.LoadConfig(v),
		Logger:    logger,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start(ctx)
}

// pipeline bundles the services shared by serve and extract.
type pipeline struct {
	generator    *embedding.Generator
	orchestrator *ingestion.Orchestrator
}

// newPipeline wires the embedding generator, the optional LLM extractor and
// the worker pool into an Orchestrator. store may be nil for offline use.
func newPipeline(ctx context.Context, cfg *config.Config, store ingestion.DocumentStore, withLLM bool, logger *zap.Logger) (*pipeline, func(), error) {
	pool, err := ingestion.NewPool(cfg.Ingestion.Workers, logger)
	if err != nil {
		return nil, nil, err
	}
	closers := []func(){pool.Release}
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	opts := ingestion.Options{
		Pool:       pool,
		LLMTimeout: cfg.LLM.Timeout,
		Logger:     logger,
	}
	if withLLM {
		if cfg.LLM.APIKey == "" {
			cleanup()
			return nil, nil, fmt.Errorf("GEMINI_API_KEY environment variable is required for LLM extraction")
		}
		client, err := llm.NewClient(ctx, llm.DefaultConfig().WithModel(llm.TierLite, cfg.LLM.Model), cfg.LLM.APIKey)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("failed to create LLM client: %w", err)
		}
		closers = append(closers, func() { _ = client.Close() })
		opts.LLM = llm.NewCandidateExtractor(client)
		logger.Info("llm field extraction enabled", zap.String("model", cfg.LLM.Model))
	}

	gen := embedding.NewGeneratorFromConfig(cfg, logger)
	closers = append(closers, func() { _ = gen.Close() })
	fx := fields.NewExtractor(nil, logger)

	return &pipeline{
		generator:    gen,
		orchestrator: ingestion.NewOrchestrator(store, fx, gen, opts),
	}, cleanup, nil
}
