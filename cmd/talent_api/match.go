package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/embedding"
	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/ranking"
	"github.com/jonathan/talent-match/internal/types"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Rank a user's candidates against a job description",
	Long:  "Embed a free-text query and print the candidates of the given user whose résumés are closest to it. The query is not recorded in the search history.",
	Args:  cobra.NoArgs,
	RunE:  runMatch,
}

var (
	matchUserID  string
	matchQuery   string
	matchLimit   int
	matchVerbose bool
)

func init() {
	matchCmd.Flags().StringVar(&matchUserID, "user", "", "ID of the user owning the candidates (required)")
	matchCmd.Flags().StringVarP(&matchQuery, "query", "q", "", "Job description to match (required)")
	matchCmd.Flags().IntVarP(&matchLimit, "limit", "n", 0, "Maximum number of candidates (default from match.default-limit)")
	matchCmd.Flags().BoolVarP(&matchVerbose, "verbose", "v", false, "Print a human-readable summary instead of JSON")

	_ = matchCmd.MarkFlagRequired("user")
	_ = matchCmd.MarkFlagRequired("query")

	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, _ []string) error {
	ownerID, err := uuid.Parse(matchUserID)
	if err != nil {
		return fmt.Errorf("invalid --user: %w", err)
	}
	query := strings.TrimSpace(matchQuery)
	if query == "" {
		return ranking.ErrEmptyQuery
	}
	if matchLimit < 0 {
		return fmt.Errorf("--limit must not be negative")
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is required")
	}

	database, err := db.Connect(cmd.Context(), cfg.Database.URL)
	if err != nil {
		return err
	}
	defer database.Close()

	gen := embedding.NewGeneratorFromConfig(cfg, logger)
	defer func() { _ = gen.Close() }()
	ranker := ranking.NewRanker(gen, database, cfg.Match.DefaultLimit, cfg.Match.MaxLimit, logger)

	matches, err := ranker.Rank(cmd.Context(), ownerID, query, ranker.Limit(matchLimit))
	if err != nil {
		return fmt.Errorf("failed to rank candidates: %w", err)
	}

	if matchVerbose {
		observability.NewPrinter(cmd.OutOrStdout()).PrintMatches(query, matches)
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(types.MatchResponse{Query: query, Matches: matches}); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
