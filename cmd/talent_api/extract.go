package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jonathan/talent-match/internal/nlp"
	"github.com/jonathan/talent-match/internal/observability"
	"github.com/jonathan/talent-match/internal/types"
)

var extractCmd = &cobra.Command{
	Use:   "extract <file>",
	Short: "Extract text and candidate fields from a document",
	Long:  "Run text extraction and field extraction on a local file without touching the database, and print the result as JSON or, with --verbose, as a summary box.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExtract,
}

var (
	extractKind    string
	extractEmbed   bool
	extractLLM     bool
	extractVerbose bool
)

func init() {
	extractCmd.Flags().StringVar(&extractKind, "kind", string(types.KindCurriculum), "Document kind: curriculum or certificate")
	extractCmd.Flags().BoolVar(&extractEmbed, "embed", false, "Also compute the embedding and report its dimensions")
	extractCmd.Flags().BoolVar(&extractLLM, "llm", false, "Enrich the heuristic fields with the LLM extractor (needs GEMINI_API_KEY)")
	extractCmd.Flags().BoolVarP(&extractVerbose, "verbose", "v", false, "Print a human-readable summary instead of JSON")
	rootCmd.AddCommand(extractCmd)
}

// extractOutput is the JSON printed by the extract command.
type extractOutput struct {
	File                string                `json:"file"`
	Kind                types.DocumentKind    `json:"kind"`
	Pages               int                   `json:"pages"`
	TextChars           int                   `json:"text_chars"`
	Fields              types.ExtractedFields `json:"fields"`
	Entities            []nlp.Entity          `json:"entities,omitempty"`
	Details             types.DocumentDetails `json:"details"`
	EmbeddingModel      string                `json:"embedding_model,omitempty"`
	EmbeddingDimensions int                   `json:"embedding_dimensions,omitempty"`
}

func runExtract(cmd *cobra.Command, args []string) error {
	kind := types.DocumentKind(extractKind)
	if !kind.Valid() {
		return fmt.Errorf("invalid --kind %q: want curriculum or certificate", extractKind)
	}

	path := args[0]
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read input file: %w", err)
	}

	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	p, cleanup, err := newPipeline(cmd.Context(), cfg, nil, extractLLM, logger)
	if err != nil {
		return err
	}
	defer cleanup()

	filename := filepath.Base(path)
	analysis, err := p.orchestrator.Analyze(cmd.Context(), filename, data, kind, extractEmbed)
	if err != nil {
		return fmt.Errorf("failed to analyze %s: %w", filename, err)
	}

	out := extractOutput{
		File:                filename,
		Kind:                kind,
		Pages:               analysis.Pages,
		TextChars:           len([]rune(analysis.Text)),
		Fields:              analysis.Fields,
		Entities:            analysis.Entities,
		Details:             analysis.Details,
		EmbeddingDimensions: len(analysis.Embedding),
	}
	if extractEmbed {
		if model, err := p.generator.Model(); err == nil {
			out.EmbeddingModel = model.Name()
		}
	}

	if extractVerbose {
		printer := observability.NewPrinter(cmd.OutOrStdout())
		printer.PrintFields(out.File, out.Pages, &out.Fields)
		printer.PrintEmbedding(out.EmbeddingModel, analysis.Embedding)
		return nil
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}
