// Package ingestion runs an uploaded document through text extraction, field
// extraction and embedding, and persists the result.
package ingestion

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/talent-match/internal/db"
	"github.com/jonathan/talent-match/internal/fields"
	"github.com/jonathan/talent-match/internal/nlp"
	"github.com/jonathan/talent-match/internal/textextract"
	"github.com/jonathan/talent-match/internal/types"
)

// DefaultLLMTimeout bounds the optional LLM enrichment call.
const DefaultLLMTimeout = 45 * time.Second

var (
	// ErrUnreadableDocument means no text could be extracted. It is not fatal:
	// the document is kept unprocessed.
	ErrUnreadableDocument = errors.New("document has no extractable text")
	// ErrInvalidKind is returned for an unknown document kind.
	ErrInvalidKind = errors.New("invalid document kind")
)

// DocumentStore persists documents.
type DocumentStore interface {
	CreateDocument(ctx context.Context, in db.DocumentInput) (*db.Document, error)
	CompleteDocument(ctx context.Context, c db.DocumentCompletion) (*uuid.UUID, error)
}

// FieldExtractor recovers structured fields and named entities from text.
type FieldExtractor interface {
	ExtractWithEntities(text string) (types.ExtractedFields, []nlp.Entity)
}

// Embedder turns text into a vector.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// CandidateExtractor is the optional LLM field extractor.
type CandidateExtractor interface {
	ExtractFields(ctx context.Context, text string) (*types.ExtractedFields, error)
}

// Options configures an Orchestrator. Every field is optional.
type Options struct {
	LLM        CandidateExtractor
	Pool       *Pool
	LLMTimeout time.Duration
	Logger     *zap.Logger
}

// Orchestrator drives a document through the pipeline. It holds only shared
// read-only services and is safe for concurrent use.
type Orchestrator struct {
	store      DocumentStore
	fields     FieldExtractor
	embedder   Embedder
	llm        CandidateExtractor
	pool       *Pool
	llmTimeout time.Duration
	logger     *zap.Logger
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(store DocumentStore, fx FieldExtractor, embedder Embedder, opts Options) *Orchestrator {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.LLMTimeout <= 0 {
		opts.LLMTimeout = DefaultLLMTimeout
	}
	return &Orchestrator{
		store:      store,
		fields:     fx,
		embedder:   embedder,
		llm:        opts.LLM,
		pool:       opts.Pool,
		llmTimeout: opts.LLMTimeout,
		logger:     opts.Logger,
	}
}

// Upload is a file received from a user.
type Upload struct {
	OwnerID     uuid.UUID
	Filename    string
	Data        []byte
	Kind        types.DocumentKind
	Certificate *types.CertificateDetails
	CandidateID *uuid.UUID
}

// Result reports what happened to an upload.
type Result struct {
	Document    *db.Document
	Status      types.ProcessingStatus
	Fields      *types.ExtractedFields
	CandidateID *uuid.UUID
}

// Analysis is the output of the pipeline for one document.
type Analysis struct {
	Text      string
	Pages     int
	Fields    types.ExtractedFields
	Entities  []nlp.Entity
	Embedding []float32
	Details   types.DocumentDetails
}

// EntityTexts returns the entity texts in recognition order.
func (a *Analysis) EntityTexts() []string {
	out := make([]string, 0, len(a.Entities))
	for _, e := range a.Entities {
		out = append(out, e.Text)
	}
	return out
}

// Ingest stores the upload, then extracts text, fields and the embedding and
// completes the document in one transaction. A document without text is
// reported as unreadable and left unprocessed. When the embedding fails the
// result has status failed, the error wraps embedding.ErrEmbeddingUnavailable
// and nothing derived is persisted.
func (o *Orchestrator) Ingest(ctx context.Context, up Upload) (*Result, error) {
	if up.Kind == "" {
		up.Kind = types.KindCurriculum
	}
	if !up.Kind.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKind, up.Kind)
	}
	if !textextract.Supported(up.Filename, up.Data) {
		return nil, fmt.Errorf("%w: %s", textextract.ErrUnsupportedType, up.Filename)
	}

	var details types.DocumentDetails
	if up.Kind == types.KindCertificate {
		details.Certificate = up.Certificate
	}

	doc, err := o.store.CreateDocument(ctx, db.DocumentInput{
		OwnerID:     up.OwnerID,
		Name:        up.Filename,
		Kind:        up.Kind,
		SizeBytes:   int64(len(up.Data)),
		ContentHash: ContentHash(up.Data),
		Details:     details,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store document: %w", err)
	}

	log := o.logger.With(zap.String("document_id", doc.ID.String()))
	log.Info("document stored",
		zap.String("name", up.Filename),
		zap.String("kind", string(up.Kind)),
		zap.Int("size_bytes", len(up.Data)),
		zap.Int("pool_jobs", o.pool.Running()))

	res := &Result{Document: doc}

	analysis, err := o.analyze(ctx, log, up.Filename, up.Data, up.Kind, true)
	if err != nil {
		if errors.Is(err, ErrUnreadableDocument) {
			log.Info("document left unprocessed", zap.Error(err))
			res.Status = types.StatusUnreadable
			return res, nil
		}
		log.Error("document processing failed", zap.Error(err))
		res.Status = types.StatusFailed
		return res, err
	}
	if details.Certificate != nil {
		analysis.Details.Certificate = details.Certificate
	}

	completion := db.DocumentCompletion{
		DocumentID:  doc.ID,
		OwnerID:     up.OwnerID,
		FullText:    analysis.Text,
		Entities:    analysis.EntityTexts(),
		Fields:      analysis.Fields,
		Embedding:   analysis.Embedding,
		Details:     analysis.Details,
		CandidateID: up.CandidateID,
	}
	if up.CandidateID == nil && up.Kind == types.KindCurriculum {
		completion.MatchEmail = analysis.Fields.Email
	}

	linked, err := o.store.CompleteDocument(ctx, completion)
	if err != nil {
		log.Error("document completion failed", zap.Error(err))
		res.Status = types.StatusFailed
		return res, fmt.Errorf("failed to complete document %s: %w", doc.ID, err)
	}

	now := time.Now()
	doc.Processed = true
	doc.ProcessedAt = &now
	doc.FullText = &analysis.Text
	doc.Entities = completion.Entities
	doc.Fields = &analysis.Fields
	doc.Details = analysis.Details
	doc.CandidateID = linked

	log.Info("document processed",
		zap.Int("entities", len(completion.Entities)),
		zap.Int("dimensions", len(analysis.Embedding)),
		zap.Bool("linked", linked != nil))

	res.Status = types.StatusProcessed
	res.Fields = &analysis.Fields
	res.CandidateID = linked
	return res, nil
}

// Analyze runs the pipeline on a file without persisting anything. The
// embedding is computed only when withEmbedding is set.
func (o *Orchestrator) Analyze(ctx context.Context, filename string, data []byte, kind types.DocumentKind, withEmbedding bool) (*Analysis, error) {
	if kind == "" {
		kind = types.KindCurriculum
	}
	return o.analyze(ctx, o.logger.With(zap.String("file", filename)), filename, data, kind, withEmbedding)
}

func (o *Orchestrator) analyze(ctx context.Context, log *zap.Logger, filename string, data []byte, kind types.DocumentKind, withEmbedding bool) (*Analysis, error) {
	// Jobs run to completion once submitted; only the LLM call and the
	// store honour cancellation.
	jobCtx := context.WithoutCancel(ctx)

	var text *textextract.Result
	err := o.pool.Run(jobCtx, func() error {
		var err error
		text, err = textextract.Extract(filename, data)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnreadableDocument, err)
	}
	if !text.HasText {
		return nil, ErrUnreadableDocument
	}
	log.Debug("text extracted", zap.Int("pages", text.Pages), zap.Int("chars", len(text.Text)))

	a := &Analysis{Text: text.Text, Pages: text.Pages}

	var g errgroup.Group
	g.Go(func() error {
		return o.pool.Run(jobCtx, func() error {
			a.Fields, a.Entities = o.fields.ExtractWithEntities(a.Text)
			return nil
		})
	})
	if withEmbedding {
		g.Go(func() error {
			return o.pool.Run(jobCtx, func() error {
				vec, err := o.embedder.Embed(jobCtx, a.Text)
				if err != nil {
					return fmt.Errorf("failed to embed document: %w", err)
				}
				a.Embedding = vec
				return nil
			})
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	log.Debug("fields extracted", zap.Int("entities", len(a.Entities)))

	if o.llm != nil && kind == types.KindCurriculum {
		a.Fields = MergeFields(a.Fields, o.enrich(ctx, log, a.Text))
	} else {
		a.Fields = MergeFields(a.Fields, nil)
	}
	a.Fields.Summary = fields.BuildSummary(a.Fields)

	if kind == types.KindCurriculum {
		history, formation := fields.CountSections(a.Text)
		a.Details.Curriculum = &types.CurriculumDetails{HistoryCount: history, FormationCount: formation}
	}
	return a, nil
}

// enrich asks the LLM for fields. Failures are logged and yield nil.
func (o *Orchestrator) enrich(ctx context.Context, log *zap.Logger, text string) *types.ExtractedFields {
	ctx, cancel := context.WithTimeout(ctx, o.llmTimeout)
	defer cancel()

	start := time.Now()
	f, err := o.llm.ExtractFields(ctx, text)
	if err != nil {
		log.Warn("llm extraction failed, keeping heuristic fields",
			zap.Error(err), zap.Duration("elapsed", time.Since(start)))
		return nil
	}
	log.Debug("llm extraction done", zap.Duration("elapsed", time.Since(start)))
	return f
}
