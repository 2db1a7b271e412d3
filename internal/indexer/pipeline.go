// Package indexer turns document and variable records into indexed points.
// Indexing is best-effort: a failure is logged and reported as not-indexed,
// never propagated, since the relational write has already happened.
package indexer

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ruleforge/ruleforge/internal/catalog"
	"github.com/ruleforge/ruleforge/internal/storage"
)

// TextPreviewLimit caps the stored text preview in a document payload.
// The full length is kept separately in text_length.
const TextPreviewLimit = 1000

// VectorIndex is the slice of the index client the pipeline needs.
type VectorIndex interface {
	Enabled() bool
	UpsertPoints(ctx context.Context, points []*storage.Point) error
}

// Embedder generates vectors for point content.
type Embedder interface {
	Enabled() bool
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// Pipeline embeds records and writes them to the vector index.
type Pipeline struct {
	index    VectorIndex
	embedder Embedder
	logger   *slog.Logger
}

// NewPipeline creates an indexing pipeline with the given components.
func NewPipeline(index VectorIndex, embedder Embedder, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{index: index, embedder: embedder, logger: logger}
}

// IndexDocument embeds a document's extracted text and upserts one point.
// Returns whether the document was actually indexed; false means the search
// feature degraded, not that the request failed.
func (p *Pipeline) IndexDocument(ctx context.Context, doc *catalog.DocumentRecord) bool {
	if !p.index.Enabled() || !p.embedder.Enabled() {
		p.logger.Debug("Document indexing skipped, index or embedder disabled", "document_id", doc.ID)
		return false
	}

	vector, err := p.embedder.Embed(ctx, doc.Content)
	if err != nil {
		p.logger.Warn("Document embedding failed", "document_id", doc.ID, "error", err)
		return false
	}

	point := &storage.Point{
		Vector:  vector,
		Payload: DocumentPayload(doc),
	}
	if err := p.index.UpsertPoints(ctx, []*storage.Point{point}); err != nil {
		p.logger.Warn("Document indexing failed", "document_id", doc.ID, "error", err)
		return false
	}

	p.logger.Info("Indexed document", "document_id", doc.ID, "text_length", len(doc.Content))
	return true
}

// IndexVariables embeds and upserts variable records in a single batch.
// Records with blank searchable text are skipped. Returns the number of
// variables indexed.
func (p *Pipeline) IndexVariables(ctx context.Context, records []*catalog.VariableRecord) int {
	if !p.index.Enabled() || !p.embedder.Enabled() {
		p.logger.Debug("Variable indexing skipped, index or embedder disabled")
		return 0
	}

	var toIndex []*catalog.VariableRecord
	var texts []string
	for _, record := range records {
		text := catalog.SearchableText(record)
		if strings.TrimSpace(text) == "" {
			continue
		}
		toIndex = append(toIndex, record)
		texts = append(texts, text)
	}
	if len(toIndex) == 0 {
		return 0
	}

	vectors, err := p.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		p.logger.Warn("Variable embedding failed", "count", len(toIndex), "error", err)
		return 0
	}

	points := make([]*storage.Point, len(toIndex))
	for i, record := range toIndex {
		points[i] = &storage.Point{
			Vector:  vectors[i],
			Payload: catalog.VariablePayload(record, texts[i]),
		}
	}
	if err := p.index.UpsertPoints(ctx, points); err != nil {
		p.logger.Warn("Variable indexing failed", "count", len(points), "error", err)
		return 0
	}

	p.logger.Info("Indexed variables", "count", len(points))
	return len(points)
}

// DocumentPayload builds the indexed payload for a document record.
// The stored text is a preview; text_length keeps the full size.
func DocumentPayload(doc *catalog.DocumentRecord) map[string]any {
	return map[string]any{
		"type":          storage.PointTypeDocument,
		"document_id":   doc.ID,
		"text":          preview(doc.Content, TextPreviewLimit),
		"text_length":   len(doc.Content),
		"filename":      doc.Filename,
		"document_type": doc.DocumentType,
		"file_size":     doc.FileSize,
	}
}

func preview(text string, limit int) string {
	if len(text) <= limit {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
