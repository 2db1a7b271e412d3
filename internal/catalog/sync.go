package catalog

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/ruleforge/ruleforge/internal/storage"
)

// ErrSyncUnavailable is returned when the vector index or embedding model is
// not configured. Syncing degrades; the relational table stays untouched.
var ErrSyncUnavailable = errors.New("vector index or embedding model unavailable")

// VectorIndex is the slice of the index client the sync engine needs.
type VectorIndex interface {
	Enabled() bool
	ScrollAll(ctx context.Context, filterType string) ([]*storage.StoredPoint, error)
	UpsertPoints(ctx context.Context, points []*storage.Point) error
	DeleteByIDs(ctx context.Context, ids []string)
}

// Embedder turns searchable text into vectors.
type Embedder interface {
	Enabled() bool
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VariableSource reads catalog variables from the relational store.
type VariableSource interface {
	ListVariables(ctx context.Context) ([]*VariableRecord, error)
}

// SyncResult reports counts from one reconciliation run.
type SyncResult struct {
	Synced  int `json:"synced"`
	Skipped int `json:"skipped"`
	Total   int `json:"total"`
}

// Syncer reconciles the relational variable table against the vector index
// using variable_code as the natural key. Administrative operations are
// serialized by an internal mutex; two concurrent force-resyncs would
// otherwise race on delete/re-create.
type Syncer struct {
	source   VariableSource
	index    VectorIndex
	embedder Embedder
	logger   *slog.Logger

	mu sync.Mutex
}

// NewSyncer creates a sync engine over the given source, index and embedder.
func NewSyncer(source VariableSource, index VectorIndex, embedder Embedder, logger *slog.Logger) *Syncer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Syncer{
		source:   source,
		index:    index,
		embedder: embedder,
		logger:   logger,
	}
}

// SyncFromStore brings the index's variable points into agreement with the
// relational table without duplicating already-indexed codes. Idempotent:
// a second run with no table changes syncs nothing and skips everything.
func (s *Syncer) SyncFromStore(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.syncLocked(ctx)
}

// ForceResync deletes every indexed variable point, then runs a full sync.
// Used to recover from schema or embedding-model changes. A crash between
// delete and reindex leaves the index temporarily empty of variables; the
// relational table remains the source of truth and a retry repairs it.
func (s *Syncer) ForceResync(ctx context.Context) (*SyncResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.index.Enabled() || !s.embedder.Enabled() {
		return nil, ErrSyncUnavailable
	}

	points, err := s.index.ScrollAll(ctx, storage.PointTypeVariable)
	if err != nil {
		return nil, fmt.Errorf("collect variable points: %w", err)
	}
	if len(points) > 0 {
		ids := make([]string, len(points))
		for i, point := range points {
			ids[i] = point.ID
		}
		s.index.DeleteByIDs(ctx, ids)
		s.logger.Info("Deleted indexed variable points", "count", len(ids))
	}

	return s.syncLocked(ctx)
}

func (s *Syncer) syncLocked(ctx context.Context) (*SyncResult, error) {
	if !s.index.Enabled() || !s.embedder.Enabled() {
		return nil, ErrSyncUnavailable
	}

	records, err := s.source.ListVariables(ctx)
	if err != nil {
		return nil, fmt.Errorf("list variables: %w", err)
	}

	result := &SyncResult{Total: len(records)}
	if len(records) == 0 {
		return result, nil
	}

	indexed, err := s.indexedVariableCodes(ctx)
	if err != nil {
		return nil, err
	}
	s.logger.Info("Starting variable sync", "total", len(records), "indexed", len(indexed))

	var toSync []*VariableRecord
	var texts []string
	for _, record := range records {
		if _, ok := indexed[record.VariableCode]; ok {
			result.Skipped++
			continue
		}
		text := SearchableText(record)
		if strings.TrimSpace(text) == "" {
			result.Skipped++
			continue
		}
		toSync = append(toSync, record)
		texts = append(texts, text)
	}

	if len(toSync) == 0 {
		s.logger.Info("Variable sync complete, nothing new", "skipped", result.Skipped)
		return result, nil
	}

	vectors, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return nil, fmt.Errorf("embed variables: %w", err)
	}

	points := make([]*storage.Point, len(toSync))
	for i, record := range toSync {
		points[i] = &storage.Point{
			Vector:  vectors[i],
			Payload: VariablePayload(record, texts[i]),
		}
	}
	if err := s.index.UpsertPoints(ctx, points); err != nil {
		return nil, fmt.Errorf("upsert variables: %w", err)
	}

	result.Synced = len(toSync)
	s.logger.Info("Variable sync complete", "synced", result.Synced, "skipped", result.Skipped)
	return result, nil
}

// indexedVariableCodes collects the set of variable_code values currently in
// the index.
func (s *Syncer) indexedVariableCodes(ctx context.Context) (map[string]struct{}, error) {
	points, err := s.index.ScrollAll(ctx, storage.PointTypeVariable)
	if err != nil {
		return nil, fmt.Errorf("scroll indexed variables: %w", err)
	}
	codes := make(map[string]struct{}, len(points))
	for _, point := range points {
		if code := storage.PayloadString(point.Payload, "variable_code"); code != "" {
			codes[code] = struct{}{}
		}
	}
	return codes, nil
}

// SearchableText concatenates the descriptive fields a variable is matched
// on. A record whose searchable text is blank is skipped from indexing.
func SearchableText(v *VariableRecord) string {
	return fmt.Sprintf("%s %s %s", v.VariableName, v.VariableDescription, v.DesVarEng)
}

// VariablePayload builds the indexed payload for a catalog variable.
// The "type" and "variable_code" fields back equality filters and must
// always be present.
func VariablePayload(v *VariableRecord, searchableText string) map[string]any {
	return map[string]any{
		"type":                 storage.PointTypeVariable,
		"variable_code":        v.VariableCode,
		"variable_name":        v.VariableName,
		"variable_description": v.VariableDescription,
		"des_var_eng":          v.DesVarEng,
		"variable_type":        v.VariableType,
		"group_parameter":      v.GroupParameter,
		"customer_loan_level":  v.CustomerLoanLevel,
		"group_level_1":        v.GroupLevel1,
		"group_level_2":        v.GroupLevel2,
		"searchable_text":      searchableText,
	}
}
