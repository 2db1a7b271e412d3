package storage

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
)

// DefaultScrollCap bounds unfiltered bulk reads. The index has no "count by
// key" query, so administrative reads page through at most this many points.
const DefaultScrollCap = 10000

// QdrantIndex wraps the Qdrant client with connection management and an
// explicit disabled state. A disabled index turns every operation into a
// no-op returning empty results, so upstream features silently degrade
// instead of crashing the process.
type QdrantIndex struct {
	client    *qdrant.Client
	host      string
	port      int
	scrollCap int
	logger    *slog.Logger
}

// NewQdrantIndex creates a Qdrant client with health validation.
// It performs a health check with retry on startup and fails fast if Qdrant
// is unreachable.
func NewQdrantIndex(host string, port int, logger *slog.Logger) (*QdrantIndex, error) {
	if logger == nil {
		logger = slog.Default()
	}
	client, err := qdrant.NewClient(&qdrant.Config{
		Host: host,
		Port: port,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create qdrant client: %w", err)
	}

	index := &QdrantIndex{
		client:    client,
		host:      host,
		port:      port,
		scrollCap: DefaultScrollCap,
		logger:    logger,
	}

	ctx := context.Background()
	if err := index.healthCheckWithRetry(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("%w: %v", ErrQdrantUnreachable, err)
	}

	return index, nil
}

// NewDisabled constructs an index with no connection. Every operation on it
// is a no-op; callers decide the degraded condition at construction time
// rather than scattering nil checks.
func NewDisabled(logger *slog.Logger) *QdrantIndex {
	if logger == nil {
		logger = slog.Default()
	}
	return &QdrantIndex{scrollCap: DefaultScrollCap, logger: logger}
}

// Enabled reports whether the index holds a live connection.
func (s *QdrantIndex) Enabled() bool {
	return s.client != nil
}

// SetScrollCap overrides the bulk-read page cap. Zero restores the default.
func (s *QdrantIndex) SetScrollCap(cap int) {
	if cap <= 0 {
		cap = DefaultScrollCap
	}
	s.scrollCap = cap
}

// healthCheckWithRetry performs health check with exponential backoff.
// Initial interval 500ms, max interval 10s, max elapsed 30s.
func (s *QdrantIndex) healthCheckWithRetry(ctx context.Context) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	return backoff.Retry(func() error {
		return s.Health(ctx)
	}, exponentialBackoff)
}

// Health performs a single health check against Qdrant.
func (s *QdrantIndex) Health(ctx context.Context) error {
	if !s.Enabled() {
		return ErrQdrantUnreachable
	}
	result, err := s.client.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if result == nil || result.Title == "" {
		return fmt.Errorf("health check returned invalid response")
	}
	return nil
}

// EnsureCollection ensures the collection exists with proper configuration.
// Creates the collection with 384-dimension cosine vectors and provisions
// keyword payload indexes for filtered search. Idempotent.
func (s *QdrantIndex) EnsureCollection(ctx context.Context) error {
	if !s.Enabled() {
		return nil
	}

	collections, err := s.client.ListCollections(ctx)
	if err != nil {
		return fmt.Errorf("failed to list collections: %w", err)
	}

	exists := false
	for _, name := range collections {
		if name == CollectionName {
			exists = true
			break
		}
	}

	if !exists {
		err = s.client.CreateCollection(ctx, &qdrant.CreateCollection{
			CollectionName: CollectionName,
			VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
				Size:     VectorDimension,
				Distance: qdrant.Distance_Cosine,
			}),
		})
		if err != nil {
			return fmt.Errorf("failed to create collection: %w", err)
		}
	}

	// Indexes are provisioned even when the collection pre-exists, so an
	// older collection picks them up on restart.
	return s.createPayloadIndexes(ctx)
}

// createPayloadIndexes creates keyword indexes for the fields used in
// equality filters. An "already exists" response counts as success.
func (s *QdrantIndex) createPayloadIndexes(ctx context.Context) error {
	fields := []string{
		"type",          // "document" vs "variable"
		"variable_code", // natural dedup key for catalog sync
		"document_id",   // lookup points of one document
	}

	for _, field := range fields {
		_, err := s.client.CreateFieldIndex(ctx, &qdrant.CreateFieldIndexCollection{
			CollectionName: CollectionName,
			FieldName:      field,
			FieldType:      qdrant.FieldType_FieldTypeKeyword.Enum(),
		})
		if err != nil {
			if strings.Contains(strings.ToLower(err.Error()), "already exists") {
				continue
			}
			return fmt.Errorf("failed to create index for field %s: %w", field, err)
		}
	}

	return nil
}

// upsertWithRetry performs an upsert with exponential backoff retry.
func (s *QdrantIndex) upsertWithRetry(ctx context.Context, points []*qdrant.PointStruct) error {
	exponentialBackoff := backoff.NewExponentialBackOff()
	exponentialBackoff.InitialInterval = 500 * time.Millisecond
	exponentialBackoff.MaxInterval = 10 * time.Second
	exponentialBackoff.MaxElapsedTime = 30 * time.Second

	// Wait for the write to apply so a follow-up scroll sees it.
	return backoff.Retry(func() error {
		_, err := s.client.Upsert(ctx, &qdrant.UpsertPoints{
			CollectionName: CollectionName,
			Points:         points,
			Wait:           qdrant.PtrOf(true),
		})
		return err
	}, exponentialBackoff)
}

// UpsertPoints stores points in the index, batched in groups of 100.
// Points without an ID get a fresh random UUID. No-op when disabled.
func (s *QdrantIndex) UpsertPoints(ctx context.Context, points []*Point) error {
	if !s.Enabled() || len(points) == 0 {
		return nil
	}

	for i, point := range points {
		if len(point.Vector) != VectorDimension {
			return fmt.Errorf("%w: point %d has %d dimensions, expected %d",
				ErrDimensionMismatch, i, len(point.Vector), VectorDimension)
		}
	}

	batchSize := 100
	for i := 0; i < len(points); i += batchSize {
		end := min(i+batchSize, len(points))
		batch := points[i:end]

		structs := make([]*qdrant.PointStruct, len(batch))
		for j, point := range batch {
			id := point.ID
			if id == "" {
				id = uuid.New().String()
			}
			structs[j] = &qdrant.PointStruct{
				Id:      qdrant.NewIDUUID(id),
				Vectors: qdrant.NewVectors(point.Vector...),
				Payload: qdrant.NewValueMap(point.Payload),
			}
		}

		if err := s.upsertWithRetry(ctx, structs); err != nil {
			return fmt.Errorf("failed to upsert batch %d-%d: %w", i, end, err)
		}
	}

	return nil
}

// Search performs similarity search, returning hits with score >= threshold
// ordered by descending score and truncated to limit. An empty filterType
// searches the whole collection. When a filtered search fails because the
// backing field lacks an index the error propagates; the search facade is
// responsible for retrying without the filter. Disabled index returns empty.
func (s *QdrantIndex) Search(ctx context.Context, vector []float32, limit int, scoreThreshold float32, filterType string) ([]*ScoredPoint, error) {
	if !s.Enabled() {
		return nil, nil
	}
	if len(vector) != VectorDimension {
		return nil, fmt.Errorf("%w: query has %d dimensions, expected %d",
			ErrDimensionMismatch, len(vector), VectorDimension)
	}

	query := &qdrant.QueryPoints{
		CollectionName: CollectionName,
		Query:          qdrant.NewQuery(vector...),
		Limit:          qdrant.PtrOf(uint64(limit)),
		ScoreThreshold: qdrant.PtrOf(scoreThreshold),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(false),
	}
	if filterType != "" {
		query.Filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("type", filterType),
			},
		}
	}

	results, err := s.client.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to search points: %w", err)
	}

	points := make([]*ScoredPoint, 0, len(results))
	for _, result := range results {
		points = append(points, &ScoredPoint{
			ID:      result.Id.GetUuid(),
			Score:   float64(result.Score),
			Payload: payloadToMap(result.Payload),
		})
	}

	return points, nil
}

// ScrollAll iterates all points matching filterType (all points when empty),
// paginating internally up to the scroll cap. Used for administrative bulk
// reads such as collecting indexed variable codes.
func (s *QdrantIndex) ScrollAll(ctx context.Context, filterType string) ([]*StoredPoint, error) {
	if !s.Enabled() {
		return nil, nil
	}

	var filter *qdrant.Filter
	if filterType != "" {
		filter = &qdrant.Filter{
			Must: []*qdrant.Condition{
				qdrant.NewMatch("type", filterType),
			},
		}
	}

	var points []*StoredPoint
	var offset *qdrant.PointId
	batchSize := uint32(256)

	for len(points) < s.scrollCap {
		results, err := s.client.Scroll(ctx, &qdrant.ScrollPoints{
			CollectionName: CollectionName,
			Filter:         filter,
			Limit:          qdrant.PtrOf(batchSize),
			Offset:         offset,
			WithPayload:    qdrant.NewWithPayload(true),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scroll points: %w", err)
		}

		for _, result := range results {
			points = append(points, &StoredPoint{
				ID:      result.Id.GetUuid(),
				Payload: payloadToMap(result.Payload),
			})
		}

		if uint32(len(results)) < batchSize {
			break
		}
		offset = results[len(results)-1].Id
	}

	if len(points) > s.scrollCap {
		points = points[:s.scrollCap]
	}
	return points, nil
}

// DeleteByIDs removes points by id. Best-effort: failures are logged, not
// propagated, since deletion is typically part of a rebuild that tolerates
// partial failure.
func (s *QdrantIndex) DeleteByIDs(ctx context.Context, ids []string) {
	if !s.Enabled() || len(ids) == 0 {
		return
	}

	pointIDs := make([]*qdrant.PointId, len(ids))
	for i, id := range ids {
		pointIDs[i] = qdrant.NewIDUUID(id)
	}

	// A force resync scrolls right after deleting; without the wait the
	// scroll can still observe the deleted points and skip every record.
	_, err := s.client.Delete(ctx, &qdrant.DeletePoints{
		CollectionName: CollectionName,
		Points:         qdrant.NewPointsSelector(pointIDs...),
		Wait:           qdrant.PtrOf(true),
	})
	if err != nil {
		s.logger.Warn("Failed to delete points", "count", len(ids), "error", err)
	}
}

// GetCollectionInfo retrieves collection statistics.
func (s *QdrantIndex) GetCollectionInfo(ctx context.Context) (*CollectionInfo, error) {
	if !s.Enabled() {
		return &CollectionInfo{}, nil
	}
	collection, err := s.client.GetCollectionInfo(ctx, CollectionName)
	if err != nil {
		return nil, fmt.Errorf("failed to get collection: %w", err)
	}
	return &CollectionInfo{PointsCount: collection.GetPointsCount()}, nil
}

// Close closes the Qdrant client connection.
func (s *QdrantIndex) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}
