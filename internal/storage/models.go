package storage

// CollectionName is the single Qdrant collection for documents and variables.
const CollectionName = "legal_documents"

// VectorDimension is the embedding size (text-embedding-3-small at 384 dims).
const VectorDimension = 384

// Point type discriminator values stored in the "type" payload field.
const (
	PointTypeDocument = "document"
	PointTypeVariable = "variable"
)

// Point is a (vector, payload) pair to be written to the index.
// Points with an empty ID receive a fresh random UUID on upsert; natural-key
// dedup is the sync layer's job, not this one's.
type Point struct {
	ID      string
	Vector  []float32
	Payload map[string]any
}

// StoredPoint is a point read back from the index without a score.
type StoredPoint struct {
	ID      string
	Payload map[string]any
}

// ScoredPoint is a single similarity search hit.
// Score is cosine similarity in [0, 1], higher is closer.
type ScoredPoint struct {
	ID      string         `json:"id"`
	Score   float64        `json:"score"`
	Payload map[string]any `json:"payload"`
}

// CollectionInfo contains collection statistics.
type CollectionInfo struct {
	PointsCount uint64
}
