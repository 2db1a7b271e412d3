package catalog

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ruleforge/ruleforge/internal/storage"
)

// fakeIndex is an in-memory stand-in for the Qdrant client.
type fakeIndex struct {
	points   map[string]map[string]any // id -> payload
	enabled  bool
	nextID   int
	upserted int
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{points: map[string]map[string]any{}, enabled: true}
}

func (f *fakeIndex) Enabled() bool { return f.enabled }

func (f *fakeIndex) ScrollAll(ctx context.Context, filterType string) ([]*storage.StoredPoint, error) {
	var out []*storage.StoredPoint
	for id, payload := range f.points {
		if filterType != "" && payload["type"] != filterType {
			continue
		}
		out = append(out, &storage.StoredPoint{ID: id, Payload: payload})
	}
	return out, nil
}

func (f *fakeIndex) UpsertPoints(ctx context.Context, points []*storage.Point) error {
	for _, point := range points {
		f.nextID++
		f.points[fmt.Sprintf("point-%d", f.nextID)] = point.Payload
		f.upserted++
	}
	return nil
}

func (f *fakeIndex) DeleteByIDs(ctx context.Context, ids []string) {
	for _, id := range ids {
		delete(f.points, id)
	}
}

type fakeEmbedder struct {
	enabled bool
	calls   int
}

func (f *fakeEmbedder) Enabled() bool { return f.enabled }

func (f *fakeEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	f.calls++
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = make([]float32, storage.VectorDimension)
	}
	return out, nil
}

type fakeSource struct {
	records []*VariableRecord
}

func (f *fakeSource) ListVariables(ctx context.Context) ([]*VariableRecord, error) {
	return f.records, nil
}

func testVariable(code, name string) *VariableRecord {
	return &VariableRecord{
		VariableType:        "numeric",
		VariableCode:        code,
		VariableName:        name,
		VariableDescription: "description of " + name,
		DesVarEng:           name + " (english)",
	}
}

func TestSyncFromStore_Idempotent(t *testing.T) {
	index := newFakeIndex()
	source := &fakeSource{records: []*VariableRecord{
		testVariable("AGE", "Applicant age"),
		testVariable("INCOME", "Monthly income"),
	}}
	syncer := NewSyncer(source, index, &fakeEmbedder{enabled: true}, nil)

	first, err := syncer.SyncFromStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, first.Synced)
	assert.Equal(t, 0, first.Skipped)
	assert.Equal(t, 2, first.Total)

	second, err := syncer.SyncFromStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, second.Synced, "second run must sync nothing")
	assert.Equal(t, 2, second.Skipped)
	assert.Equal(t, 2, second.Total)

	assert.Equal(t, 2, index.upserted, "no duplicate points created")
}

func TestSyncFromStore_SkipsBlankSearchableText(t *testing.T) {
	index := newFakeIndex()
	blank := &VariableRecord{VariableCode: "EMPTY", VariableType: "numeric"}
	source := &fakeSource{records: []*VariableRecord{
		testVariable("AGE", "Applicant age"),
		blank,
	}}
	syncer := NewSyncer(source, index, &fakeEmbedder{enabled: true}, nil)

	result, err := syncer.SyncFromStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)
	assert.Equal(t, 1, result.Skipped)
	assert.Equal(t, 1, index.upserted, "blank record must not create a point")
}

func TestForceResync_SinglePointPerCode(t *testing.T) {
	index := newFakeIndex()
	source := &fakeSource{records: []*VariableRecord{
		testVariable("X", "Variable X"),
	}}
	syncer := NewSyncer(source, index, &fakeEmbedder{enabled: true}, nil)

	_, err := syncer.SyncFromStore(context.Background())
	require.NoError(t, err)

	result, err := syncer.ForceResync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Synced)

	points, err := index.ScrollAll(context.Background(), storage.PointTypeVariable)
	require.NoError(t, err)
	require.Len(t, points, 1, "exactly one point must remain after resync")
	assert.Equal(t, "X", storage.PayloadString(points[0].Payload, "variable_code"))
}

func TestSync_UnavailableWhenDisabled(t *testing.T) {
	index := newFakeIndex()
	index.enabled = false
	syncer := NewSyncer(&fakeSource{}, index, &fakeEmbedder{enabled: true}, nil)

	_, err := syncer.SyncFromStore(context.Background())
	assert.ErrorIs(t, err, ErrSyncUnavailable)

	_, err = syncer.ForceResync(context.Background())
	assert.ErrorIs(t, err, ErrSyncUnavailable)
}

func TestSync_EmptyCatalog(t *testing.T) {
	syncer := NewSyncer(&fakeSource{}, newFakeIndex(), &fakeEmbedder{enabled: true}, nil)

	result, err := syncer.SyncFromStore(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &SyncResult{}, result)
}

func TestVariablePayload_FilterFieldsPresent(t *testing.T) {
	record := testVariable("LOAN_TERM", "Loan term")
	payload := VariablePayload(record, SearchableText(record))

	assert.Equal(t, storage.PointTypeVariable, payload["type"])
	assert.Equal(t, "LOAN_TERM", payload["variable_code"])
	assert.Contains(t, payload["searchable_text"], "Loan term")
}
