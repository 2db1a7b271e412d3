package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := OpenStore(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_InsertAndGetVariable(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	id, err := store.InsertVariable(ctx, &VariableRecord{
		VariableType:        "numeric",
		VariableCode:        "DTI_RATIO",
		VariableName:        "Debt to income ratio",
		VariableDescription: "Monthly debt divided by monthly income",
		GroupParameter:      "credit",
	})
	require.NoError(t, err)
	require.NotZero(t, id)

	got, err := store.GetVariable(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "DTI_RATIO", got.VariableCode)
	assert.Equal(t, "Debt to income ratio", got.VariableName)
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetVariable_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetVariable(context.Background(), 999)
	assert.ErrorIs(t, err, ErrVariableNotFound)
}

func TestStore_DuplicateVariableCodeRejected(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	record := &VariableRecord{VariableType: "text", VariableCode: "LOAN_PURPOSE", VariableName: "Loan purpose"}
	_, err := store.InsertVariable(ctx, record)
	require.NoError(t, err)

	_, err = store.InsertVariable(ctx, record)
	assert.Error(t, err, "variable_code is unique")
}

func TestStore_ListVariables(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	records, err := store.ListVariables(ctx)
	require.NoError(t, err)
	assert.Empty(t, records)

	for _, code := range []string{"A", "B", "C"} {
		_, err := store.InsertVariable(ctx, &VariableRecord{VariableType: "numeric", VariableCode: code, VariableName: "Variable " + code})
		require.NoError(t, err)
	}

	records, err = store.ListVariables(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)
}

func TestStore_InsertAndGetDocument(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	err := store.InsertDocument(ctx, &DocumentRecord{
		ID:           "doc-1",
		Filename:     "lease.pdf",
		DocumentType: "contract",
		Content:      "The tenant shall pay rent on the first day of each month.",
		FileSize:     1024,
	})
	require.NoError(t, err)

	got, err := store.GetDocument(ctx, "doc-1")
	require.NoError(t, err)
	assert.Equal(t, "lease.pdf", got.Filename)
	assert.Contains(t, got.Content, "tenant shall pay")
	assert.False(t, got.CreatedAt.IsZero())
}

func TestStore_GetDocument_NotFound(t *testing.T) {
	store := openTestStore(t)

	_, err := store.GetDocument(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrDocumentNotFound)
}
