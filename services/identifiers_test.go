package services

import (
	"context"
	"testing"

	"projector-crm-sync/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUniqueIdentifierSuffixesInOrder(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()

	for _, want := range []string{"C", "C-1", "C-2"} {
		got, err := UniqueIdentifier(ctx, store, ScopeDTRCaseNumber, "C")
		require.NoError(t, err)
		assert.Equal(t, want, got)
		require.NoError(t, store.CreateDTRCase(ctx, &models.DTRCase{CaseNumber: got, SerialNumber: "SN-1"}))
	}

	seen := map[string]bool{}
	for _, d := range store.dtrs {
		assert.False(t, seen[d.CaseNumber], "duplicate %s", d.CaseNumber)
		seen[d.CaseNumber] = true
	}
}

func TestUniqueIdentifierScopesAreIndependent(t *testing.T) {
	ctx := context.Background()
	store := newMemoryStore()
	rma := "R-100"
	require.NoError(t, store.CreateRMACase(ctx, &models.RMACase{RMANumber: &rma}))

	got, err := UniqueIdentifier(ctx, store, ScopeRMANumber, "R-100")
	require.NoError(t, err)
	assert.Equal(t, "R-100-1", got)

	got, err = UniqueIdentifier(ctx, store, ScopeCallLogNumber, "R-100")
	require.NoError(t, err)
	assert.Equal(t, "R-100", got)

	got, err = UniqueIdentifier(ctx, store, ScopeRMANumber, "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestSplitSuffix(t *testing.T) {
	base, n, ok := SplitSuffix("C-2")
	require.True(t, ok)
	assert.Equal(t, "C", base)
	assert.Equal(t, 2, n)

	base, n, ok = SplitSuffix("DTR-2023-14")
	require.True(t, ok)
	assert.Equal(t, "DTR-2023", base)
	assert.Equal(t, 14, n)

	for _, id := range []string{"C", "C-", "-3", "C-0", ""} {
		_, _, ok := SplitSuffix(id)
		assert.False(t, ok, id)
	}
}
