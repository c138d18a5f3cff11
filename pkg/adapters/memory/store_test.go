package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lmeira/codemend/pkg/adapters/memory"
	"github.com/lmeira/codemend/pkg/domain"
	"github.com/lmeira/codemend/pkg/ports"
)

func TestStore_SaveLoadDelete(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	_, err := store.Load(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	sess := &ports.Session{
		Snapshot: "import math\n",
		Packages: []string{"math"},
	}
	require.NoError(t, store.Save(ctx, "s1", sess))

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess.Snapshot, loaded.Snapshot)
	assert.Equal(t, sess.Packages, loaded.Packages)

	require.NoError(t, store.Delete(ctx, "s1"))
	_, err = store.Load(ctx, "s1")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)

	// Deleting a missing session is not an error.
	assert.NoError(t, store.Delete(ctx, "s1"))
}

func TestStore_CopiesAreDefensive(t *testing.T) {
	store := memory.NewStore()
	ctx := context.Background()

	sess := &ports.Session{Snapshot: "x = 1\n", Packages: []string{"math"}}
	require.NoError(t, store.Save(ctx, "s1", sess))

	// Mutating the saved value must not affect the stored one.
	sess.Snapshot = "tampered"
	sess.Packages[0] = "tampered"

	loaded, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", loaded.Snapshot)
	assert.Equal(t, []string{"math"}, loaded.Packages)

	// Mutating a loaded value must not affect later loads.
	loaded.Packages[0] = "tampered"
	again, err := store.Load(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, []string{"math"}, again.Packages)
}
