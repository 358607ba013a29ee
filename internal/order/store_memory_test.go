package order

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreDropsOldestOverCapacity(t *testing.T) {
	ctx := context.Background()
	s := NewMemStore(2)

	for i := 1; i <= 3; i++ {
		require.NoError(t, s.Create(ctx, Order{ID: fmt.Sprintf("o_%d", i)}))
	}
	assert.Equal(t, 2, s.Len())

	_, ok, err := s.Get(ctx, "o_1")
	require.NoError(t, err)
	assert.False(t, ok, "oldest order dropped")

	for _, id := range []string{"o_2", "o_3"} {
		o, ok, err := s.Get(ctx, id)
		require.NoError(t, err)
		require.True(t, ok, id)
		assert.Equal(t, id, o.ID)
	}
}

func TestMemStoreDefaultCapacity(t *testing.T) {
	s := NewMemStore(0)
	for i := 0; i < 5; i++ {
		require.NoError(t, s.Create(context.Background(), Order{ID: fmt.Sprintf("o_%d", i)}))
	}
	assert.Equal(t, 5, s.Len())
}
