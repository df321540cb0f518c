// Package storetest holds the behavior every store.Store backing must share.
package storetest

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/swarajpanmand/encode-ai-native-health/internal/store"
)

// RunContract exercises s through the store.Store interface. Conversation
// ids are prefixed with the test name so backings that share state between
// tests do not collide.
func RunContract(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()
	id := func(name string) string { return t.Name() + "/" + name }
	ts := time.Date(2025, 12, 30, 10, 0, 0, 0, time.UTC)

	t.Run("GetMissing", func(t *testing.T) {
		_, err := s.Get(ctx, id("missing"))
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	t.Run("AppendKeepsOrder", func(t *testing.T) {
		cid := id("order")
		require.NoError(t, s.Append(ctx, cid, store.Turn{Role: store.RoleSystem, Content: "sys", Timestamp: ts}))
		require.NoError(t, s.Append(ctx, cid,
			store.Turn{Role: store.RoleUser, Content: "Is this safe for kids?", Timestamp: ts.Add(time.Second)},
			store.Turn{Role: store.RoleAssistant, Content: `{"component":{"component":"Card"}}`, Timestamp: ts.Add(2 * time.Second)},
		))

		turns, err := s.Get(ctx, cid)
		require.NoError(t, err)
		require.Len(t, turns, 3)
		assert.Equal(t, []string{store.RoleSystem, store.RoleUser, store.RoleAssistant},
			[]string{turns[0].Role, turns[1].Role, turns[2].Role})
		assert.Equal(t, "Is this safe for kids?", turns[1].Content)
		assert.Equal(t, `{"component":{"component":"Card"}}`, turns[2].Content)
		assert.True(t, ts.Equal(turns[0].Timestamp))
	})

	t.Run("Isolation", func(t *testing.T) {
		a, b := id("a"), id("b")
		require.NoError(t, s.Append(ctx, a, store.Turn{Role: store.RoleSystem, Content: "a", Timestamp: ts}))
		require.NoError(t, s.Append(ctx, b, store.Turn{Role: store.RoleSystem, Content: "b", Timestamp: ts}))

		turns, err := s.Get(ctx, a)
		require.NoError(t, err)
		require.Len(t, turns, 1)
		assert.Equal(t, "a", turns[0].Content)
	})

	t.Run("DeleteIsIdempotent", func(t *testing.T) {
		cid := id("delete")
		require.NoError(t, s.Append(ctx, cid, store.Turn{Role: store.RoleSystem, Content: "sys", Timestamp: ts}))
		require.NoError(t, s.Delete(ctx, cid))
		require.NoError(t, s.Delete(ctx, cid))

		_, err := s.Get(ctx, cid)
		assert.ErrorIs(t, err, store.ErrNotFound)

		require.NoError(t, s.Append(ctx, cid, store.Turn{Role: store.RoleSystem, Content: "again", Timestamp: ts}))
		turns, err := s.Get(ctx, cid)
		require.NoError(t, err)
		assert.Len(t, turns, 1)
	})

	t.Run("ConcurrentConversations", func(t *testing.T) {
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				cid := id(fmt.Sprintf("c%d", i))
				for j := 0; j < 5; j++ {
					assert.NoError(t, s.Append(ctx, cid, store.Turn{Role: store.RoleUser, Content: fmt.Sprint(j), Timestamp: ts}))
				}
			}(i)
		}
		wg.Wait()
		for i := 0; i < 8; i++ {
			turns, err := s.Get(ctx, id(fmt.Sprintf("c%d", i)))
			require.NoError(t, err)
			require.Len(t, turns, 5)
			assert.Equal(t, "4", turns[4].Content)
		}
	})
}
