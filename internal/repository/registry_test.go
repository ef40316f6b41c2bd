package repository

import (
	"context"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

func newTestRegistry(opts CodeOptions) *Registry {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	return NewRegistry(logger, NewMemoryCodeStore(), opts)
}

// sequence returns the given codes in order, repeating the last one.
func sequence(codes ...string) func(int) (string, error) {
	i := 0
	return func(int) (string, error) {
		code := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return code, nil
	}
}

func TestRegistry_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates a waiting room hosted by X", func(t *testing.T) {
		// Given: an empty registry
		registry := newTestRegistry(CodeOptions{Length: 6, MaxAttempts: 8})

		// When: a room is created
		room, err := registry.Create(ctx, "host", "Alice")

		// Then: it is registered under a fresh 6 character code
		require.NoError(t, err)
		assert.Len(t, room.Code, 6)
		assert.Equal(t, entity.StateWaiting, room.State)
		require.Len(t, room.Players, 1)
		assert.Equal(t, entity.SymbolX, room.Players[0].Symbol)
		assert.Equal(t, "Alice", room.Players[0].Name)

		found, err := registry.Find(room.Code)
		require.NoError(t, err)
		assert.Same(t, room, found)
	})

	t.Run("Live codes are pairwise distinct", func(t *testing.T) {
		// Given: an empty registry
		registry := newTestRegistry(CodeOptions{Length: 6, MaxAttempts: 8})

		// When: many rooms are created
		seen := make(map[string]struct{})
		for range 500 {
			room, err := registry.Create(ctx, "host", "")
			require.NoError(t, err)

			// Then: no code repeats
			_, dup := seen[room.Code]
			require.False(t, dup, "duplicate code %s", room.Code)
			seen[room.Code] = struct{}{}
		}
		assert.Equal(t, 500, registry.Len())
	})

	t.Run("Collision is retried", func(t *testing.T) {
		// Given: a registry that already holds AAAAAA
		registry := newTestRegistry(CodeOptions{Length: 6, MaxAttempts: 4})
		registry.newCode = sequence("AAAAAA")
		first, err := registry.Create(ctx, "host", "")
		require.NoError(t, err)

		// When: the generator repeats the taken code once before a free one
		registry.newCode = sequence("AAAAAA", "BBBBBB")
		second, err := registry.Create(ctx, "other", "")

		// Then: the second room gets the free code
		require.NoError(t, err)
		assert.Equal(t, "AAAAAA", first.Code)
		assert.Equal(t, "BBBBBB", second.Code)
	})

	t.Run("Code grows after the retry cap", func(t *testing.T) {
		// Given: a registry holding AAAAAA and a generator stuck on it for 6 characters
		registry := newTestRegistry(CodeOptions{Length: 6, MaxAttempts: 3, MaxExtraLength: 1})
		registry.newCode = sequence("AAAAAA")
		_, err := registry.Create(ctx, "host", "")
		require.NoError(t, err)

		var lengths []int
		registry.newCode = func(length int) (string, error) {
			lengths = append(lengths, length)
			if length == 6 {
				return "AAAAAA", nil
			}
			return "AAAAAAA", nil
		}

		// When: another room is created
		room, err := registry.Create(ctx, "other", "")

		// Then: a 7 character code is issued after 3 failed attempts
		require.NoError(t, err)
		assert.Equal(t, "AAAAAAA", room.Code)
		assert.Equal(t, []int{6, 6, 6, 7}, lengths)
	})

	t.Run("Gives up when every length collides", func(t *testing.T) {
		// Given: a generator that always returns a live code
		registry := newTestRegistry(CodeOptions{Length: 6, MaxAttempts: 2, MaxExtraLength: 1})
		registry.newCode = sequence("AAAAAA")
		_, err := registry.Create(ctx, "host", "")
		require.NoError(t, err)

		// When: another room is created
		_, err = registry.Create(ctx, "other", "")

		// Then: ErrCodeSpaceExhausted is returned and nothing was registered
		require.ErrorIs(t, err, apperror.ErrCodeSpaceExhausted)
		assert.Equal(t, 1, registry.Len())
	})
}

func TestRegistry_Find(t *testing.T) {
	ctx := context.Background()

	t.Run("Lookup is case insensitive", func(t *testing.T) {
		// Given: a room with a known code
		registry := newTestRegistry(CodeOptions{Length: 6, MaxAttempts: 1})
		registry.newCode = sequence("ABC234")
		room, err := registry.Create(ctx, "host", "")
		require.NoError(t, err)

		// When: looking it up in lower case with spaces
		found, err := registry.Find(" abc234 ")

		// Then: the room is found
		require.NoError(t, err)
		assert.Same(t, room, found)
	})

	t.Run("Unknown code", func(t *testing.T) {
		// Given: an empty registry
		registry := newTestRegistry(CodeOptions{})

		// When: looking up an unknown code
		room, err := registry.Find("ZZZZZZ")

		// Then: ErrRoomNotFound is returned
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
		assert.Nil(t, room)
	})
}

func TestRegistry_Destroy(t *testing.T) {
	ctx := context.Background()

	t.Run("Destroyed room is gone and its code is reusable", func(t *testing.T) {
		// Given: a live room
		registry := newTestRegistry(CodeOptions{Length: 6, MaxAttempts: 1})
		registry.newCode = sequence("ABC234")
		room, err := registry.Create(ctx, "host", "")
		require.NoError(t, err)

		// When: the room is destroyed
		require.NoError(t, registry.Destroy(ctx, room.Code))

		// Then: it cannot be found and is marked destroyed
		_, err = registry.Find(room.Code)
		require.ErrorIs(t, err, apperror.ErrRoomNotFound)
		assert.Equal(t, entity.StateDestroyed, room.State)

		// And: the same code can be issued again
		again, err := registry.Create(ctx, "host", "")
		require.NoError(t, err)
		assert.Equal(t, "ABC234", again.Code)
	})

	t.Run("Destroy is idempotent", func(t *testing.T) {
		// Given: an empty registry
		registry := newTestRegistry(CodeOptions{})

		// When: destroying an unknown room twice
		// Then: no error is returned
		require.NoError(t, registry.Destroy(ctx, "ZZZZZZ"))
		require.NoError(t, registry.Destroy(ctx, "ZZZZZZ"))
	})
}
