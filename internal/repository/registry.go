package repository

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

type CodeOptions struct {
	Length         int
	MaxAttempts    int
	MaxExtraLength int
}

// Registry owns every live room, keyed by its code.
type Registry struct {
	logger *slog.Logger
	store  CodeStore
	opts   CodeOptions

	newCode func(length int) (string, error)

	mu    sync.RWMutex
	rooms map[string]*entity.Room
}

func NewRegistry(logger *slog.Logger, store CodeStore, opts CodeOptions) *Registry {
	if opts.Length <= 0 {
		opts.Length = 6
	}

	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = 1
	}

	return &Registry{
		logger:  logger.With("component", "registry"),
		store:   store,
		opts:    opts,
		newCode: NewCode,
		rooms:   make(map[string]*entity.Room),
	}
}

// Create - registers a new waiting room hosted by the given player.
func (that *Registry) Create(ctx context.Context, hostID, hostName string) (*entity.Room, error) {
	code, err := that.generateCode(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to generate room code: %w", err)
	}

	room := entity.NewRoom(code, &entity.Participant{ID: hostID, Name: hostName})

	that.mu.Lock()
	that.rooms[code] = room
	that.mu.Unlock()

	return room, nil
}

// Find - looks up a live room, the code is normalized first.
func (that *Registry) Find(code string) (*entity.Room, error) {
	code = NormalizeCode(code)

	that.mu.RLock()
	room, ok := that.rooms[code]
	that.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %q", apperror.ErrRoomNotFound, code)
	}

	return room, nil
}

// Destroy - removes the room and frees its code. Unknown codes are ignored.
func (that *Registry) Destroy(ctx context.Context, code string) error {
	code = NormalizeCode(code)

	that.mu.Lock()
	room, ok := that.rooms[code]
	delete(that.rooms, code)
	that.mu.Unlock()

	if !ok {
		return nil
	}

	room.Destroy()

	if err := that.store.Release(ctx, code); err != nil {
		return fmt.Errorf("failed to release room %s: %w", code, err)
	}

	return nil
}

// Len - number of live rooms.
func (that *Registry) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.rooms)
}

// generateCode - draws codes until one is free. After MaxAttempts collisions
// the code grows by one character, up to MaxExtraLength times.
func (that *Registry) generateCode(ctx context.Context) (string, error) {
	log := that.logger.With("method", "generateCode")

	for extra := 0; extra <= that.opts.MaxExtraLength; extra++ {
		length := that.opts.Length + extra

		for attempt := 0; attempt < that.opts.MaxAttempts; attempt++ {
			code, err := that.newCode(length)
			if err != nil {
				return "", err
			}

			if that.isLive(code) {
				log.Debug("room code collision", "code", code, "attempt", attempt)
				continue
			}

			ok, err := that.store.Reserve(ctx, code)
			if err != nil {
				return "", err
			}

			if ok {
				return code, nil
			}

			log.Debug("room code already reserved", "code", code, "attempt", attempt)
		}

		if extra < that.opts.MaxExtraLength {
			log.Warn("room code space is crowded, growing code length", "length", length+1)
		}
	}

	return "", apperror.ErrCodeSpaceExhausted
}

func (that *Registry) isLive(code string) bool {
	that.mu.RLock()
	defer that.mu.RUnlock()

	_, ok := that.rooms[code]

	return ok
}
