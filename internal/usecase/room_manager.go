package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	defaultHostName  = "Player 1"
	defaultGuestName = "Player 2"
)

type roomRegistry interface {
	Create(ctx context.Context, hostID, hostName string) (*entity.Room, error)
	Find(code string) (*entity.Room, error)
	Destroy(ctx context.Context, code string) error
}

// RoomManager drives room transitions. Calls must be serialized by the caller;
// the websocket gateway does this with its event loop.
type RoomManager struct {
	logger   *slog.Logger
	registry roomRegistry

	maxNameLength int
}

func NewRoomManager(logger *slog.Logger, registry roomRegistry, maxNameLength int) *RoomManager {
	return &RoomManager{
		logger:        logger.With("component", "room_manager"),
		registry:      registry,
		maxNameLength: maxNameLength,
	}
}

// CreateRoom - opens a new room with the player as host.
func (that *RoomManager) CreateRoom(ctx context.Context, playerID, name string) (*entity.Room, error) {
	room, err := that.registry.Create(ctx, playerID, that.displayName(name, defaultHostName))
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	that.logger.Info("room created", "code", room.Code, "playerID", playerID)

	return room, nil
}

// JoinRoom - admits the player as the second participant of the room.
func (that *RoomManager) JoinRoom(ctx context.Context, code, playerID, name string) (*entity.Room, error) {
	room, err := that.registry.Find(code)
	if err != nil {
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	player := &entity.Participant{ID: playerID, Name: that.displayName(name, defaultGuestName)}
	if err = room.Admit(player); err != nil {
		return nil, fmt.Errorf("failed to join room: %w", err)
	}

	that.logger.Info("game started", "code", room.Code, "playerID", playerID)

	return room, nil
}

// MakeMove - applies the player's move. Any error means the move was rejected
// and the room did not change.
func (that *RoomManager) MakeMove(_ context.Context, code, playerID string, cell int) (*entity.Room, error) {
	room, err := that.memberRoom(code, playerID)
	if err != nil {
		return nil, err
	}

	if err = room.ApplyMove(playerID, cell); err != nil {
		return nil, fmt.Errorf("failed to make move: %w", err)
	}

	if room.IsFinished() {
		that.logger.Info("game finished", "code", room.Code, "winner", string(room.Outcome.Winner), "scores", room.Scores)
	}

	return room, nil
}

// RestartGame - starts a rematch in the player's room.
func (that *RoomManager) RestartGame(_ context.Context, code, playerID string) (*entity.Room, error) {
	room, err := that.memberRoom(code, playerID)
	if err != nil {
		return nil, err
	}

	if err = room.Restart(); err != nil {
		return nil, fmt.Errorf("failed to restart game: %w", err)
	}

	return room, nil
}

// LeaveRoom - destroys the room the player belonged to and returns it so the
// remaining members can be notified.
func (that *RoomManager) LeaveRoom(ctx context.Context, code, playerID string) (*entity.Room, error) {
	room, err := that.memberRoom(code, playerID)
	if err != nil {
		return nil, err
	}

	if err = that.registry.Destroy(ctx, room.Code); err != nil {
		// the room is already unreachable, only the code release failed
		that.logger.Error("failed to destroy room", "code", room.Code, "error", err)
	}

	that.logger.Info("room destroyed", "code", room.Code, "playerID", playerID)

	return room, nil
}

func (that *RoomManager) memberRoom(code, playerID string) (*entity.Room, error) {
	room, err := that.registry.Find(code)
	if err != nil {
		return nil, fmt.Errorf("failed to find room: %w", err)
	}

	if _, ok := room.Participant(playerID); !ok {
		return nil, fmt.Errorf("%w: room %s", apperror.ErrPlayerNotInRoom, room.Code)
	}

	return room, nil
}

func (that *RoomManager) displayName(name, fallback string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}

	if that.maxNameLength > 0 && utf8.RuneCountInString(name) > that.maxNameLength {
		name = strings.TrimSpace(string([]rune(name)[:that.maxNameLength]))
	}

	return name
}
