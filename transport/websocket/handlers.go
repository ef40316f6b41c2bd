package websocket

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

func decodePayload(message *Message, target any) error {
	if len(message.Payload) == 0 {
		return nil
	}

	if err := json.Unmarshal(message.Payload, target); err != nil {
		return fmt.Errorf("failed to unmarshal payload: %w", err)
	}

	return nil
}

func (that *Server) handleCreateRoom(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleCreateRoom", "connID", c.id)

	if _, ok := that.rooms[c.id]; ok {
		return that.sendMessage(c, msg.Action, RoomAck{Message: msgAlreadyInRoom})
	}

	var req CreateRoomRequest
	if err := decodePayload(msg, &req); err != nil {
		return err
	}

	room, err := that.manager.CreateRoom(ctx, c.id, req.DisplayName)
	if err != nil {
		log.Error("failed to create room", "error", err)
		return that.sendMessage(c, msg.Action, RoomAck{Message: msgCreateRoomFailed})
	}

	that.rooms[c.id] = room.Code

	player, _ := room.Participant(c.id)

	return that.sendMessage(c, msg.Action, RoomAck{Success: true, Code: room.Code, Symbol: player.Symbol})
}

func (that *Server) handleJoinRoom(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleJoinRoom", "connID", c.id)

	if _, ok := that.rooms[c.id]; ok {
		return that.sendMessage(c, msg.Action, RoomAck{Message: msgAlreadyInRoom})
	}

	var req JoinRoomRequest
	if err := decodePayload(msg, &req); err != nil {
		return err
	}

	room, err := that.manager.JoinRoom(ctx, req.Code, c.id, req.DisplayName)
	switch {
	case errors.Is(err, apperror.ErrRoomNotFound):
		return that.sendMessage(c, msg.Action, RoomAck{Message: msgRoomNotFound})
	case errors.Is(err, apperror.ErrRoomFull):
		return that.sendMessage(c, msg.Action, RoomAck{Message: msgRoomFull})
	case err != nil:
		log.Error("failed to join room", "error", err)
		return that.sendMessage(c, msg.Action, RoomAck{Message: msgJoinRoomFailed})
	}

	that.rooms[c.id] = room.Code

	player, _ := room.Participant(c.id)
	if err = that.sendMessage(c, msg.Action, RoomAck{Success: true, Code: room.Code, Symbol: player.Symbol}); err != nil {
		return err
	}

	that.broadcast(room.Players, actionGameStart, newGameState(room))

	return nil
}

func (that *Server) handleMakeMove(ctx context.Context, c *client, msg *Message) error {
	log := that.logger.With("method", "handleMakeMove", "connID", c.id)

	code, ok := that.rooms[c.id]
	if !ok {
		log.Debug("move ignored, connection is not in a room")
		return nil
	}

	var req MoveRequest
	if err := decodePayload(msg, &req); err != nil {
		return err
	}

	if req.Cell == nil {
		log.Debug("move ignored, cell is missing")
		return nil
	}

	room, err := that.manager.MakeMove(ctx, code, c.id, *req.Cell)
	if err != nil {
		log.Debug("move rejected", "code", code, "cell", *req.Cell, "reason", err)
		return nil
	}

	that.broadcast(room.Players, actionMoveMade, newMoveMade(room))

	return nil
}

func (that *Server) handleRestartGame(ctx context.Context, c *client, _ *Message) error {
	log := that.logger.With("method", "handleRestartGame", "connID", c.id)

	code, ok := that.rooms[c.id]
	if !ok {
		log.Debug("restart ignored, connection is not in a room")
		return nil
	}

	room, err := that.manager.RestartGame(ctx, code, c.id)
	if err != nil {
		log.Debug("restart rejected", "code", code, "reason", err)
		return nil
	}

	that.broadcast(room.Players, actionGameRestarted, newGameState(room))

	return nil
}

// handleDisconnect - drops the connection and ends its room for everyone.
func (that *Server) handleDisconnect(ctx context.Context, c *client) {
	log := that.logger.With("method", "handleDisconnect", "connID", c.id)

	if _, ok := that.clients[c.id]; !ok {
		return
	}

	delete(that.clients, c.id)
	close(c.send)

	code, ok := that.rooms[c.id]
	delete(that.rooms, c.id)

	log.Info("player disconnected")

	if !ok {
		return
	}

	room, err := that.manager.LeaveRoom(ctx, code, c.id)
	if err != nil {
		log.Error("failed to leave room", "code", code, "error", err)
		return
	}

	others := room.Others(c.id)
	for _, player := range others {
		delete(that.rooms, player.ID)
	}

	that.broadcast(others, actionOpponentLeft, nil)
}
