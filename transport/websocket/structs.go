package websocket

import (
	"encoding/json"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/entity"
)

const (
	actionCreateRoom  = "create-room"
	actionJoinRoom    = "join-room"
	actionMakeMove    = "make-move"
	actionRestartGame = "restart-game"

	actionGameStart     = "game-start"
	actionMoveMade      = "move-made"
	actionGameRestarted = "game-restarted"
	actionOpponentLeft  = "opponent-left"
)

const (
	msgRoomNotFound     = "Room not found."
	msgRoomFull         = "Room is full."
	msgAlreadyInRoom    = "Already in a room."
	msgCreateRoomFailed = "Could not create room."
	msgJoinRoomFailed   = "Could not join room."

	winnerDraw = "draw"
)

// Message represents a WebSocket message with an action type and a payload.
type Message struct {
	Action  string          `json:"action"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

type CreateRoomRequest struct {
	DisplayName string `json:"displayName"`
}

type JoinRoomRequest struct {
	Code        string `json:"code"`
	DisplayName string `json:"displayName"`
}

type MoveRequest struct {
	Cell *int `json:"cell"`
}

// RoomAck answers create-room and join-room to the requesting client only.
type RoomAck struct {
	Success bool          `json:"success"`
	Code    string        `json:"code,omitempty"`
	Symbol  entity.Symbol `json:"symbol,omitempty"`
	Message string        `json:"message,omitempty"`
}

type PlayerView struct {
	Symbol entity.Symbol `json:"symbol"`
	Name   string        `json:"name"`
}

// GameState is sent with game-start and game-restarted.
type GameState struct {
	Board   entity.Board  `json:"board"`
	Turn    entity.Symbol `json:"turn"`
	Scores  entity.Scores `json:"scores"`
	Players []PlayerView  `json:"players"`
}

type MoveMade struct {
	Board    entity.Board  `json:"board"`
	Turn     entity.Symbol `json:"turn"`
	Finished bool          `json:"finished"`
	Winner   *string       `json:"winner"`
	WinLine  []int         `json:"winLine"`
	Scores   entity.Scores `json:"scores"`
}

func newGameState(room *entity.Room) GameState {
	players := make([]PlayerView, 0, len(room.Players))
	for _, player := range room.Players {
		players = append(players, PlayerView{Symbol: player.Symbol, Name: player.Name})
	}

	return GameState{
		Board:   room.Board,
		Turn:    room.Turn,
		Scores:  room.Scores,
		Players: players,
	}
}

func newMoveMade(room *entity.Room) MoveMade {
	payload := MoveMade{
		Board:    room.Board,
		Turn:     room.Turn,
		Finished: room.IsFinished(),
		Scores:   room.Scores,
	}

	switch room.Outcome.Kind {
	case entity.ResultWin:
		winner := string(room.Outcome.Winner)
		payload.Winner = &winner
		line := room.Outcome.Line
		payload.WinLine = line[:]
	case entity.ResultDraw:
		winner := winnerDraw
		payload.Winner = &winner
	}

	return payload
}
