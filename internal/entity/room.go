package entity

import (
	"fmt"
	"time"

	"github.com/rocketscienceinc/tictactoe-rooms/internal/apperror"
)

type State int

const (
	StateWaiting State = iota
	StateActive
	StateFinished
	StateDestroyed
)

const MaxPlayers = 2

func (that State) String() string {
	switch that {
	case StateWaiting:
		return "waiting"
	case StateActive:
		return "active"
	case StateFinished:
		return "finished"
	case StateDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("state(%d)", int(that))
	}
}

type Scores struct {
	X     int `json:"X"`
	O     int `json:"O"`
	Draws int `json:"draws"`
}

// Room is a single match between two participants. It is not safe for
// concurrent use; callers serialize access.
type Room struct {
	Code      string
	Players   []*Participant
	Board     Board
	Turn      Symbol
	Scores    Scores
	State     State
	Outcome   Result
	CreatedAt time.Time
}

// NewRoom - creates a room waiting for an opponent, host plays X.
func NewRoom(code string, host *Participant) *Room {
	host.Symbol = SymbolX

	return &Room{
		Code:      code,
		Players:   []*Participant{host},
		Turn:      SymbolX,
		State:     StateWaiting,
		CreatedAt: time.Now(),
	}
}

// Admit - adds the second participant as O and starts the match.
func (that *Room) Admit(player *Participant) error {
	if len(that.Players) >= MaxPlayers {
		return fmt.Errorf("%w: room %s", apperror.ErrRoomFull, that.Code)
	}

	if that.State != StateWaiting {
		return fmt.Errorf("%w: room %s is %s", apperror.ErrRoomFull, that.Code, that.State)
	}

	player.Symbol = SymbolO
	that.Players = append(that.Players, player)
	that.State = StateActive

	return nil
}

// Participant - finds a member of the room by transport identity.
func (that *Room) Participant(id string) (*Participant, bool) {
	for _, player := range that.Players {
		if player.ID == id {
			return player, true
		}
	}

	return nil, false
}

// ApplyMove - writes the player's symbol into cell and settles the outcome.
// The room is left untouched when an error is returned.
func (that *Room) ApplyMove(playerID string, cell int) error {
	switch that.State {
	case StateActive:
	case StateFinished:
		return apperror.ErrGameFinished
	default:
		return fmt.Errorf("%w: room is %s", apperror.ErrGameIsNotStarted, that.State)
	}

	player, ok := that.Participant(playerID)
	if !ok {
		return apperror.ErrPlayerNotInRoom
	}

	if player.Symbol != that.Turn {
		return apperror.ErrNotYourTurn
	}

	if cell < 0 || cell >= len(that.Board) {
		return fmt.Errorf("%w: cell %d", apperror.ErrInvalidCell, cell)
	}

	if that.Board[cell] != EmptyCell {
		return apperror.ErrCellOccupied
	}

	that.Board[cell] = player.Symbol

	result := Evaluate(that.Board)
	if !result.IsTerminal() {
		that.Turn = that.Turn.Opponent()
		return nil
	}

	that.State = StateFinished
	that.Outcome = result

	switch result.Kind {
	case ResultDraw:
		that.Scores.Draws++
	case ResultWin:
		if result.Winner == SymbolX {
			that.Scores.X++
		} else {
			that.Scores.O++
		}
	}

	return nil
}

// Restart - clears the board for a rematch, scores are kept.
func (that *Room) Restart() error {
	switch that.State {
	case StateActive, StateFinished:
	default:
		return fmt.Errorf("%w: room is %s", apperror.ErrGameIsNotStarted, that.State)
	}

	that.Board = Board{}
	that.Turn = SymbolX
	that.Outcome = Result{}
	that.State = StateActive

	return nil
}

// Destroy - marks the room as gone; every further transition fails.
func (that *Room) Destroy() {
	that.State = StateDestroyed
}

func (that *Room) IsWaiting() bool {
	return that.State == StateWaiting
}

func (that *Room) IsActive() bool {
	return that.State == StateActive
}

func (that *Room) IsFinished() bool {
	return that.State == StateFinished
}

// Others - returns every participant except the one with the given identity.
func (that *Room) Others(id string) []*Participant {
	others := make([]*Participant, 0, len(that.Players))
	for _, player := range that.Players {
		if player.ID != id {
			others = append(others, player)
		}
	}

	return others
}
