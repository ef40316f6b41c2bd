package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const (
	x = SymbolX
	o = SymbolO
	e = EmptyCell
)

func TestEvaluate(t *testing.T) {
	t.Run("Returns a win for every winning line", func(t *testing.T) {
		for _, combo := range WinCombos {
			// Given: a board where X holds exactly one winning line
			var board Board
			for _, cell := range combo {
				board[cell] = x
			}

			// When: evaluating the board
			result := Evaluate(board)

			// Then: X wins on that line
			assert.Equal(t, ResultWin, result.Kind)
			assert.Equal(t, x, result.Winner)
			assert.Equal(t, combo, result.Line)
		}
	})

	t.Run("Returns a win for O on a column", func(t *testing.T) {
		// Given: O holds the middle column
		board := Board{
			x, o, x,
			e, o, e,
			x, o, e,
		}

		// When: evaluating the board
		result := Evaluate(board)

		// Then: O wins on 1,4,7
		assert.Equal(t, Result{Kind: ResultWin, Winner: o, Line: [3]int{1, 4, 7}}, result)
	})

	t.Run("Returns a draw when the board is full without a line", func(t *testing.T) {
		// Given: a full board with no winner
		board := Board{
			x, o, x,
			x, o, o,
			o, x, x,
		}

		// When: evaluating the board
		result := Evaluate(board)

		// Then: it is a draw, not a win
		assert.Equal(t, ResultDraw, result.Kind)
		assert.Equal(t, EmptyCell, result.Winner)
		assert.True(t, result.IsTerminal())
	})

	t.Run("A full board with a line is a win, not a draw", func(t *testing.T) {
		// Given: the last move completes a diagonal and fills the board
		board := Board{
			x, o, x,
			o, x, o,
			o, x, x,
		}

		// When: evaluating the board
		result := Evaluate(board)

		// Then: the win takes precedence
		assert.Equal(t, ResultWin, result.Kind)
		assert.Equal(t, [3]int{0, 4, 8}, result.Line)
	})

	t.Run("Returns no outcome while cells are empty", func(t *testing.T) {
		// Given: an unfinished board
		board := Board{
			x, o, e,
			e, x, e,
			e, e, o,
		}

		// When: evaluating the board
		result := Evaluate(board)

		// Then: the game continues
		assert.Equal(t, Result{Kind: ResultNone}, result)
		assert.False(t, result.IsTerminal())
	})

	t.Run("Rows are checked before columns", func(t *testing.T) {
		// Given: a board with both the top row and the left column set to X
		board := Board{
			x, x, x,
			x, o, o,
			x, o, o,
		}

		// When: evaluating the board
		result := Evaluate(board)

		// Then: the row is reported
		assert.Equal(t, [3]int{0, 1, 2}, result.Line)
	})
}
