package entity

type Board [9]Symbol

type ResultKind int

const (
	ResultNone ResultKind = iota
	ResultWin
	ResultDraw
)

// WinCombos are scanned in this order: rows, columns, diagonals.
var WinCombos = [8][3]int{
	{0, 1, 2},
	{3, 4, 5},
	{6, 7, 8},
	{0, 3, 6},
	{1, 4, 7},
	{2, 5, 8},
	{0, 4, 8},
	{2, 4, 6},
}

// Result is the terminal state of a board. Line is only set for ResultWin.
type Result struct {
	Kind   ResultKind
	Winner Symbol
	Line   [3]int
}

func (that Result) IsTerminal() bool {
	return that.Kind != ResultNone
}

// Evaluate - returns the first winning line of the board, a draw when the
// board is full, or ResultNone while the game can continue.
func Evaluate(board Board) Result {
	for _, combo := range WinCombos {
		a, b, c := board[combo[0]], board[combo[1]], board[combo[2]]
		if a != EmptyCell && a == b && b == c {
			return Result{Kind: ResultWin, Winner: a, Line: combo}
		}
	}

	// the game continues while at least one cell is empty
	for _, cell := range board {
		if cell == EmptyCell {
			return Result{Kind: ResultNone}
		}
	}

	return Result{Kind: ResultDraw}
}
