package entity

type Symbol string

const (
	SymbolX Symbol = "X"
	SymbolO Symbol = "O"

	EmptyCell Symbol = ""
)

// Opponent - returns the other player's symbol.
func (that Symbol) Opponent() Symbol {
	if that == SymbolX {
		return SymbolO
	}
	return SymbolX
}

// Participant is one connected player of a room. ID is the transport identity
// used to route events back to that client.
type Participant struct {
	ID     string `json:"-"`
	Symbol Symbol `json:"symbol"`
	Name   string `json:"name"`
}
