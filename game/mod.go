package game

import (
	"errors"
	"fmt"
)

// ErrIllegalMove reports a move that cannot be played from the current position.
var ErrIllegalMove = errors.New("illegal move")

// DefaultLineLength is the number of stones in a row needed to win.
const DefaultLineLength = 5

// Player occupies a cell. The two players are signed so that the opponent of p is -p.
type Player int8

const (
	None  Player = 0
	Black Player = 1
	White Player = -1
)

func (p Player) Opponent() Player {
	return -p
}

func (p Player) String() string {
	switch p {
	case Black:
		return "black"
	case White:
		return "white"
	case None:
		return "none"
	default:
		return fmt.Sprintf("Player(%d)", int8(p))
	}
}

// Outcome is the result of a finished game: either a winner or a draw.
type Outcome struct {
	Winner Player
	Draw   bool
}

// Score of the outcome from player's perspective: 1 for a win, -1 for a loss, 0 for a draw.
func (o Outcome) Score(player Player) float64 {
	switch {
	case o.Draw:
		return 0
	case o.Winner == player:
		return 1
	default:
		return -1
	}
}

func (o Outcome) String() string {
	if o.Draw {
		return "draw"
	}
	return o.Winner.String()
}

// Index of the cell at column x and row y.
func Index(size, x, y int) int {
	return y*size + x
}

// Coordinates returns the column and row of a cell index.
func Coordinates(size, index int) (x, y int) {
	return index % size, index / size
}
