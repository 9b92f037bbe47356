package game

import (
	"fmt"
	"strings"
)

// State is a square board position with its move history. Black moves first.
//
// A State is mutated in place by Play; use Clone to explore a continuation without
// touching the receiver.
type State struct {
	size       int
	lineLength int
	cells      []Player
	player     Player
	history    []int
	outcome    *Outcome // memoized once the game is over
}

// NewState returns the empty board of size x size cells where lineLength stones in a row win.
// A non-positive lineLength uses DefaultLineLength.
func NewState(size, lineLength int) *State {
	if size < 1 {
		panic(fmt.Sprintf("board size %d must be positive", size))
	}
	if lineLength <= 0 {
		lineLength = DefaultLineLength
	}
	return &State{
		size:       size,
		lineLength: lineLength,
		cells:      make([]Player, size*size),
		player:     Black,
		history:    make([]int, 0, size*size),
	}
}

func (s *State) Size() int {
	return s.size
}

func (s *State) LineLength() int {
	return s.lineLength
}

// Player to move.
func (s *State) Player() Player {
	return s.player
}

// At returns the occupant of a cell.
func (s *State) At(index int) Player {
	return s.cells[index]
}

// Cells returns a copy of the board, indexed by row*size + column.
func (s *State) Cells() []Player {
	return append([]Player(nil), s.cells...)
}

// History returns a copy of the moves played so far.
func (s *State) History() []int {
	return append([]int(nil), s.history...)
}

// LastMove returns the most recent move, false if none was played.
func (s *State) LastMove() (int, bool) {
	if len(s.history) == 0 {
		return 0, false
	}
	return s.history[len(s.history)-1], true
}

// Play places the current player's stone on index and passes the turn. Playing on a finished
// game does nothing.
func (s *State) Play(index int) error {
	if s.outcome != nil {
		return nil
	}
	if index < 0 || index >= len(s.cells) {
		return fmt.Errorf("%w: cell %d is off the %dx%d board", ErrIllegalMove, index, s.size, s.size)
	}
	if s.cells[index] != None {
		return fmt.Errorf("%w: cell %d is occupied by %s", ErrIllegalMove, index, s.cells[index])
	}
	s.cells[index] = s.player
	s.history = append(s.history, index)
	s.player = s.player.Opponent()
	return nil
}

// LegalMoves returns the empty cells in ascending order.
func (s *State) LegalMoves() []int {
	moves := make([]int, 0, len(s.cells)-len(s.history))
	for i, c := range s.cells {
		if c == None {
			moves = append(moves, i)
		}
	}
	return moves
}

// Outcome reports how the game ended, false while it is still running. Only the line through
// the last move is examined; the result is cached once the game is over.
func (s *State) Outcome() (Outcome, bool) {
	if s.outcome != nil {
		return *s.outcome, true
	}
	last, ok := s.LastMove()
	if !ok {
		return Outcome{}, false
	}
	if winner := DetectWin(s.size, s.cells, last, s.lineLength); winner != None {
		s.outcome = &Outcome{Winner: winner}
	} else if len(s.history) == len(s.cells) {
		s.outcome = &Outcome{Draw: true}
	} else {
		return Outcome{}, false
	}
	return *s.outcome, true
}

// Terminal reports whether the game is over.
func (s *State) Terminal() bool {
	_, over := s.Outcome()
	return over
}

// Clone returns an independent deep copy.
func (s *State) Clone() *State {
	clone := &State{
		size:       s.size,
		lineLength: s.lineLength,
		cells:      append(make([]Player, 0, len(s.cells)), s.cells...),
		player:     s.player,
		history:    append(make([]int, 0, cap(s.history)), s.history...),
	}
	if s.outcome != nil {
		outcome := *s.outcome
		clone.outcome = &outcome
	}
	return clone
}

func (s *State) String() string {
	var b strings.Builder
	for y := 0; y < s.size; y++ {
		for x := 0; x < s.size; x++ {
			switch s.cells[Index(s.size, x, y)] {
			case Black:
				b.WriteByte('X')
			case White:
				b.WriteByte('O')
			default:
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
