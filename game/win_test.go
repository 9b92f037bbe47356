package game

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func board(size int, player Player, coords ...[2]int) []Player {
	cells := make([]Player, size*size)
	for _, c := range coords {
		cells[Index(size, c[0], c[1])] = player
	}
	return cells
}

func TestDetectWin(t *testing.T) {
	run := [][2]int{{2, 2}, {3, 2}, {4, 2}, {5, 2}, {6, 2}}

	t.Run("finding a horizontal run through the last stone", func(t *testing.T) {
		cells := board(9, Black, run...)
		require.Equal(t, Black, DetectWin(9, cells, Index(9, 6, 2), 5))
		require.Equal(t, Black, DetectWin(9, cells, Index(9, 4, 2), 0), "Default length should be five")
	})

	t.Run("finding nothing once any stone is removed", func(t *testing.T) {
		for skip := range run {
			var partial [][2]int
			for i, c := range run {
				if i != skip {
					partial = append(partial, c)
				}
			}
			cells := board(9, White, partial...)
			last := partial[len(partial)-1]
			require.Equal(t, None, DetectWin(9, cells, Index(9, last[0], last[1]), 5), "skipping stone %d", skip)
		}
	})

	t.Run("finding vertical and diagonal runs", func(t *testing.T) {
		vertical := board(9, White, [2]int{7, 0}, [2]int{7, 1}, [2]int{7, 2}, [2]int{7, 3}, [2]int{7, 4})
		require.Equal(t, White, DetectWin(9, vertical, Index(9, 7, 0), 5))

		diagonal := board(9, Black, [2]int{0, 0}, [2]int{1, 1}, [2]int{2, 2}, [2]int{3, 3}, [2]int{4, 4})
		require.Equal(t, Black, DetectWin(9, diagonal, Index(9, 2, 2), 5))

		anti := board(9, Black, [2]int{8, 0}, [2]int{7, 1}, [2]int{6, 2}, [2]int{5, 3}, [2]int{4, 4})
		require.Equal(t, Black, DetectWin(9, anti, Index(9, 4, 4), 5))
	})

	t.Run("not wrapping around board edges", func(t *testing.T) {
		// Cells 6,7,8 end row 0 and 9,10 start row 1: contiguous indices, not a line
		cells := make([]Player, 81)
		for _, i := range []int{6, 7, 8, 9, 10} {
			cells[i] = Black
		}
		require.Equal(t, None, DetectWin(9, cells, 8, 5))
		require.Equal(t, None, DetectWin(9, cells, 9, 5))
	})

	t.Run("ignoring empty cells and other players", func(t *testing.T) {
		cells := board(9, Black, run[:4]...)
		cells[Index(9, 6, 2)] = White
		require.Equal(t, None, DetectWin(9, cells, Index(9, 6, 2), 5))
		require.Equal(t, None, DetectWin(9, cells, Index(9, 0, 0), 5))
	})
}

func TestWinningLine(t *testing.T) {
	t.Run("returning the run in board order", func(t *testing.T) {
		cells := board(9, Black, [2]int{1, 4}, [2]int{2, 3}, [2]int{3, 2}, [2]int{4, 1}, [2]int{5, 0})
		line := WinningLine(9, cells, Index(9, 3, 2), 5)
		require.Equal(t, []int{Index(9, 1, 4), Index(9, 2, 3), Index(9, 3, 2), Index(9, 4, 1), Index(9, 5, 0)}, line)
	})

	t.Run("returning exactly length cells for a longer run", func(t *testing.T) {
		cells := make([]Player, 81)
		for x := 0; x < 7; x++ {
			cells[Index(9, x, 5)] = White
		}
		line := WinningLine(9, cells, Index(9, 3, 5), 5)
		require.Len(t, line, 5)
		require.Contains(t, line, Index(9, 3, 5))
	})

	t.Run("returning nil without a run", func(t *testing.T) {
		require.Nil(t, WinningLine(9, make([]Player, 81), 40, 5))
	})
}

func TestCoordinates(t *testing.T) {
	x, y := Coordinates(9, 58)
	require.Equal(t, 4, x)
	require.Equal(t, 6, y)
	require.Equal(t, 58, Index(9, x, y))
}
