package game

// Line directions as (column, row) steps: horizontal, vertical and both diagonals.
var directions = [4][2]int{{1, 0}, {0, 1}, {1, 1}, {1, -1}}

// DetectWin reports the player owning a run of at least length stones through move, or None.
// Only lines through move are examined, so it must be called after every move to detect all
// wins. A non-positive length uses DefaultLineLength.
func DetectWin(size int, cells []Player, move int, length int) Player {
	if line := WinningLine(size, cells, move, length); line != nil {
		return cells[move]
	}
	return None
}

// WinningLine returns the cell indices of the first qualifying run through move, ordered
// along the line, or nil if move did not complete one.
func WinningLine(size int, cells []Player, move int, length int) []int {
	if length <= 0 {
		length = DefaultLineLength
	}
	if size <= 0 || move < 0 || move >= size*size || move >= len(cells) {
		return nil
	}
	player := cells[move]
	if player == None {
		return nil
	}

	x, y := Coordinates(size, move)
	for _, d := range directions {
		back := countDirection(size, cells, player, x, y, -d[0], -d[1], length-1)
		forward := countDirection(size, cells, player, x, y, d[0], d[1], length-1-back)
		if 1+back+forward < length {
			continue
		}
		line := make([]int, 0, length)
		for i := back; i >= -forward; i-- {
			line = append(line, Index(size, x-i*d[0], y-i*d[1]))
		}
		return line
	}
	return nil
}

// countDirection counts consecutive stones of player from (x, y) exclusive along (dx, dy),
// stopping at the board edge, a different cell or limit stones.
func countDirection(size int, cells []Player, player Player, x, y, dx, dy, limit int) int {
	count := 0
	for count < limit {
		x += dx
		y += dy
		if x < 0 || y < 0 || x >= size || y >= size || cells[Index(size, x, y)] != player {
			break
		}
		count++
	}
	return count
}
