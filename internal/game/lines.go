package game

import "sync"

// lineCache maps a board size to its candidate lines.
var lineCache sync.Map

// Lines returns the 2N+2 candidate winning lines of an N×N board: every
// row, every column, the main diagonal and the anti-diagonal. The result is
// shared between games of the same size and must not be modified.
func Lines(size int) [][]int {
	if cached, ok := lineCache.Load(size); ok {
		return cached.([][]int)
	}
	lines, _ := lineCache.LoadOrStore(size, buildLines(size))
	return lines.([][]int)
}

func buildLines(size int) [][]int {
	lines := make([][]int, 0, 2*size+2)

	// Rows
	for r := range size {
		line := make([]int, size)
		for c := range size {
			line[c] = r*size + c
		}
		lines = append(lines, line)
	}

	// Columns
	for c := range size {
		line := make([]int, size)
		for r := range size {
			line[r] = r*size + c
		}
		lines = append(lines, line)
	}

	// Diagonals
	main := make([]int, size)
	anti := make([]int, size)
	for i := range size {
		main[i] = i * (size + 1)
		anti[i] = (i + 1) * (size - 1)
	}

	return append(lines, main, anti)
}

// winningLine returns the first line fully owned by mark, or nil.
func winningLine(board []PlayerMark, lines [][]int, mark PlayerMark) []int {
	for _, line := range lines {
		if ownsLine(board, line, mark) {
			return line
		}
	}
	return nil
}

func ownsLine(board []PlayerMark, line []int, mark PlayerMark) bool {
	for _, index := range line {
		if board[index] != mark {
			return false
		}
	}
	return true
}
