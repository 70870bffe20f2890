package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLines(t *testing.T) {
	tests := []struct {
		name string
		size int
		want [][]int
	}{
		{
			name: "2x2",
			size: 2,
			want: [][]int{
				{0, 1}, {2, 3},
				{0, 2}, {1, 3},
				{0, 3}, {1, 2},
			},
		},
		{
			name: "3x3",
			size: 3,
			want: [][]int{
				{0, 1, 2}, {3, 4, 5}, {6, 7, 8},
				{0, 3, 6}, {1, 4, 7}, {2, 5, 8},
				{0, 4, 8}, {2, 4, 6},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Lines(tt.size))
		})
	}
}

func TestLines_Count(t *testing.T) {
	for size := MinSize; size <= 12; size++ {
		lines := Lines(size)

		assert.Len(t, lines, 2*size+2)
		for _, line := range lines {
			assert.Len(t, line, size)
			for _, index := range line {
				assert.GreaterOrEqual(t, index, 0)
				assert.Less(t, index, size*size)
			}
		}
	}
}

func TestLines_AntiDiagonal4x4(t *testing.T) {
	lines := Lines(4)

	assert.Equal(t, []int{3, 6, 9, 12}, lines[len(lines)-1])
}

func TestWinningLine(t *testing.T) {
	board := []PlayerMark{
		PlayerX, PlayerO, None,
		PlayerX, PlayerO, None,
		None, PlayerO, PlayerX,
	}

	assert.Equal(t, []int{1, 4, 7}, winningLine(board, Lines(3), PlayerO))
	assert.Nil(t, winningLine(board, Lines(3), PlayerX))
}
