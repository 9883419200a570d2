package game

import "testing"

// testCard is a fixed grid for pattern tests. Center is the free cell.
var testCard = Cartella{
	{1, 16, 31, 46, 61},
	{2, 17, 32, 47, 62},
	{3, 18, 0, 48, 63},
	{4, 19, 34, 49, 64},
	{5, 20, 35, 50, 65},
}

func called(nums ...int) map[int]bool {
	set := make(map[int]bool, len(nums))
	for _, n := range nums {
		set[n] = true
	}
	return set
}

func TestHasWinningLine(t *testing.T) {
	tests := []struct {
		name   string
		called map[int]bool
		want   bool
	}{
		{"empty set", called(), false},
		{"top row", called(1, 16, 31, 46, 61), true},
		{"middle row uses free cell", called(3, 18, 48, 63), true},
		{"middle row incomplete", called(3, 18, 48), false},
		{"first column", called(1, 2, 3, 4, 5), true},
		{"middle column uses free cell", called(31, 32, 34, 35), true},
		{"main diagonal uses free cell", called(1, 17, 49, 65), true},
		{"anti diagonal uses free cell", called(61, 47, 19, 5), true},
		{"four corners is not a line", called(1, 61, 5, 65), false},
		{"scattered near-misses", called(1, 16, 31, 46, 2, 17, 32, 4, 19), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := HasWinningLine(testCard, tt.called); got != tt.want {
				t.Fatalf("HasWinningLine() = %v, want %v", got, tt.want)
			}
		})
	}
}
