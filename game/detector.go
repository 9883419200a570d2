package game

// HasWinningLine reports whether the card completes any row, column or
// full diagonal against the called set. The free cell always counts as
// matched. The first completed line short-circuits the scan.
func HasWinningLine(card Cartella, called map[int]bool) bool {
	marked := func(row, col int) bool {
		if row == FreeRow && col == FreeCol {
			return true
		}
		return called[card[row][col]]
	}

	// Rows
	for row := 0; row < 5; row++ {
		complete := true
		for col := 0; col < 5; col++ {
			if !marked(row, col) {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}

	// Columns
	for col := 0; col < 5; col++ {
		complete := true
		for row := 0; row < 5; row++ {
			if !marked(row, col) {
				complete = false
				break
			}
		}
		if complete {
			return true
		}
	}

	// Diagonals
	complete := true
	for i := 0; i < 5; i++ {
		if !marked(i, i) {
			complete = false
			break
		}
	}
	if complete {
		return true
	}
	for i := 0; i < 5; i++ {
		if !marked(i, 4-i) {
			return false
		}
	}
	return true
}
