package game

import "testing"

func TestCatalogBounds(t *testing.T) {
	c := NewCatalog()
	for _, n := range []int{0, -1, CatalogSize + 1} {
		if _, ok := c.Card(n); ok {
			t.Errorf("Card(%d) should not exist", n)
		}
	}
	for _, n := range []int{1, CatalogSize} {
		if _, ok := c.Card(n); !ok {
			t.Errorf("Card(%d) should exist", n)
		}
	}
}

func TestCatalogDeterministic(t *testing.T) {
	a, b := NewCatalog(), NewCatalog()
	for n := 1; n <= CatalogSize; n++ {
		ca, _ := a.Card(n)
		cb, _ := b.Card(n)
		if ca != cb {
			t.Fatalf("card %d differs between catalogs", n)
		}
	}
}

func TestCatalogGrids(t *testing.T) {
	c := NewCatalog()
	for n := 1; n <= CatalogSize; n++ {
		card, _ := c.Card(n)
		if card[FreeRow][FreeCol] != 0 {
			t.Fatalf("card %d: center is %d, want free cell", n, card[FreeRow][FreeCol])
		}
		seen := make(map[int]bool)
		for row := 0; row < 5; row++ {
			for col := 0; col < 5; col++ {
				v := card[row][col]
				if row == FreeRow && col == FreeCol {
					continue
				}
				lo, hi := col*15+1, col*15+15
				if v < lo || v > hi {
					t.Fatalf("card %d: cell (%d,%d)=%d outside column range [%d,%d]", n, row, col, v, lo, hi)
				}
				if seen[v] {
					t.Fatalf("card %d: duplicate value %d", n, v)
				}
				seen[v] = true
			}
		}
	}
}
