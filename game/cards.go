package game

import "math/rand"

// Cartella is a fixed 5x5 bingo grid. Columns follow the classic
// ranges (B 1-15, I 16-30, N 31-45, G 46-60, O 61-75) and the center
// cell is the free space, stored as 0.
type Cartella [5][5]int

const (
	CatalogSize = 100
	FreeRow     = 2
	FreeCol     = 2
	MaxNumber   = 75
)

// Catalog is the fixed pool of cartellas players reserve from,
// indexed by card number 1..CatalogSize. Generation is seeded by the
// card number, so every process builds the identical pool.
type Catalog struct {
	cards [CatalogSize]Cartella
}

func NewCatalog() *Catalog {
	c := &Catalog{}
	for n := 1; n <= CatalogSize; n++ {
		c.cards[n-1] = buildCartella(n)
	}
	return c
}

// Card looks up a cartella by card number.
func (c *Catalog) Card(number int) (Cartella, bool) {
	if number < 1 || number > CatalogSize {
		return Cartella{}, false
	}
	return c.cards[number-1], true
}

func buildCartella(cardNumber int) Cartella {
	rng := rand.New(rand.NewSource(int64(cardNumber)))

	var card Cartella
	for col := 0; col < 5; col++ {
		pool := make([]int, 15)
		for i := range pool {
			pool[i] = col*15 + i + 1
		}
		rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
		for row := 0; row < 5; row++ {
			card[row][col] = pool[row]
		}
	}
	card[FreeRow][FreeCol] = 0
	return card
}
