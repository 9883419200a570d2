package game

import (
	"math/rand"
	"sync"
	"time"
)

// numberCaller draws the 75-value domain without replacement on a
// fixed cadence. One caller serves exactly one round.
type numberCaller struct {
	order    []int
	interval time.Duration

	stopOnce sync.Once
	stop     chan struct{}
}

func newNumberCaller(rng *rand.Rand, interval time.Duration) *numberCaller {
	order := make([]int, MaxNumber)
	for i := range order {
		order[i] = i + 1
	}
	rng.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })
	return &numberCaller{
		order:    order,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Stop signals the draw loop to quit. Safe to call more than once and
// from any goroutine.
func (nc *numberCaller) Stop() {
	nc.stopOnce.Do(func() { close(nc.stop) })
}

// run emits one number per interval until the pool is exhausted, emit
// returns false, or Stop is called. Runs on its own goroutine.
func (nc *numberCaller) run(emit func(number int) bool) {
	ticker := time.NewTicker(nc.interval)
	defer ticker.Stop()

	for _, n := range nc.order {
		select {
		case <-nc.stop:
			return
		case <-ticker.C:
			if !emit(n) {
				return
			}
		}
	}
}
