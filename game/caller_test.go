package game

import (
	"math/rand"
	"testing"
	"time"
)

func TestCallerDrawsWithoutReplacement(t *testing.T) {
	nc := newNumberCaller(rand.New(rand.NewSource(1)), time.Microsecond)

	var drawn []int
	nc.run(func(n int) bool {
		drawn = append(drawn, n)
		return true
	})

	if len(drawn) != MaxNumber {
		t.Fatalf("drew %d numbers, want %d", len(drawn), MaxNumber)
	}
	seen := make(map[int]bool, MaxNumber)
	for _, n := range drawn {
		if n < 1 || n > MaxNumber {
			t.Fatalf("drew out-of-domain number %d", n)
		}
		if seen[n] {
			t.Fatalf("drew %d twice", n)
		}
		seen[n] = true
	}
}

func TestCallerStopsOnEmitFalse(t *testing.T) {
	nc := newNumberCaller(rand.New(rand.NewSource(2)), time.Microsecond)

	count := 0
	nc.run(func(n int) bool {
		count++
		return count < 10
	})

	if count != 10 {
		t.Fatalf("emitted %d numbers after stop request, want 10", count)
	}
}

func TestCallerStopSignal(t *testing.T) {
	nc := newNumberCaller(rand.New(rand.NewSource(3)), time.Hour)

	done := make(chan struct{})
	go func() {
		nc.run(func(n int) bool { return true })
		close(done)
	}()

	nc.Stop()
	nc.Stop() // idempotent

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("caller did not stop")
	}
}
