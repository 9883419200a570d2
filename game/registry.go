package game

import "sync"

// Registry owns the stake->Room map. It is built once at startup and
// handed to the transport layer; nothing references it as a global.
type Registry struct {
	cfg     Config
	catalog *Catalog
	ledger  Ledger
	sink    Persistence

	mu     sync.Mutex
	stakes map[int64]bool
	rooms  map[int64]*Room
}

func NewRegistry(cfg Config, catalog *Catalog, ledger Ledger, sink Persistence, stakes []int64) *Registry {
	allowed := make(map[int64]bool, len(stakes))
	for _, s := range stakes {
		allowed[s] = true
	}
	return &Registry{
		cfg:     cfg,
		catalog: catalog,
		ledger:  ledger,
		sink:    sink,
		stakes:  allowed,
		rooms:   make(map[int64]*Room),
	}
}

// Room returns the room for the stake tier, creating it on first
// reference. Unknown stakes are refused.
func (reg *Registry) Room(stake int64) (*Room, bool) {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	if !reg.stakes[stake] {
		return nil, false
	}
	room, ok := reg.rooms[stake]
	if !ok {
		room = NewRoom(stake, reg.cfg, reg.catalog, reg.ledger, reg.sink)
		reg.rooms[stake] = room
	}
	return room, true
}

// Rooms returns every room created so far.
func (reg *Registry) Rooms() []*Room {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]*Room, 0, len(reg.rooms))
	for _, r := range reg.rooms {
		out = append(out, r)
	}
	return out
}

// Stakes returns the configured stake tiers.
func (reg *Registry) Stakes() []int64 {
	reg.mu.Lock()
	defer reg.mu.Unlock()
	out := make([]int64, 0, len(reg.stakes))
	for s := range reg.stakes {
		out = append(out, s)
	}
	return out
}
