package session

import (
	"sort"
	"sync"

	"github.com/mcoot/minesboomer/internal/dependencies/ids"
	"github.com/mcoot/minesboomer/internal/model"
)

// Directory maps connections to the player identified on them.
// The map is guarded by its own lock; PlayerRef fields are guarded by the
// Registry lock, which is always taken first.
type Directory struct {
	mu      sync.RWMutex
	players map[model.ConnectionID]*model.PlayerRef
	order   map[model.ConnectionID]int
	seq     int
	ids     ids.Generator
}

// NewDirectory creates an empty Directory
func NewDirectory(idgen ids.Generator) *Directory {
	return &Directory{
		players: make(map[model.ConnectionID]*model.PlayerRef),
		order:   make(map[model.ConnectionID]int),
		ids:     idgen,
	}
}

// Get returns the player identified on conn
func (d *Directory) Get(conn model.ConnectionID) (*model.PlayerRef, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	p, ok := d.players[conn]
	return p, ok
}

// Add creates a player with a fresh id for conn
func (d *Directory) Add(conn model.ConnectionID, displayName string) *model.PlayerRef {
	p := &model.PlayerRef{
		ID:           model.PlayerID(d.ids.NewID()),
		DisplayName:  displayName,
		ConnectionID: conn,
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.seq++
	d.players[conn] = p
	d.order[conn] = d.seq
	return p
}

// Remove forgets the player identified on conn
func (d *Directory) Remove(conn model.ConnectionID) (*model.PlayerRef, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	p, ok := d.players[conn]
	if ok {
		delete(d.players, conn)
		delete(d.order, conn)
	}
	return p, ok
}

// Idle returns the players not in any session, in identification order
func (d *Directory) Idle() []*model.PlayerRef {
	d.mu.RLock()
	defer d.mu.RUnlock()
	var idle []*model.PlayerRef
	for _, p := range d.players {
		if !p.InSession() {
			idle = append(idle, p)
		}
	}
	sort.Slice(idle, func(i, j int) bool {
		return d.order[idle[i].ConnectionID] < d.order[idle[j].ConnectionID]
	})
	return idle
}

// Count returns the number of identified players
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.players)
}
