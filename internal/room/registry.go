package room

// Registry owns the map from room id to live room state. Rooms are created
// lazily on first join and removed the moment they empty out; the map never
// holds a memberless room.
//
// The registry takes no locks. Every call happens on the hub's single
// dispatch goroutine, so access is serialized structurally.
type Registry struct {
	rooms map[string]*Room
}

// NewRegistry returns an empty registry. Construct one per process (or per
// test) and hand it to the event router; it is never a package global.
func NewRegistry() *Registry {
	return &Registry{rooms: make(map[string]*Room)}
}

// GetOrCreate returns the room with the given id, creating it with an empty
// roster and the default timer if it does not exist yet.
func (g *Registry) GetOrCreate(id string) *Room {
	r, ok := g.rooms[id]
	if !ok {
		r = NewRoom(id)
		g.rooms[id] = r
	}
	return r
}

// Get returns the room with the given id, if present.
func (g *Registry) Get(id string) (*Room, bool) {
	r, ok := g.rooms[id]
	return r, ok
}

// Remove deletes the room with the given id. Removing an absent id is a
// no-op. A removed id can be reused later for a brand-new room.
func (g *Registry) Remove(id string) {
	delete(g.rooms, id)
}

// Len returns the number of live rooms.
func (g *Registry) Len() int { return len(g.rooms) }
