package core

import (
	"context"
	"fmt"
	"sort"

	"github.com/vovakirdan/courtserver/internal/store"
)

// Registry is the fixed-capacity slot allocator for client sessions.
type Registry struct {
	slots      []bool
	clients    map[int]*Client
	identities store.IdentityStore
}

// NewRegistry creates a registry with limit slots.
func NewRegistry(limit int, identities store.IdentityStore) *Registry {
	if identities == nil {
		identities = store.NewMemoryIdentities()
	}
	return &Registry{
		slots:      make([]bool, limit),
		clients:    make(map[int]*Client, limit),
		identities: identities,
	}
}

// Allocate assigns the lowest free slot to conn.
func (r *Registry) Allocate(ctx context.Context, conn Conn) (*Client, error) {
	id := -1
	for i, used := range r.slots {
		if !used {
			id = i
			break
		}
	}
	if id < 0 {
		return nil, &CapacityError{Limit: len(r.slots)}
	}

	c := newClient(id, "", conn)
	ipid, err := r.identities.IPID(ctx, c.RealAddr())
	if err != nil {
		return nil, fmt.Errorf("resolve ipid: %w", err)
	}
	c.IPID = ipid

	r.slots[id] = true
	r.clients[id] = c
	return c, nil
}

// Release frees the client's slot.
func (r *Registry) Release(c *Client) {
	if cur, ok := r.clients[c.ID]; !ok || cur != c {
		return
	}
	r.slots[c.ID] = false
	delete(r.clients, c.ID)
}

// Get returns the client in slot id.
func (r *Registry) Get(id int) (*Client, bool) {
	c, ok := r.clients[id]
	return c, ok
}

// Limit returns the slot count.
func (r *Registry) Limit() int {
	return len(r.slots)
}

// Len returns the number of occupied slots.
func (r *Registry) Len() int {
	return len(r.clients)
}

// Clients returns every connected client ordered by id.
func (r *Registry) Clients() []*Client {
	out := make([]*Client, 0, len(r.clients))
	for _, c := range r.clients {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MutedClients returns clients muted in character.
func (r *Registry) MutedClients() []*Client {
	var out []*Client
	for _, c := range r.Clients() {
		if c.Muted {
			out = append(out, c)
		}
	}
	return out
}

// OOCMutedClients returns clients muted out of character.
func (r *Registry) OOCMutedClients() []*Client {
	var out []*Client
	for _, c := range r.Clients() {
		if c.OOCMuted {
			out = append(out, c)
		}
	}
	return out
}
