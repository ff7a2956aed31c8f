package entity

import (
	"iter"

	"github.com/elliotchance/orderedmap/v2"
)

// Registry holds every entity of the session keyed by id, in the order they joined. At most one
// entity in the registry is local.
type Registry struct {
	entities *orderedmap.OrderedMap[string, *Entity]
	localID  string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{entities: orderedmap.NewOrderedMap[string, *Entity]()}
}

// Add adds an entity, replacing any entity with the same id. Adding a local entity replaces the
// previous local entity. It returns the entity that was replaced, if any.
func (r *Registry) Add(e *Entity) (*Entity, bool) {
	if e.Local() && r.localID != "" && r.localID != e.ID() {
		r.Remove(r.localID)
	}
	old, replaced := r.entities.Get(e.ID())
	if replaced {
		// Re-adding moves the entity to the back, as if it joined again.
		r.entities.Delete(e.ID())
		if old.Local() && !e.Local() {
			r.localID = ""
		}
	}
	r.entities.Set(e.ID(), e)
	if e.Local() {
		r.localID = e.ID()
	}
	return old, replaced
}

// Remove removes the entity with the given id and returns it.
func (r *Registry) Remove(id string) (*Entity, bool) {
	e, ok := r.entities.Get(id)
	if !ok {
		return nil, false
	}
	r.entities.Delete(id)
	if id == r.localID {
		r.localID = ""
	}
	return e, true
}

// Get returns the entity with the given id.
func (r *Registry) Get(id string) (*Entity, bool) {
	return r.entities.Get(id)
}

// Local returns the local entity.
func (r *Registry) Local() (*Entity, bool) {
	if r.localID == "" {
		return nil, false
	}
	return r.entities.Get(r.localID)
}

// LocalID returns the id of the local entity, or an empty string if there is none.
func (r *Registry) LocalID() string {
	return r.localID
}

// All iterates every entity in join order.
func (r *Registry) All() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for el := r.entities.Front(); el != nil; el = el.Next() {
			if !yield(el.Value) {
				return
			}
		}
	}
}

// Remotes iterates every entity other than the local one in join order.
func (r *Registry) Remotes() iter.Seq[*Entity] {
	return func(yield func(*Entity) bool) {
		for e := range r.All() {
			if e.Local() {
				continue
			}
			if !yield(e) {
				return
			}
		}
	}
}

// IDs returns the ids of every entity in join order.
func (r *Registry) IDs() []string {
	return r.entities.Keys()
}

// Len returns the number of entities.
func (r *Registry) Len() int {
	return r.entities.Len()
}

// Clear removes every entity.
func (r *Registry) Clear() {
	r.entities = orderedmap.NewOrderedMap[string, *Entity]()
	r.localID = ""
}
