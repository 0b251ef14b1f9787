package ecs

import (
	"fmt"
	"slices"

	"github.com/milk9111/categories/ecs/component"
)

// System updates a world each frame.
type System interface {
	Update(w *World)
}

// Hook observes component lifecycle. Destroying an entity removes each of
// its components, so hooks also see entity teardown.
type Hook interface {
	ComponentAdded(w *World, e Entity, id component.ComponentID, value any)
	ComponentRemoved(w *World, e Entity, id component.ComponentID, value any)
}

// World owns entities, component stores, hooks and system order.
type World struct {
	entities entityStore
	stores   map[component.ComponentID]*SparseSet
	order    []component.ComponentID
	hooks    []Hook
	systems  []System
}

// NewWorld creates an empty ECS world.
func NewWorld() *World {
	return &World{stores: map[component.ComponentID]*SparseSet{}}
}

// AddSystem appends a system to the update order.
func (w *World) AddSystem(s System) {
	if w == nil || s == nil {
		return
	}
	w.systems = append(w.systems, s)
}

// AddHook registers a lifecycle observer. Hooks run in registration order.
func (w *World) AddHook(h Hook) {
	if w == nil || h == nil {
		return
	}
	w.hooks = append(w.hooks, h)
}

// Update runs all systems once.
func (w *World) Update() {
	if w == nil {
		return
	}
	for _, s := range w.systems {
		if s != nil {
			s.Update(w)
		}
	}
}

func CreateEntity(w *World) Entity {
	if w == nil {
		return 0
	}
	return w.entities.create()
}

// DestroyEntity removes every component of e, newest kind first, and then
// frees the entity. It returns false when e is not alive.
func DestroyEntity(w *World, e Entity) bool {
	if w == nil || !w.entities.isAlive(e) {
		return false
	}
	for _, id := range slices.Backward(w.order) {
		w.removeComponent(e, id)
	}
	return w.entities.destroy(e)
}

func IsAlive(w *World, e Entity) bool {
	if w == nil {
		return false
	}
	return w.entities.isAlive(e)
}

// Entities returns the live entities in creation order.
func Entities(w *World) []Entity {
	if w == nil {
		return nil
	}
	return slices.Clone(w.entities.live)
}

func (w *World) addComponent(e Entity, id component.ComponentID, value any) error {
	if !w.entities.isAlive(e) {
		return fmt.Errorf("%w: %s", component.ErrEntityNotAlive, e)
	}
	store := w.store(id)
	if prev, replaced := store.Set(e, value); replaced {
		for _, h := range w.hooks {
			h.ComponentRemoved(w, e, id, prev)
		}
	}
	for _, h := range w.hooks {
		h.ComponentAdded(w, e, id, value)
	}
	return nil
}

func (w *World) removeComponent(e Entity, id component.ComponentID) bool {
	store, ok := w.stores[id]
	if !ok {
		return false
	}
	prev, ok := store.Remove(e)
	if !ok {
		return false
	}
	for _, h := range w.hooks {
		h.ComponentRemoved(w, e, id, prev)
	}
	return true
}

func (w *World) store(id component.ComponentID) *SparseSet {
	if w.stores == nil {
		w.stores = map[component.ComponentID]*SparseSet{}
	}
	s, ok := w.stores[id]
	if !ok {
		s = &SparseSet{}
		w.stores[id] = s
		w.order = append(w.order, id)
	}
	return s
}
