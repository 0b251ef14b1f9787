package ecs

import (
	"fmt"

	"github.com/milk9111/categories/ecs/component"
)

// Add attaches value to e, replacing any previous value of the same kind.
// Hooks see the replaced value removed before the new one is added.
func Add[T any](w *World, e Entity, kind component.ComponentKind[T], value *T) error {
	if w == nil {
		return fmt.Errorf("ecs: world is nil")
	}
	if !kind.Valid() {
		return component.ErrInvalidComponentKind
	}
	if value == nil {
		return component.ErrNilComponent
	}
	return w.addComponent(e, kind.ID(), value)
}

func Remove[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !IsAlive(w, e) {
		return false
	}
	return w.removeComponent(e, kind.ID())
}

func Has[T any](w *World, e Entity, kind component.ComponentKind[T]) bool {
	if w == nil || !IsAlive(w, e) {
		return false
	}
	return w.stores[kind.ID()].Has(e)
}

func Get[T any](w *World, e Entity, kind component.ComponentKind[T]) (*T, bool) {
	if w == nil || !IsAlive(w, e) {
		return nil, false
	}
	v, ok := w.stores[kind.ID()].Get(e).(*T)
	return v, ok && v != nil
}

// ForEach calls fn for every live entity holding the component kind. fn may
// add or remove components; entities destroyed during the walk are skipped.
func ForEach[T any](w *World, kind component.ComponentKind[T], fn func(Entity, *T)) {
	if w == nil || fn == nil {
		return
	}
	store, ok := w.stores[kind.ID()]
	if !ok {
		return
	}
	ents := append([]Entity(nil), store.Entities()...)
	for _, e := range ents {
		if v, ok := Get(w, e, kind); ok {
			fn(e, v)
		}
	}
}
