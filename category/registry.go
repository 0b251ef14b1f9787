package category

import (
	"slices"

	"go.uber.org/zap"
)

// Objects is the host's view of the handles stored in a Registry.
type Objects[H comparable] interface {
	// Exists reports whether h still refers to a live object. Destroyed or
	// zero handles do not exist.
	Exists(h H) bool
	// IsActive is the liveness predicate consulted by the find queries.
	IsActive(h H) bool
}

// Registry indexes object handles by category bit. It keeps one ordered
// slot per bit position and holds handles without owning the objects.
//
// A Registry is not safe for concurrent use; see Synchronized.
type Registry[H comparable] struct {
	table   *Table
	objects Objects[H]
	log     *zap.Logger
	slots   [MaxCategories][]H
}

// NewRegistry creates an empty registry over a loaded table. A nil logger
// disables debug output.
func NewRegistry[H comparable](table *Table, objects Objects[H], log *zap.Logger) *Registry[H] {
	if log == nil {
		log = zap.NewNop()
	}
	return &Registry[H]{
		table:   table,
		objects: objects,
		log:     log.Named("category"),
	}
}

// Table returns the name table the registry resolves categories against.
func (r *Registry[H]) Table() *Table {
	if r == nil {
		return nil
	}
	return r.table
}

// Register appends h to the slot of every bit set in m. Bits with no name in
// the table are ignored. Registering twice stores h twice.
func (r *Registry[H]) Register(h H, m Mask) {
	if r == nil {
		return
	}
	for i := range r.table.Len() {
		if !m.Has(i) {
			continue
		}
		r.slots[i] = append(r.slots[i], h)
		if ce := r.log.Check(zap.DebugLevel, "registered object"); ce != nil {
			name, _ := r.table.Name(i)
			ce.Write(zap.Any("object", h), zap.String("category", name))
		}
	}
}

// Deregister removes one occurrence of h from the slot of every bit set in
// m. It must be given the mask h was registered with.
func (r *Registry[H]) Deregister(h H, m Mask) {
	if r == nil {
		return
	}
	for i := range r.table.Len() {
		if !m.Has(i) {
			continue
		}
		idx := slices.Index(r.slots[i], h)
		if idx < 0 {
			continue
		}
		r.slots[i] = slices.Delete(r.slots[i], idx, idx+1)
		if ce := r.log.Check(zap.DebugLevel, "deregistered object"); ce != nil {
			name, _ := r.table.Name(i)
			ce.Write(zap.Any("object", h), zap.String("category", name))
		}
	}
}

// IsOfCategoryMask reports whether any slot selected by m holds at least one
// handle.
//
// Suspect: h is never consulted, so the answer is about the whole registry
// rather than about h. Callers wanting membership of h should use
// IsOfCategory.
func (r *Registry[H]) IsOfCategoryMask(h H, m Mask) bool {
	if r == nil {
		return false
	}
	for _, i := range m.Bits() {
		if len(r.slots[i]) > 0 {
			return true
		}
	}
	return false
}

// IsOfCategory reports whether h is registered under the named category.
func (r *Registry[H]) IsOfCategory(h H, name string) bool {
	slot, ok := r.slot(name)
	if !ok {
		return false
	}
	return slices.Contains(slot, h)
}

// FindFirst returns the earliest registered handle of the category that
// still exists and, unless includeInactive is set, is active.
func (r *Registry[H]) FindFirst(name string, includeInactive bool) (H, bool) {
	var zero H
	slot, ok := r.slot(name)
	if !ok {
		return zero, false
	}
	for _, h := range slot {
		if r.qualifies(h, includeInactive) {
			return h, true
		}
	}
	return zero, false
}

// FindAll returns every qualifying handle of the category in registration
// order. The result is empty, never nil, when nothing matches.
func (r *Registry[H]) FindAll(name string, includeInactive bool) []H {
	slot, ok := r.slot(name)
	if !ok {
		return []H{}
	}
	out := make([]H, 0, len(slot))
	for _, h := range slot {
		if r.qualifies(h, includeInactive) {
			out = append(out, h)
		}
	}
	return out
}

// Count is the raw number of entries under the category, duplicates and
// destroyed handles included.
func (r *Registry[H]) Count(name string) int {
	slot, _ := r.slot(name)
	return len(slot)
}

// Reset drops every registration.
func (r *Registry[H]) Reset() {
	if r == nil {
		return
	}
	for i := range r.slots {
		r.slots[i] = nil
	}
}

func (r *Registry[H]) slot(name string) ([]H, bool) {
	if r == nil {
		return nil, false
	}
	i, ok := r.table.Index(name)
	if !ok {
		return nil, false
	}
	return r.slots[i], true
}

func (r *Registry[H]) qualifies(h H, includeInactive bool) bool {
	var zero H
	if h == zero {
		return false
	}
	if r.objects == nil {
		return true
	}
	if !r.objects.Exists(h) {
		return false
	}
	return includeInactive || r.objects.IsActive(h)
}
