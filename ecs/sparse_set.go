package ecs

// SparseSet is a cache-friendly storage for one component kind keyed by
// entity slot. Values are stored as `any`; the typed helpers in generics.go
// recover them.
type SparseSet struct {
	denseEntities []Entity
	denseValues   []any
	sparse        []int
}

// Has returns true if the entity has a value in the set.
func (s *SparseSet) Has(e Entity) bool {
	if s == nil {
		return false
	}
	idx, ok := s.index(e)
	return ok && s.denseEntities[idx] == e
}

// Get returns the value for e, or nil.
func (s *SparseSet) Get(e Entity) any {
	if !s.Has(e) {
		return nil
	}
	idx, _ := s.index(e)
	return s.denseValues[idx]
}

// Set inserts or replaces the value for e. It returns the replaced value.
func (s *SparseSet) Set(e Entity, v any) (any, bool) {
	if s == nil || !e.Valid() {
		return nil, false
	}
	slot := int(e.id())
	for len(s.sparse) < slot {
		s.sparse = append(s.sparse, -1)
	}
	if s.Has(e) {
		idx := s.sparse[slot-1]
		prev := s.denseValues[idx]
		s.denseValues[idx] = v
		return prev, true
	}
	s.denseEntities = append(s.denseEntities, e)
	s.denseValues = append(s.denseValues, v)
	s.sparse[slot-1] = len(s.denseEntities) - 1
	return nil, false
}

// Remove deletes the value for e if present and returns it.
func (s *SparseSet) Remove(e Entity) (any, bool) {
	if !s.Has(e) {
		return nil, false
	}
	slot := int(e.id())
	idx := s.sparse[slot-1]
	removed := s.denseValues[idx]
	last := len(s.denseEntities) - 1
	lastEntity := s.denseEntities[last]

	s.denseEntities[idx] = lastEntity
	s.denseValues[idx] = s.denseValues[last]
	s.sparse[int(lastEntity.id())-1] = idx

	s.denseEntities = s.denseEntities[:last]
	s.denseValues = s.denseValues[:last]
	s.sparse[slot-1] = -1
	return removed, true
}

// Entities returns the dense entity list.
func (s *SparseSet) Entities() []Entity {
	if s == nil {
		return nil
	}
	return s.denseEntities
}

func (s *SparseSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.denseEntities)
}

func (s *SparseSet) index(e Entity) (int, bool) {
	slot := int(e.id())
	if slot <= 0 || slot > len(s.sparse) {
		return 0, false
	}
	idx := s.sparse[slot-1]
	if idx < 0 || idx >= len(s.denseEntities) {
		return 0, false
	}
	return idx, true
}
