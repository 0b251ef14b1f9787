package category

import "sync"

// Synchronized guards a Registry with a single lock so registration and
// queries may come from several goroutines. Mutations are exclusive; queries
// share the read lock and see a consistent view.
type Synchronized[H comparable] struct {
	mu  sync.RWMutex
	reg *Registry[H]
}

// NewSynchronized wraps reg. reg must not be used directly afterwards.
func NewSynchronized[H comparable](reg *Registry[H]) *Synchronized[H] {
	return &Synchronized[H]{reg: reg}
}

// Register is Registry.Register under the write lock.
func (s *Synchronized[H]) Register(h H, m Mask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Register(h, m)
}

// Deregister is Registry.Deregister under the write lock.
func (s *Synchronized[H]) Deregister(h H, m Mask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Deregister(h, m)
}

// Reset is Registry.Reset under the write lock.
func (s *Synchronized[H]) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reg.Reset()
}

// IsOfCategoryMask is Registry.IsOfCategoryMask under the read lock. It
// shares the same handle-blind behaviour.
func (s *Synchronized[H]) IsOfCategoryMask(h H, m Mask) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.IsOfCategoryMask(h, m)
}

// IsOfCategory is Registry.IsOfCategory under the read lock.
func (s *Synchronized[H]) IsOfCategory(h H, name string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.IsOfCategory(h, name)
}

// FindFirst is Registry.FindFirst under the read lock.
func (s *Synchronized[H]) FindFirst(name string, includeInactive bool) (H, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.FindFirst(name, includeInactive)
}

// FindAll is Registry.FindAll under the read lock. The returned slice is
// a copy and may be used after the lock is released.
func (s *Synchronized[H]) FindAll(name string, includeInactive bool) []H {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.FindAll(name, includeInactive)
}

// Count is Registry.Count under the read lock.
func (s *Synchronized[H]) Count(name string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.reg.Count(name)
}
