package system

import (
	"github.com/milk9111/categories/category"
	"github.com/milk9111/categories/ecs"
	"github.com/milk9111/categories/ecs/component"
)

// CategorySystem keeps a category registry in step with entity lifecycle.
// It registers an entity when its Category component is added and
// deregisters it, with the mask recorded at registration, when the component
// is removed or the entity is destroyed.
type CategorySystem struct {
	registry   *category.Registry[ecs.Entity]
	registered map[ecs.Entity]category.Mask
}

// NewCategorySystem hooks reg into w. Entities already carrying a Category
// component are registered immediately, in creation order.
func NewCategorySystem(w *ecs.World, reg *category.Registry[ecs.Entity]) *CategorySystem {
	s := &CategorySystem{
		registry:   reg,
		registered: map[ecs.Entity]category.Mask{},
	}
	if w == nil {
		return s
	}
	for _, e := range ecs.Entities(w) {
		if c, ok := ecs.Get(w, e, component.CategoryComponent.Kind()); ok {
			s.register(e, c.Mask)
		}
	}
	w.AddHook(s)
	return s
}

// Update re-registers entities whose Category mask was edited in place since
// they were registered. A re-registered entity moves to the end of its slots.
func (s *CategorySystem) Update(w *ecs.World) {
	if s == nil {
		return
	}
	ecs.ForEach(w, component.CategoryComponent.Kind(), func(e ecs.Entity, c *component.Category) {
		if m, ok := s.registered[e]; !ok || m != c.Mask {
			s.register(e, c.Mask)
		}
	})
}

func (s *CategorySystem) ComponentAdded(w *ecs.World, e ecs.Entity, id component.ComponentID, value any) {
	if id != component.CategoryComponent.Kind().ID() {
		return
	}
	c, ok := value.(*component.Category)
	if !ok || c == nil {
		return
	}
	s.register(e, c.Mask)
}

func (s *CategorySystem) ComponentRemoved(w *ecs.World, e ecs.Entity, id component.ComponentID, _ any) {
	if id != component.CategoryComponent.Kind().ID() {
		return
	}
	s.deregister(e)
}

func (s *CategorySystem) register(e ecs.Entity, m category.Mask) {
	s.deregister(e)
	s.registry.Register(e, m)
	s.registered[e] = m
}

func (s *CategorySystem) deregister(e ecs.Entity) {
	m, ok := s.registered[e]
	if !ok {
		return
	}
	s.registry.Deregister(e, m)
	delete(s.registered, e)
}

// Registry exposes the underlying registry for direct queries.
func (s *CategorySystem) Registry() *category.Registry[ecs.Entity] {
	return s.registry
}

// Mask returns the mask e was registered with.
func (s *CategorySystem) Mask(e ecs.Entity) (category.Mask, bool) {
	m, ok := s.registered[e]
	return m, ok
}

func (s *CategorySystem) IsOfCategory(e ecs.Entity, name string) bool {
	return s.registry.IsOfCategory(e, name)
}

func (s *CategorySystem) IsOfCategoryMask(e ecs.Entity, m category.Mask) bool {
	return s.registry.IsOfCategoryMask(e, m)
}

func (s *CategorySystem) FindFirst(name string, includeInactive bool) (ecs.Entity, bool) {
	return s.registry.FindFirst(name, includeInactive)
}

func (s *CategorySystem) FindAll(name string, includeInactive bool) []ecs.Entity {
	return s.registry.FindAll(name, includeInactive)
}

// WorldObjects adapts a world to the registry's object view: an entity
// exists while it is alive and is active unless tagged Inactive.
func WorldObjects(w *ecs.World) category.Objects[ecs.Entity] {
	return worldObjects{world: w}
}

type worldObjects struct {
	world *ecs.World
}

func (o worldObjects) Exists(e ecs.Entity) bool {
	return ecs.IsAlive(o.world, e)
}

func (o worldObjects) IsActive(e ecs.Entity) bool {
	return ecs.IsAlive(o.world, e) && !ecs.Has(o.world, e, component.InactiveComponent.Kind())
}
