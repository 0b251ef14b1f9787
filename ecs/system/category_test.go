package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/categories/category"
	"github.com/milk9111/categories/ecs"
	"github.com/milk9111/categories/ecs/component"
)

func newCategoryWorld(t *testing.T, names ...string) (*ecs.World, *CategorySystem) {
	t.Helper()
	table, err := category.NewTable(names...)
	require.NoError(t, err)
	w := ecs.NewWorld()
	reg := category.NewRegistry(table, WorldObjects(w), nil)
	return w, NewCategorySystem(w, reg)
}

func spawn(t *testing.T, w *ecs.World, m category.Mask) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.CategoryComponent.Kind(), &component.Category{Mask: m}))
	return e
}

func TestCategorySystemLifecycle(t *testing.T) {
	w, s := newCategoryWorld(t, "Enemy", "Item")

	e := spawn(t, w, 0b01)
	assert.True(t, s.IsOfCategory(e, "Enemy"))
	assert.False(t, s.IsOfCategory(e, "Item"))

	require.True(t, ecs.DestroyEntity(w, e))
	assert.False(t, s.IsOfCategory(e, "Enemy"))
	assert.Zero(t, s.Registry().Count("Enemy"))
	_, ok := s.Mask(e)
	assert.False(t, ok)
}

func TestCategorySystemUsesRegisteredMaskOnDestroy(t *testing.T) {
	w, s := newCategoryWorld(t, "Enemy", "Item")
	e := spawn(t, w, 0b11)

	// Editing the stored component in place must not strand registrations.
	c, ok := ecs.Get(w, e, component.CategoryComponent.Kind())
	require.True(t, ok)
	c.Mask = 0b01

	require.True(t, ecs.DestroyEntity(w, e))
	assert.Zero(t, s.Registry().Count("Enemy"))
	assert.Zero(t, s.Registry().Count("Item"))
}

func TestCategorySystemUpdateSyncsInPlaceEdits(t *testing.T) {
	w, s := newCategoryWorld(t, "Enemy", "Item")
	w.AddSystem(s)
	a := spawn(t, w, 0b01)
	b := spawn(t, w, 0b01)

	c, ok := ecs.Get(w, a, component.CategoryComponent.Kind())
	require.True(t, ok)
	c.Mask = 0b10
	assert.True(t, s.IsOfCategory(a, "Enemy"), "registration follows the recorded mask until Update")

	w.Update()
	assert.False(t, s.IsOfCategory(a, "Enemy"))
	assert.True(t, s.IsOfCategory(a, "Item"))
	assert.Equal(t, []ecs.Entity{b}, s.FindAll("Enemy", false))
	m, _ := s.Mask(a)
	assert.Equal(t, category.Mask(0b10), m)

	// Unchanged entities keep their place.
	w.Update()
	assert.Equal(t, 1, s.Registry().Count("Enemy"))
	assert.Equal(t, 1, s.Registry().Count("Item"))
}

func TestCategorySystemReaddReregisters(t *testing.T) {
	w, s := newCategoryWorld(t, "Enemy", "Item")
	e := spawn(t, w, 0b01)

	require.NoError(t, ecs.Add(w, e, component.CategoryComponent.Kind(), &component.Category{Mask: 0b10}))
	assert.False(t, s.IsOfCategory(e, "Enemy"))
	assert.True(t, s.IsOfCategory(e, "Item"))
	assert.Equal(t, 1, s.Registry().Count("Item"))

	m, ok := s.Mask(e)
	assert.True(t, ok)
	assert.Equal(t, category.Mask(0b10), m)
}

func TestCategorySystemRemoveComponent(t *testing.T) {
	w, s := newCategoryWorld(t, "Enemy")
	e := spawn(t, w, 0b1)

	require.True(t, ecs.Remove(w, e, component.CategoryComponent.Kind()))
	assert.False(t, s.IsOfCategory(e, "Enemy"))
	assert.True(t, ecs.IsAlive(w, e))
}

func TestCategorySystemRegistersExistingEntities(t *testing.T) {
	table, err := category.NewTable("Enemy")
	require.NoError(t, err)
	w := ecs.NewWorld()
	a := spawn(t, w, 0b1)
	b := spawn(t, w, 0b1)

	s := NewCategorySystem(w, category.NewRegistry(table, WorldObjects(w), nil))
	assert.Equal(t, []ecs.Entity{a, b}, s.FindAll("Enemy", false))
}

func TestCategorySystemFind(t *testing.T) {
	w, s := newCategoryWorld(t, "Enemy", "Item")
	first := spawn(t, w, 0b01)
	second := spawn(t, w, 0b11)
	third := spawn(t, w, 0b01)
	require.NoError(t, ecs.Add(w, first, component.InactiveComponent.Kind(), &component.Inactive{}))

	got, ok := s.FindFirst("Enemy", false)
	require.True(t, ok)
	assert.Equal(t, second, got)

	got, ok = s.FindFirst("Enemy", true)
	require.True(t, ok)
	assert.Equal(t, first, got)

	assert.Equal(t, []ecs.Entity{second, third}, s.FindAll("Enemy", false))
	assert.Equal(t, []ecs.Entity{first, second, third}, s.FindAll("Enemy", true))
	assert.Equal(t, []ecs.Entity{second}, s.FindAll("Item", false))
	assert.Empty(t, s.FindAll("Door", true))

	assert.True(t, s.IsOfCategoryMask(third, 0b10))
}

func TestWorldObjects(t *testing.T) {
	w := ecs.NewWorld()
	objs := WorldObjects(w)
	e := ecs.CreateEntity(w)

	assert.True(t, objs.Exists(e))
	assert.True(t, objs.IsActive(e))

	require.NoError(t, ecs.Add(w, e, component.InactiveComponent.Kind(), &component.Inactive{}))
	assert.True(t, objs.Exists(e))
	assert.False(t, objs.IsActive(e))

	ecs.DestroyEntity(w, e)
	assert.False(t, objs.Exists(e))
	assert.False(t, objs.IsActive(e))
	assert.False(t, objs.Exists(0))
}
