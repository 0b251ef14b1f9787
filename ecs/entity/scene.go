package entity

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/milk9111/categories/category"
	"github.com/milk9111/categories/ecs"
	"github.com/milk9111/categories/ecs/component"
)

// SceneSpec is a flat list of entities to spawn, in order.
type SceneSpec struct {
	Entities []EntitySpec `yaml:"entities"`
}

// EntitySpec describes one entity. Categories are resolved by name against
// the loaded table and ORed with Mask, which carries raw bits.
type EntitySpec struct {
	Name       string   `yaml:"name"`
	Categories []string `yaml:"categories"`
	Mask       uint32   `yaml:"mask"`
	Inactive   bool     `yaml:"inactive"`
}

func LoadScene(path string) (*SceneSpec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("scene: load %s: %w", path, err)
	}
	var spec SceneSpec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("scene: unmarshal %s: %w", path, err)
	}
	return &spec, nil
}

// BuildScene spawns the scene's entities into w. On error the entities
// spawned so far are destroyed again.
func BuildScene(w *ecs.World, table *category.Table, spec *SceneSpec) ([]ecs.Entity, error) {
	if w == nil {
		return nil, fmt.Errorf("build scene: world is nil")
	}
	if spec == nil {
		return nil, nil
	}

	out := make([]ecs.Entity, 0, len(spec.Entities))
	for i, es := range spec.Entities {
		e, err := BuildEntity(w, table, es)
		if err != nil {
			for _, built := range out {
				ecs.DestroyEntity(w, built)
			}
			return nil, fmt.Errorf("build scene: entity %d (%q): %w", i, es.Name, err)
		}
		out = append(out, e)
	}
	return out, nil
}

// BuildEntity spawns one entity. The Category component goes on last so the
// entity is complete when it is registered.
func BuildEntity(w *ecs.World, table *category.Table, spec EntitySpec) (ecs.Entity, error) {
	mask, err := table.MaskOf(spec.Categories...)
	if err != nil {
		return 0, fmt.Errorf("resolve categories: %w", err)
	}
	mask |= category.Mask(spec.Mask)

	e := ecs.CreateEntity(w)
	if spec.Name != "" {
		if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Name}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("add name: %w", err)
		}
	}
	if spec.Inactive {
		if err := ecs.Add(w, e, component.InactiveComponent.Kind(), &component.Inactive{}); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("add inactive: %w", err)
		}
	}
	if err := ecs.Add(w, e, component.CategoryComponent.Kind(), &component.Category{Mask: mask}); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("add category: %w", err)
	}
	return e, nil
}

// DisplayName returns the entity's Name, or its id when it has none.
func DisplayName(w *ecs.World, e ecs.Entity) string {
	if n, ok := ecs.Get(w, e, component.NameComponent.Kind()); ok && n.Value != "" {
		return n.Value
	}
	return "#" + e.String()
}
