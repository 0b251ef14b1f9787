package component

import "github.com/milk9111/categories/category"

// Category is the serialized category mask of an entity. Adding it registers
// the entity with the category system; removing it, or destroying the entity,
// deregisters it.
type Category struct {
	Mask category.Mask
}

var CategoryComponent = NewComponent[Category]()
