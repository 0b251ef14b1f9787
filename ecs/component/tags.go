package component

// Inactive marks an entity as switched off. Inactive entities stay registered
// but are skipped by category finds unless inactive entities are requested.
type Inactive struct{}

var InactiveComponent = NewComponent[Inactive]()
