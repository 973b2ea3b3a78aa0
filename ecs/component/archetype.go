package component

// Archetype records the prefab a body was built from, for hot reload.
type Archetype struct {
	Prefab string
}

var ArchetypeComponent = NewComponent[Archetype]()
