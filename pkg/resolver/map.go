package resolver

import (
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/names"
)

// Property is a resolved property declaration. DataType is the declared type
// for created properties and the externally authoritative type for linked
// ones.
type Property struct {
	Name       string
	Resolution Resolution
	DataType   graph.DataType
}

// Type is a resolved type declaration. DefaultProperties carries the declared
// default property names, resolved lazily at batch-build time.
type Type struct {
	Name              string
	Resolution        Resolution
	DefaultProperties []string
}

// Entity is a resolved entity. TypeIDs is the union of resolved declared
// types and, for linked entities, the externally known type list. An entity
// with no TypeIDs cannot be created and is excluded from mutation batches.
type Entity struct {
	Name       string
	Resolution Resolution
	TypeIDs    []graph.ID
	// TypeNames is the union of declared type names across every tab the
	// entity appeared in.
	TypeNames []string
	// MultiType marks entities that ended up with more than one type after
	// unioning declarations; surfaced as its own report category.
	MultiType bool
	// Declared is false for names that only ever appeared as relation
	// targets.
	Declared bool
	// Decl is the merged declaration. Zero-valued when Declared is false.
	Decl graph.EntityDeclaration
}

// Map is the read-only outcome of name resolution: every declared or
// referenced name mapped to its definitive resolution. Built once per run.
type Map struct {
	types      map[names.Normalized]*Type
	properties map[names.Normalized]*Property
	entities   map[names.Normalized]*Entity

	// first-appearance order, for deterministic batch emission
	typeOrder     []names.Normalized
	propertyOrder []names.Normalized
	entityOrder   []names.Normalized
}

func newMap() *Map {
	return &Map{
		types:      make(map[names.Normalized]*Type),
		properties: make(map[names.Normalized]*Property),
		entities:   make(map[names.Normalized]*Entity),
	}
}

// Type looks up a type resolution by raw name.
func (m *Map) Type(name string) (*Type, bool) {
	t, ok := m.types[names.Normalize(name)]
	return t, ok
}

// Property looks up a property resolution by raw name.
func (m *Map) Property(name string) (*Property, bool) {
	p, ok := m.properties[names.Normalize(name)]
	return p, ok
}

// Entity looks up an entity resolution by raw name.
func (m *Map) Entity(name string) (*Entity, bool) {
	e, ok := m.entities[names.Normalize(name)]
	return e, ok
}

// Types returns every resolved type in first-appearance order.
func (m *Map) Types() []*Type {
	out := make([]*Type, 0, len(m.typeOrder))
	for _, k := range m.typeOrder {
		out = append(out, m.types[k])
	}
	return out
}

// Properties returns every resolved property in first-appearance order.
func (m *Map) Properties() []*Property {
	out := make([]*Property, 0, len(m.propertyOrder))
	for _, k := range m.propertyOrder {
		out = append(out, m.properties[k])
	}
	return out
}

// Entities returns every resolved entity in first-appearance order.
func (m *Map) Entities() []*Entity {
	out := make([]*Entity, 0, len(m.entityOrder))
	for _, k := range m.entityOrder {
		out = append(out, m.entities[k])
	}
	return out
}

func (m *Map) addType(key names.Normalized, t *Type) {
	if _, exists := m.types[key]; !exists {
		m.typeOrder = append(m.typeOrder, key)
	}
	m.types[key] = t
}

func (m *Map) addProperty(key names.Normalized, p *Property) {
	if _, exists := m.properties[key]; !exists {
		m.propertyOrder = append(m.propertyOrder, key)
	}
	m.properties[key] = p
}

func (m *Map) addEntity(key names.Normalized, e *Entity) {
	if _, exists := m.entities[key]; !exists {
		m.entityOrder = append(m.entityOrder, key)
	}
	m.entities[key] = e
}
