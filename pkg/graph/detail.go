package graph

// Value is a typed scalar value in its canonical serialized form.
type Value struct {
	Type  DataType `json:"type"`
	Value string   `json:"value"`
}

// TripleValue is one stored (property, value) pair on a live entity. An
// entity may hold several values for the same property id.
type TripleValue struct {
	PropertyID ID    `json:"propertyId"`
	Value      Value `json:"value"`
}

// RelationRecord is one live relation edge. The record has its own identity,
// distinct from either endpoint; deleting the record deletes only the edge.
type RelationRecord struct {
	ID         ID `json:"id"`
	TypeID     ID `json:"typeId"`
	FromEntity ID `json:"fromEntity"`
	ToEntity   ID `json:"toEntity"`
}

// EntityDetail is the live state of one remote entity, as returned by the
// detail-fetch collaborator.
type EntityDetail struct {
	ID     ID            `json:"id"`
	Name   string        `json:"name"`
	Values []TripleValue `json:"values"`
	// Relations are the entity's outgoing edges, type assignments included.
	Relations []RelationRecord `json:"relations"`
	// Backlinks are incoming edges: records where this entity is the target.
	Backlinks []RelationRecord `json:"backlinks"`
}

// EntityMatch is an exact-name search hit for an entity.
type EntityMatch struct {
	ID    ID
	Name  string
	Types []ID
}

// TypeMatch is an exact-name search hit for a type.
type TypeMatch struct {
	ID   ID
	Name string
}

// PropertyMatch is an exact-name search hit for a property, carrying the
// externally authoritative data type.
type PropertyMatch struct {
	ID       ID
	Name     string
	DataType DataType
}
