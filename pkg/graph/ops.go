package graph

// OpKind tags an operation variant for serialization.
type OpKind string

const (
	// OpCreateProperty creates a new property definition.
	OpCreateProperty OpKind = "CREATE_PROPERTY"
	// OpCreateType creates a new type definition.
	OpCreateType OpKind = "CREATE_TYPE"
	// OpCreateEntity creates a new entity with its scalar values.
	OpCreateEntity OpKind = "CREATE_ENTITY"
	// OpCreateRelation creates one relation edge.
	OpCreateRelation OpKind = "CREATE_RELATION"
	// OpSetTriple overwrites one scalar property value on an entity.
	OpSetTriple OpKind = "SET_TRIPLE"
	// OpDeleteRelation deletes one relation record by its own id.
	OpDeleteRelation OpKind = "DELETE_RELATION"
	// OpUnsetProperty removes every stored value of one property from an
	// entity.
	OpUnsetProperty OpKind = "UNSET_PROPERTY"
)

// Operation is one mutation in an ordered batch. The engine only ever builds
// operations; executing them against the remote store is the publishing
// collaborator's job.
type Operation interface {
	Kind() OpKind
}

// CreatePropertyOp creates a property definition.
type CreatePropertyOp struct {
	ID       ID       `json:"id"`
	Name     string   `json:"name"`
	DataType DataType `json:"dataType"`
}

// Kind implements Operation.
func (CreatePropertyOp) Kind() OpKind { return OpCreateProperty }

// CreateTypeOp creates a type definition with resolved default properties.
type CreateTypeOp struct {
	ID         ID     `json:"id"`
	Name       string `json:"name"`
	Properties []ID   `json:"properties,omitempty"`
}

// Kind implements Operation.
func (CreateTypeOp) Kind() OpKind { return OpCreateType }

// CreateEntityOp creates an entity with its type assignments and converted
// scalar values.
type CreateEntityOp struct {
	ID          ID            `json:"id"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	Types       []ID          `json:"types"`
	Values      []TripleValue `json:"values,omitempty"`
	CoverID     ID            `json:"coverId,omitempty"`
}

// Kind implements Operation.
func (CreateEntityOp) Kind() OpKind { return OpCreateEntity }

// CreateRelationOp creates one relation edge. TypeID carries the relation
// property's id, which doubles as the edge type on the wire.
type CreateRelationOp struct {
	ID         ID  `json:"id"`
	FromEntity ID  `json:"fromEntity"`
	ToEntity   ID  `json:"toEntity"`
	TypeID     ID  `json:"typeId"`
	Ordinal    int `json:"ordinal"`
}

// Kind implements Operation.
func (CreateRelationOp) Kind() OpKind { return OpCreateRelation }

// SetTripleOp overwrites one scalar value on an existing entity.
type SetTripleOp struct {
	EntityID   ID    `json:"entityId"`
	PropertyID ID    `json:"propertyId"`
	Value      Value `json:"value"`
}

// Kind implements Operation.
func (SetTripleOp) Kind() OpKind { return OpSetTriple }

// DeleteRelationOp deletes a relation record.
type DeleteRelationOp struct {
	RelationID ID `json:"relationId"`
}

// Kind implements Operation.
func (DeleteRelationOp) Kind() OpKind { return OpDeleteRelation }

// UnsetPropertyOp removes all values of a property from an entity.
type UnsetPropertyOp struct {
	EntityID   ID `json:"entityId"`
	PropertyID ID `json:"propertyId"`
}

// Kind implements Operation.
func (UnsetPropertyOp) Kind() OpKind { return OpUnsetProperty }

// OpEnvelope pairs an operation with its kind tag for serialization by
// downstream code.
type OpEnvelope struct {
	Kind OpKind    `json:"kind"`
	Op   Operation `json:"op"`
}

// Envelopes wraps an operation list for serialization, preserving order.
func Envelopes(ops []Operation) []OpEnvelope {
	out := make([]OpEnvelope, len(ops))
	for i, op := range ops {
		out[i] = OpEnvelope{Kind: op.Kind(), Op: op}
	}
	return out
}
