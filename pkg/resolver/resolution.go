package resolver

import "github.com/tracefold/graphpub/pkg/graph"

// Kind discriminates the two resolution outcomes.
type Kind int

const (
	// KindCreate means the name had no exact match and a fresh object will
	// be created for it.
	KindCreate Kind = iota + 1
	// KindLink means the name matched an existing object, which will be
	// referenced rather than recreated.
	KindLink
)

// String returns the report label for the kind.
func (k Kind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindLink:
		return "link"
	default:
		return "unresolved"
	}
}

// Resolution is the create-or-link decision for one declared name. The id is
// only reachable through the variant, never as a bare field, so callers must
// hold a real resolution before minting references to it. Identifiers are
// assigned once and never mutated within a run.
type Resolution struct {
	kind Kind
	id   graph.ID
}

// NewCreate returns a create resolution with a freshly generated id.
func NewCreate() Resolution {
	return Resolution{kind: KindCreate, id: graph.NewID()}
}

// NewLink returns a link resolution referencing an existing id.
func NewLink(id graph.ID) Resolution {
	return Resolution{kind: KindLink, id: id}
}

// Kind returns the resolution variant.
func (r Resolution) Kind() Kind { return r.kind }

// ID returns the assigned identifier.
func (r Resolution) ID() graph.ID { return r.id }

// IsCreate reports whether the name resolves to a new object.
func (r Resolution) IsCreate() bool { return r.kind == KindCreate }

// IsLink reports whether the name resolves to an existing object.
func (r Resolution) IsLink() bool { return r.kind == KindLink }

// IsZero reports whether no resolution was assigned.
func (r Resolution) IsZero() bool { return r.kind == 0 }
