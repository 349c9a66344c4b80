// Package graph defines the data model shared by every stage of the
// reconciliation pipeline: opaque identifiers, declared batch records, typed
// values, live entity details, mutation operations, and the collaborator
// interfaces the engine consumes (name search, detail fetch, media upload).
//
// One protocol fact is load-bearing throughout: a relation property's id is
// also the relation *type* id on the wire. Relation records are filtered and
// stamped with the property id directly; there is no junction-type lookup.
package graph

import (
	"strings"

	"github.com/google/uuid"
)

// ID is an opaque 128-bit identifier for any graph object (entity, type,
// property, relation record, media), rendered as 32 lowercase hex characters.
type ID string

// NewID generates a fresh random ID. IDs are never reused or mutated after
// assignment within a run.
func NewID() ID {
	u := uuid.New()
	return ID(strings.ReplaceAll(u.String(), "-", ""))
}

// String returns the id as a plain string.
func (id ID) String() string { return string(id) }

// IsZero reports whether the id is unset.
func (id ID) IsZero() bool { return id == "" }
