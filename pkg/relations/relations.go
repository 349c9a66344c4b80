// Package relations expands declared relation cells into concrete edge
// records between resolved entities. Edges are built for linked sources too:
// an edge from a pre-existing entity does not mutate that entity, the edge is
// its own new graph object. This is the only place display order is decided,
// via a per-(source, relation type) ordinal.
package relations

import (
	"context"

	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/logging"
	"github.com/tracefold/graphpub/pkg/resolver"
)

// Edge is one relation to be created. TypeID carries the relation property's
// id, which is also the edge type on the wire.
type Edge struct {
	From         graph.ID
	To           graph.ID
	TypeID       graph.ID
	PropertyName string
	ToName       string
	// Ordinal is assigned per (From, TypeID) pair, starting at 0, in
	// declaration order.
	Ordinal int
}

// Warning is one skipped relation cell.
type Warning struct {
	Entity   string
	Property string
	Message  string
}

// Result holds the ordered edge list plus skipped-cell warnings.
type Result struct {
	Edges    []Edge
	Warnings []Warning
}

// ordinalKey identifies one (source entity, relation type) ordinal counter.
type ordinalKey struct {
	from   graph.ID
	typeID graph.ID
}

// Build expands every declared relation cell against the resolved map.
// A relation property that is missing or not declared as a relation kind is
// skipped with a warning; an unresolvable source or target name is fatal, and
// all such failures are collected and reported together.
func Build(ctx context.Context, m *resolver.Map) (*Result, error) {
	logger := logging.FromContext(ctx)

	result := &Result{}
	ordinals := make(map[ordinalKey]int)
	var refErrs errors.ReferenceErrors

	for _, entity := range m.Entities() {
		if !entity.Declared || len(entity.Decl.Relations) == 0 {
			continue
		}

		for _, propName := range graph.SortedKeys(entity.Decl.Relations) {
			prop, ok := m.Property(propName)
			if !ok || !prop.DataType.IsRelation() {
				result.Warnings = append(result.Warnings, Warning{
					Entity:   entity.Name,
					Property: propName,
					Message:  "not a recognized relation property; cell skipped",
				})
				continue
			}

			for _, targetName := range entity.Decl.Relations[propName] {
				target, ok := m.Entity(targetName)
				if !ok {
					// Cannot happen when the map came from the same batch,
					// since relation targets are part of the resolved name
					// set; collected as fatal for maps built elsewhere.
					refErrs.Add("relation target", targetName, entity.Name, entity.Decl.SourceTab)
					continue
				}

				key := ordinalKey{from: entity.Resolution.ID(), typeID: prop.Resolution.ID()}
				edge := Edge{
					From:         entity.Resolution.ID(),
					To:           target.Resolution.ID(),
					TypeID:       prop.Resolution.ID(),
					PropertyName: prop.Name,
					ToName:       target.Name,
					Ordinal:      ordinals[key],
				}
				ordinals[key]++
				result.Edges = append(result.Edges, edge)
			}
		}
	}

	if err := refErrs.OrNil(); err != nil {
		return nil, err
	}

	logger.Debug().
		Int("edges", len(result.Edges)).
		Int("skipped", len(result.Warnings)).
		Msg("Relation edges built")

	return result, nil
}
