package differ

import "github.com/tracefold/graphpub/pkg/graph"

// Status classifies an entity's diff outcome. Entities with no changes are
// reported as skipped, never omitted.
type Status string

const (
	// StatusUpdated means the entity has at least one change.
	StatusUpdated Status = "updated"
	// StatusSkipped means the entity's live state already matches.
	StatusSkipped Status = "skipped"
)

// ScalarInput is one desired scalar cell for an already-resolved entity.
type ScalarInput struct {
	PropertyID   graph.ID
	PropertyName string
	DataType     graph.DataType
	// Raw is the authored cell. A blank cell is "no opinion", never
	// "clear this field"; it produces no diff entry at all.
	Raw string
}

// RelationInput is one desired relation cell for an already-resolved entity.
type RelationInput struct {
	PropertyID   graph.ID
	PropertyName string
	TargetIDs    []graph.ID
}

// EntityInput is the desired state of one entity whose existence was
// confirmed before diffing began.
type EntityInput struct {
	ID        graph.ID
	Name      string
	Scalars   []ScalarInput
	Relations []RelationInput
}

// PropertyDiff is one scalar change. OldValue is empty when the live entity
// held no value for the property.
type PropertyDiff struct {
	PropertyID   graph.ID
	PropertyName string
	OldValue     string
	NewValue     string
	// Payload is the typed value ready for the mutation operation.
	Payload graph.Value
}

// RemovedRelation pairs a removed target with the live relation record that
// must be deleted to remove it.
type RemovedRelation struct {
	RecordID graph.ID
	TargetID graph.ID
}

// RelationDiff is the set difference between desired and live targets of one
// relation property. Unchanged is retained for verbose diagnostics only.
type RelationDiff struct {
	PropertyID   graph.ID
	PropertyName string
	ToAdd        []graph.ID
	ToRemove     []RemovedRelation
	Unchanged    []graph.ID
}

// EntityDiff is the computed diff for one entity.
type EntityDiff struct {
	EntityID        graph.ID
	EntityName      string
	Status          Status
	ScalarChanges   []PropertyDiff
	RelationChanges []RelationDiff
	// UnchangedScalars counts desired cells whose live value already
	// matched canonically.
	UnchangedScalars int
	// UnchangedRelations counts desired targets already present.
	UnchangedRelations int
}

// Summary aggregates counts across a diff run.
type Summary struct {
	TotalEntities         int
	EntitiesWithChanges   int
	EntitiesSkipped       int
	TotalScalarChanges    int
	TotalRelationsAdded   int
	TotalRelationsRemoved int
}

// Warning is one recoverable issue hit while diffing.
type Warning struct {
	Entity   string
	Property string
	Message  string
}

// Result is the outcome of a diff run.
type Result struct {
	Diffs    []EntityDiff
	Summary  Summary
	Warnings []Warning
}

// Operations converts the computed diffs into an ordered mutation list:
// scalar writes first, then relation additions, then relation removals.
// Ordinals for added relations continue after the live set's size so new
// targets append in display order.
func (r *Result) Operations() []graph.Operation {
	var ops []graph.Operation
	for _, d := range r.Diffs {
		for _, sc := range d.ScalarChanges {
			ops = append(ops, graph.SetTripleOp{
				EntityID:   d.EntityID,
				PropertyID: sc.PropertyID,
				Value:      sc.Payload,
			})
		}
	}
	for _, d := range r.Diffs {
		for _, rc := range d.RelationChanges {
			base := len(rc.Unchanged)
			for i, target := range rc.ToAdd {
				ops = append(ops, graph.CreateRelationOp{
					ID:         graph.NewID(),
					FromEntity: d.EntityID,
					ToEntity:   target,
					TypeID:     rc.PropertyID,
					Ordinal:    base + i,
				})
			}
			for _, rem := range rc.ToRemove {
				ops = append(ops, graph.DeleteRelationOp{RelationID: rem.RecordID})
			}
		}
	}
	return ops
}
