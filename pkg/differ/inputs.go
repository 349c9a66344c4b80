package differ

import (
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/resolver"
)

// InputsFromMap converts the linked, declared entities of a resolved map into
// diff inputs. Created entities carry no live state and are skipped; the
// upsert path owns them. Unknown or non-scalar properties in value cells
// become warnings; an unresolved relation target is a reference error and
// aborts the run.
func InputsFromMap(m *resolver.Map) ([]EntityInput, []Warning, error) {
	var inputs []EntityInput
	var warnings []Warning
	refErrs := &errors.ReferenceErrors{}

	for _, e := range m.Entities() {
		if !e.Declared || !e.Resolution.IsLink() {
			continue
		}

		in := EntityInput{ID: e.Resolution.ID(), Name: e.Name}

		for _, propName := range graph.SortedKeys(e.Decl.Values) {
			prop, ok := m.Property(propName)
			if !ok || prop.Resolution.IsZero() {
				warnings = append(warnings, Warning{
					Entity:   e.Name,
					Property: propName,
					Message:  "unknown property, value skipped",
				})
				continue
			}
			if prop.DataType.IsRelation() {
				warnings = append(warnings, Warning{
					Entity:   e.Name,
					Property: propName,
					Message:  "relation property in a value cell, skipped",
				})
				continue
			}
			in.Scalars = append(in.Scalars, ScalarInput{
				PropertyID:   prop.Resolution.ID(),
				PropertyName: prop.Name,
				DataType:     prop.DataType,
				Raw:          e.Decl.Values[propName],
			})
		}

		for _, propName := range graph.SortedKeys(e.Decl.Relations) {
			// A relation cell with no targets is a blank cell, not a
			// request to clear the property.
			if len(e.Decl.Relations[propName]) == 0 {
				continue
			}
			prop, ok := m.Property(propName)
			if !ok || prop.Resolution.IsZero() || !prop.DataType.IsRelation() {
				warnings = append(warnings, Warning{
					Entity:   e.Name,
					Property: propName,
					Message:  "not a relation property, targets skipped",
				})
				continue
			}
			rel := RelationInput{
				PropertyID:   prop.Resolution.ID(),
				PropertyName: prop.Name,
			}
			for _, target := range e.Decl.Relations[propName] {
				te, ok := m.Entity(target)
				if !ok || te.Resolution.IsZero() {
					refErrs.Add("relation target", target, e.Name, e.Decl.SourceTab)
					continue
				}
				rel.TargetIDs = append(rel.TargetIDs, te.Resolution.ID())
			}
			in.Relations = append(in.Relations, rel)
		}

		inputs = append(inputs, in)
	}

	return inputs, warnings, refErrs.OrNil()
}
