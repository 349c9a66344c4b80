package graph

import "sort"

// TypeDeclaration is an authored type record from the parsed batch.
type TypeDeclaration struct {
	Name string
	// Properties names the type's default properties; each must resolve to
	// a declared or pre-existing property.
	Properties []string
	// SourceTab labels which input tab the declaration came from, for
	// reporting only.
	SourceTab string
}

// PropertyDeclaration is an authored property record from the parsed batch.
type PropertyDeclaration struct {
	Name      string
	DataType  DataType
	SourceTab string
}

// EntityDeclaration is an authored entity record from the parsed batch.
type EntityDeclaration struct {
	Name string
	// Types names the declared types of the entity.
	Types []string
	// Description is an optional free-text description.
	Description string
	// Values maps scalar property names to raw cell values, exactly as
	// authored. Blank cells are preserved here and filtered downstream.
	Values map[string]string
	// Relations maps relation property names to ordered target entity
	// names. Order is significant: it decides display ordinals.
	Relations map[string][]string
	// CoverURL optionally references an image to upload and attach.
	CoverURL  string
	SourceTab string
}

// Batch is a fully parsed, already-validated input batch. Producing one
// (spreadsheet parsing, cell validation) is a collaborator's job; the engine
// consumes it as-is.
type Batch struct {
	Types      []TypeDeclaration
	Properties []PropertyDeclaration
	Entities   []EntityDeclaration
}

// RelationTargets returns every relation target name referenced anywhere in
// the batch, in declaration order, without deduplication.
func (b *Batch) RelationTargets() []string {
	var targets []string
	for _, e := range b.Entities {
		for _, prop := range SortedKeys(e.Relations) {
			targets = append(targets, e.Relations[prop]...)
		}
	}
	return targets
}

// EntityNames returns every declared entity name in declaration order.
func (b *Batch) EntityNames() []string {
	out := make([]string, 0, len(b.Entities))
	for _, e := range b.Entities {
		out = append(out, e.Name)
	}
	return out
}

// TypeNames returns every name declared or referenced as a type: the type
// tab's own declarations plus every type named by an entity.
func (b *Batch) TypeNames() []string {
	var out []string
	for _, t := range b.Types {
		out = append(out, t.Name)
	}
	for _, e := range b.Entities {
		out = append(out, e.Types...)
	}
	return out
}

// PropertyNames returns every name declared or referenced as a property.
func (b *Batch) PropertyNames() []string {
	var out []string
	for _, p := range b.Properties {
		out = append(out, p.Name)
	}
	for _, t := range b.Types {
		out = append(out, t.Properties...)
	}
	for _, e := range b.Entities {
		out = append(out, SortedKeys(e.Values)...)
		out = append(out, SortedKeys(e.Relations)...)
	}
	return out
}

// SortedKeys returns map keys in sorted order. Go map iteration is random;
// every place that walks a declaration map goes through this so that repeated
// runs over identical inputs produce identical output order.
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
