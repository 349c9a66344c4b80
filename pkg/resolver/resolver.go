// Package resolver builds the resolved name map for a parsed batch: every
// declared type, property, and entity, plus every relation target referenced
// anywhere, is assigned a definitive create-or-link resolution against the
// live store. Resolution is all-or-nothing: a failed name search aborts the
// run, because later phases assume every name has exactly one resolution.
package resolver

import (
	"context"
	"sync"

	"github.com/agentstation/utc"

	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/logging"
	"github.com/tracefold/graphpub/pkg/names"
)

// Builder resolves a parsed batch into a Map.
type Builder interface {
	// Resolve runs the three name searches and assigns a resolution to
	// every name in the batch.
	Resolve(ctx context.Context, batch *graph.Batch) (*Result, error)
}

// builder is the default implementation of Builder.
type builder struct {
	searcher graph.Searcher
	space    graph.ID
}

// New creates a Builder with options.
func New(searcher graph.Searcher, opts ...Option) (Builder, error) {
	if searcher == nil {
		return nil, &errors.ValidationError{Field: "searcher", Message: "cannot be nil"}
	}
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &builder{
		searcher: searcher,
		space:    options.space,
	}, nil
}

// searchResults holds the joined output of the three concurrent searches.
type searchResults struct {
	entities   map[names.Normalized]graph.EntityMatch
	types      map[names.Normalized]graph.TypeMatch
	properties map[names.Normalized]graph.PropertyMatch
}

// Resolve implements Builder.
func (b *builder) Resolve(ctx context.Context, batch *graph.Batch) (*Result, error) {
	logger := logging.FromContext(ctx)
	start := utc.Now()

	if batch == nil {
		return nil, &errors.ValidationError{Field: "batch", Message: "cannot be nil"}
	}

	entityNames := dedupeNames(append(batch.EntityNames(), batch.RelationTargets()...))
	typeNames := dedupeNames(batch.TypeNames())
	propertyNames := dedupeNames(batch.PropertyNames())

	logger.Debug().
		Int("entities", len(entityNames)).
		Int("types", len(typeNames)).
		Int("properties", len(propertyNames)).
		Msg("Resolving batch names")

	found, err := b.search(ctx, entityNames, typeNames, propertyNames)
	if err != nil {
		return nil, err
	}

	result := NewResult()
	m := newMap()

	b.resolveProperties(batch, propertyNames, found.properties, m, result)
	b.resolveTypes(batch, typeNames, found.types, m, result)
	b.resolveEntities(batch, entityNames, found.entities, m, result)

	result.Map = m
	result.finalize(start)

	logger.Info().
		Int("entities_created", result.Stats.EntitiesCreated).
		Int("entities_linked", result.Stats.EntitiesLinked).
		Int("types_created", result.Stats.TypesCreated).
		Int("properties_created", result.Stats.PropertiesCreated).
		Int("warnings", len(result.Warnings)).
		Msg("Batch resolved")

	return result, nil
}

// search fans out the three name searches concurrently and joins them before
// any resolution is computed. Results are merged only after every call has
// returned, never interleaved with in-flight calls.
func (b *builder) search(ctx context.Context, entityNames, typeNames, propertyNames []string) (*searchResults, error) {
	var (
		wg      sync.WaitGroup
		results searchResults
		errs    [3]error
	)

	wg.Add(3)
	go func() {
		defer wg.Done()
		results.entities, errs[0] = b.searcher.SearchEntities(ctx, entityNames, b.space)
	}()
	go func() {
		defer wg.Done()
		results.types, errs[1] = b.searcher.SearchTypes(ctx, typeNames)
	}()
	go func() {
		defer wg.Done()
		results.properties, errs[2] = b.searcher.SearchProperties(ctx, propertyNames)
	}()
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			resource := [3]string{"entities", "types", "properties"}[i]
			return nil, errors.WrapAPI("search", resource, err)
		}
	}

	if results.entities == nil {
		results.entities = map[names.Normalized]graph.EntityMatch{}
	}
	if results.types == nil {
		results.types = map[names.Normalized]graph.TypeMatch{}
	}
	if results.properties == nil {
		results.properties = map[names.Normalized]graph.PropertyMatch{}
	}
	return &results, nil
}

// resolveProperties assigns resolutions to declared properties, and links
// referenced-only names that matched externally. A referenced-only name with
// no match stays unresolved; the consuming phase decides whether that is a
// warning (scalar cells, type defaults) or a skip (relation cells).
func (b *builder) resolveProperties(batch *graph.Batch, propertyNames []string, found map[names.Normalized]graph.PropertyMatch, m *Map, result *Result) {
	for _, pd := range batch.Properties {
		key := names.Normalize(pd.Name)
		if key.IsBlank() {
			continue
		}
		if match, ok := found[key]; ok {
			dt := match.DataType
			if dt == "" {
				dt = pd.DataType
			}
			m.addProperty(key, &Property{Name: pd.Name, Resolution: NewLink(match.ID), DataType: dt})
			result.Stats.PropertiesLinked++
			continue
		}
		m.addProperty(key, &Property{Name: pd.Name, Resolution: NewCreate(), DataType: pd.DataType})
		result.Stats.PropertiesCreated++
	}

	for _, name := range propertyNames {
		key := names.Normalize(name)
		if key.IsBlank() {
			continue
		}
		if _, done := m.properties[key]; done {
			continue
		}
		if match, ok := found[key]; ok {
			m.addProperty(key, &Property{Name: name, Resolution: NewLink(match.ID), DataType: match.DataType})
			result.Stats.PropertiesLinked++
		}
	}
}

// resolveTypes assigns a resolution to every declared or referenced type
// name. Types referenced only by an entity still resolve, so type
// assignments never dangle.
func (b *builder) resolveTypes(batch *graph.Batch, typeNames []string, found map[names.Normalized]graph.TypeMatch, m *Map, result *Result) {
	declared := make(map[names.Normalized]graph.TypeDeclaration)
	for _, td := range batch.Types {
		key := names.Normalize(td.Name)
		if _, dup := declared[key]; !dup {
			declared[key] = td
		}
	}

	for _, name := range typeNames {
		key := names.Normalize(name)
		if key.IsBlank() {
			continue
		}
		if _, done := m.types[key]; done {
			continue
		}

		t := &Type{Name: name}
		if td, ok := declared[key]; ok {
			t.Name = td.Name
			t.DefaultProperties = td.Properties
		}

		if match, ok := found[key]; ok {
			t.Resolution = NewLink(match.ID)
			result.Stats.TypesLinked++
		} else {
			t.Resolution = NewCreate()
			result.Stats.TypesCreated++
		}
		m.addType(key, t)
	}
}

// mergedEntity accumulates declarations sharing one normalized name.
type mergedEntity struct {
	decl      graph.EntityDeclaration
	typeNames []string
	declared  bool
}

// resolveEntities merges same-name declarations, unions their type sets, and
// assigns each entity a resolution. Relation targets never declared anywhere
// resolve too; when such a target also has no external match it carries an
// empty type list and is flagged as a data-quality gap rather than failing
// the run.
func (b *builder) resolveEntities(batch *graph.Batch, entityNames []string, found map[names.Normalized]graph.EntityMatch, m *Map, result *Result) {
	merged := make(map[names.Normalized]*mergedEntity)
	for i := range batch.Entities {
		decl := batch.Entities[i]
		key := names.Normalize(decl.Name)
		if key.IsBlank() {
			continue
		}
		me, ok := merged[key]
		if !ok {
			me = &mergedEntity{decl: decl, declared: true}
			merged[key] = me
		} else {
			mergeDeclaration(&me.decl, decl)
		}
		me.typeNames = appendUnique(me.typeNames, decl.Types...)
	}

	for _, name := range entityNames {
		key := names.Normalize(name)
		if key.IsBlank() {
			continue
		}
		if _, done := m.entities[key]; done {
			continue
		}

		e := &Entity{Name: name}
		if me, ok := merged[key]; ok {
			e.Name = me.decl.Name
			e.Declared = true
			e.Decl = me.decl
			e.TypeNames = me.typeNames
		}

		var typeIDs []graph.ID
		for _, tn := range e.TypeNames {
			if t, ok := m.Type(tn); ok {
				typeIDs = appendUniqueIDs(typeIDs, t.Resolution.ID())
			}
		}

		if match, ok := found[key]; ok {
			e.Resolution = NewLink(match.ID)
			typeIDs = appendUniqueIDs(typeIDs, match.Types...)
			result.Stats.EntitiesLinked++
		} else {
			e.Resolution = NewCreate()
			result.Stats.EntitiesCreated++
		}

		e.TypeIDs = typeIDs
		e.MultiType = len(e.TypeNames) > 1
		if e.MultiType {
			result.MultiTypeEntities = append(result.MultiTypeEntities, e.Name)
		}

		if len(e.TypeIDs) == 0 && e.Resolution.IsCreate() {
			result.Warnings = append(result.Warnings, Warning{
				Kind:    WarningResolutionGap,
				Name:    e.Name,
				Message: "no declared type and no existing match; excluded from creation",
			})
		}

		m.addEntity(key, e)
	}
}

// mergeDeclaration folds a later declaration of the same entity into the
// first one. Scalar cells keep the first non-blank value; relation target
// lists concatenate in declaration order.
func mergeDeclaration(dst *graph.EntityDeclaration, src graph.EntityDeclaration) {
	if dst.Description == "" {
		dst.Description = src.Description
	}
	if dst.CoverURL == "" {
		dst.CoverURL = src.CoverURL
	}
	if len(src.Values) > 0 && dst.Values == nil {
		dst.Values = make(map[string]string)
	}
	for k, v := range src.Values {
		if existing, ok := dst.Values[k]; !ok || existing == "" {
			dst.Values[k] = v
		}
	}
	if len(src.Relations) > 0 && dst.Relations == nil {
		dst.Relations = make(map[string][]string)
	}
	for k, targets := range src.Relations {
		dst.Relations[k] = append(dst.Relations[k], targets...)
	}
}

// dedupeNames removes duplicate names under normalization, keeping the first
// raw spelling and first-appearance order. Blank names are dropped.
func dedupeNames(raw []string) []string {
	seen := make(map[names.Normalized]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, name := range raw {
		key := names.Normalize(name)
		if key.IsBlank() {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, name)
	}
	return out
}

func appendUnique(dst []string, add ...string) []string {
	for _, s := range add {
		key := names.Normalize(s)
		if key.IsBlank() {
			continue
		}
		dup := false
		for _, existing := range dst {
			if names.Normalize(existing) == key {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, s)
		}
	}
	return dst
}

func appendUniqueIDs(dst []graph.ID, add ...graph.ID) []graph.ID {
	for _, id := range add {
		if id.IsZero() {
			continue
		}
		dup := false
		for _, existing := range dst {
			if existing == id {
				dup = true
				break
			}
		}
		if !dup {
			dst = append(dst, id)
		}
	}
	return dst
}
