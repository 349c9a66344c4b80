// Package batch turns a resolved map plus relation edge list into an ordered
// mutation-operation batch. Phase order is fixed and load-bearing: properties
// are created before the types that reference them, types before the entities
// they classify, media before the entities that attach it, and entities
// before the relations between them. Anything resolved as a link is skipped;
// it already exists.
package batch

import (
	"context"

	"github.com/tracefold/graphpub/pkg/canonical"
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/logging"
	"github.com/tracefold/graphpub/pkg/relations"
	"github.com/tracefold/graphpub/pkg/resolver"
)

// Warning kinds surfaced while building.
const (
	// WarningConversion marks a cell whose raw value could not be
	// converted to its property's data type; the cell is skipped.
	WarningConversion = "conversion_failure"
	// WarningUnknownProperty marks a scalar cell keyed by a property with
	// no resolution.
	WarningUnknownProperty = "unknown_property"
	// WarningZeroTypeEntity marks a create entity excluded because it has
	// no resolved types.
	WarningZeroTypeEntity = "zero_type_entity"
	// WarningDanglingEdge marks a relation edge dropped because one
	// endpoint was excluded from creation.
	WarningDanglingEdge = "dangling_edge"
	// WarningMediaUpload marks a cover image that failed to upload; the
	// entity is created without it.
	WarningMediaUpload = "media_upload"
)

// Warning is one recoverable issue hit while building operations.
type Warning struct {
	Kind     string
	Entity   string
	Property string
	Message  string
}

// Summary counts what the batch will do, per category.
type Summary struct {
	TypesCreated      int
	TypesLinked       int
	PropertiesCreated int
	PropertiesLinked  int
	EntitiesCreated   int
	EntitiesLinked    int
	EntitiesSkipped   int
	RelationsCreated  int
	MediaUploaded     int
	MultiTypeEntities []string
}

// OperationsBatch is the ordered mutation list handed to the publishing
// collaborator, fully materialized in memory.
type OperationsBatch struct {
	Ops      []graph.Operation
	Summary  Summary
	Warnings []Warning
}

// Builder assembles operation batches.
type Builder interface {
	// Build produces the ordered operation list for a resolution result
	// and its relation edges.
	Build(ctx context.Context, resolution *resolver.Result, edges []relations.Edge) (*OperationsBatch, error)
}

// builder is the default implementation of Builder.
type builder struct {
	uploader graph.MediaUploader
}

// New creates a Builder with options.
func New(opts ...Option) (Builder, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &builder{uploader: options.uploader}, nil
}

// Build implements Builder.
func (b *builder) Build(ctx context.Context, resolution *resolver.Result, edges []relations.Edge) (*OperationsBatch, error) {
	logger := logging.FromContext(ctx)
	m := resolution.Map

	out := &OperationsBatch{}
	out.Summary.TypesLinked = resolution.Stats.TypesLinked
	out.Summary.PropertiesLinked = resolution.Stats.PropertiesLinked
	out.Summary.EntitiesLinked = resolution.Stats.EntitiesLinked
	out.Summary.MultiTypeEntities = resolution.MultiTypeEntities

	b.buildProperties(m, out)
	b.buildTypes(m, out)
	media := b.uploadMedia(ctx, m, out)
	skipped := b.buildEntities(ctx, m, media, out)
	b.buildRelations(edges, skipped, out)

	logger.Info().
		Int("ops", len(out.Ops)).
		Int("entities_created", out.Summary.EntitiesCreated).
		Int("relations_created", out.Summary.RelationsCreated).
		Int("warnings", len(out.Warnings)).
		Msg("Operation batch built")

	return out, nil
}

// buildProperties emits a create op for every property resolved as create.
func (b *builder) buildProperties(m *resolver.Map, out *OperationsBatch) {
	for _, p := range m.Properties() {
		if !p.Resolution.IsCreate() {
			continue
		}
		out.Ops = append(out.Ops, graph.CreatePropertyOp{
			ID:       p.Resolution.ID(),
			Name:     p.Name,
			DataType: p.DataType,
		})
		out.Summary.PropertiesCreated++
	}
}

// buildTypes emits a create op for every type resolved as create, resolving
// declared default-property names to property ids. Names that fail to
// resolve are dropped silently.
func (b *builder) buildTypes(m *resolver.Map, out *OperationsBatch) {
	for _, t := range m.Types() {
		if !t.Resolution.IsCreate() {
			continue
		}
		var propIDs []graph.ID
		for _, name := range t.DefaultProperties {
			if p, ok := m.Property(name); ok {
				propIDs = append(propIDs, p.Resolution.ID())
			}
		}
		out.Ops = append(out.Ops, graph.CreateTypeOp{
			ID:         t.Resolution.ID(),
			Name:       t.Name,
			Properties: propIDs,
		})
		out.Summary.TypesCreated++
	}
}

// buildEntities emits a create op for every creatable entity, converting
// scalar cells into typed values. Returns the set of entity ids excluded for
// having zero resolved types, so the relation phase can drop edges that
// reference them.
func (b *builder) buildEntities(ctx context.Context, m *resolver.Map, media map[string]graph.ID, out *OperationsBatch) map[graph.ID]bool {
	logger := logging.FromContext(ctx)
	skipped := make(map[graph.ID]bool)

	for _, e := range m.Entities() {
		if !e.Resolution.IsCreate() {
			continue
		}
		if len(e.TypeIDs) == 0 {
			// Zero-type entities cannot be created.
			skipped[e.Resolution.ID()] = true
			out.Summary.EntitiesSkipped++
			out.Warnings = append(out.Warnings, Warning{
				Kind:    WarningZeroTypeEntity,
				Entity:  e.Name,
				Message: "no resolved types; entity not created",
			})
			logger.Warn().Str("entity", e.Name).Msg("Skipping entity with no resolved types")
			continue
		}

		op := graph.CreateEntityOp{
			ID:          e.Resolution.ID(),
			Name:        e.Name,
			Description: e.Decl.Description,
			Types:       e.TypeIDs,
		}
		if e.Decl.CoverURL != "" {
			op.CoverID = media[e.Decl.CoverURL]
		}
		op.Values = b.convertValues(e, m, out)

		out.Ops = append(out.Ops, op)
		out.Summary.EntitiesCreated++
	}
	return skipped
}

// convertValues converts an entity's scalar cells into typed values. Blank
// cells are no opinion and produce nothing; unconvertible cells are skipped
// with a warning and never block the batch.
func (b *builder) convertValues(e *resolver.Entity, m *resolver.Map, out *OperationsBatch) []graph.TripleValue {
	var values []graph.TripleValue
	for _, propName := range graph.SortedKeys(e.Decl.Values) {
		raw := e.Decl.Values[propName]
		if isBlank(raw) {
			continue
		}
		prop, ok := m.Property(propName)
		if !ok {
			out.Warnings = append(out.Warnings, Warning{
				Kind:     WarningUnknownProperty,
				Entity:   e.Name,
				Property: propName,
				Message:  "property has no resolution; cell skipped",
			})
			continue
		}
		if !prop.DataType.IsScalar() {
			continue
		}
		v, err := canonical.Convert(prop.DataType, raw)
		if err != nil {
			out.Warnings = append(out.Warnings, Warning{
				Kind:     WarningConversion,
				Entity:   e.Name,
				Property: propName,
				Message:  errors.WrapConversion(prop.Name, string(prop.DataType), raw, err).Error(),
			})
			continue
		}
		values = append(values, graph.TripleValue{PropertyID: prop.Resolution.ID(), Value: v})
	}
	return values
}

// buildRelations emits a create op per edge, dropping edges with an endpoint
// that was excluded from creation.
func (b *builder) buildRelations(edges []relations.Edge, skipped map[graph.ID]bool, out *OperationsBatch) {
	for _, edge := range edges {
		if skipped[edge.To] || skipped[edge.From] {
			out.Warnings = append(out.Warnings, Warning{
				Kind:     WarningDanglingEdge,
				Property: edge.PropertyName,
				Entity:   edge.ToName,
				Message:  "edge endpoint excluded from creation; relation skipped",
			})
			continue
		}
		out.Ops = append(out.Ops, graph.CreateRelationOp{
			ID:         graph.NewID(),
			FromEntity: edge.From,
			ToEntity:   edge.To,
			TypeID:     edge.TypeID,
			Ordinal:    edge.Ordinal,
		})
		out.Summary.RelationsCreated++
	}
}

// isBlank reports whether a raw cell carries no content.
func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
