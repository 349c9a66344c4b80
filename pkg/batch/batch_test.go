package batch_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefold/graphpub/pkg/batch"
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/names"
	"github.com/tracefold/graphpub/pkg/relations"
	"github.com/tracefold/graphpub/pkg/resolver"
)

type fakeSearcher struct {
	entities   map[names.Normalized]graph.EntityMatch
	types      map[names.Normalized]graph.TypeMatch
	properties map[names.Normalized]graph.PropertyMatch
}

func (f *fakeSearcher) SearchEntities(_ context.Context, _ []string, _ graph.ID) (map[names.Normalized]graph.EntityMatch, error) {
	return f.entities, nil
}

func (f *fakeSearcher) SearchTypes(_ context.Context, _ []string) (map[names.Normalized]graph.TypeMatch, error) {
	return f.types, nil
}

func (f *fakeSearcher) SearchProperties(_ context.Context, _ []string) (map[names.Normalized]graph.PropertyMatch, error) {
	return f.properties, nil
}

// fakeUploader records upload calls.
type fakeUploader struct {
	calls []string
	fail  bool
}

func (f *fakeUploader) Upload(_ context.Context, url string) (graph.ID, error) {
	f.calls = append(f.calls, url)
	if f.fail {
		return "", errors.New("upload refused")
	}
	return graph.ID("media-" + url), nil
}

func resolveBatch(t *testing.T, b *graph.Batch, search *fakeSearcher) *resolver.Result {
	t.Helper()
	if search == nil {
		search = &fakeSearcher{}
	}
	rb, err := resolver.New(search, resolver.WithSpace("space1"))
	require.NoError(t, err)
	result, err := rb.Resolve(context.Background(), b)
	require.NoError(t, err)
	return result
}

func buildAll(t *testing.T, b *graph.Batch, search *fakeSearcher, opts ...batch.Option) *batch.OperationsBatch {
	t.Helper()
	resolution := resolveBatch(t, b, search)
	edges, err := relations.Build(context.Background(), resolution.Map)
	require.NoError(t, err)
	builder, err := batch.New(opts...)
	require.NoError(t, err)
	out, err := builder.Build(context.Background(), resolution, edges.Edges)
	require.NoError(t, err)
	return out
}

func TestBuildPhaseOrder(t *testing.T) {
	b := &graph.Batch{
		Properties: []graph.PropertyDeclaration{
			{Name: "Founded", DataType: graph.Date},
			{Name: "Works At", DataType: graph.Relation},
		},
		Types: []graph.TypeDeclaration{
			{Name: "Company", Properties: []string{"Founded"}},
			{Name: "Person"},
		},
		Entities: []graph.EntityDeclaration{
			{Name: "Acme", Types: []string{"Company"}, Values: map[string]string{"Founded": "2001-04-01"}},
			{Name: "Ada", Types: []string{"Person"}, Relations: map[string][]string{"Works At": {"Acme"}}},
		},
	}

	out := buildAll(t, b, nil)

	// properties, then types, then entities, then relations
	var kinds []graph.OpKind
	for _, op := range out.Ops {
		kinds = append(kinds, op.Kind())
	}
	assert.Equal(t, []graph.OpKind{
		graph.OpCreateProperty,
		graph.OpCreateProperty,
		graph.OpCreateType,
		graph.OpCreateType,
		graph.OpCreateEntity,
		graph.OpCreateEntity,
		graph.OpCreateRelation,
	}, kinds)

	assert.Equal(t, 2, out.Summary.PropertiesCreated)
	assert.Equal(t, 2, out.Summary.TypesCreated)
	assert.Equal(t, 2, out.Summary.EntitiesCreated)
	assert.Equal(t, 1, out.Summary.RelationsCreated)
}

func TestBuildTypeDefaultPropertiesResolved(t *testing.T) {
	b := &graph.Batch{
		Properties: []graph.PropertyDeclaration{{Name: "Founded", DataType: graph.Date}},
		Types: []graph.TypeDeclaration{
			{Name: "Company", Properties: []string{"Founded", "No Such Property"}},
		},
	}

	out := buildAll(t, b, nil)

	var typeOp graph.CreateTypeOp
	for _, op := range out.Ops {
		if to, ok := op.(graph.CreateTypeOp); ok {
			typeOp = to
		}
	}
	require.Equal(t, "Company", typeOp.Name)
	// The unresolvable default property is dropped silently.
	require.Len(t, typeOp.Properties, 1)
}

func TestBuildLinkedObjectsSkipped(t *testing.T) {
	search := &fakeSearcher{
		entities: map[names.Normalized]graph.EntityMatch{
			names.Normalize("Acme"): {ID: "ent1", Name: "Acme", Types: []graph.ID{"t1"}},
		},
		types: map[names.Normalized]graph.TypeMatch{
			names.Normalize("Company"): {ID: "t1", Name: "Company"},
		},
	}
	b := &graph.Batch{
		Types:    []graph.TypeDeclaration{{Name: "Company"}},
		Entities: []graph.EntityDeclaration{{Name: "Acme", Types: []string{"Company"}}},
	}

	out := buildAll(t, b, search)

	assert.Empty(t, out.Ops, "linked objects produce no creation operations")
	assert.Equal(t, 1, out.Summary.EntitiesLinked)
	assert.Equal(t, 1, out.Summary.TypesLinked)
}

func TestBuildZeroTypeEntityExcluded(t *testing.T) {
	// "Mystery Maker" is only a relation target: no declaration, no match,
	// so it resolves create with zero types and must not be built. The edge
	// pointing at it is dropped transitively.
	b := &graph.Batch{
		Properties: []graph.PropertyDeclaration{{Name: "Made By", DataType: graph.Relation}},
		Entities: []graph.EntityDeclaration{
			{Name: "Widget", Types: []string{"Product"}, Relations: map[string][]string{"Made By": {"Mystery Maker"}}},
		},
	}

	out := buildAll(t, b, nil)

	for _, op := range out.Ops {
		if eo, ok := op.(graph.CreateEntityOp); ok {
			assert.NotEqual(t, "Mystery Maker", eo.Name)
		}
		assert.NotEqual(t, graph.OpCreateRelation, op.Kind())
	}
	assert.Equal(t, 1, out.Summary.EntitiesSkipped)
	assert.Equal(t, 0, out.Summary.RelationsCreated)

	var kinds []string
	for _, w := range out.Warnings {
		kinds = append(kinds, w.Kind)
	}
	assert.Contains(t, kinds, batch.WarningZeroTypeEntity)
	assert.Contains(t, kinds, batch.WarningDanglingEdge)
}

func TestBuildValueConversion(t *testing.T) {
	b := &graph.Batch{
		Properties: []graph.PropertyDeclaration{
			{Name: "Employees", DataType: graph.Number},
			{Name: "Active", DataType: graph.Checkbox},
		},
		Entities: []graph.EntityDeclaration{
			{
				Name:  "Acme",
				Types: []string{"Company"},
				Values: map[string]string{
					"Employees": "1,200",
					"Active":    "Yes",
					"Notes":     "",      // blank: no opinion, no warning
					"Employees2": "many", // unresolved property
				},
			},
		},
	}

	out := buildAll(t, b, nil)

	var entityOp graph.CreateEntityOp
	for _, op := range out.Ops {
		if eo, ok := op.(graph.CreateEntityOp); ok {
			entityOp = eo
		}
	}
	require.Equal(t, "Acme", entityOp.Name)
	require.Len(t, entityOp.Values, 2)

	byType := make(map[graph.DataType]string)
	for _, v := range entityOp.Values {
		byType[v.Value.Type] = v.Value.Value
	}
	assert.Equal(t, "1200", byType[graph.Number])
	assert.Equal(t, "true", byType[graph.Checkbox])
}

func TestBuildConversionFailureSkipsCellOnly(t *testing.T) {
	b := &graph.Batch{
		Properties: []graph.PropertyDeclaration{
			{Name: "Employees", DataType: graph.Number},
			{Name: "Name Note", DataType: graph.Text},
		},
		Entities: []graph.EntityDeclaration{
			{
				Name:  "Acme",
				Types: []string{"Company"},
				Values: map[string]string{
					"Employees": "lots", // unconvertible
					"Name Note": "fine",
				},
			},
		},
	}

	out := buildAll(t, b, nil)

	var entityOp graph.CreateEntityOp
	for _, op := range out.Ops {
		if eo, ok := op.(graph.CreateEntityOp); ok {
			entityOp = eo
		}
	}
	require.Len(t, entityOp.Values, 1, "bad cell skipped, good cell kept")

	var conv *batch.Warning
	for i, w := range out.Warnings {
		if w.Kind == batch.WarningConversion {
			conv = &out.Warnings[i]
		}
	}
	require.NotNil(t, conv)
	assert.Contains(t, conv.Message, `cannot convert "lots"`)
}

func TestBuildMediaDedup(t *testing.T) {
	uploader := &fakeUploader{}
	b := &graph.Batch{
		Entities: []graph.EntityDeclaration{
			{Name: "Acme", Types: []string{"Company"}, CoverURL: "https://img/x.png"},
			{Name: "Globex", Types: []string{"Company"}, CoverURL: "https://img/x.png"},
			{Name: "Initech", Types: []string{"Company"}, CoverURL: "https://img/y.png"},
		},
	}

	out := buildAll(t, b, nil, batch.WithMediaUploader(uploader))

	// Same URL referenced twice is fetched once; the id is shared.
	assert.Equal(t, []string{"https://img/x.png", "https://img/y.png"}, uploader.calls)
	assert.Equal(t, 2, out.Summary.MediaUploaded)

	covers := make(map[string]graph.ID)
	for _, op := range out.Ops {
		if eo, ok := op.(graph.CreateEntityOp); ok {
			covers[eo.Name] = eo.CoverID
		}
	}
	assert.Equal(t, covers["Acme"], covers["Globex"])
	assert.NotEqual(t, covers["Acme"], covers["Initech"])
}

func TestBuildMediaFailureIsWarning(t *testing.T) {
	uploader := &fakeUploader{fail: true}
	b := &graph.Batch{
		Entities: []graph.EntityDeclaration{
			{Name: "Acme", Types: []string{"Company"}, CoverURL: "https://img/x.png"},
		},
	}

	out := buildAll(t, b, nil, batch.WithMediaUploader(uploader))

	assert.Equal(t, 1, out.Summary.EntitiesCreated, "entity still created without cover")
	var kinds []string
	for _, w := range out.Warnings {
		kinds = append(kinds, w.Kind)
	}
	assert.Contains(t, kinds, batch.WarningMediaUpload)
}
