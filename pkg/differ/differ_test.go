package differ_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tracefold/graphpub/pkg/differ"
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
)

// fakeFetcher serves canned entity details and records concurrency.
type fakeFetcher struct {
	mu       sync.Mutex
	details  map[graph.ID]*graph.EntityDetail
	err      error
	inFlight int
	maxSeen  int
	fetched  []graph.ID
}

func (f *fakeFetcher) FetchEntityDetail(_ context.Context, id, _ graph.ID) (*graph.EntityDetail, error) {
	f.mu.Lock()
	f.inFlight++
	if f.inFlight > f.maxSeen {
		f.maxSeen = f.inFlight
	}
	f.fetched = append(f.fetched, id)
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.inFlight--
		f.mu.Unlock()
	}()

	if f.err != nil {
		return nil, f.err
	}
	return f.details[id], nil
}

func newDiffer(t *testing.T, f *fakeFetcher, opts ...differ.Option) differ.Differ {
	t.Helper()
	opts = append([]differ.Option{differ.WithSpace("space1")}, opts...)
	d, err := differ.New(f, opts...)
	require.NoError(t, err)
	return d
}

func detailWithValue(id graph.ID, propID graph.ID, dt graph.DataType, value string) *graph.EntityDetail {
	return &graph.EntityDetail{
		ID:   id,
		Name: "live " + id.String(),
		Values: []graph.TripleValue{
			{PropertyID: propID, Value: graph.Value{Type: dt, Value: value}},
		},
	}
}

func TestDiffCanonicalNoOp(t *testing.T) {
	// Desired "true" vs live boolean true: skipped, no change fires.
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": detailWithValue("e1", "p1", graph.Checkbox, "true"),
	}}
	d := newDiffer(t, fetcher)

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID:   "e1",
			Name: "Acme",
			Scalars: []differ.ScalarInput{
				{PropertyID: "p1", PropertyName: "Active", DataType: graph.Checkbox, Raw: "true"},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Diffs, 1)
	assert.Equal(t, differ.StatusSkipped, result.Diffs[0].Status)
	assert.Empty(t, result.Diffs[0].ScalarChanges)
	assert.Equal(t, 1, result.Diffs[0].UnchangedScalars)
	assert.Equal(t, 1, result.Summary.EntitiesSkipped)
	assert.Equal(t, 0, result.Summary.EntitiesWithChanges)
}

func TestDiffDateRepresentations(t *testing.T) {
	// A full ISO datetime and a bare date on the same calendar day are
	// equal under DATE canonicalization.
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": detailWithValue("e1", "p1", graph.Date, "2024-01-15T08:30:00Z"),
	}}
	d := newDiffer(t, fetcher)

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID: "e1",
			Scalars: []differ.ScalarInput{
				{PropertyID: "p1", PropertyName: "Founded", DataType: graph.Date, Raw: "2024-01-15"},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, differ.StatusSkipped, result.Diffs[0].Status)
}

func TestDiffScalarChange(t *testing.T) {
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": detailWithValue("e1", "p1", graph.Number, "100"),
	}}
	d := newDiffer(t, fetcher)

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID:   "e1",
			Name: "Acme",
			Scalars: []differ.ScalarInput{
				{PropertyID: "p1", PropertyName: "Employees", DataType: graph.Number, Raw: "1,200"},
			},
		},
	})
	require.NoError(t, err)

	diff := result.Diffs[0]
	assert.Equal(t, differ.StatusUpdated, diff.Status)
	require.Len(t, diff.ScalarChanges, 1)
	assert.Equal(t, "100", diff.ScalarChanges[0].OldValue)
	assert.Equal(t, "1200", diff.ScalarChanges[0].NewValue)
	assert.Equal(t, graph.Value{Type: graph.Number, Value: "1200"}, diff.ScalarChanges[0].Payload)
	assert.Equal(t, 1, result.Summary.TotalScalarChanges)
}

func TestDiffBlankCellIsNoOpinion(t *testing.T) {
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": detailWithValue("e1", "p1", graph.Text, "something live"),
	}}
	d := newDiffer(t, fetcher)

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID: "e1",
			Scalars: []differ.ScalarInput{
				{PropertyID: "p1", PropertyName: "Notes", DataType: graph.Text, Raw: "   "},
			},
		},
	})
	require.NoError(t, err)

	// No diff entry and no warning, regardless of the live value.
	assert.Equal(t, differ.StatusSkipped, result.Diffs[0].Status)
	assert.Empty(t, result.Diffs[0].ScalarChanges)
	assert.Empty(t, result.Warnings)
}

func TestDiffRelationSetDifference(t *testing.T) {
	// desired [X, Y], live [Y, Z] -> add X, remove Z, Y unchanged
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": {
			ID: "e1",
			Relations: []graph.RelationRecord{
				{ID: "r-y", TypeID: "p1", FromEntity: "e1", ToEntity: "Y"},
				{ID: "r-z", TypeID: "p1", FromEntity: "e1", ToEntity: "Z"},
				{ID: "r-other", TypeID: "other", FromEntity: "e1", ToEntity: "W"},
			},
		},
	}}
	d := newDiffer(t, fetcher)

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID: "e1",
			Relations: []differ.RelationInput{
				{PropertyID: "p1", PropertyName: "Knows", TargetIDs: []graph.ID{"X", "Y"}},
			},
		},
	})
	require.NoError(t, err)

	require.Len(t, result.Diffs[0].RelationChanges, 1)
	rc := result.Diffs[0].RelationChanges[0]
	assert.Equal(t, []graph.ID{"X"}, rc.ToAdd)
	require.Len(t, rc.ToRemove, 1)
	assert.Equal(t, graph.ID("r-z"), rc.ToRemove[0].RecordID)
	assert.Equal(t, graph.ID("Z"), rc.ToRemove[0].TargetID)
	assert.Equal(t, []graph.ID{"Y"}, rc.Unchanged)

	assert.Equal(t, 1, result.Summary.TotalRelationsAdded)
	assert.Equal(t, 1, result.Summary.TotalRelationsRemoved)
}

func TestDiffAdditiveModeNeverRemoves(t *testing.T) {
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": {
			ID: "e1",
			Relations: []graph.RelationRecord{
				{ID: "r-z", TypeID: "p1", FromEntity: "e1", ToEntity: "Z"},
			},
		},
	}}
	d := newDiffer(t, fetcher, differ.WithAdditive(true))

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID: "e1",
			Relations: []differ.RelationInput{
				{PropertyID: "p1", PropertyName: "Knows", TargetIDs: []graph.ID{"X"}},
			},
		},
	})
	require.NoError(t, err)

	rc := result.Diffs[0].RelationChanges[0]
	assert.Equal(t, []graph.ID{"X"}, rc.ToAdd)
	assert.Empty(t, rc.ToRemove)
	assert.Equal(t, 0, result.Summary.TotalRelationsRemoved)
}

func TestDiffEmptyRelationCellLeavesLiveTargets(t *testing.T) {
	// A relation input with no targets is a blank cell. Live records must
	// survive even outside additive mode.
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": {
			ID: "e1",
			Relations: []graph.RelationRecord{
				{ID: "r-y", TypeID: "p1", FromEntity: "e1", ToEntity: "Y"},
				{ID: "r-z", TypeID: "p1", FromEntity: "e1", ToEntity: "Z"},
			},
		},
	}}
	d := newDiffer(t, fetcher)

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID: "e1",
			Relations: []differ.RelationInput{
				{PropertyID: "p1", PropertyName: "Knows"},
			},
		},
	})
	require.NoError(t, err)

	assert.Empty(t, result.Diffs[0].RelationChanges)
	assert.Equal(t, differ.StatusSkipped, result.Diffs[0].Status)
	assert.Equal(t, 0, result.Summary.TotalRelationsRemoved)
	assert.Equal(t, 1, result.Summary.EntitiesSkipped)
}

func TestDiffConversionFailureIsWarning(t *testing.T) {
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": detailWithValue("e1", "p1", graph.Number, "1"),
	}}
	d := newDiffer(t, fetcher)

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID:   "e1",
			Name: "Acme",
			Scalars: []differ.ScalarInput{
				{PropertyID: "p1", PropertyName: "Employees", DataType: graph.Number, Raw: "lots"},
			},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, differ.StatusSkipped, result.Diffs[0].Status)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "Employees", result.Warnings[0].Property)
	assert.Contains(t, result.Warnings[0].Message, `cannot convert "lots"`)
}

func TestDiffFetchFailureIsFatal(t *testing.T) {
	fetcher := &fakeFetcher{err: errors.New("boom")}
	d := newDiffer(t, fetcher)

	_, err := d.Entities(context.Background(), []differ.EntityInput{{ID: "e1"}})
	require.Error(t, err)
	assert.True(t, errors.IsAPIFailure(err))
}

func TestDiffNilDetailForConfirmedEntityIsFatal(t *testing.T) {
	// Existence was confirmed earlier, so nil now is an API failure and
	// must never be treated as "no changes".
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{}}
	d := newDiffer(t, fetcher)

	_, err := d.Entities(context.Background(), []differ.EntityInput{{ID: "e1"}})
	require.Error(t, err)
	assert.True(t, errors.IsAPIFailure(err))
	assert.False(t, errors.IsNotFound(err))
}

func TestDiffWindowedFetches(t *testing.T) {
	details := make(map[graph.ID]*graph.EntityDetail)
	var inputs []differ.EntityInput
	ids := []graph.ID{"a", "b", "c", "d", "e"}
	for _, id := range ids {
		details[id] = &graph.EntityDetail{ID: id}
		inputs = append(inputs, differ.EntityInput{ID: id})
	}
	fetcher := &fakeFetcher{details: details}
	d := newDiffer(t, fetcher, differ.WithWindowSize(2))

	result, err := d.Entities(context.Background(), inputs)
	require.NoError(t, err)

	assert.Len(t, result.Diffs, 5)
	assert.Equal(t, 5, result.Summary.TotalEntities)
	assert.LessOrEqual(t, fetcher.maxSeen, 2, "no more than one window in flight")
	assert.ElementsMatch(t, ids, fetcher.fetched)

	// Diffs come back in input order regardless of fetch interleaving.
	var got []graph.ID
	for _, diff := range result.Diffs {
		got = append(got, diff.EntityID)
	}
	assert.Equal(t, ids, got)
}

func TestDiffOperations(t *testing.T) {
	fetcher := &fakeFetcher{details: map[graph.ID]*graph.EntityDetail{
		"e1": {
			ID: "e1",
			Values: []graph.TripleValue{
				{PropertyID: "p1", Value: graph.Value{Type: graph.Number, Value: "1"}},
			},
			Relations: []graph.RelationRecord{
				{ID: "r-z", TypeID: "p2", FromEntity: "e1", ToEntity: "Z"},
			},
		},
	}}
	d := newDiffer(t, fetcher)

	result, err := d.Entities(context.Background(), []differ.EntityInput{
		{
			ID: "e1",
			Scalars: []differ.ScalarInput{
				{PropertyID: "p1", PropertyName: "Employees", DataType: graph.Number, Raw: "2"},
			},
			Relations: []differ.RelationInput{
				{PropertyID: "p2", PropertyName: "Knows", TargetIDs: []graph.ID{"X"}},
			},
		},
	})
	require.NoError(t, err)

	ops := result.Operations()
	require.Len(t, ops, 3)
	assert.Equal(t, graph.OpSetTriple, ops[0].Kind())
	assert.Equal(t, graph.OpCreateRelation, ops[1].Kind())
	assert.Equal(t, graph.OpDeleteRelation, ops[2].Kind())
}
