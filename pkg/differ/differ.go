// Package differ computes per-entity diffs between desired batch values and
// the live state of already-resolved entities. Comparison happens in
// canonical form: a diff never fires because of representation differences
// between an authored cell and the stored value. Live details are fetched in
// fixed-size concurrent windows; each window is fully joined before any of
// its members are diffed, and a single failed fetch aborts the entire run.
package differ

import (
	"context"
	"sync"

	"github.com/tracefold/graphpub/pkg/canonical"
	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/logging"
)

// DefaultWindowSize is the number of detail fetches in flight per window.
const DefaultWindowSize = 8

// Differ computes entity diffs against live state.
type Differ interface {
	// Entities diffs every input entity and aggregates a summary. The
	// inputs' existence must have been confirmed beforehand: a missing
	// detail here is an API failure, not absence.
	Entities(ctx context.Context, inputs []EntityInput) (*Result, error)
}

// differ is the default implementation of Differ.
type differ struct {
	fetcher    graph.DetailFetcher
	space      graph.ID
	additive   bool
	windowSize int
}

// New creates a Differ with options.
func New(fetcher graph.DetailFetcher, opts ...Option) (Differ, error) {
	if fetcher == nil {
		return nil, &errors.ValidationError{Field: "fetcher", Message: "cannot be nil"}
	}
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &differ{
		fetcher:    fetcher,
		space:      options.space,
		additive:   options.additive,
		windowSize: options.windowSize,
	}, nil
}

// Entities implements Differ.
func (d *differ) Entities(ctx context.Context, inputs []EntityInput) (*Result, error) {
	logger := logging.FromContext(ctx)
	result := &Result{}

	for start := 0; start < len(inputs); start += d.windowSize {
		end := start + d.windowSize
		if end > len(inputs) {
			end = len(inputs)
		}
		window := inputs[start:end]

		details, err := d.fetchWindow(ctx, window)
		if err != nil {
			return nil, err
		}

		// The window is fully joined; now diff its members in input order.
		for i, input := range window {
			diff := d.entity(input, details[i], result)
			result.Diffs = append(result.Diffs, diff)
			d.tally(diff, &result.Summary)
		}
	}

	result.Summary.TotalEntities = len(inputs)

	logger.Info().
		Int("entities", result.Summary.TotalEntities).
		Int("with_changes", result.Summary.EntitiesWithChanges).
		Int("skipped", result.Summary.EntitiesSkipped).
		Msg("Diff computed")

	return result, nil
}

// fetchWindow fetches live details for one window concurrently and joins
// before returning. Results are merged only after every fetch resolves.
func (d *differ) fetchWindow(ctx context.Context, window []EntityInput) ([]*graph.EntityDetail, error) {
	var wg sync.WaitGroup
	details := make([]*graph.EntityDetail, len(window))
	errs := make([]error, len(window))

	for i := range window {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			details[i], errs[i] = d.fetcher.FetchEntityDetail(ctx, window[i].ID, d.space)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, errors.WrapAPI("fetch detail", "entity "+window[i].ID.String(), err)
		}
		if details[i] == nil {
			// Existence was confirmed before diffing began, so a nil here
			// is an API failure, never "does not exist".
			return nil, errors.NewAPIError("fetch detail", "entity "+window[i].ID.String(), 0,
				errors.New("confirmed entity returned no detail"))
		}
	}
	return details, nil
}

// entity diffs one entity's scalars and relations.
func (d *differ) entity(input EntityInput, detail *graph.EntityDetail, result *Result) EntityDiff {
	diff := EntityDiff{
		EntityID:   input.ID,
		EntityName: input.Name,
	}

	for _, sc := range input.Scalars {
		d.scalar(input, sc, detail, &diff, result)
	}
	for _, rel := range input.Relations {
		d.relation(rel, detail, &diff)
	}

	if len(diff.ScalarChanges) == 0 && len(diff.RelationChanges) == 0 {
		diff.Status = StatusSkipped
	} else {
		diff.Status = StatusUpdated
	}
	return diff
}

// scalar compares one desired cell against the live values of its property.
func (d *differ) scalar(input EntityInput, sc ScalarInput, detail *graph.EntityDetail, diff *EntityDiff, result *Result) {
	if isBlank(sc.Raw) {
		// Blank means no opinion, never "clear this field".
		return
	}

	desired, err := canonical.Convert(sc.DataType, sc.Raw)
	if err != nil {
		result.Warnings = append(result.Warnings, Warning{
			Entity:   input.Name,
			Property: sc.PropertyName,
			Message:  errors.WrapConversion(sc.PropertyName, string(sc.DataType), sc.Raw, err).Error(),
		})
		return
	}

	var live []graph.Value
	for _, tv := range detail.Values {
		if tv.PropertyID == sc.PropertyID {
			live = append(live, tv.Value)
		}
	}

	for _, lv := range live {
		if canonical.Equal(sc.DataType, sc.Raw, lv.Value) {
			diff.UnchangedScalars++
			return
		}
	}

	change := PropertyDiff{
		PropertyID:   sc.PropertyID,
		PropertyName: sc.PropertyName,
		NewValue:     desired.Value,
		Payload:      desired,
	}
	if len(live) > 0 {
		change.OldValue = live[0].Value
	}
	diff.ScalarChanges = append(diff.ScalarChanges, change)
}

// relation computes the set difference between desired and live targets of
// one relation property. Live records count only when their type id equals
// the property id; the relation's type is the property id on the wire.
func (d *differ) relation(rel RelationInput, detail *graph.EntityDetail, diff *EntityDiff) {
	// An empty target list states no opinion, like a blank scalar cell,
	// so live records stay untouched.
	if len(rel.TargetIDs) == 0 {
		return
	}

	liveByTarget := make(map[graph.ID]graph.ID) // target -> record id
	var liveOrder []graph.ID
	for _, rec := range detail.Relations {
		if rec.TypeID != rel.PropertyID {
			continue
		}
		if _, dup := liveByTarget[rec.ToEntity]; !dup {
			liveOrder = append(liveOrder, rec.ToEntity)
		}
		liveByTarget[rec.ToEntity] = rec.ID
	}

	desired := make(map[graph.ID]bool, len(rel.TargetIDs))
	rd := RelationDiff{PropertyID: rel.PropertyID, PropertyName: rel.PropertyName}

	for _, target := range rel.TargetIDs {
		if desired[target] {
			continue
		}
		desired[target] = true
		if _, ok := liveByTarget[target]; ok {
			rd.Unchanged = append(rd.Unchanged, target)
		} else {
			rd.ToAdd = append(rd.ToAdd, target)
		}
	}

	if !d.additive {
		// In additive mode relation updates are append-only; otherwise live
		// targets absent from the desired set are removed via their own
		// record ids.
		for _, target := range liveOrder {
			if !desired[target] {
				rd.ToRemove = append(rd.ToRemove, RemovedRelation{
					RecordID: liveByTarget[target],
					TargetID: target,
				})
			}
		}
	}

	diff.UnchangedRelations += len(rd.Unchanged)
	if len(rd.ToAdd) > 0 || len(rd.ToRemove) > 0 {
		diff.RelationChanges = append(diff.RelationChanges, rd)
	}
}

// tally folds one entity diff into the run summary.
func (d *differ) tally(diff EntityDiff, s *Summary) {
	if diff.Status == StatusSkipped {
		s.EntitiesSkipped++
		return
	}
	s.EntitiesWithChanges++
	s.TotalScalarChanges += len(diff.ScalarChanges)
	for _, rc := range diff.RelationChanges {
		s.TotalRelationsAdded += len(rc.ToAdd)
		s.TotalRelationsRemoved += len(rc.ToRemove)
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
