// Package deleter builds blanking batches: operations that remove every
// outgoing relation, every incoming relation, and every scalar property of a
// set of entities without touching the entities' own identity. The store has
// no usable delete-entity primitive, so blanking is the only observable form
// of deletion.
package deleter

import (
	"context"
	"sync"

	"github.com/tracefold/graphpub/pkg/errors"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/logging"
)

// DefaultWindowSize is the number of detail fetches in flight per window.
const DefaultWindowSize = 8

// Summary counts what a delete batch will do.
type Summary struct {
	EntitiesProcessed int
	RelationsToDelete int
	BacklinksToDelete int
	PropertiesToUnset int
}

// Batch is the ordered blanking operation list.
type Batch struct {
	Ops     []graph.Operation
	Summary Summary
}

// Deleter fetches live details and builds blanking batches.
type Deleter interface {
	// Delete fetches details for the given entities and builds their
	// blanking batch. A failed fetch is fatal; an id with no live entity
	// is an input error, not an API failure.
	Delete(ctx context.Context, ids []graph.ID) (*Batch, error)
}

// deleter is the default implementation of Deleter.
type deleter struct {
	fetcher    graph.DetailFetcher
	space      graph.ID
	windowSize int
}

// New creates a Deleter with options.
func New(fetcher graph.DetailFetcher, opts ...Option) (Deleter, error) {
	if fetcher == nil {
		return nil, &errors.ValidationError{Field: "fetcher", Message: "cannot be nil"}
	}
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &deleter{
		fetcher:    fetcher,
		space:      options.space,
		windowSize: options.windowSize,
	}, nil
}

// Delete implements Deleter.
func (d *deleter) Delete(ctx context.Context, ids []graph.ID) (*Batch, error) {
	details := make([]*graph.EntityDetail, 0, len(ids))

	for start := 0; start < len(ids); start += d.windowSize {
		end := start + d.windowSize
		if end > len(ids) {
			end = len(ids)
		}
		window, err := d.fetchWindow(ctx, ids[start:end])
		if err != nil {
			return nil, err
		}
		details = append(details, window...)
	}

	b := Build(ctx, details)
	return b, nil
}

// fetchWindow fetches one window of details concurrently and joins fully
// before returning.
func (d *deleter) fetchWindow(ctx context.Context, ids []graph.ID) ([]*graph.EntityDetail, error) {
	var wg sync.WaitGroup
	details := make([]*graph.EntityDetail, len(ids))
	errs := make([]error, len(ids))

	for i := range ids {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			details[i], errs[i] = d.fetcher.FetchEntityDetail(ctx, ids[i], d.space)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			return nil, errors.WrapAPI("fetch detail", "entity "+ids[i].String(), err)
		}
		if details[i] == nil {
			// Unlike diffing, delete ids arrive unconfirmed; a missing
			// detail here means the entity does not exist.
			return nil, &errors.NotFoundError{Resource: "entity", ID: ids[i].String()}
		}
	}
	return details, nil
}

// claim tracks which entity first claimed each relation record.
type claim struct {
	outgoing  [][]graph.ID // per entity, claimed outgoing record ids
	backlinks [][]graph.ID // per entity, claimed backlink record ids
	unsets    [][]graph.ID // per entity, distinct property ids
}

// Build computes the blanking batch for already-fetched details. A single
// dedup set spans the whole batch: a relation that is entity A's outgoing
// edge and entity B's backlink is deleted exactly once. Candidates are
// collected first and ops emitted afterwards, so the dedup invariant does
// not depend on emission order. An entity with no triples contributes no
// ops; that is "nothing to do", not an error.
func Build(ctx context.Context, details []*graph.EntityDetail) *Batch {
	logger := logging.FromContext(ctx)

	b := &Batch{}
	claimed := make(map[graph.ID]bool)
	c := claim{
		outgoing:  make([][]graph.ID, len(details)),
		backlinks: make([][]graph.ID, len(details)),
		unsets:    make([][]graph.ID, len(details)),
	}

	// Collect pass: claim every relation record once across the batch.
	// Type-assignment edges are ordinary relations and are collected too.
	for i, detail := range details {
		for _, rec := range detail.Relations {
			if claimed[rec.ID] {
				continue
			}
			claimed[rec.ID] = true
			c.outgoing[i] = append(c.outgoing[i], rec.ID)
		}
		for _, rec := range detail.Backlinks {
			if claimed[rec.ID] {
				continue
			}
			claimed[rec.ID] = true
			c.backlinks[i] = append(c.backlinks[i], rec.ID)
		}

		seenProps := make(map[graph.ID]bool)
		for _, tv := range detail.Values {
			// A property with multiple stored values is unset once.
			if seenProps[tv.PropertyID] {
				continue
			}
			seenProps[tv.PropertyID] = true
			c.unsets[i] = append(c.unsets[i], tv.PropertyID)
		}
	}

	// Emit pass: relations before property unsets, per entity, in input
	// order. Not semantically required, but kept deterministic.
	for i, detail := range details {
		for _, recID := range c.outgoing[i] {
			b.Ops = append(b.Ops, graph.DeleteRelationOp{RelationID: recID})
		}
		for _, recID := range c.backlinks[i] {
			b.Ops = append(b.Ops, graph.DeleteRelationOp{RelationID: recID})
		}
		for _, propID := range c.unsets[i] {
			b.Ops = append(b.Ops, graph.UnsetPropertyOp{EntityID: detail.ID, PropertyID: propID})
		}
		b.Summary.RelationsToDelete += len(c.outgoing[i])
		b.Summary.BacklinksToDelete += len(c.backlinks[i])
		b.Summary.PropertiesToUnset += len(c.unsets[i])
	}
	b.Summary.EntitiesProcessed = len(details)

	logger.Info().
		Int("entities", b.Summary.EntitiesProcessed).
		Int("relations", b.Summary.RelationsToDelete).
		Int("backlinks", b.Summary.BacklinksToDelete).
		Int("unsets", b.Summary.PropertiesToUnset).
		Msg("Delete batch built")

	return b
}
