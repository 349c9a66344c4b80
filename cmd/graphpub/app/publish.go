package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/tracefold/graphpub/internal/batchfile"
	"github.com/tracefold/graphpub/pkg/batch"
	"github.com/tracefold/graphpub/pkg/graph"
	"github.com/tracefold/graphpub/pkg/relations"
	"github.com/tracefold/graphpub/pkg/resolver"
)

// createPublishCommand creates the publish command.
func (a *App) createPublishCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "publish <batch-file>",
		Short: "Build the upsert operation batch for a batch file",
		Long: `Publish resolves every name in the batch file against the graph
store, builds relation edges, and emits the ordered create/link operation
list as JSON on stdout. The store is not mutated.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := a.Logger()

			declared, err := batchfile.Load(args[0])
			if err != nil {
				return err
			}

			client, err := a.Client()
			if err != nil {
				return err
			}

			res, err := a.resolveBatch(ctx, client, declared)
			if err != nil {
				return err
			}

			edges, err := relations.Build(ctx, res.Map)
			if err != nil {
				return err
			}
			for _, w := range edges.Warnings {
				log.Warn().
					Str("entity", w.Entity).
					Str("property", w.Property).
					Msg(w.Message)
			}

			builder, err := batch.New(batch.WithMediaUploader(client))
			if err != nil {
				return err
			}
			ops, err := builder.Build(ctx, res, edges.Edges)
			if err != nil {
				return err
			}
			for _, w := range ops.Warnings {
				log.Warn().
					Str("kind", w.Kind).
					Str("entity", w.Entity).
					Str("property", w.Property).
					Msg(w.Message)
			}

			log.Info().
				Int("operations", len(ops.Ops)).
				Int("entities_created", ops.Summary.EntitiesCreated).
				Int("entities_linked", ops.Summary.EntitiesLinked).
				Int("multi_type_entities", len(ops.Summary.MultiTypeEntities)).
				Msg("publish batch built")

			return writeOperations(os.Stdout, ops.Ops)
		},
	}
}

// resolveBatch runs name resolution and reports its warnings once.
func (a *App) resolveBatch(ctx context.Context, searcher graph.Searcher, declared *graph.Batch) (*resolver.Result, error) {
	b, err := resolver.New(searcher, resolver.WithSpace(a.Space()))
	if err != nil {
		return nil, err
	}

	res, err := b.Resolve(ctx, declared)
	if err != nil {
		return nil, err
	}
	for _, w := range res.Warnings {
		a.Logger().Warn().
			Str("kind", w.Kind).
			Str("name", w.Name).
			Msg(w.Message)
	}
	return res, nil
}
