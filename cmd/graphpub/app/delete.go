package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tracefold/graphpub/pkg/deleter"
	"github.com/tracefold/graphpub/pkg/graph"
)

// createDeleteCommand creates the delete command.
func (a *App) createDeleteCommand() *cobra.Command {
	var window int

	cmd := &cobra.Command{
		Use:   "delete <entity-id>...",
		Short: "Build the blanking operation batch for entities",
		Long: `Delete fetches the live state of every given entity and emits the
operations that blank it: every relation record touching the entity is
deleted (each record once, even when it appears on several entities in the
batch) and every stored property is unset. The entities themselves are not
destroyed and the store is not mutated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			log := a.Logger()

			client, err := a.Client()
			if err != nil {
				return err
			}

			opts := []deleter.Option{deleter.WithSpace(a.Space())}
			if window > 0 {
				opts = append(opts, deleter.WithWindowSize(window))
			} else if a.config.WindowSize > 0 {
				opts = append(opts, deleter.WithWindowSize(a.config.WindowSize))
			}

			d, err := deleter.New(client, opts...)
			if err != nil {
				return err
			}

			ids := make([]graph.ID, 0, len(args))
			for _, arg := range args {
				ids = append(ids, graph.ID(arg))
			}

			b, err := d.Delete(ctx, ids)
			if err != nil {
				return err
			}

			log.Info().
				Int("operations", len(b.Ops)).
				Int("entities", b.Summary.EntitiesProcessed).
				Int("relations", b.Summary.RelationsToDelete).
				Int("backlinks", b.Summary.BacklinksToDelete).
				Int("unsets", b.Summary.PropertiesToUnset).
				Msg("delete batch built")

			return writeOperations(os.Stdout, b.Ops)
		},
	}

	cmd.Flags().IntVar(&window, "window", 0, "detail fetch window size (default 8)")
	return cmd
}
