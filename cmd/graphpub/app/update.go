package app

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/tracefold/graphpub/internal/batchfile"
	"github.com/tracefold/graphpub/pkg/differ"
)

// createUpdateCommand creates the update command.
func (a *App) createUpdateCommand() *cobra.Command {
	var additive bool
	var window int

	cmd := &cobra.Command{
		Use:   "update <batch-file>",
		Short: "Diff a batch file against live state and build update operations",
		Long: `Update resolves the batch file's names, fetches live state for
every linked entity, and emits only the operations needed to close the gap:
scalar writes for changed values, relation additions, and relation removals.

Blank cells state no opinion and never overwrite live values. With
--additive, declared relation lists only append targets and existing
relations are never removed.`,
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

			inputs, warnings, err := differ.InputsFromMap(res.Map)
			if err != nil {
				return err
			}
			for _, w := range warnings {
				log.Warn().
					Str("entity", w.Entity).
					Str("property", w.Property).
					Msg(w.Message)
			}

			opts := []differ.Option{
				differ.WithSpace(a.Space()),
				differ.WithAdditive(additive),
			}
			if window > 0 {
				opts = append(opts, differ.WithWindowSize(window))
			} else if a.config.WindowSize > 0 {
				opts = append(opts, differ.WithWindowSize(a.config.WindowSize))
			}

			d, err := differ.New(client, opts...)
			if err != nil {
				return err
			}
			result, err := d.Entities(ctx, inputs)
			if err != nil {
				return err
			}
			for _, w := range result.Warnings {
				log.Warn().
					Str("entity", w.Entity).
					Str("property", w.Property).
					Msg(w.Message)
			}

			ops := result.Operations()
			log.Info().
				Int("operations", len(ops)).
				Int("entities_changed", result.Summary.EntitiesWithChanges).
				Int("entities_skipped", result.Summary.EntitiesSkipped).
				Bool("additive", additive).
				Msg("update batch built")

			return writeOperations(os.Stdout, ops)
		},
	}

	cmd.Flags().BoolVar(&additive, "additive", false, "append relation targets without removing existing ones")
	cmd.Flags().IntVar(&window, "window", 0, "detail fetch window size (default 8)")
	return cmd
}
