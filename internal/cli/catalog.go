package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rushteam/gamerec/catalog"
)

func newCatalogCmd(load loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Catalog maintenance",
	}
	cmd.AddCommand(newCatalogValidateCmd())
	cmd.AddCommand(newCatalogWatchCmd(load))
	return cmd
}

func newCatalogValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check a catalog file for duplicate ids, bad vectors and unparseable fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := catalog.LoadFile(args[0])
			if err != nil {
				return err
			}
			dlc := 0
			for g := range cat.All() {
				if g.DLC {
					dlc++
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "ok: %d games (%d dlc), vector dimension %d\n", cat.Len(), dlc, cat.Dim())
			return nil
		},
	}
}

func newCatalogWatchCmd(load loader) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch catalog.path and hot-swap the engine snapshot on change",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			rt, err := open(ctx, load)
			if err != nil {
				return err
			}
			defer rt.Close()
			if rt.cfg.Catalog.Path == "" {
				return fmt.Errorf("catalog.path is required for watch")
			}

			w := &catalog.Watcher{
				Path:     rt.cfg.Catalog.Path,
				Debounce: rt.cfg.Catalog.Debounce,
				Logger:   rt.logger,
				OnReload: func(cat *catalog.Catalog) error {
					if err := rt.engine.SwapCatalog(ctx, cat); err != nil {
						return err
					}
					return catalog.Persist(context.WithoutCancel(ctx), rt.store, rt.cfg.Catalog.SnapshotKey, cat)
				},
			}
			return w.Run(ctx)
		},
	}
}
