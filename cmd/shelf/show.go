package main

import (
	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
)

func (c *cli) showCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Print one product",
		Long: `Print a single product with local edits applied. Products created
locally are shown without contacting the remote catalog.`,
		Example: `  shelf show 12
  shelf show 12 --json`,
		Args: cobra.ExactArgs(1),
		RunE: c.withSession(func(cmd *cobra.Command, s *app.Session, args []string) error {
			id := catalog.ID(args[0])
			s.Loader.LoadProductByID(cmd.Context(), id)

			p, ok := s.Store.Get(id)
			if !ok {
				snap := s.Store.Snapshot()
				if snap.Error != "" {
					return errors.Errorf("product %s: %s", id, snap.Error)
				}
				return errors.Errorf("product %s not found", id)
			}

			snap := s.Store.Snapshot()
			if c.jsonOutput {
				return writeJSON(cmd.OutOrStdout(), toJSON(p, snap))
			}
			writeProduct(cmd.OutOrStdout(), p, snap)
			return nil
		}),
	}
}
