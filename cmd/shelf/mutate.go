package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
)

func (c *cli) likeCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "like <id>",
		Short:   "Toggle the liked flag on a product",
		Example: `  shelf like 12`,
		Args:    cobra.ExactArgs(1),
		RunE: c.withSession(func(cmd *cobra.Command, s *app.Session, args []string) error {
			id := catalog.ID(args[0])
			s.Store.ToggleLiked(id)
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}

			verb := "Unliked"
			if s.Store.Snapshot().Liked[id] {
				verb = "Liked"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", verb, id)
			return nil
		}),
	}
}

func (c *cli) deleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Hide a product from every listing",
		Long: `Soft-delete a product. The remote catalog is not changed; the product
is hidden on this machine only.`,
		Example: `  shelf delete 12`,
		Args:    cobra.ExactArgs(1),
		RunE: c.withSession(func(cmd *cobra.Command, s *app.Session, args []string) error {
			id := catalog.ID(args[0])
			s.Store.SoftDelete(id)
			if err := s.Save(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", id)
			return nil
		}),
	}
}
