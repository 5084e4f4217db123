package main

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
)

type listFlags struct {
	page      int
	perPage   int
	query     string
	favorites bool
}

func (c *cli) listCmd() *cobra.Command {
	var f listFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "Print one page of products",
		Long: `Fetch one page of the remote catalog and print it with local likes,
edits and deletions applied. Filters given here are not saved.`,
		Example: `  shelf list
  shelf list --page 3 --per-page 24
  shelf list --query phone --favorites --json`,
		Args: cobra.NoArgs,
		RunE: c.withSession(func(cmd *cobra.Command, s *app.Session, _ []string) error {
			return c.runList(cmd, s, f)
		}),
	}

	cmd.Flags().IntVar(&f.page, "page", 1, "page number")
	cmd.Flags().IntVar(&f.perPage, "per-page", 0, "products per page (default from config)")
	cmd.Flags().StringVarP(&f.query, "query", "q", "", "only products whose title or description contains this text")
	cmd.Flags().BoolVar(&f.favorites, "favorites", false, "only liked products")
	return cmd
}

func (c *cli) runList(cmd *cobra.Command, s *app.Session, f listFlags) error {
	s.Store.SetQuery(f.query)
	s.Store.SetFavoritesOnly(f.favorites)
	if cmd.Flags().Changed("per-page") {
		s.Store.SetPerPage(f.perPage)
	}
	s.Store.SetPage(f.page)

	s.Loader.LoadProducts(cmd.Context())

	snap := s.Store.Snapshot()
	if snap.Status == catalog.StatusFailed {
		return errors.Errorf("list products: %s", snap.Error)
	}
	view := catalog.NewProjector().Project(snap)

	out := cmd.OutOrStdout()
	if c.jsonOutput {
		page := pageJSON{
			Page:     view.Page,
			LastPage: view.LastPage,
			PerPage:  view.PerPage,
			Total:    view.PagingTotal,
			Products: make([]productJSON, 0, len(view.Items)),
		}
		for _, p := range view.Items {
			page.Products = append(page.Products, toJSON(p, snap))
		}
		return writeJSON(out, page)
	}

	if len(view.Items) == 0 {
		fmt.Fprintln(out, "No products.")
		return nil
	}
	fmt.Fprintln(out, productTable(view.Items, snap))
	fmt.Fprintf(out, "Page %d/%d, %d products\n", view.Page, view.LastPage, view.PagingTotal)
	return nil
}
