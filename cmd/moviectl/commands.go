package main

import (
	"context"
	"fmt"
	"strings"

	"moviefav/movie"

	"github.com/spf13/cobra"
)

func (o *rootOptions) context(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return context.WithTimeout(cmd.Context(), o.timeout)
}

func newSearchCmd(opts *rootOptions) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:   "search <title>",
		Short: "Search movies by title",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			query := strings.Join(args, " ")
			res, err := opts.client().SearchMovies(ctx, query, page)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Movies) == 0 {
				fmt.Fprintf(out, "No movies found for %q\n", query)
				return nil
			}
			fmt.Fprintln(out, renderSearch(res))
			fmt.Fprintln(out, footerStyle.Render(searchFooter(res, page)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", movie.DefaultPage, "Result page")
	return cmd
}

func newFavoritesCmd(opts *rootOptions) *cobra.Command {
	var page int

	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"list", "ls"},
		Short:   "List favorite movies",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			res, err := opts.client().GetFavorites(ctx, page)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(res.Favorites) == 0 && res.CurrentPage <= 1 {
				fmt.Fprintln(out, "No favorites yet")
				return nil
			}
			fmt.Fprintln(out, renderFavorites(res))
			fmt.Fprintln(out, footerStyle.Render(pageFooter(res.CurrentPage, res.TotalPages)))
			return nil
		},
	}
	cmd.Flags().IntVarP(&page, "page", "p", movie.DefaultPage, "Favorites page")
	return cmd
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var m movie.Movie

	cmd := &cobra.Command{
		Use:   "add <imdbID>",
		Short: "Add a movie to favorites",
		Example: `  moviectl add tt0113277 --title Heat --year 1995
  moviectl add tt0372784 --title "Batman Begins" --year 2005 --poster https://example.com/p.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			m.ImdbID = args[0]
			msg, err := opts.client().AddToFavorites(ctx, m)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
	cmd.Flags().StringVar(&m.Title, "title", "", "Movie title")
	cmd.Flags().StringVar(&m.Year, "year", "", "Release year")
	cmd.Flags().StringVar(&m.Poster, "poster", "", "Poster URL")
	return cmd
}

func newRemoveCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <imdbID>",
		Aliases: []string{"rm"},
		Short:   "Remove a movie from favorites",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := opts.context(cmd)
			defer cancel()

			msg, err := opts.client().RemoveFromFavorites(ctx, args[0])
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		},
	}
}
