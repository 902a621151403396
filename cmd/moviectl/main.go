// Command moviectl searches movies and manages favorites through the movies API.
package main

import (
	"fmt"
	"os"
	"time"

	"moviefav/client"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	apiURL  string
	timeout time.Duration
}

func (o *rootOptions) client() *client.Client {
	return client.New(client.Options{
		BaseURL: o.apiURL,
		Retries: 1,
	})
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "moviectl",
		Short: "Search OMDb and manage favorite movies",
		Long: `moviectl talks to the movies API.

Available commands:
  search    - Search movies by title
  favorites - List favorite movies
  add       - Add a movie to favorites
  remove    - Remove a movie from favorites`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	apiURL := os.Getenv("MOVIES_API_URL")
	if apiURL == "" {
		apiURL = client.DefaultBaseURL
	}
	root.PersistentFlags().StringVar(&opts.apiURL, "api-url", apiURL, "Base URL of the movies API (env MOVIES_API_URL)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 15*time.Second, "Request timeout")

	root.AddCommand(
		newSearchCmd(opts),
		newFavoritesCmd(opts),
		newAddCmd(opts),
		newRemoveCmd(opts),
	)
	return root
}
