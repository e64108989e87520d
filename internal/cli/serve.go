package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/svgplot/internal/server"
	"github.com/matzehuels/svgplot/pkg/cache"
)

// serveKeyPrefix keeps server artifacts apart from CLI renders in a shared
// cache directory.
const serveKeyPrefix = "server:"

// serveCommand creates the serve command running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve tick selection and plot rendering over HTTP",
		Long: `Serve the HTTP API until interrupted.

Routes:
  GET  /healthz   liveness probe
  GET  /ticks     tick grid for ?min=&max= as JSON
  POST /plot      render a JSON point document to SVG`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runner, err := c.newRunner(noCache, cache.NewScopedKeyer(nil, serveKeyPrefix))
			if err != nil {
				return fmt.Errorf("open cache: %w", err)
			}
			defer runner.Close()

			printKeyValue("address", addr)
			printKeyValue("cache", cacheLabel(noCache))
			return server.New(runner, c.Logger).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", defaultAddr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")

	return cmd
}

// cacheLabel describes where rendered artifacts are kept.
func cacheLabel(noCache bool) string {
	if noCache {
		return "disabled"
	}
	dir, err := cacheDir()
	if err != nil {
		return "disabled"
	}
	return dir
}
