package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

// routeOpts holds the command-line flags for the route command.
type routeOpts struct {
	mapPath    string   // map file path, empty for the built-in demo map
	configPath string   // TOML config path
	blockNodes []string // node IDs to block before the search
	blockEdges []string // "A:B" edge pairs to block before the search
	slower     []string // "A:B" edges to apply one traffic increase to
	faster     []string // "A:B" edges to apply one traffic decrease to
	jsonOut    bool     // print the result as JSON instead of styled text
	noCache    bool     // disable the route result cache
}

// routeCommand creates the route command for one-shot path queries.
func (c *CLI) routeCommand() *cobra.Command {
	var opts routeOpts

	cmd := &cobra.Command{
		Use:   "route <start> <goal>",
		Short: "Compute the cheapest path between two nodes",
		Long: `Compute the cheapest path between two nodes of a road map.

The overlay can be perturbed before the search: --block-node and
--block-edge remove elements, --slower and --faster shift edge weights
by one traffic step. Edges are written as FROM:TO, in either order.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRoute(cmd, args[0], args[1], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.mapPath, "map", "m", "", "map file (default: built-in demo map)")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "TOML config file")
	cmd.Flags().StringArrayVar(&opts.blockNodes, "block-node", nil, "block a node (repeatable)")
	cmd.Flags().StringArrayVar(&opts.blockEdges, "block-edge", nil, "block an edge FROM:TO (repeatable)")
	cmd.Flags().StringArrayVar(&opts.slower, "slower", nil, "add traffic to an edge FROM:TO (repeatable)")
	cmd.Flags().StringArrayVar(&opts.faster, "faster", nil, "remove traffic from an edge FROM:TO (repeatable)")
	cmd.Flags().BoolVar(&opts.jsonOut, "json", false, "print the result as JSON")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the route result cache")

	return cmd
}

func (c *CLI) runRoute(cmd *cobra.Command, start, goal string, opts *routeOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if opts.mapPath == "" {
		opts.mapPath = cfg.Map.Path
	}

	topo, err := loadTopology(opts.mapPath)
	if err != nil {
		return err
	}
	c.Logger.Debug("loaded map", "nodes", topo.NodeCount(), "edges", topo.EdgeCount())

	g := graph.New(topo, cfg.GraphOptions())
	if err := applyPerturbations(g, opts); err != nil {
		return err
	}

	p, err := c.newPlanner(opts.noCache)
	if err != nil {
		return err
	}
	defer p.Close()

	prog := newProgress(c.Logger)
	route, cached, err := p.RouteWithCacheInfo(cmd.Context(), g, start, goal)
	if err != nil {
		return err
	}
	prog.done("Computed route")

	if opts.jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(route)
	}

	if !route.Found {
		printWarning("No path from %s to %s", start, goal)
		return nil
	}

	printSuccess("%s %s %s", StyleValue.Render(start), iconArrow, StyleValue.Render(goal))
	printDetail("Path:     %s", strings.Join(route.Path, " "+iconArrow+" "))
	printDetail("Cost:     %s", StyleNumber.Render(fmt.Sprintf("%.1f", route.Cost)))
	printDetail("Expanded: %d nodes", route.Expanded)
	if cached {
		printDetail("Source:   cached")
	}
	return nil
}

// applyPerturbations applies block and traffic flags to a fresh overlay.
func applyPerturbations(g *graph.Graph, opts *routeOpts) error {
	for _, id := range opts.blockNodes {
		if _, err := g.ToggleBlockedNode(id); err != nil {
			return err
		}
	}
	for _, spec := range opts.blockEdges {
		a, b, err := splitEdge(spec)
		if err != nil {
			return err
		}
		if _, err := g.ToggleBlockedEdge(a, b); err != nil {
			return err
		}
	}
	for _, spec := range opts.slower {
		a, b, err := splitEdge(spec)
		if err != nil {
			return err
		}
		if err := g.AdjustWeight(a, b, graph.Increase); err != nil {
			return err
		}
	}
	for _, spec := range opts.faster {
		a, b, err := splitEdge(spec)
		if err != nil {
			return err
		}
		if err := g.AdjustWeight(a, b, graph.Decrease); err != nil {
			return err
		}
	}
	return nil
}

// splitEdge parses a FROM:TO edge spec.
func splitEdge(spec string) (string, string, error) {
	parts := strings.SplitN(spec, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", errors.New(errors.ErrCodeInvalidInput,
			"edge must be written FROM:TO, got %q", spec)
	}
	return parts[0], parts[1], nil
}
