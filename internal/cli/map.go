package cli

import (
	"fmt"
	"path/filepath"
	"sort"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/graph"
)

// mapCommand creates the map inspection command.
func (c *CLI) mapCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Inspect and validate map files",
	}

	cmd.AddCommand(c.mapInfoCommand())
	cmd.AddCommand(c.mapValidateCommand())
	cmd.AddCommand(c.mapExportCommand())

	return cmd
}

// mapInfoCommand creates the "map info" subcommand.
func (c *CLI) mapInfoCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "info [file]",
		Short: "Print map statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}
			topo, err := loadTopology(path)
			if err != nil {
				return err
			}

			name := path
			if name == "" {
				name = "built-in demo map"
			}
			fmt.Println(StyleTitle.Render("Map: " + name))
			printKeyValue("Nodes", fmt.Sprintf("%d", topo.NodeCount()))
			printKeyValue("Edges", fmt.Sprintf("%d", topo.EdgeCount()))
			printKeyValue("Hash", topo.Hash()[:12])
			printKeyValue("Components", fmt.Sprintf("%d", componentCount(topo)))

			fmt.Println()
			fmt.Println(StyleTitle.Render("Degree table"))
			for _, row := range degreeTable(topo) {
				printDetail("%-12s %s", row.id, StyleNumber.Render(fmt.Sprintf("%d", row.degree)))
			}
			return nil
		},
	}
}

// mapValidateCommand creates the "map validate" subcommand.
func (c *CLI) mapValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <file>",
		Short: "Check that a map file loads cleanly",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			topo, err := graph.ReadMapFile(args[0])
			if err != nil {
				printError("Invalid map: %v", err)
				return err
			}

			printSuccess("Valid map: %d nodes, %d edges", topo.NodeCount(), topo.EdgeCount())
			if n := componentCount(topo); n > 1 {
				printWarning("Map has %d disconnected components; some routes will not exist", n)
			}
			for _, id := range topo.Nodes() {
				if len(topo.Neighbors(id)) == 0 {
					printWarning("Node %q has no edges", id)
				}
			}
			return nil
		},
	}
}

// mapExportCommand creates the "map export" subcommand.
func (c *CLI) mapExportCommand() *cobra.Command {
	var mapPath string

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write a map to a JSON file",
		Long: `Write a map to a JSON file. With --map this round-trips an existing
file; without it the built-in demo map is exported as a starting point
for custom maps.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := filepath.Base(args[0])
			if err := errors.ValidateMapFilename(out); err != nil {
				return err
			}
			topo, err := loadTopology(mapPath)
			if err != nil {
				return err
			}
			if err := graph.WriteMapFile(topo, args[0]); err != nil {
				return err
			}
			printSuccess("Exported %d nodes, %d edges", topo.NodeCount(), topo.EdgeCount())
			printDetail("File: %s", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&mapPath, "map", "m", "", "source map file (default: built-in demo map)")

	return cmd
}

// componentCount counts connected components with a breadth-first sweep.
func componentCount(t *graph.Topology) int {
	seen := make(map[string]bool, t.NodeCount())
	count := 0
	for _, start := range t.Nodes() {
		if seen[start] {
			continue
		}
		count++
		queue := []string{start}
		seen[start] = true
		for len(queue) > 0 {
			id := queue[0]
			queue = queue[1:]
			for _, n := range t.Neighbors(id) {
				if !seen[n] {
					seen[n] = true
					queue = append(queue, n)
				}
			}
		}
	}
	return count
}

type degreeRow struct {
	id     string
	degree int
}

// degreeTable lists nodes by descending degree, then by ID.
func degreeTable(t *graph.Topology) []degreeRow {
	rows := make([]degreeRow, 0, t.NodeCount())
	for _, id := range t.Nodes() {
		rows = append(rows, degreeRow{id: id, degree: len(t.Neighbors(id))})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].degree != rows[j].degree {
			return rows[i].degree > rows[j].degree
		}
		return rows[i].id < rows[j].id
	})
	return rows
}
