package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphpad/pkg/graph"
	gpio "github.com/matzehuels/graphpad/pkg/io"
)

// graphInfo is the --json output of the info command.
type graphInfo struct {
	Path   string          `json:"path"`
	Format string          `json:"format"`
	Nodes  int             `json:"nodes"`
	Edges  int             `json:"edges"`
	Angle  float64         `json:"angle"`
	Bounds *[2]graph.Point `json:"bounds,omitempty"`
}

func (c *CLI) infoCommand() *cobra.Command {
	var listNodes, asJSON bool

	cmd := &cobra.Command{
		Use:   "info <file>",
		Short: "Print node and edge counts of a graph",
		Example: `  graphpad info diagram.graph
  graphpad info --nodes diagram.toml`,
		ValidArgsFunction: completeGraphFiles,
		Args:              cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := gpio.ImportFile(args[0])
			if err != nil {
				return err
			}
			info := graphInfo{
				Path:   args[0],
				Format: string(gpio.FormatFor(args[0])),
				Nodes:  g.NodeCount(),
				Edges:  g.EdgeCount(),
				Angle:  g.Angle(),
			}
			if lo, hi, ok := g.Bounds(); ok {
				info.Bounds = &[2]graph.Point{lo, hi}
			}

			w := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				return enc.Encode(info)
			}
			printInfoSummary(w, info)
			if listNodes && g.NodeCount() > 0 {
				fmt.Fprintln(w)
				fmt.Fprintln(w, nodeTable(g))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&listNodes, "nodes", false, "list every node")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print machine-readable JSON")
	return cmd
}

func printInfoSummary(w io.Writer, info graphInfo) {
	fmt.Fprintln(w, StyleTitle.Render(info.Path))
	printKeyValue(w, "Format", info.Format)
	printKeyValue(w, "Nodes", strconv.Itoa(info.Nodes))
	printKeyValue(w, "Edges", strconv.Itoa(info.Edges))
	printKeyValue(w, "Angle", strconv.FormatFloat(info.Angle, 'g', -1, 64))
	if info.Bounds != nil {
		printKeyValue(w, "Extent", fmt.Sprintf("%s to %s", info.Bounds[0], info.Bounds[1]))
	}
}

// nodeTable lists nodes by ID with their position, color and degree.
func nodeTable(g *graph.Graph) string {
	degree := make(map[graph.NodeID]int)
	for _, e := range g.Edges() {
		degree[e.From]++
		degree[e.To]++
	}

	nodes := g.Nodes()
	rows := make([][]string, 0, len(nodes))
	for _, n := range nodes {
		rows = append(rows, []string{
			strconv.Itoa(int(n.ID)),
			strconv.FormatFloat(n.Pos.X, 'g', -1, 64),
			strconv.FormatFloat(n.Pos.Y, 'g', -1, 64),
			n.Color.Name(),
			strconv.Itoa(degree[n.ID]),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "X", "Y", "Color", "Degree").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle.Padding(0, 1)
			}
			if col == 3 {
				return penStyle(nodes[row].Color).Padding(0, 1)
			}
			return cellStyle
		})
	return t.Render()
}
