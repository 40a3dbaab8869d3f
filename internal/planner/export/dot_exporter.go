package export

import (
	"fmt"
	"strings"

	"github.com/gtnh-tools/planner-backend/internal/planner/domain"
)

// ToDOT renders a plan graph for graphviz. Material nodes are boxes, recipe
// nodes are filled records carrying machine counts.
func ToDOT(g *domain.PlanGraph, title string) string {
	var b strings.Builder
	b.WriteString("digraph plan {\n  rankdir=LR;\n  node [shape=box, style=rounded];\n")
	if title != "" {
		b.WriteString(fmt.Sprintf(`  labelloc="t"; label="%s"; fontname="Helvetica";`, title))
		b.WriteString("\n")
	}

	for _, n := range g.Nodes {
		label := n.Label
		style := `shape=box,style="rounded,filled",fillcolor="#eef6ff"`
		if n.Type == "recipe" {
			style = `shape=box,style="filled",fillcolor="#fff3cd"`
			if n.MachinesRequired != nil {
				label = fmt.Sprintf("%s\\n%dx", n.Label, *n.MachinesRequired)
			}
			if n.Utilization != nil && *n.Utilization < 1 {
				label = fmt.Sprintf("%s (%.0f%%)", label, *n.Utilization*100)
			}
		} else if n.TargetRatePerS != nil {
			label = fmt.Sprintf("%s\\n%.3g/s", n.Label, *n.TargetRatePerS)
			style = `shape=box,style="rounded,filled",fillcolor="#d4edda"`
		}
		b.WriteString(fmt.Sprintf(`  "%s" [label="%s", %s];`+"\n", n.ID, label, style))
	}

	for _, e := range g.Edges {
		attrs := fmt.Sprintf(`label="%.3g/s"`, e.RatePerS)
		if e.Kind == "byproduct" {
			attrs += `, style=dashed`
		}
		b.WriteString(fmt.Sprintf(`  "%s" -> "%s" [%s];`+"\n", e.Source, e.Target, attrs))
	}

	b.WriteString("}\n")
	return b.String()
}
