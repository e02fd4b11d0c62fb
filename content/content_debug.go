package content

import (
	"maps"
	"slices"
	"sort"
	"strconv"

	"github.com/maruel/natural"

	"mdc/compose"
	"mdc/utils/debug"
)

// String returns a readable summary of the prepared Content.
// It exists solely for manual inspection during debugging.
func (c *Content) String() string {
	if c == nil {
		return "<nil Content>"
	}

	tw := debug.NewTreeWriter()
	tw.Line(0, "Document[%q]", c.SrcName)
	tw.Line(1, "ID: %s", c.ID)
	tw.Line(1, "Language: %s", c.Lang)
	tw.TextBlock(1, "Title", c.Title)
	tw.Line(1, "Output format: %s", c.OutputFormat)

	if len(c.Resources) > 0 {
		tw.Line(0, "Resources index: %d", len(c.Resources))
		keys := slices.Collect(maps.Keys(c.Resources))
		sort.Sort(natural.StringSlice(keys))
		for _, k := range keys {
			res := c.Resources[k]
			tw.Line(1, "Resource[%q] mime[%q] size[%d]", k, res.ContentType, len(res.Data))
		}
	}
	return tw.String()
}

// DumpNodes returns a readable tree of composed nodes for debugging.
func DumpNodes(nodes []compose.Node) string {
	tw := debug.NewTreeWriter()
	tw.Line(0, "Composed nodes: %d", len(nodes))
	for i := range nodes {
		dumpNode(tw, 1, &nodes[i])
	}
	return tw.String()
}

func dumpNode(tw *debug.TreeWriter, depth int, n *compose.Node) {
	attrs := make(map[string]string)
	if n.Level > 0 {
		attrs["level"] = strconv.Itoa(n.Level)
	}
	if n.Anchor != "" {
		attrs["anchor"] = n.Anchor
	}
	if n.Src != "" {
		attrs["src"] = n.Src
	}
	if n.Alt != "" {
		attrs["alt"] = n.Alt
	}
	if len(n.Items) > 0 {
		attrs["items"] = strconv.Itoa(len(n.Items))
		attrs["ordered"] = strconv.FormatBool(n.Ordered)
	}
	tw.Attrs(depth, n.Kind.String(), attrs)
	if n.Text != "" {
		tw.TextBlock(depth+1, "text", n.Text)
	}
	for i := range n.Items {
		dumpNode(tw, depth+1, &n.Items[i])
	}
}
