package convert

import (
	"context"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"

	"mdc/compose"
	"mdc/compose/render"
	"mdc/content"
	"mdc/markup"
)

// generateText writes composed nodes as a plain text dump.
func generateText(ctx context.Context, c *content.Content, outputPath string, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	log.Info("Generating text", zap.String("output", outputPath))

	nodes, err := c.Compose(render.Plain{}, log)
	if err != nil {
		return err
	}
	storeNodesDump(ctx, c, nodes)

	var buf strings.Builder
	for i := range nodes {
		writeTextNode(&buf, &nodes[i], 0)
	}

	if err := os.WriteFile(outputPath, []byte(buf.String()), 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	return nil
}

func writeTextNode(buf *strings.Builder, n *compose.Node, depth int) {
	switch n.Kind {
	case markup.Heading:
		buf.WriteString(n.Text)
		buf.WriteString("\n")
		// underline instead of markup so heading weight survives plain text
		buf.WriteString(strings.Repeat(headingRuneFor(n.Level), textWidth(n.Text)))
		buf.WriteString("\n\n")
	case markup.Image:
		buf.WriteString("[" + imageCaption(n) + "]\n\n")
	case markup.List:
		writeTextList(buf, n, depth)
		if depth == 0 {
			buf.WriteString("\n")
		}
	default:
		if n.Text != "" {
			buf.WriteString(n.Text)
			buf.WriteString("\n\n")
		}
		for i := range n.Items {
			writeTextNode(buf, &n.Items[i], depth)
		}
	}
}

func writeTextList(buf *strings.Builder, n *compose.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	for i := range n.Items {
		item := &n.Items[i]
		if n.Ordered {
			fmt.Fprintf(buf, "%s%d. %s\n", indent, i+1, item.Text)
		} else {
			fmt.Fprintf(buf, "%s- %s\n", indent, item.Text)
		}
		for j := range item.Items {
			writeTextNode(buf, &item.Items[j], depth+1)
		}
	}
}

func headingRuneFor(level int) string {
	if level <= 1 {
		return "="
	}
	return "-"
}

func textWidth(s string) int {
	n := len([]rune(s))
	if n < 3 {
		return 3
	}
	return n
}

func imageCaption(n *compose.Node) string {
	if n.Alt != "" {
		return n.Alt
	}
	return strings.TrimPrefix(n.Src, "#")
}
