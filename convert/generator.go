package convert

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"mdc/compose"
	"mdc/config"
	"mdc/content"
	"mdc/state"
)

// Generate composes the prepared document and writes output in the requested
// format to outputPath.
func Generate(ctx context.Context, c *content.Content, outputPath string, log *zap.Logger) error {
	switch c.OutputFormat {
	case config.OutputFmtHtml:
		return generateHTML(ctx, c, outputPath, log)
	case config.OutputFmtText:
		fallthrough
	default:
		return generateText(ctx, c, outputPath, log)
	}
}

// storeNodesDump saves the composed node tree to the debug report.
func storeNodesDump(ctx context.Context, c *content.Content, nodes []compose.Node) {
	state.EnvFromContext(ctx).Rpt.StoreData(fmt.Sprintf("nodes-%s.txt", c.ID), []byte(content.DumpNodes(nodes)))
}
