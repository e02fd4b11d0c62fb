package convert

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"html"
	"os"
	"path/filepath"
	"strings"
	"text/template"

	sprig "github.com/go-task/slim-sprig/v3"
	fixzip "github.com/hidez8891/zip"
	"go.uber.org/zap"

	"mdc/compose"
	"mdc/compose/render"
	"mdc/config"
	"mdc/content"
	"mdc/markup"
	"mdc/state"
	"mdc/utils/images"
)

const imagesDir = "images"

// pageShell is the standalone page wrapper. Body is inserted raw, it is
// already escaped markup produced by the HTML renderer.
const pageShell = `<!DOCTYPE html>
<html lang="{{ .Language | default "en" }}">
<head>
<meta charset="utf-8"/>
<title>{{ .Title }}</title>
<style>
{{ .Style }}
</style>
</head>
<body>
{{ .Body }}
</body>
</html>
`

type pageValues struct {
	Language string
	Title    string
	Style    string
	Body     string
}

type imageFile struct {
	Filename string
	Data     []byte
}

// generateHTML writes composed nodes as a standalone HTML page with image
// resources materialized next to it. With bundling enabled the page and
// images are packed into a single zip at outputPath instead.
func generateHTML(ctx context.Context, c *content.Content, outputPath string, log *zap.Logger) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	env := state.EnvFromContext(ctx)

	log.Info("Generating HTML", zap.String("output", outputPath))

	nodes, err := c.Compose(render.HTML{}, log)
	if err != nil {
		return err
	}
	storeNodesDump(ctx, c, nodes)

	imgs := materializeImages(c, nodes, &env.Cfg.Document.Images, log)

	var body strings.Builder
	for i := range nodes {
		writeHTMLNode(&body, c, &nodes[i], imgs)
	}

	tmpl, err := template.New("page").Funcs(sprig.FuncMap()).Parse(pageShell)
	if err != nil {
		return fmt.Errorf("unable to parse page shell: %w", err)
	}

	buf := new(bytes.Buffer)
	err = tmpl.Execute(buf, pageValues{
		Language: c.Lang.String(),
		Title:    html.EscapeString(c.Title),
		Style:    string(env.DefaultStyle),
		Body:     body.String(),
	})
	if err != nil {
		return fmt.Errorf("unable to expand page shell: %w", err)
	}

	if env.Cfg.Document.HTML.Bundle {
		return writeBundle(c, outputPath, buf.Bytes(), imgs)
	}
	return writePage(outputPath, buf.Bytes(), imgs)
}

func writeHTMLNode(buf *strings.Builder, c *content.Content, n *compose.Node, imgs map[string]imageFile) {
	switch n.Kind {
	case markup.Heading:
		level := n.Level
		if level < 1 {
			level = 1
		} else if level > 6 {
			level = 6
		}
		if n.Anchor != "" {
			fmt.Fprintf(buf, "<h%d id=%q>%s</h%d>\n", level, n.Anchor, n.Text, level)
		} else {
			fmt.Fprintf(buf, "<h%d>%s</h%d>\n", level, n.Text, level)
		}
	case markup.Image:
		writeHTMLImage(buf, n, imgs)
	case markup.List:
		tag := "ul"
		if n.Ordered {
			tag = "ol"
		}
		fmt.Fprintf(buf, "<%s>\n", tag)
		for i := range n.Items {
			item := &n.Items[i]
			buf.WriteString("<li>")
			buf.WriteString(annotateSentences(c, item.Text))
			for j := range item.Items {
				writeHTMLNode(buf, c, &item.Items[j], imgs)
			}
			buf.WriteString("</li>\n")
		}
		fmt.Fprintf(buf, "</%s>\n", tag)
	default:
		buf.WriteString("<p>")
		buf.WriteString(annotateSentences(c, n.Text))
		for i := range n.Items {
			writeHTMLNode(buf, c, &n.Items[i], imgs)
		}
		buf.WriteString("</p>\n")
	}
}

func writeHTMLImage(buf *strings.Builder, n *compose.Node, imgs map[string]imageFile) {
	src := n.Src
	if id, ok := strings.CutPrefix(src, "#"); ok {
		img, ok := imgs[id]
		if !ok {
			// unresolvable reference, keep the caption so nothing is lost
			fmt.Fprintf(buf, "<span class=\"missing-image\">%s</span>", html.EscapeString(imageCaption(n)))
			return
		}
		src = imagesDir + "/" + img.Filename
	}
	fmt.Fprintf(buf, "<img src=%q alt=%q/>", src, n.Alt)
}

// annotateSentences wraps every sentence of marked-up paragraph text in a
// span when span annotation is enabled for this conversion.
func annotateSentences(c *content.Content, s string) string {
	if c.Splitter == nil || s == "" {
		return s
	}
	var buf strings.Builder
	for sentence := range c.Splitter.Sentences(s) {
		buf.WriteString(`<span class="sentence">`)
		buf.WriteString(sentence)
		buf.WriteString(`</span>`)
	}
	return buf.String()
}

// materializeImages prepares embedded resources referenced from image nodes:
// rasterizes SVG when requested, downscales oversized rasters and assigns
// output file names.
func materializeImages(c *content.Content, nodes []compose.Node, cfg *config.ImagesConfig, log *zap.Logger) map[string]imageFile {
	refs := make(map[string]bool)
	for i := range nodes {
		collectImageRefs(&nodes[i], refs)
	}

	result := make(map[string]imageFile, len(refs))
	for id := range refs {
		res, ok := c.Resources[id]
		if !ok {
			log.Warn("Image reference has no matching resource", zap.String("id", id))
			continue
		}

		data := res.Data
		if images.IsSVG(data) {
			if cfg.RasterizeSVG {
				rasterized, err := images.RasterizeSVG(data, cfg.MaxWidth)
				if err != nil {
					log.Warn("Unable to rasterize SVG, keeping original", zap.String("id", id), zap.Error(err))
				} else {
					data = rasterized
				}
			}
		} else if cfg.Resize == config.ImageResizeModeKeepAR && cfg.MaxWidth > 0 {
			resized, err := images.Downscale(data, cfg.MaxWidth, cfg.JPEGQuality)
			if err != nil {
				log.Warn("Unable to resize image, keeping original", zap.String("id", id), zap.Error(err))
			} else {
				data = resized
			}
		}

		mimeType := images.DetectMime(data)
		if mimeType == "" {
			mimeType = res.ContentType
		}

		result[id] = imageFile{
			Filename: config.CleanFileName(id) + "." + images.MimeToExt(mimeType),
			Data:     data,
		}
	}
	return result
}

func collectImageRefs(n *compose.Node, refs map[string]bool) {
	if n.Kind == markup.Image {
		if id, ok := strings.CutPrefix(n.Src, "#"); ok {
			refs[id] = true
		}
	}
	for i := range n.Items {
		collectImageRefs(&n.Items[i], refs)
	}
}

// writePage writes the page file and its images directory next to it.
func writePage(outputPath string, page []byte, imgs map[string]imageFile) error {
	if err := os.WriteFile(outputPath, page, 0644); err != nil {
		return fmt.Errorf("unable to write output file: %w", err)
	}
	if len(imgs) == 0 {
		return nil
	}

	dir := filepath.Join(filepath.Dir(outputPath), imagesDir)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("unable to create images directory: %w", err)
	}
	for id, img := range imgs {
		if err := os.WriteFile(filepath.Join(dir, img.Filename), img.Data, 0644); err != nil {
			return fmt.Errorf("unable to write image %s: %w", id, err)
		}
	}
	return nil
}

// writeBundle packs the page and its images into a single zip at outputPath.
// The archive is built in the work directory first and finalized with data
// descriptors stripped, some primitive unzippers choke on them.
func writeBundle(c *content.Content, outputPath string, page []byte, imgs map[string]imageFile) error {
	pageName := strings.TrimSuffix(filepath.Base(outputPath), ".zip") + config.OutputFmtHtml.Ext()

	_, tmpName := filepath.Split(outputPath)
	tmpName = filepath.Join(c.WorkDir, tmpName)

	f, err := os.Create(tmpName)
	if err != nil {
		return fmt.Errorf("unable to create output file: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	defer zw.Close()

	if err := writeDataToZip(zw, pageName, page); err != nil {
		return fmt.Errorf("unable to write page: %w", err)
	}
	for id, img := range imgs {
		if err := writeDataToZip(zw, imagesDir+"/"+img.Filename, img.Data); err != nil {
			return fmt.Errorf("unable to write image %s: %w", id, err)
		}
	}

	// make sure buffers are flushed before continuing
	if err := zw.Close(); err != nil {
		return fmt.Errorf("unable to close output archive: %w", err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("unable to finalize output file: %w", err)
	}
	defer os.Remove(tmpName)

	return copyZipWithoutDataDescriptors(tmpName, outputPath)
}

func writeDataToZip(zw *zip.Writer, name string, data []byte) error {
	w, err := zw.Create(name)
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

func copyZipWithoutDataDescriptors(from, to string) error {

	out, err := os.Create(to)
	if err != nil {
		return fmt.Errorf("unable to create target file (%s): %w", to, err)
	}
	defer out.Close()

	r, err := fixzip.OpenReader(from)
	if err != nil {
		return fmt.Errorf("unable to read archive file (%s): %w", from, err)
	}
	defer r.Close()

	w := fixzip.NewWriter(out)
	defer w.Close()

	for _, file := range r.File {
		// unset data descriptor flag.
		file.Flags &= ^fixzip.FlagDataDescriptor

		// copy zip entry
		if err := w.CopyFile(file); err != nil {
			return fmt.Errorf("unable to write target file (%s): %w", to, err)
		}
	}
	return nil
}
