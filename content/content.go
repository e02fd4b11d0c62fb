package content

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/beevik/etree"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"mdc/compose"
	"mdc/config"
	"mdc/content/text"
	"mdc/markup"
	"mdc/misc"
	"mdc/state"
)

// Resource is an embedded binary object from the source document, typically
// an image referenced by composed nodes.
type Resource struct {
	ID          string
	ContentType string
	Data        []byte
}

// Content encapsulates the raw source document and everything derived from it
// that output generation needs.
type Content struct {
	SrcName      string
	Doc          *etree.Document
	OutputFormat config.OutputFmt

	ID        string
	Lang      language.Tag
	Title     string
	Resources map[string]*Resource

	Splitter *text.Splitter
	WorkDir  string
}

// Prepare reads, parses, and prepares source content for conversion.
func Prepare(ctx context.Context, r io.Reader, srcName string, outputFormat config.OutputFmt, log *zap.Logger) (*Content, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	env := state.EnvFromContext(ctx)

	doc, err := markup.ReadDocument(r)
	if err != nil {
		return nil, fmt.Errorf("unable to read source: %w", err)
	}
	root := doc.Root()

	c := &Content{
		SrcName:      srcName,
		Doc:          doc,
		OutputFormat: outputFormat,
		Title:        root.SelectAttrValue("title", ""),
		Resources:    make(map[string]*Resource),
	}

	// Make sure document ID is not empty and is valid UUID
	c.ID = root.SelectAttrValue("id", "")
	if _, err := uuid.Parse(c.ID); err != nil {
		refID, err := uuid.NewV7()
		if err != nil {
			return nil, fmt.Errorf("unable to generate new document UUID: %w", err)
		}
		log.Warn("Document has invalid ID, correcting", zap.String("old_id", c.ID), zap.Stringer("new_id", refID))
		c.ID = refID.String()
	}

	c.Lang = language.Und
	if raw := root.SelectAttrValue("lang", ""); raw != "" {
		if tag, err := language.Parse(raw); err == nil {
			c.Lang = tag
		} else {
			log.Warn("Document has unparsable language, ignoring", zap.String("lang", raw), zap.Error(err))
		}
	}

	for _, el := range root.SelectElements("binary") {
		res, err := parseBinary(el, log)
		if err != nil {
			log.Warn("Skipping unusable binary", zap.Error(err))
			continue
		}
		if _, exists := c.Resources[res.ID]; exists {
			log.Warn("Duplicate binary id, keeping first", zap.String("id", res.ID))
			continue
		}
		c.Resources[res.ID] = res
	}

	if outputFormat == config.OutputFmtHtml && env.Cfg.Document.HTML.SentenceSpans {
		c.Splitter = text.NewSplitter(c.Lang, log)
	}

	tmpDir, err := os.MkdirTemp("", misc.GetAppName()+"-")
	if err != nil {
		return nil, fmt.Errorf("unable to create temporary directory: %w", err)
	}
	c.WorkDir = tmpDir

	// Save parsed document to file for debugging
	if env.Rpt != nil {
		env.Rpt.Store(fmt.Sprintf("%s-%s", misc.GetAppName(), c.ID), tmpDir)
		baseSrcName := filepath.Base(srcName)
		if err := doc.WriteToFile(filepath.Join(tmpDir, baseSrcName)); err != nil {
			return nil, fmt.Errorf("unable to write input doc for debugging: %w", err)
		}
		if err := os.WriteFile(filepath.Join(tmpDir, baseSrcName+"_prepared"), []byte(c.String()), 0644); err != nil {
			return nil, fmt.Errorf("unable to write prepared doc for debugging: %w", err)
		}
	}

	return c, nil
}

// Body returns the element holding composable content. Documents without an
// explicit body element are composed from the root.
func (c *Content) Body() *etree.Element {
	if body := c.Doc.Root().SelectElement("body"); body != nil {
		return body
	}
	return c.Doc.Root()
}

// Compose runs one traversal of the document body through the composition
// engine and returns the produced top level nodes.
func (c *Content) Compose(rnd compose.Renderer, log *zap.Logger) ([]compose.Node, error) {
	eng := compose.NewEngine(compose.NewRegistry(), rnd, log)
	markup.Walk(c.Body(), eng)
	if err := eng.Err(); err != nil {
		return nil, fmt.Errorf("unable to compose %q: %w", c.SrcName, err)
	}
	return eng.Nodes(), nil
}

func parseBinary(el *etree.Element, log *zap.Logger) (*Resource, error) {
	id := el.SelectAttrValue("id", "")
	if id == "" {
		return nil, errors.New("binary element without id")
	}
	contentType := el.SelectAttrValue("content-type", "")
	data, err := base64.StdEncoding.DecodeString(normalizeBase64(el.Text()))
	if err != nil {
		var corruptErr base64.CorruptInputError
		if errors.As(err, &corruptErr) && len(data) > 0 {
			log.Warn("Unable to fully decode binary", zap.String("id", id), zap.String("contentType", contentType), zap.Error(err))
			return &Resource{ID: id, ContentType: contentType, Data: data}, nil
		}
		return nil, fmt.Errorf("decode binary %q: %w", id, err)
	}
	return &Resource{ID: id, ContentType: contentType, Data: data}, nil
}

func normalizeBase64(input string) string {
	var builder strings.Builder
	builder.Grow(len(input))
	for _, r := range input {
		if !unicode.IsSpace(r) {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}
