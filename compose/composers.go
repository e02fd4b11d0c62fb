package compose

import (
	"strconv"
	"strings"

	"github.com/gosimple/slug"

	"mdc/markup"
)

// Default composers, one per recognized kind. Inline composers produce styled
// fragments from the inline content of their element, block composers flush
// bare character data through ProduceText and assemble their node from the
// children drained off the pending buffer.

type textComposer struct{ nopComposer }

func (textComposer) ProduceText(ctx *Context, r Renderer) (Fragment, bool) {
	s := ctx.ComposedText(r)
	if s == "" {
		return Fragment{}, false
	}
	return Fragment{Text: s}, true
}

type strongComposer struct{ nopComposer }

func (strongComposer) ProduceText(ctx *Context, r Renderer) (Fragment, bool) {
	s := ctx.ComposedText(r)
	if s == "" {
		return Fragment{}, false
	}
	return Fragment{Text: r.Strong(s)}, true
}

type emphasisComposer struct{ nopComposer }

func (emphasisComposer) ProduceText(ctx *Context, r Renderer) (Fragment, bool) {
	s := ctx.ComposedText(r)
	if s == "" {
		return Fragment{}, false
	}
	return Fragment{Text: r.Emphasis(s)}, true
}

type codeComposer struct{ nopComposer }

func (codeComposer) ProduceText(ctx *Context, r Renderer) (Fragment, bool) {
	s := ctx.ComposedText(r)
	if s == "" {
		return Fragment{}, false
	}
	return Fragment{Text: r.CodeSpan(s)}, true
}

type linkComposer struct{ nopComposer }

func (linkComposer) ProduceText(ctx *Context, r Renderer) (Fragment, bool) {
	href := ctx.Attr("href")
	s := ctx.ComposedText(r)
	if s == "" && href == "" {
		return Fragment{}, false
	}
	return Fragment{Text: r.Link(s, href)}, true
}

// blockText flushes bare character data of a block element as a plain styled
// fragment, so a heading or paragraph written without explicit text children
// does not lose its content.
type blockText struct{ nopComposer }

func (blockText) ProduceText(ctx *Context, r Renderer) (Fragment, bool) {
	s := ctx.Chars()
	if s == "" {
		return Fragment{}, false
	}
	return Fragment{Text: r.Text(s)}, true
}

type paragraphComposer struct{ blockText }

func (paragraphComposer) ProduceNode(ctx *Context, _ Renderer) (Node, bool) {
	text, items := splitTextItems(ctx.DrainChildren())
	if text == "" && len(items) == 0 {
		return Node{}, false
	}
	return Node{Kind: markup.Paragraph, Text: text, Items: items}, true
}

type headingComposer struct{ blockText }

func (headingComposer) ProduceNode(ctx *Context, r Renderer) (Node, bool) {
	text, items := splitTextItems(ctx.DrainChildren())
	if text == "" && len(items) == 0 {
		return Node{}, false
	}
	level := headingLevel(ctx.Attr("level"))
	return Node{
		Kind:   markup.Heading,
		Level:  level,
		Text:   r.Heading(level, text),
		Anchor: slug.Make(text),
		Items:  items,
	}, true
}

func headingLevel(attr string) int {
	level, err := strconv.Atoi(attr)
	if err != nil || level < 1 {
		return 1
	}
	if level > 6 {
		return 6
	}
	return level
}

type imageComposer struct{ nopComposer }

func (imageComposer) ProduceNode(ctx *Context, r Renderer) (Node, bool) {
	src := ctx.Attr("src")
	if src == "" {
		src = ctx.Attr("href")
	}
	alt := ctx.Attr("alt")
	if src == "" && alt == "" {
		return Node{}, false
	}
	return Node{Kind: markup.Image, Src: src, Alt: alt, Text: r.Image(alt, src)}, true
}

type listComposer struct{ nopComposer }

func (listComposer) ProduceNode(ctx *Context, _ Renderer) (Node, bool) {
	items := ctx.DrainChildren()
	if len(items) == 0 {
		return Node{}, false
	}
	return Node{
		Kind:    markup.List,
		Ordered: strings.EqualFold(ctx.Attr("type"), "ordered"),
		Items:   items,
	}, true
}

type listItemComposer struct{ blockText }

func (listItemComposer) ProduceNode(ctx *Context, _ Renderer) (Node, bool) {
	text, items := splitTextItems(ctx.DrainChildren())
	if text == "" && len(items) == 0 {
		return Node{}, false
	}
	return Node{Kind: markup.ListItem, Text: text, Items: items}, true
}

// splitTextItems merges drained text nodes into one styled run in document
// order and keeps the remaining block nodes as items.
func splitTextItems(drained []Node) (string, []Node) {
	var (
		buf   strings.Builder
		items []Node
	)
	for i := range drained {
		if drained[i].Kind == markup.Text && len(drained[i].Items) == 0 {
			buf.WriteString(drained[i].Text)
			continue
		}
		items = append(items, drained[i])
	}
	return buf.String(), items
}
