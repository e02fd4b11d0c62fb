package markup

import (
	"fmt"
	"io"

	parse "github.com/tdewolff/parse/v2"
	"github.com/tdewolff/parse/v2/xml"
)

// Stream lexes markup from r and delivers events to h without building a DOM.
// Useful for large documents and incremental consumers. Unlike Walk it cannot
// promise balanced start/end pairs for broken input, so the engine's
// internal-consistency guard matters on this path.
func Stream(r io.Reader, h Handler) error {
	l := xml.NewLexer(parse.NewInput(r))

	var (
		tag   string
		attrs map[string]string
	)
	for {
		tt, _ := l.Next()
		switch tt {
		case xml.ErrorToken:
			if l.Err() == io.EOF {
				return nil
			}
			return fmt.Errorf("markup lexing failed: %w", l.Err())
		case xml.StartTagToken:
			tag = string(l.Text())
			attrs = make(map[string]string)
		case xml.StartTagPIToken:
			attrs = nil
		case xml.AttributeToken:
			// attrs is nil inside processing instructions, those are dropped
			if attrs != nil {
				attrs[string(l.Text())] = unquote(string(l.AttrVal()))
			}
		case xml.StartTagCloseToken:
			h.ElementStart(tag, attrs)
		case xml.StartTagCloseVoidToken:
			h.ElementStart(tag, attrs)
			h.ElementEnd(tag)
		case xml.EndTagToken:
			h.ElementEnd(string(l.Text()))
		case xml.TextToken, xml.CDATAToken:
			h.Characters(string(l.Text()))
		}
	}
}

func unquote(v string) string {
	if len(v) >= 2 && (v[0] == '"' || v[0] == '\'') && v[len(v)-1] == v[0] {
		return v[1 : len(v)-1]
	}
	return v
}
