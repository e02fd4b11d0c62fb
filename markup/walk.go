package markup

import (
	"fmt"
	"io"

	"github.com/beevik/etree"
	"golang.org/x/net/html/charset"
)

// ReadDocument reads and parses markup document. Old documents in the wild
// often are not proper XML - be as permissive as possible.
func ReadDocument(r io.Reader) (*etree.Document, error) {
	doc := etree.NewDocument()
	doc.ReadSettings = etree.ReadSettings{
		CharsetReader: charset.NewReaderLabel,
		ValidateInput: false,
		Permissive:    true,
	}
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, fmt.Errorf("unable to read document: %w", err)
	}
	if doc.Root() == nil {
		return nil, fmt.Errorf("document has no root element")
	}
	return doc, nil
}

// Walk traverses el and its descendants depth-first, delivering start, character
// data and end events to h in document order. The walk itself guarantees
// balanced start/end pairs, which is exactly the well-formedness the
// composition engine trusts its event source to provide.
func Walk(el *etree.Element, h Handler) {
	attrs := make(map[string]string, len(el.Attr))
	for _, a := range el.Attr {
		attrs[a.Key] = a.Value
	}
	h.ElementStart(el.Tag, attrs)
	for _, child := range el.Child {
		switch t := child.(type) {
		case *etree.CharData:
			h.Characters(t.Data)
		case *etree.Element:
			Walk(t, h)
		}
	}
	h.ElementEnd(el.Tag)
}
