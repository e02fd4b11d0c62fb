// Package compose turns a depth-first stream of markup events into a tree of
// composed output nodes by dispatching each element to a pluggable composer
// keyed on element kind.
package compose

import (
	"strings"

	"mdc/markup"
)

// Fragment is a composed inline run. Its text is already styled by the
// renderer, adjacent fragments concatenate left to right preserving each
// fragment's styling.
type Fragment struct {
	Text string
}

// Node is a finished renderable unit - a text run or a block construct. Once
// attached to the composed output or to a parent's Items it is owned by its
// container and never mutated again.
type Node struct {
	Kind    markup.Kind
	Text    string
	Level   int    // headings
	Anchor  string // headings
	Src     string // images
	Alt     string // images
	Ordered bool   // lists
	Items   []Node
}

// AsPlainText collects text from the node and all of its descendants.
func (n *Node) AsPlainText() string {
	var buf strings.Builder
	n.appendText(&buf)
	return strings.TrimSpace(buf.String())
}

func (n *Node) appendText(buf *strings.Builder) {
	if n.Text != "" {
		if buf.Len() > 0 {
			buf.WriteString(" ")
		}
		buf.WriteString(n.Text)
	}
	for i := range n.Items {
		n.Items[i].appendText(buf)
	}
}

func concatFragments(frags []Fragment) string {
	var buf strings.Builder
	for _, f := range frags {
		buf.WriteString(f.Text)
	}
	return buf.String()
}
