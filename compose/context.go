package compose

import (
	"strings"

	"mdc/markup"
)

// Frame is one entry in the open-element stack, corresponding to one
// currently-open element. Attributes are snapshotted at element start so a
// composer observing them later is not affected by children overwriting the
// context's current attribute mapping. The frame also owns the inline text
// buffer scoped to its element: a fragment composed by a directly nested
// inline child is handed off here for further wrapping.
type Frame struct {
	Kind  markup.Kind
	Attrs map[string]string

	handoff   []Fragment // fragments composed by nested inline children, in document order
	running   []Fragment // for block frames: styled runs awaiting the flush into one text node
	childMark int
}

// Context carries all mutable state of one document traversal. One context
// per traversal, never shared, discarded after the last end event.
type Context struct {
	stack    []Frame
	attrs    map[string]string // attributes of the most recently started element
	chars    strings.Builder   // raw character accumulator, reset on every element end
	children []Node            // composed nodes awaiting attachment to the enclosing block
}

func NewContext() *Context {
	return &Context{}
}

// Depth returns the number of currently-open tracked elements.
func (c *Context) Depth() int {
	return len(c.stack)
}

func (c *Context) push(kind markup.Kind, attrs map[string]string) {
	snapshot := make(map[string]string, len(attrs))
	for k, v := range attrs {
		snapshot[k] = v
	}
	c.stack = append(c.stack, Frame{Kind: kind, Attrs: snapshot, childMark: len(c.children)})
}

func (c *Context) pop() {
	c.stack = c.stack[:len(c.stack)-1]
}

func (c *Context) top() *Frame {
	if len(c.stack) == 0 {
		return nil
	}
	return &c.stack[len(c.stack)-1]
}

func (c *Context) parent() *Frame {
	if len(c.stack) < 2 {
		return nil
	}
	return &c.stack[len(c.stack)-2]
}

// Attr returns an attribute of the element being composed - the snapshot
// taken when that element started. Attributes are scoped to exactly one
// element and never inherited.
func (c *Context) Attr(key string) string {
	if f := c.top(); f != nil {
		return f.Attrs[key]
	}
	return c.attrs[key]
}

func (c *Context) appendChars(data string) {
	c.chars.WriteString(data)
}

// Chars returns raw character data accumulated for the current element.
func (c *Context) Chars() string {
	return c.chars.String()
}

// ComposedText returns the inline content of the element being composed:
// fragments handed off by its nested inline children followed by its own raw
// character data, styled through the renderer's plain-text hook so that raw
// and already-composed content can be mixed safely. Sibling fragments already
// flushed to the enclosing block are never included.
func (c *Context) ComposedText(r Renderer) string {
	var buf strings.Builder
	if f := c.top(); f != nil {
		for _, frag := range f.handoff {
			buf.WriteString(frag.Text)
		}
	}
	if chars := c.chars.String(); chars != "" {
		buf.WriteString(r.Text(chars))
	}
	return buf.String()
}

// DrainChildren removes and returns the nodes appended to the pending-child
// buffer since the element being composed was started. Used by block
// composers that aggregate their children (list, list-item, paragraph).
func (c *Context) DrainChildren() []Node {
	f := c.top()
	if f == nil {
		return nil
	}
	if f.childMark >= len(c.children) {
		return nil
	}
	drained := make([]Node, len(c.children)-f.childMark)
	copy(drained, c.children[f.childMark:])
	c.children = c.children[:f.childMark]
	return drained
}
