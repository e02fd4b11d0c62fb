package compose

import "mdc/markup"

// Composer handles the lifecycle of one element kind. All operations may be
// no-ops. Composers own no traversal state - they read and mutate the context
// passed to them and must read attributes synchronously, a child element's
// start overwrites the current attribute mapping.
type Composer interface {
	// WillStart is called when an element of this kind opens.
	WillStart(ctx *Context)
	// ProduceText is called when the element closes and returns a composed
	// inline fragment if this kind yields inline content.
	ProduceText(ctx *Context, r Renderer) (Fragment, bool)
	// ProduceNode is called when the element closes and returns a finished
	// block-level node if this kind yields one.
	ProduceNode(ctx *Context, r Renderer) (Node, bool)
	// WillStop is called after text/node extraction, for cleanup.
	WillStop(ctx *Context)
}

// nopComposer makes all four operations optional for embedders.
type nopComposer struct{}

func (nopComposer) WillStart(*Context)                            {}
func (nopComposer) ProduceText(*Context, Renderer) (Fragment, bool) { return Fragment{}, false }
func (nopComposer) ProduceNode(*Context, Renderer) (Node, bool)     { return Node{}, false }
func (nopComposer) WillStop(*Context)                             {}

// Registry maps element kinds to composers, split into an inline table and a
// block table. The kind set is closed, so the tables are fixed maps built at
// construction time rather than open-ended dynamic lookup. A lookup miss is
// not an error - the element is composed as if all four operations were
// no-ops.
type Registry struct {
	inline map[markup.Kind]Composer
	block  map[markup.Kind]Composer
}

// NewRegistry returns a registry pre-populated with the default composers
// for every recognized kind.
func NewRegistry() *Registry {
	return &Registry{
		inline: map[markup.Kind]Composer{
			markup.Text:     textComposer{},
			markup.Strong:   strongComposer{},
			markup.Emphasis: emphasisComposer{},
			markup.Link:     linkComposer{},
			markup.Code:     codeComposer{},
		},
		block: map[markup.Kind]Composer{
			markup.Paragraph: paragraphComposer{},
			markup.Heading:   headingComposer{},
			markup.Image:     imageComposer{},
			markup.List:      listComposer{},
			markup.ListItem:  listItemComposer{},
		},
	}
}

// RegisterInline replaces the inline composer for kind.
func (r *Registry) RegisterInline(kind markup.Kind, c Composer) {
	r.inline[kind] = c
}

// RegisterBlock replaces the block composer for kind.
func (r *Registry) RegisterBlock(kind markup.Kind, c Composer) {
	r.block[kind] = c
}

func (r *Registry) lookup(kind markup.Kind, inline bool) (Composer, bool) {
	if inline {
		c, ok := r.inline[kind]
		return c, ok
	}
	c, ok := r.block[kind]
	return c, ok
}
