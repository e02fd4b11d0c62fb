package compose

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mdc/markup"
)

// Engine is the traversal state machine. It implements markup.Handler and is
// driven synchronously by an external event source, one event at a time, in
// document order. All mutable state lives in the per-traversal context - the
// engine performs no locking and must not be shared between traversals.
type Engine struct {
	ctx *Context
	reg *Registry
	rnd Renderer
	log *zap.Logger
	out []Node
	err error
}

// NewEngine creates an engine for one document traversal.
func NewEngine(reg *Registry, rnd Renderer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{
		ctx: NewContext(),
		reg: reg,
		rnd: rnd,
		log: log.Named("compose"),
	}
}

// Nodes returns the ordered sequence of finished top-level nodes collected so
// far. Valid even when the event source stopped early - the output is then
// simply partial.
func (e *Engine) Nodes() []Node {
	return e.out
}

// Err reports an internal-consistency failure, an element-end that does not
// match the open-element stack. The event source is trusted to deliver
// well-formed streams, so this only fires on a broken driver. Once set, the
// engine ignores further events.
func (e *Engine) Err() error {
	return e.err
}

func (e *Engine) fail(format string, args ...any) {
	e.err = fmt.Errorf(format, args...)
	e.log.Error("Event stream is not well-formed, composition stopped", zap.Error(e.err))
}

// ElementStart advances the stack and notifies the composer for the element's
// kind. Unknown elements are not tracked on the stack, so unrecognized tags
// cannot corrupt depth accounting for recognized ancestors.
func (e *Engine) ElementStart(name string, attrs map[string]string) {
	if e.err != nil {
		return
	}
	kind, inline := markup.Classify(name)

	// character data seen before this child belongs to the enclosing element
	// and must keep its position relative to the child's composed result
	e.flushChars()

	if kind != markup.Unknown {
		e.ctx.push(kind, attrs)
	}
	// attributes belong only to the element that just started
	e.ctx.attrs = attrs
	if comp, ok := e.reg.lookup(kind, inline); ok {
		comp.WillStart(e.ctx)
	}
}

var lineBreaks = strings.NewReplacer("\n", "", "\r", "")

// Characters accumulates raw character data for the current element.
// Whitespace-only runs between elements carry no content and are dropped.
func (e *Engine) Characters(data string) {
	if e.err != nil {
		return
	}
	if strings.TrimSpace(data) == "" {
		return
	}
	e.ctx.appendChars(lineBreaks.Replace(data))
}

// flushChars moves accumulated raw character data into the scope that owns
// it: the inline buffer of an open inline element, or the running text of an
// open block. Data with no open element has no home and is dropped.
func (e *Engine) flushChars() {
	s := e.ctx.chars.String()
	if s == "" {
		return
	}
	e.ctx.chars.Reset()
	f := e.ctx.top()
	if f == nil {
		return
	}
	frag := Fragment{Text: e.rnd.Text(s)}
	if f.Kind.Inline() {
		f.handoff = append(f.handoff, frag)
	} else {
		f.running = append(f.running, frag)
	}
}

// ElementEnd extracts composed content from the closing element and decides
// its placement: inline fragments are handed to the enclosing inline element
// or accumulated toward the enclosing block's text, block nodes become
// children of the enclosing block or, at stack depth 1, finished top-level
// output.
func (e *Engine) ElementEnd(name string) {
	if e.err != nil {
		return
	}
	kind, inline := markup.Classify(name)

	if kind == markup.Unknown {
		// untracked passthrough: character data inside an unrecognized
		// element keeps accumulating toward the enclosing scope
		return
	}

	top := e.ctx.top()
	if top == nil {
		e.fail("end of %q with no open element", name)
		return
	}
	if top.Kind != kind {
		e.fail("end of %q while %q is open", name, top.Kind)
		return
	}

	comp, found := e.reg.lookup(kind, inline)

	if inline {
		if found {
			if frag, ok := comp.ProduceText(e.ctx, e.rnd); ok {
				if p := e.ctx.parent(); p == nil {
					// inline content with no enclosing element is absorbed
				} else if p.Kind.Inline() {
					// nested inline composition hands the composed fragment
					// upward for further wrapping
					p.handoff = append(p.handoff, frag)
				} else {
					// inline runs accumulate toward one block's eventual text
					p.running = append(p.running, frag)
				}
			}
			comp.WillStop(e.ctx)
		}
	} else {
		if found {
			if frag, ok := comp.ProduceText(e.ctx, e.rnd); ok {
				top.running = append(top.running, frag)
			}
		}
		// flush accumulated inline text even when this block composer itself
		// produced no fragment, never emitting an empty text node
		if text := concatFragments(top.running); text != "" {
			e.ctx.children = append(e.ctx.children, Node{Kind: markup.Text, Text: text})
		}
		if found {
			if node, ok := comp.ProduceNode(e.ctx, e.rnd); ok {
				if e.ctx.Depth() > 1 {
					e.ctx.children = append(e.ctx.children, node)
				} else {
					e.ctx.children = e.ctx.children[:0]
					e.out = append(e.out, node)
				}
			}
			comp.WillStop(e.ctx)
		}
	}

	e.ctx.chars.Reset()
	e.ctx.pop()
}
