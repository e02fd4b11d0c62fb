package compose

// Renderer is the injected capability composers use to materialize styled
// output. The engine never interprets the returned strings, it only merges
// and places them, so a renderer is free to emit plain text, terminal escape
// sequences or markup. Implementations must be stateless or internally
// synchronized if shared across traversals.
type Renderer interface {
	Text(s string) string
	Strong(s string) string
	Emphasis(s string) string
	CodeSpan(s string) string
	Link(text, href string) string
	Heading(level int, text string) string
	Image(alt, src string) string
}
