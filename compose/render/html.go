package render

import "html"

// HTML produces escaped HTML markup for inline runs. Raw character data is
// escaped exactly once - in Text, which the engine routes all raw content
// through - wrapper hooks receive already-composed markup and only add tags.
// Block-level elements around the returned text are the HTML generator's
// business, not the renderer's.
type HTML struct{}

func (HTML) Text(s string) string     { return html.EscapeString(s) }
func (HTML) Strong(s string) string   { return "<strong>" + s + "</strong>" }
func (HTML) Emphasis(s string) string { return "<em>" + s + "</em>" }
func (HTML) CodeSpan(s string) string { return "<code>" + s + "</code>" }

func (HTML) Link(text, href string) string {
	if text == "" {
		text = html.EscapeString(href)
	}
	if href == "" {
		return text
	}
	return `<a href="` + html.EscapeString(href) + `">` + text + `</a>`
}

func (HTML) Heading(_ int, text string) string { return text }

func (HTML) Image(alt, _ string) string { return html.EscapeString(alt) }
