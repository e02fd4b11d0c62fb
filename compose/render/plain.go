// Package render provides renderer capabilities for the composition engine.
package render

// Plain strips all styling and keeps content only. Used for text output and
// anywhere plain text needs to be extracted from composed content.
type Plain struct{}

func (Plain) Text(s string) string     { return s }
func (Plain) Strong(s string) string   { return s }
func (Plain) Emphasis(s string) string { return s }
func (Plain) CodeSpan(s string) string { return s }

func (Plain) Link(text, href string) string {
	if text == "" {
		return href
	}
	return text
}

func (Plain) Heading(_ int, text string) string { return text }

func (Plain) Image(alt, src string) string {
	if alt == "" {
		return src
	}
	return alt
}
