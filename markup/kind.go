// Package markup defines the closed set of recognized element kinds and the
// event-source contract driving composition.
package markup

import "strings"

// Kind identifies a recognized markup construct.
type Kind int

const (
	Unknown Kind = iota
	Text
	Strong
	Emphasis
	Link
	Code
	Paragraph
	Heading
	Image
	List
	ListItem
)

var kindNames = map[Kind]string{
	Unknown:   "unknown",
	Text:      "text",
	Strong:    "strong",
	Emphasis:  "emphasis",
	Link:      "link",
	Code:      "code",
	Paragraph: "paragraph",
	Heading:   "heading",
	Image:     "image",
	List:      "list",
	ListItem:  "list-item",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Inline reports whether composed result of this kind is text that merges
// into a surrounding run. Classification is a function of kind only, never
// of nesting context.
func (k Kind) Inline() bool {
	switch k {
	case Text, Strong, Emphasis, Link, Code:
		return true
	}
	return false
}

// kindByTag maps element tag names to kinds. Canonical names are the kind
// names themselves, common short forms produced by markdown-to-XML
// translators are accepted as well.
var kindByTag = map[string]Kind{
	"text":      Text,
	"span":      Text,
	"strong":    Strong,
	"b":         Strong,
	"emphasis":  Emphasis,
	"em":        Emphasis,
	"i":         Emphasis,
	"link":      Link,
	"a":         Link,
	"code":      Code,
	"paragraph": Paragraph,
	"p":         Paragraph,
	"heading":   Heading,
	"h":         Heading,
	"image":     Image,
	"img":       Image,
	"list":      List,
	"ul":        List,
	"ol":        List,
	"list-item": ListItem,
	"li":        ListItem,
}

// Classify maps a raw element tag name to its kind and inline classification.
// Names not in the closed set map to Unknown, which is block-classified.
func Classify(tag string) (Kind, bool) {
	kind, ok := kindByTag[strings.ToLower(tag)]
	if !ok {
		return Unknown, false
	}
	return kind, kind.Inline()
}
