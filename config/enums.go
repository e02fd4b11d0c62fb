package config

// Specification of requested output type.
// ENUM(text, html)
type OutputFmt int

func (o OutputFmt) Ext() string {
	switch o {
	case OutputFmtText:
		return ".txt"
	case OutputFmtHtml:
		return ".html"
	default:
		// this should never happen
		panic("unsupported format requested")
	}
}

// Specification of image resizing mode.
// ENUM(none, keepAR)
type ImageResizeMode int
