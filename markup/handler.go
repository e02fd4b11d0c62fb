package markup

// Handler consumes a depth-first stream of markup events in document order.
// The stream is expected to be well-formed: every start has a matching end,
// properly nested, with character data delivered in between. Callbacks are
// strictly sequential, a callback must return before the next event is
// delivered.
type Handler interface {
	ElementStart(name string, attrs map[string]string)
	Characters(data string)
	ElementEnd(name string)
}
