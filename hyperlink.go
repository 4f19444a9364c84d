package xlwrite

// HyperlinkValue is a cell value that renders as Display and links to URL.
// Backends without link support write the display text only.
type HyperlinkValue struct {
	URL     string
	Display string
}

// String returns the display text, or the URL when no display text is set.
func (h HyperlinkValue) String() string {
	if h.Display != "" {
		return h.Display
	}
	return h.URL
}

// Hyperlink creates a HyperlinkValue.
func Hyperlink(url, display string) HyperlinkValue {
	return HyperlinkValue{URL: url, Display: display}
}
