package skill

import "github.com/charmbracelet/glamour"

// Preview renders markdown for terminal display at the given wrap
// width. Rendering failures fall back to the raw markdown so a broken
// style never hides the document.
func Preview(content []byte, width int) string {
	if width <= 0 {
		width = 80
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return string(content)
	}
	rendered, err := renderer.Render(string(content))
	if err != nil {
		return string(content)
	}
	return rendered
}
