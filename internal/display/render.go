package display

import (
	"sync"

	"github.com/charmbracelet/glamour"
)

var (
	rendererMu sync.Mutex
	renderer   *glamour.TermRenderer
	rendererW  int
)

// renderMarkdown styles markdown for the terminal. The renderer is built
// lazily and rebuilt when the width changes.
func renderMarkdown(text string, width int) (string, error) {
	rendererMu.Lock()
	defer rendererMu.Unlock()

	if renderer == nil || rendererW != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
		)
		if err != nil {
			return "", err
		}
		renderer = r
		rendererW = width
	}
	return renderer.Render(text)
}
