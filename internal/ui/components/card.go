package components

import (
	"charm.land/lipgloss/v2"

	"github.com/cpapath/cpapath/internal/ui/theme"
)

// DefaultWidth is the content width used when the caller has no terminal size.
const DefaultWidth = 60

// Card wraps content in a rounded-border card with an optional heading.
func Card(title, content string, width int) string {
	if title != "" {
		content = theme.Heading.Render(title) + "\n" + content
	}
	return theme.Card.
		Width(max(width, 20)).
		Render(content)
}

// Stack joins rendered blocks vertically, left aligned.
func Stack(blocks ...string) string {
	return lipgloss.JoinVertical(lipgloss.Left, blocks...)
}
