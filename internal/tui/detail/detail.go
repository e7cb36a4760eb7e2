package detail

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/glamour"

	"github.com/rshade/listmembers/internal/domain"
)

const (
	// minWrap keeps very narrow terminals readable.
	minWrap   = 20
	styleName = "dark"
	noBio     = "_No bio._"
)

// Markdown builds the markdown document shown for m.
func Markdown(m domain.Member) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", m.Title())
	if h := m.AtHandle(); h != "" {
		fmt.Fprintf(&b, "`%s`\n\n", h)
	}
	bio := strings.TrimSpace(m.Description)
	if bio == "" {
		bio = noBio
	}
	b.WriteString(bio)
	b.WriteString("\n")
	return b.String()
}

// Render renders m's detail pane wrapped to width. On a renderer error it
// returns the unrendered markdown together with the error.
func Render(m domain.Member, width int) (string, error) {
	doc := Markdown(m)
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(styleName),
		glamour.WithWordWrap(max(width, minWrap)),
	)
	if err != nil {
		return doc, fmt.Errorf("creating markdown renderer: %w", err)
	}
	out, err := r.Render(doc)
	if err != nil {
		return doc, fmt.Errorf("rendering profile: %w", err)
	}
	return out, nil
}
