package detail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rshade/listmembers/internal/domain"
)

func TestMarkdown(t *testing.T) {
	doc := Markdown(domain.Member{Handle: "alice.test", DisplayName: "Alice", Description: "Likes **Go**."})
	assert.Contains(t, doc, "# Alice")
	assert.Contains(t, doc, "`@alice.test`")
	assert.Contains(t, doc, "Likes **Go**.")
}

func TestMarkdown_NoBio(t *testing.T) {
	doc := Markdown(domain.Member{Handle: "bob.test"})
	assert.Contains(t, doc, "# bob.test")
	assert.Contains(t, doc, noBio)
}

func TestRender(t *testing.T) {
	out, err := Render(domain.Member{Handle: "alice.test", DisplayName: "Alice", Description: "Hello there"}, 60)
	require.NoError(t, err)
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "Hello")
}
