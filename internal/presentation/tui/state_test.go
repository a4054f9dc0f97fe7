package tui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/muesli/termenv"
	"github.com/stretchr/testify/assert"
)

func TestTransitionTable(t *testing.T) {
	md := TransitionTable("barks")

	assert.Contains(t, md, "| from \\ to | dormant | idle | barks |")
	assert.Contains(t, md, "| **dormant** | · | ✓ | ✗ |")
	assert.Contains(t, md, "| **idle** | ✓ | · | ✓ |")
	assert.Contains(t, md, "| **barks** | ✗ | ✓ | · |")
	assert.Contains(t, md, "`action` is an alias for `barks`")
}

func TestStateStyler(t *testing.T) {
	plain := NewStateStyler(termenv.Ascii)
	assert.Equal(t, "idle", plain.Style("idle", "barks"))
	assert.Equal(t, "barks", plain.Style("barks", "barks"))

	colored := NewStateStyler(termenv.TrueColor)
	styled := colored.Style("barks", "barks")
	assert.NotEqual(t, "barks", styled)
	assert.Contains(t, styled, "barks")
	assert.Equal(t, "flies", colored.Style("flies", "barks"), "unknown values are left alone")
}

func TestRenderer(t *testing.T) {
	render := NewRenderer()
	out, err := render(TransitionTable("meows"))
	assert.NoError(t, err)
	assert.Contains(t, out, "meows")
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	assert.GreaterOrEqual(t, strings.Count(buf.String(), "\n"), 7)
}
