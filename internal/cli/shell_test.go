package cli

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/aretw0/anilink/pkg/domain"
	"github.com/aretw0/anilink/pkg/registry"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runShell(t *testing.T, script string, opts ...ShellOption) string {
	t.Helper()
	var out bytes.Buffer
	sh := NewShell(registry.New(nil), strings.NewReader(script), &out, opts...)
	require.NoError(t, sh.Run(context.Background()))
	return out.String()
}

func TestShell_Transcript(t *testing.T) {
	script := `connect dog barks
get dog
set dog idle
set dog action
set dog dormant
set dog idle
set dog dormant
set dog action
disconnect dog
get dog
`
	want := `dog: dormant
dog: dormant
dog: idle
dog: barks
error: invalid transition for subject "dog": "barks" -> "dormant"
dog: idle
dog: dormant
error: invalid transition for subject "dog": "dormant" -> "barks"
dog: disconnected
error: subject not found: "dog"
`
	assert.Equal(t, want, runShell(t, script))
}

func TestShell_InvalidState(t *testing.T) {
	out := runShell(t, "connect cat meows\nset cat flies\n")
	assert.Contains(t, out, "error: invalid state")
}

func TestShell_List(t *testing.T) {
	out := runShell(t, "list\nconnect fox jumps\nconnect cat meows\nset cat idle\nlist\n")
	assert.Contains(t, out, ">>> No subjects connected.\n")
	assert.Contains(t, out, "cat\tmeows\tidle\nfox\tjumps\tdormant\n")
}

func TestShell_Graph(t *testing.T) {
	out := runShell(t, "connect dog barks\nset dog idle\ngraph dog\ngraph ghost\n")
	assert.Contains(t, out, "graph LR")
	assert.Contains(t, out, "class dormant visited;")
	assert.Contains(t, out, "class idle current;")
	assert.Contains(t, out, `error: subject not found: "ghost"`)
}

func TestShell_Table(t *testing.T) {
	out := runShell(t, "connect dog barks\ntable dog\n")
	assert.Contains(t, out, "| from \\ to | dormant | idle | barks |")

	rendered := runShell(t, "connect dog barks\ntable dog\n", WithMarkdownRenderer(func(string) (string, error) {
		return "rendered\n", nil
	}))
	assert.Contains(t, rendered, "rendered\n")
}

func TestShell_UsageAndUnknown(t *testing.T) {
	out := runShell(t, "connect dog\nfly dog\n\n# comment\nhelp\n")
	assert.Contains(t, out, "error: usage: connect <id> <action>")
	assert.Contains(t, out, `error: unknown command "fly"`)
	assert.Contains(t, out, "Commands:")
}

func TestShell_ExitStopsReading(t *testing.T) {
	out := runShell(t, "connect dog barks\nexit\nget dog\n")
	assert.Equal(t, "dog: dormant\n", out)
}

func TestShell_Prompt(t *testing.T) {
	out := runShell(t, "exit\n", WithPrompt(true))
	assert.Equal(t, "> ", out)
}

func TestShell_Interrupted(t *testing.T) {
	cancel := make(chan struct{})
	close(cancel)

	var out bytes.Buffer
	sh := NewShell(registry.New(nil), NewInterruptibleReader(strings.NewReader("list\n"), cancel), &out)
	err := sh.Run(context.Background())
	assert.ErrorIs(t, err, ErrInterrupted)
	assert.NoError(t, HandleExecutionError(err))
	assert.Empty(t, out.String())
}

func TestHandleExecutionError(t *testing.T) {
	assert.NoError(t, HandleExecutionError(nil))
	assert.NoError(t, HandleExecutionError(io.EOF))
	assert.NoError(t, HandleExecutionError(context.Canceled))
	assert.Error(t, HandleExecutionError(errors.New("boom")))
}

func TestShell_ExecReportsRejection(t *testing.T) {
	ctx := context.Background()
	var out bytes.Buffer
	sh := NewShell(registry.New(nil), strings.NewReader(""), &out)

	_, err := sh.Exec(ctx, "connect dog barks")
	require.NoError(t, err)
	_, err = sh.Exec(ctx, "set dog barks")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)
}
