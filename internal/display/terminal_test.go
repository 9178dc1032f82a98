package display

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTerminal_Quiet(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	term.SetText("first")
	term.SetText("second")
	assert.Empty(t, buf.String())

	require.NoError(t, term.Flush())
	assert.Equal(t, "second\n", buf.String())
	assert.Equal(t, "second", term.Text())
}

func TestTerminal_Verbose(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, true)

	term.SetText("first")
	term.SetText("second")
	require.NoError(t, term.Flush())

	assert.Equal(t, "first\nsecond\n", buf.String())
}

func TestTerminal_FlushEmpty(t *testing.T) {
	var buf bytes.Buffer
	term := NewTerminal(&buf, false)

	require.NoError(t, term.Flush())
	assert.Empty(t, buf.String())
}
