package prompter

import (
	"bytes"
	"io"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zfogg/picfeed/pkg/output"
)

func withInput(t *testing.T, s string) *bytes.Buffer {
	t.Helper()
	SetInput(strings.NewReader(s))
	buf := &bytes.Buffer{}
	prev := output.Out
	output.Out = buf
	t.Cleanup(func() {
		SetInput(os.Stdin)
		output.Out = prev
	})
	return buf
}

func TestPromptString(t *testing.T) {
	out := withInput(t, "  hello world \nnext\n")
	got, err := PromptString("Comment: ")
	require.NoError(t, err)
	assert.Equal(t, "hello world", got)
	assert.Equal(t, "Comment: ", out.String())

	got, err = PromptString("")
	require.NoError(t, err)
	assert.Equal(t, "next", got)

	_, err = PromptString("")
	assert.ErrorIs(t, err, io.EOF)
}

func TestPromptStringWithoutTrailingNewline(t *testing.T) {
	withInput(t, "last")
	got, err := PromptString("")
	require.NoError(t, err)
	assert.Equal(t, "last", got)
}

func TestPromptConfirm(t *testing.T) {
	withInput(t, "y\nYES\nn\n\n")
	for _, want := range []bool{true, true, false, false} {
		got, err := PromptConfirm("Delete?")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
}

func TestReadKeySkipsWhitespace(t *testing.T) {
	withInput(t, "j\nk l")
	var keys []rune
	for {
		r, err := ReadKey()
		if err != nil {
			break
		}
		keys = append(keys, r)
	}
	assert.Equal(t, []rune{'j', 'k', 'l'}, keys)
}
