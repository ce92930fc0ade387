package doctree

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTarget_IsRaw(t *testing.T) {
	require.True(t, NewTarget("a").IsRaw())
	require.False(t, NewSection(1).IsRaw())
}

func TestTarget_RefID(t *testing.T) {
	target := NewTarget("a")
	_, ok := target.RefID()
	require.False(t, ok)

	target.SetRefID("")
	id, ok := target.RefID()
	require.True(t, ok)
	require.Empty(t, id)
}
