package scenario

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOption(t *testing.T) {
	var zero Option[int64]
	require.False(t, zero.IsPresent())
	require.Equal(t, "(absent)", zero.String())

	v, ok := None[int64]().Get()
	require.False(t, ok)
	require.Equal(t, int64(0), v)
	require.Equal(t, int64(7), None[int64]().OrElse(7))

	some := Some(int64(0))
	v, ok = some.Get()
	require.True(t, ok)
	require.Equal(t, int64(0), v)
	require.Equal(t, int64(0), some.OrElse(7))
	require.Equal(t, "0", some.String())
	require.NotEqual(t, zero, some)
}
