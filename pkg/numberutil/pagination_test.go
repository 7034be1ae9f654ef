package numberutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Paginate(t *testing.T) {
	p := Paginate(47, 10, 3)
	require.Equal(t, 5, p.TotalPages)
	require.True(t, p.HasNextPage)
	require.True(t, p.HasPreviousPage)

	p = Paginate(47, 10, 5)
	require.False(t, p.HasNextPage)
	require.True(t, p.HasPreviousPage)

	p = Paginate(0, 10, 1)
	require.Equal(t, 0, p.TotalPages)
	require.False(t, p.HasNextPage)
	require.False(t, p.HasPreviousPage)

	p = Paginate(10, 10, 1)
	require.Equal(t, 1, p.TotalPages)
	require.False(t, p.HasNextPage)
	require.False(t, p.HasPreviousPage)
}

func Test_Offset(t *testing.T) {
	require.Equal(t, 0, Offset(10, 1))
	require.Equal(t, 20, Offset(10, 3))
	require.Equal(t, 0, Offset(10, 0))
}
