package shared

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 10, 35)
	require.Equal(t, 2, p.Page)
	require.Equal(t, 10, p.Limit)
	require.Equal(t, 35, p.Total)
	require.Equal(t, 4, p.TotalPages)
	require.Equal(t, 10, p.Offset())
}

func TestNewPaginationDefaults(t *testing.T) {
	p := NewPagination(0, 0, 5)
	require.Equal(t, 1, p.Page)
	require.Equal(t, 20, p.Limit)
	require.Equal(t, 1, p.TotalPages)
	require.Zero(t, p.Offset())

	empty := NewPagination(1, 20, 0)
	require.Zero(t, empty.TotalPages)
}
