package ledger

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEscapeLike(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"rent", "rent"},
		{"100%", `100\%`},
		{"a_b", `a\_b`},
		{`back\slash`, `back\\slash`},
		{"%_", `\%\_`},
		{"", ""},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, escapeLike(tc.in), tc.in)
	}
}
