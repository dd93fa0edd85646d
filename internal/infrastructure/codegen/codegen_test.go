package codegen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNanoidGenerator_Format(t *testing.T) {
	g, err := NewNanoidGenerator()
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		code := g.NewCode()
		require.Len(t, code, Length)
		for _, r := range code {
			assert.True(t, strings.ContainsRune(Alphabet, r), "unexpected rune %q in %s", r, code)
		}
	}
}

func TestNanoidGenerator_Distinct(t *testing.T) {
	g := MustNanoidGenerator()

	seen := make(map[string]struct{}, 10000)
	for i := 0; i < 10000; i++ {
		seen[g.NewCode()] = struct{}{}
	}
	// 36^8 keyspace; a collision in 10k draws is vanishingly unlikely.
	assert.Len(t, seen, 10000)
}
