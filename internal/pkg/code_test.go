package pkg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandDigits(t *testing.T) {
	for i := 0; i < 50; i++ {
		code, err := RandDigits(6)
		require.NoError(t, err)
		assert.Len(t, code, 6)
		for _, r := range code {
			assert.True(t, r >= '0' && r <= '9', "non-digit %q in %q", r, code)
		}
	}
}
