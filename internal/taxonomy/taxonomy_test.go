package taxonomy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "kequity/pkg/domain-errors"
)

func TestNormalize(t *testing.T) {
	n := New()

	t.Run("canonical names pass through", func(t *testing.T) {
		domain, err := n.Normalize("distributed-systems")
		require.NoError(t, err)
		assert.Equal(t, "distributed-systems", domain)
	})

	t.Run("case and whitespace fold", func(t *testing.T) {
		domain, err := n.Normalize("  Distributed  Systems ")
		require.NoError(t, err)
		assert.Equal(t, "distributed-systems", domain)
	})

	t.Run("aliases fold", func(t *testing.T) {
		domain, err := n.Normalize("ML")
		require.NoError(t, err)
		assert.Equal(t, "machine-learning", domain)
	})

	t.Run("empty rejects", func(t *testing.T) {
		_, err := n.Normalize("   ")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})

	t.Run("unknown rejects", func(t *testing.T) {
		_, err := n.Normalize("astrology")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeValidation))
	})
}
