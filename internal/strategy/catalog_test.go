package strategy_test

import (
	"strings"
	"testing"

	"github.com/axenvault/axenbot/internal/strategy"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultCatalog(t *testing.T) {
	catalog := strategy.DefaultCatalog()
	require.Len(t, catalog, 6)
	for _, body := range catalog {
		assert.True(t, strings.Contains(body, "*Strategy Alert*"), body)
	}

	assert.True(t, strings.HasPrefix(catalog[0], "🚀"))
	assert.True(t, strings.HasPrefix(catalog[5], "🔥"))
}

func TestParseCatalog(t *testing.T) {
	catalog, err := strategy.ParseCatalog(strings.NewReader("strategies:\n  - one\n  - two\n"))
	require.NoError(t, err)
	assert.Equal(t, strategy.Catalog{"one", "two"}, catalog)

	_, err = strategy.ParseCatalog(strings.NewReader("strategies: []\n"))
	assert.True(t, errors.Is(err, strategy.ErrValidation))

	_, err = strategy.ParseCatalog(strings.NewReader("strategies:\n  - ''\n"))
	assert.True(t, errors.Is(err, strategy.ErrValidation))

	_, err = strategy.ParseCatalog(strings.NewReader("unknown: 1\n"))
	assert.Error(t, err)
}
