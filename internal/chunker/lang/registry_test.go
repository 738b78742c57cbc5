package lang

import (
	"testing"

	"github.com/mvp-joe/project-cortex/internal/coreid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct{ lang string }

func (s stubAdapter) Language() string                              { return s.lang }
func (s stubAdapter) Parse(_ []byte) ([]Symbol, error)               { return nil, nil }
func (s stubAdapter) ExtractImports(_ []byte) ([]Import, error)      { return nil, nil }

func TestRegistry_RegisterIsIdempotentForSameLanguage(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(".zil", stubAdapter{lang: "zil"}))
	require.NoError(t, r.Register(".zil", stubAdapter{lang: "zil"}))

	a, ok := r.Resolve(".zil")
	require.True(t, ok)
	assert.Equal(t, "zil", a.Language())
}

func TestRegistry_RegisterConflictingLanguageErrors(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	require.NoError(t, r.Register(".zil", stubAdapter{lang: "zil"}))

	err := r.Register(".zil", stubAdapter{lang: "other"})
	require.Error(t, err)
	assert.ErrorIs(t, err, coreid.ErrConflict)
}

func TestRegistry_BuiltinAlwaysPreemptsRegisteredAdapter(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	r.RegisterBuiltin(".go", stubAdapter{lang: "builtin-go"})
	require.NoError(t, r.Register(".go", stubAdapter{lang: "user-go"}))

	a, ok := r.Resolve(".go")
	require.True(t, ok)
	assert.Equal(t, "builtin-go", a.Language())
}

func TestRegistry_ResolveUnknownExtension(t *testing.T) {
	t.Parallel()

	r := NewRegistry()
	_, ok := r.Resolve(".unknown")
	assert.False(t, ok)
}

func TestIsBuiltin(t *testing.T) {
	t.Parallel()

	assert.True(t, IsBuiltin(".go"))
	assert.True(t, IsBuiltin(".py"))
	assert.False(t, IsBuiltin(".zil"))
}
