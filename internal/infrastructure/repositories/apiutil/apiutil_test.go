package apiutil_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Andres9890/iagitbetter/internal/infrastructure/repositories/apiutil"
)

func TestTypedAccessors(t *testing.T) {
	t.Parallel()

	raw := map[string]any{
		"name":    "repo",
		"stars":   float64(12),
		"big":     float64(9000000000),
		"private": true,
		"owner":   map[string]any{"login": "octo"},
		"topics":  []any{"git", 42, "archive"},
		"assets":  []any{map[string]any{"name": "a"}, "not a map"},
	}

	t.Run("should read typed values", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "repo", apiutil.Str(raw, "name"))
		assert.Equal(t, 12, apiutil.Int(raw, "stars"))
		assert.Equal(t, int64(9000000000), apiutil.Int64(raw, "big"))
		assert.True(t, apiutil.Bool(raw, "private"))
		assert.Equal(t, "octo", apiutil.Str(apiutil.Map(raw, "owner"), "login"))
	})

	t.Run("should return zero values for absent or mistyped keys", func(t *testing.T) {
		t.Parallel()

		assert.Empty(t, apiutil.Str(raw, "missing"))
		assert.Zero(t, apiutil.Int(raw, "name"))
		assert.False(t, apiutil.Bool(raw, "stars"))
		assert.Nil(t, apiutil.Map(raw, "name"))
		assert.Nil(t, apiutil.List(raw, "missing"))
	})

	t.Run("should skip non-matching list elements", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, []string{"git", "archive"}, apiutil.StrList(raw, "topics"))
		assert.Len(t, apiutil.List(raw, "assets"), 1)
	})

	t.Run("should fall back only on empty strings", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "repo", apiutil.StrOr(raw, "name", "fallback"))
		assert.Equal(t, "fallback", apiutil.StrOr(raw, "missing", "fallback"))
	})
}
