package ia

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		key  string
		want string
	}{
		{"should keep plain keys untouched", "src/main.go", "src/main.go"},
		{"should encode spaces", "docs/user guide.md", "docs/user%20guide.md"},
		{"should encode the reserved characters", "a#b?c;d%e", "a%23b%3Fc%3Bd%25e"},
		{"should keep path separators intact", "dir with space/file#1", "dir%20with%20space/file%231"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()

			// when
			got := escapeKey(test.key)

			// then
			assert.Equal(t, test.want, got)
		})
	}
}

func TestEncodeHeaderValue(t *testing.T) {
	t.Parallel()

	t.Run("should pass plain ASCII through", func(t *testing.T) {
		t.Parallel()

		// when
		got := encodeHeaderValue("a plain description")

		// then
		assert.Equal(t, "a plain description", got)
	})

	t.Run("should wrap non-ASCII values in the uri form", func(t *testing.T) {
		t.Parallel()

		// when
		got := encodeHeaderValue("héllo")

		// then
		assert.Equal(t, "uri(h%C3%A9llo)", got)
	})

	t.Run("should wrap values with newlines", func(t *testing.T) {
		t.Parallel()

		// when
		got := encodeHeaderValue("line1\nline2")

		// then
		assert.Equal(t, "uri(line1%0Aline2)", got)
	})
}
