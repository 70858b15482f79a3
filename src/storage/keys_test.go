package storage

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestObjectKeyFormat(t *testing.T) {
	key := ObjectKey("holiday photo.JPG")

	assert.Regexp(t, regexp.MustCompile(`^\d+-\d{9}\.jpg$`), key)
}

func TestObjectKeyNoExtension(t *testing.T) {
	key := ObjectKey("snapshot")

	assert.Regexp(t, regexp.MustCompile(`^\d+-\d{9}$`), key)
}

func TestObjectKeysAreUnique(t *testing.T) {
	a := ObjectKey("a.png")
	b := ObjectKey("a.png")

	assert.NotEqual(t, a, b)
}

func TestKeyFromURL(t *testing.T) {
	key := KeyFromURL("https://storage.example.com/image-analyzer/1714000000000-000012345.jpg?v=1")
	assert.Equal(t, "1714000000000-000012345.jpg", key)

	assert.Equal(t, "", KeyFromURL(""))
	assert.Equal(t, "", KeyFromURL("https://storage.example.com"))
	assert.Equal(t, "", KeyFromURL("https://storage.example.com/"))
}
