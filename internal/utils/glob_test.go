package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGlobMatch_Wildcard(t *testing.T) {
	assert.True(t, GlobMatch("anything.txt", "*"))
	assert.True(t, GlobMatch("", "*"))
}

func TestGlobMatch_Extension(t *testing.T) {
	assert.True(t, GlobMatch("file.txt", "*.txt"))
	assert.True(t, GlobMatch("document.pdf", "*.pdf"))
	assert.True(t, GlobMatch("archive.tar.gz", "*.gz"))
	assert.False(t, GlobMatch("file.txt", "*.pdf"))
	assert.False(t, GlobMatch("file", "*.txt"))
}

func TestGlobMatch_Prefix(t *testing.T) {
	assert.True(t, GlobMatch("test_file", "test*"))
	assert.True(t, GlobMatch("test", "test*"))
	assert.False(t, GlobMatch("atest", "test*"))
}

func TestGlobMatch_Suffix(t *testing.T) {
	assert.True(t, GlobMatch("file_test", "*test"))
	assert.True(t, GlobMatch("test", "*test"))
	assert.False(t, GlobMatch("test_file", "*test"))
	assert.False(t, GlobMatch("testa", "*test"))
}

func TestGlobMatch_Exact(t *testing.T) {
	assert.True(t, GlobMatch("exact.txt", "exact.txt"))
	assert.False(t, GlobMatch("exact.txt", "other.txt"))
	assert.True(t, GlobMatch("", ""))
	assert.False(t, GlobMatch("file", ""))
	assert.False(t, GlobMatch("", "pattern"))
}
