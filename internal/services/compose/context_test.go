package compose

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
)

func TestSnippet_CutsOnRuneBoundary(t *testing.T) {
	// Arrange: every rune is 3 bytes, so byte 100 falls mid-rune.
	long := strings.Repeat("日", 60)

	// Act
	got := snippet(long, historySnippetLen)

	// Assert
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, strings.Repeat("日", 33), got)
}

func TestSnippet_ShortStringUnchanged(t *testing.T) {
	// Act
	got := snippet("cozy bungalow", historySnippetLen)

	// Assert
	assert.Equal(t, "cozy bungalow", got)
}
