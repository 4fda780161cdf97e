package lib_test

import (
	"lager_server/lib"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanDigits(t *testing.T) {
	assert.Equal(t, "5701234567890", lib.CleanDigits(" 570-1234 567890\n"))
	assert.Equal(t, "", lib.CleanDigits("abc"))
	// Only ASCII digits survive.
	assert.Equal(t, "212", lib.CleanDigits("١2x1٣2"))
}

func TestIsRenderableEAN(t *testing.T) {
	assert.False(t, lib.IsRenderableEAN("12345"))
	assert.False(t, lib.IsRenderableEAN("57012345678"))
	assert.True(t, lib.IsRenderableEAN("570123456789"))
	assert.True(t, lib.IsRenderableEAN("5701234567890"))
}

func TestIsDigits(t *testing.T) {
	assert.True(t, lib.IsDigits("42"))
	assert.False(t, lib.IsDigits(""))
	assert.False(t, lib.IsDigits("4 2"))
	assert.False(t, lib.IsDigits("-1"))
}
