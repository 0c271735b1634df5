package env

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestString(t *testing.T) {
	t.Setenv("RECIPEGRID_TEST_STRING", "value")
	assert.Equal(t, "value", String("RECIPEGRID_TEST_STRING", "def"))
	assert.Equal(t, "def", String("RECIPEGRID_TEST_UNSET", "def"))
}

func TestBool(t *testing.T) {
	t.Setenv("RECIPEGRID_TEST_BOOL", "true")
	b, err := Bool("RECIPEGRID_TEST_BOOL", false)
	require.NoError(t, err)
	assert.True(t, b)

	b, err = Bool("RECIPEGRID_TEST_UNSET", true)
	require.NoError(t, err)
	assert.True(t, b)

	t.Setenv("RECIPEGRID_TEST_BOOL", "nope")
	_, err = Bool("RECIPEGRID_TEST_BOOL", false)
	assert.ErrorContains(t, err, "parse RECIPEGRID_TEST_BOOL")
}
