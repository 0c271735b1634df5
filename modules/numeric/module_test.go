package numeric

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScalarCodec(t *testing.T) {
	v, err := LoadScalar(context.Background(), strings.NewReader(" 5.0\n"))
	require.NoError(t, err)
	assert.Equal(t, 5.0, v)

	_, err = LoadScalar(context.Background(), strings.NewReader("five"))
	assert.ErrorContains(t, err, "invalid scalar")

	buf := &bytes.Buffer{}
	require.NoError(t, SaveScalar(context.Background(), buf, 30.0))
	assert.Equal(t, "30\n", buf.String())
}

func TestSeriesCodec(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected Series
	}{
		{name: "yaml block", input: "- 1\n- 2.5\n- -3\n", expected: Series{1, 2.5, -3}},
		{name: "json array", input: "[1, 2, 3]", expected: Series{1, 2, 3}},
		{name: "empty document", input: "", expected: Series{}},
		{name: "empty flow", input: "[]", expected: Series{}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := LoadSeries(context.Background(), strings.NewReader(tc.input))
			require.NoError(t, err)
			assert.Equal(t, tc.expected, v)
		})
	}

	_, err := LoadSeries(context.Background(), strings.NewReader("[a, b]"))
	assert.ErrorContains(t, err, "invalid series")
}

func TestSeriesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	require.NoError(t, SaveSeries(context.Background(), buf, Series{1, 2.5}))

	v, err := LoadSeries(context.Background(), buf)
	require.NoError(t, err)
	assert.Equal(t, Series{1, 2.5}, v)
}
