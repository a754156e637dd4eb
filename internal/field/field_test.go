package field

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  int
	}{
		{"00123", 5, 123},
		{"  -42", 5, -42},
		{"001", 3, 1},
		{"12345678", 3, 123},
		{" 7 ", 3, 7},
	}

	for _, test := range tests {
		got, err := Parse([]byte(test.in), test.width)
		require.NoError(t, err, test.in)
		assert.Equal(t, test.want, got, test.in)
	}
}

func TestParseRejects(t *testing.T) {
	_, err := Parse([]byte("12"), 3)
	assert.ErrorIs(t, err, ErrField)

	_, err = Parse([]byte("     "), 5)
	assert.ErrorIs(t, err, ErrField)

	_, err = Parse([]byte("1a2"), 3)
	assert.ErrorIs(t, err, ErrField)

	_, err = Parse(make([]byte, 64), 32)
	assert.ErrorIs(t, err, ErrFieldWidth)

	_, err = Parse([]byte("1"), 0)
	assert.ErrorIs(t, err, ErrFieldWidth)
}

func TestParseAt(t *testing.T) {
	v, err := ParseAt([]byte("ABCDEF001 0012"), 6, 3)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	_, err = ParseAt([]byte("ABC"), 4, 1)
	assert.ErrorIs(t, err, ErrField)
}

func TestParseAngle(t *testing.T) {
	deg, err := ParseAngle([]byte("1393000"))
	require.NoError(t, err)
	assert.InDelta(t, 139.5, deg, 1e-12)

	deg, err = ParseAngle([]byte("0354530"))
	require.NoError(t, err)
	assert.InDelta(t, 35+45.0/60+30.0/3600, deg, 1e-12)

	_, err = ParseAngle([]byte("13930"))
	assert.ErrorIs(t, err, ErrField)
}
