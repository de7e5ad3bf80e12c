package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in      string
		want    int64
		wantErr bool
	}{
		{"123.45", 12345, false},
		{"0.01", 1, false},
		{"70000", 7_000_000, false},
		{"5", 500, false},
		{"-3.50", -350, false}, // sign validation belongs to the engine
		{"1.234", 0, true},     // sub-cent precision
		{"abc", 0, true},
		{"", 0, true},
	}
	for _, tc := range tests {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr {
				assert.ErrorIs(t, err, ErrInvalidAmount)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "R123.45", FormatAmount(12345))
	assert.Equal(t, "R0.01", FormatAmount(1))
	assert.Equal(t, "R70000.00", FormatAmount(7_000_000))
	assert.Equal(t, "R0.00", FormatAmount(0))
}

func TestParseAccountID(t *testing.T) {
	id, err := ParseAccountID("1234567890")
	require.NoError(t, err)
	assert.Equal(t, uint64(1_234_567_890), id)

	for _, in := range []string{"abc", "-1", "999999999", "10000000000", ""} {
		_, err := ParseAccountID(in)
		assert.ErrorIs(t, err, ErrInvalidAccountID, "input %q", in)
	}
}
