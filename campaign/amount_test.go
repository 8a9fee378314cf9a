package campaign

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.1", "100000000000000000"},
		{"1", "1000000000000000000"},
		{"2.5", "2500000000000000000"},
		{".5", "500000000000000000"},
		{"0.000000000000000001", "1"},
		{"  0.25  ", "250000000000000000"},
		{"10.000000000000000001", "10000000000000000001"},
	}

	for _, tt := range tests {
		wei, err := ParseAmount(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, wei.String(), tt.in)
	}
}

func TestParseAmountRejects(t *testing.T) {
	for _, in := range []string{
		"",
		"   ",
		"0",
		"0.0",
		"-1",
		"+1",
		"1.2.3",
		"abc",
		"1e18",
		"1,5",
		"0x10",
		"0.0000000000000000001", // 19 decimal places
	} {
		_, err := ParseAmount(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, "input %q", in)
	}
}

func TestAmountRoundTrip(t *testing.T) {
	// Formatting a parsed amount must return the original text exactly.
	for _, in := range []string{"0.1", "1", "2.5", "0.000000000000000001", "100", "0.123456789012345678"} {
		wei, err := ParseAmount(in)
		require.NoError(t, err, in)
		assert.Equal(t, in, FormatAmount(wei), in)
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "0", FormatAmount(nil))
	assert.Equal(t, "0", FormatAmount(big.NewInt(0)))
	assert.Equal(t, "1", FormatAmount(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)))
	assert.Equal(t, "0.000000000000000001", FormatAmount(big.NewInt(1)))

	// No trailing zeros
	half, _ := new(big.Int).SetString("500000000000000000", 10)
	assert.Equal(t, "0.5", FormatAmount(half))
}
