package format_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/rpggio/eggsim/internal/format"
)

func TestNumber_Short(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0"},
		{7.9, "7"},
		{999, "999"},
		{1000, "1K"},
		{1500, "1.5K"},
		{1234, "1.23K"},
		{999_999, "1000K"},
		{2_500_000, "2.5M"},
		{1e9, "1B"},
		{4.56e12, "4.56T"},
		{1e15, "1Qa"},
		{1e18, "1Qi"},
		{1e21, "1Sx"},
		{1e24, "1Sp"},
		{1e27, "1O"},
		{1e30, "1N"},
		{1e33, "1D"},
		{2e36, "2000D"},
	}
	for _, tt := range tests {
		require.Equal(t, tt.want, format.Number(tt.in, format.Short), "input %v", tt.in)
	}
}

func TestNumber_Scientific(t *testing.T) {
	require.Equal(t, "999", format.Number(999.7, format.Scientific))
	require.Equal(t, "1.00e+3", format.Number(1000, format.Scientific))
	require.Equal(t, "1.23e+6", format.Number(1_234_567, format.Scientific))
	require.Equal(t, "5.00e+33", format.Number(5e33, format.Scientific))
}

func TestNumber_Standard(t *testing.T) {
	require.Equal(t, "0", format.Number(0, format.Standard))
	require.Equal(t, "999", format.Number(999, format.Standard))
	require.Equal(t, "1,234,568", format.Number(1_234_567.6, format.Standard))
}

func TestNumber_Degenerate(t *testing.T) {
	require.Equal(t, "0", format.Number(math.NaN(), format.Short))
	require.Equal(t, "∞", format.Number(math.Inf(1), format.Short))
	require.Equal(t, "1.5K", format.Number(1500, format.Style("unknown")))
}

func TestStyle_Valid(t *testing.T) {
	require.True(t, format.Short.Valid())
	require.True(t, format.Scientific.Valid())
	require.True(t, format.Standard.Valid())
	require.False(t, format.Style("roman").Valid())
}
