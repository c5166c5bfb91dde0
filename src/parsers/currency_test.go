package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCurrency(t *testing.T) {
	cases := []struct {
		value string
		want  string
	}{
		{"$1234.56", "1234.56"},
		{"$0.01", "0.01"},
		{"($50.00)", "-50.00"},
		{"(50.00)", "-50.00"},
		{"", "0.00"},
		{"-", "0.00"},
	}
	for _, tc := range cases {
		t.Run(tc.value, func(t *testing.T) {
			got, err := ParseCurrency(tc.value)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestParseCurrencyMalformed(t *testing.T) {
	// Thousands separators are out of grammar, as is anything without the
	// leading marker.
	for _, value := range []string{"$1,234.56", "1234.56", "(abc)", "$", "($)", "USD 12"} {
		t.Run(value, func(t *testing.T) {
			_, err := ParseCurrency(value)
			assert.ErrorIs(t, err, ErrMalformedCurrency)
		})
	}
}
