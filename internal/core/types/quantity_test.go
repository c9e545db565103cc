package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		in   string
		want Quantity
	}{
		{"10", NewQuantity(10)},
		{"2.5", 25_000},
		{"-0.25", -2_500},
		{"0.12345", 1_234},
		{".5", 5_000},
		{"+3", NewQuantity(3)},
		{"-0.00005", 0},
		{"1.5e2", NewQuantity(150)},
		{"99999999999999.9999", MaxQuantity},
		{"-99999999999999.9999", -MaxQuantity},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseQuantity(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, in := range []string{"abc", "", "1.-5", "+-5", "--5", "1.2.3", "-", ".", "1_000", "0x10"} {
		_, err := ParseQuantity(in)
		assert.Error(t, err, in)
	}
}

func TestParseQuantityRejectsOutOfRange(t *testing.T) {
	for _, in := range []string{"100000000000000", "1844674407370956", "922337203685478", "-100000000000000", "1e15"} {
		q, err := ParseQuantity(in)
		assert.Error(t, err, "%s parsed as %s", in, q)
	}

	var q Quantity
	assert.Error(t, q.UnmarshalJSON([]byte(`1844674407370956`)))
	assert.Error(t, q.UnmarshalJSON([]byte(`"1.-5"`)))
}

func TestQuantityScanNumericText(t *testing.T) {
	var q Quantity
	require.NoError(t, q.Scan("70.0000"))
	assert.Equal(t, NewQuantity(70), q)

	require.NoError(t, q.Scan([]byte("-5.5")))
	assert.Equal(t, Quantity(-55_000), q)

	require.NoError(t, q.Scan(nil))
	assert.True(t, q.IsZero())

	assert.Error(t, q.Scan(true))
}

func TestQuantityValue(t *testing.T) {
	v, err := MustQuantity("12.3").Value()
	require.NoError(t, err)
	assert.Equal(t, "12.3000", v)
}

func TestQuantityClamp(t *testing.T) {
	ordered := NewQuantity(30)
	assert.Equal(t, ordered, NewQuantity(45).Clamp(0, ordered))
	assert.Equal(t, Quantity(0), NewQuantity(-3).Clamp(0, ordered))
	assert.Equal(t, NewQuantity(20), NewQuantity(20).Clamp(0, ordered))
}

func TestQuantityJSON(t *testing.T) {
	var q Quantity
	require.NoError(t, q.UnmarshalJSON([]byte(`"4.25"`)))
	assert.Equal(t, Quantity(42_500), q)

	require.NoError(t, q.UnmarshalJSON([]byte(`7`)))
	out, err := q.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, "7.0000", string(out))
}

func TestLineTotal(t *testing.T) {
	total := LineTotal(MustMoney("3.50"), MustQuantity("3"))
	assert.Equal(t, "10.5", total.String())
}
