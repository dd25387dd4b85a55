package money

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseQuantizes(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"150", "150.00"},
		{"150.5", "150.50"},
		{"0.005", "0.01"},
		{"2.675", "2.68"},
		{"-3.5", "-3.50"},
		{"1000000000.999", "1000000001.00"},
	}
	for _, c := range cases {
		m, err := Parse(c.in)
		require.NoError(t, err, c.in)
		assert.Equal(t, c.want, m.String(), c.in)
	}
}

func TestParseRejectsGarbage(t *testing.T) {
	t.Parallel()

	for _, in := range []string{"", "abc", "12.3.4", "1e", "--5"} {
		_, err := Parse(in)
		assert.ErrorIs(t, err, ErrInvalidAmount, in)
	}
}

func TestFromFloatAbsorbsBinaryError(t *testing.T) {
	t.Parallel()

	// 0.1+0.2 is the classic float trap; quantization makes it exact.
	m := FromFloat(0.1).Add(FromFloat(0.2))
	assert.Equal(t, "0.30", m.String())
}

func TestMulIntRequantizes(t *testing.T) {
	t.Parallel()

	price := MustParse("150.00")
	assert.Equal(t, "300.00", price.MulInt(2).String())
	assert.Equal(t, "0.00", Zero.MulInt(1000).String())

	// Repeated cents must come back as an exact amount.
	third := MustParse("0.33")
	assert.Equal(t, "0.99", third.MulInt(3).String())
}

func TestArithmeticAndComparison(t *testing.T) {
	t.Parallel()

	a := MustParse("100.00")
	b := MustParse("40.50")

	assert.Equal(t, "140.50", a.Add(b).String())
	assert.Equal(t, "59.50", a.Sub(b).String())
	assert.Equal(t, "-100.00", a.Neg().String())

	assert.True(t, b.LessThan(a))
	assert.True(t, a.GreaterThan(b))
	assert.True(t, a.GreaterThanOrEqual(MustParse("100")))
	assert.True(t, a.Equal(MustParse("100.000")))
	assert.Equal(t, 0, a.Cmp(MustParse("100.00")))

	assert.True(t, Zero.IsZero())
	assert.True(t, a.IsPositive())
	assert.True(t, a.Neg().IsNegative())
}

func TestJSONRoundTrip(t *testing.T) {
	t.Parallel()

	m := MustParse("1234.56")
	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.Equal(t, `"1234.56"`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equal(back))

	var bad Money
	assert.Error(t, json.Unmarshal([]byte(`42`), &bad))
	assert.ErrorIs(t, json.Unmarshal([]byte(`"nope"`), &bad), ErrInvalidAmount)
}
