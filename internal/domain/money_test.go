package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMoney(t *testing.T) {
	cases := []struct {
		in  string
		out Money
		ok  bool
	}{
		{"1", 100, true},
		{"1.0", 100, true},
		{"1.23", 123, true},
		{"1,23", 123, true},
		{"0.01", 1, true},
		{"1.005", 101, true},
		{" 2.50 ", 250, true},
		{".5", 50, true},
		{"1000.00", 100000, true},
		{"-5", 0, false},
		{"+5", 0, false},
		{"0", 0, false},
		{"0.001", 0, false},
		{"abc", 0, false},
		{"1.2.3", 0, false},
		{"1e3", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, err := ParseMoney(tc.in)
		if tc.ok {
			require.NoError(t, err, tc.in)
			assert.Equal(t, tc.out, got, tc.in)
		} else {
			assert.ErrorIs(t, err, ErrInvalidAmount, tc.in)
		}
	}
}

func TestMoneyString(t *testing.T) {
	assert.Equal(t, "0.00", Money(0).String())
	assert.Equal(t, "12.05", Money(1205).String())
	assert.Equal(t, "-0.40", Money(-40).String())
	assert.Equal(t, "600.00", Money(60000).String())
}

func TestMoneyMarshalJSON(t *testing.T) {
	b, err := json.Marshal(map[string]Money{"amount": 123456})
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":1234.56}`, string(b))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind(" Income ")
	require.NoError(t, err)
	assert.Equal(t, KindIncome, k)

	k, err = ParseKind("saida")
	require.NoError(t, err)
	assert.Equal(t, KindExpense, k)

	_, err = ParseKind("transfer")
	assert.Equal(t, KindValidation, KindOf(err))
}

func TestMoneyUnmarshalJSON(t *testing.T) {
	var m Money
	require.NoError(t, json.Unmarshal([]byte(`-12.05`), &m))
	assert.Equal(t, Money(-1205), m)

	require.NoError(t, json.Unmarshal([]byte(`"0.10"`), &m))
	assert.Equal(t, Money(10), m)

	assert.Error(t, json.Unmarshal([]byte(`"abc"`), &m))
}
