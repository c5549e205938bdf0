package money_test

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/invoicer/internal/money"
)

func TestParse(t *testing.T) {
	type testCase struct {
		name    string
		in      string
		want    money.Amount
		wantErr error
	}

	tests := []testCase{
		{name: "Whole pounds", in: "20", want: 2000},
		{name: "Two digits", in: "40.00", want: 4000},
		{name: "One digit", in: "0.5", want: 50},
		{name: "Thousands separator", in: "1,234.56", want: 123456},
		{name: "Currency symbol", in: "£12.34", want: 1234},
		{name: "Trailing zeros beyond pence", in: "3.100", want: 310},
		{name: "Negative", in: "-5.25", want: -525},
		{name: "Too many digits", in: "1.005", wantErr: money.ErrTooManyDigits},
		{name: "Empty", in: "  ", wantErr: money.ErrInvalidAmount},
		{name: "Garbage", in: "abc", wantErr: money.ErrInvalidAmount},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := money.Parse(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseNonNegative(t *testing.T) {
	_, err := money.ParseNonNegative("-0.01")
	assert.ErrorIs(t, err, money.ErrNegativeAmount)

	got, err := money.ParseNonNegative("0")
	require.NoError(t, err)
	assert.Equal(t, money.Zero, got)
}

func TestAmount_String(t *testing.T) {
	assert.Equal(t, "0.00", money.Zero.String())
	assert.Equal(t, "300.00", money.Amount(30000).String())
	assert.Equal(t, "0.07", money.Amount(7).String())
	assert.Equal(t, "-12.50", money.Amount(-1250).String())
	assert.Equal(t, "£1.99", money.Amount(199).Pounds())
	assert.Equal(t, "-£1.99", money.Amount(-199).Pounds())
}

func TestAmount_JSON(t *testing.T) {
	b, err := json.Marshal(struct {
		Total money.Amount `json:"total"`
	}{Total: 15000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"total":"150.00"}`, string(b))

	var got struct {
		Fee money.Amount `json:"fee"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"fee":"20.10"}`), &got))
	assert.Equal(t, money.Amount(2010), got.Fee)

	require.NoError(t, json.Unmarshal([]byte(`{"fee":7.5}`), &got))
	assert.Equal(t, money.Amount(750), got.Fee)
}

func TestSum_AvoidsFloatDrift(t *testing.T) {
	var amounts []money.Amount
	for range 10 {
		amounts = append(amounts, 10) // 0.10 ten times
	}

	assert.Equal(t, "1.00", money.Sum(amounts...).String())
}

func TestPerWeek(t *testing.T) {
	assert.Equal(t, "150.00", money.PerWeek(30000, 14).String())
	assert.Equal(t, "33.33", money.PerWeek(10000, 21).String())
	assert.Equal(t, "0.00", money.PerWeek(10000, 0).String())
	assert.Equal(t, "-70.00", money.PerWeek(-1000, 1).String())
}

func TestPercent(t *testing.T) {
	assert.Equal(t, money.Amount(2000), money.Amount(10000).Percent(decimal.RequireFromString("0.20")))
	assert.Equal(t, "46.44", money.PercentOf(15000, 32300))
	assert.Equal(t, "0.00", money.PercentOf(15000, 0))
}
