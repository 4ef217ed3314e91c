package valueobject

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustMoney(t *testing.T, amount string, currency Currency) Money {
	t.Helper()
	m, err := NewMoneyFromString(amount, currency)
	require.NoError(t, err)
	return m
}

func TestNewMoney(t *testing.T) {
	tests := []struct {
		name     string
		amount   decimal.Decimal
		currency Currency
		wantErr  bool
	}{
		{"positive amount", decimal.NewFromInt(100), USD, false},
		{"zero amount", decimal.Zero, EUR, false},
		{"negative amount", decimal.NewFromInt(-50), GBP, false},
		{"empty currency", decimal.NewFromInt(1), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMoney(tt.amount, tt.currency)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, m.Amount().Equal(tt.amount))
			assert.Equal(t, tt.currency, m.Currency())
		})
	}
}

func TestNewMoneyFromString(t *testing.T) {
	t.Run("valid amount", func(t *testing.T) {
		m, err := NewMoneyFromString("400.008", USD)
		require.NoError(t, err)
		assert.Equal(t, "400.008", m.Amount().String())
	})

	t.Run("invalid amount", func(t *testing.T) {
		_, err := NewMoneyFromString("not-a-number", USD)
		assert.Error(t, err)
	})

	t.Run("empty currency", func(t *testing.T) {
		_, err := NewMoneyFromString("10", "")
		assert.Error(t, err)
	})
}

func TestNewMoneyFromFloat(t *testing.T) {
	m, err := NewMoneyFromFloat(99.95, EUR)
	require.NoError(t, err)
	assert.Equal(t, "99.95", m.Amount().String())
	assert.Equal(t, EUR, m.Currency())
}

func TestMoneyPredicates(t *testing.T) {
	zero := Zero(USD)
	assert.True(t, zero.IsZero())
	assert.False(t, zero.IsPositive())
	assert.False(t, zero.IsNegative())
	assert.Equal(t, USD, zero.Currency())

	pos := mustMoney(t, "10", USD)
	assert.True(t, pos.IsPositive())
	assert.False(t, pos.IsNegative())
	assert.False(t, pos.IsZero())

	neg := pos.Negate()
	assert.True(t, neg.IsNegative())
	assert.Equal(t, "-10", neg.Amount().String())
	assert.True(t, neg.Abs().Equals(pos))
}

func TestMoneyAdd(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Money
		want    string
		wantErr bool
	}{
		{"same currency", mustMoney(t, "600", "USD"), mustMoney(t, "400", "USD"), "1000", false},
		{"negative operand", mustMoney(t, "100", "USD"), mustMoney(t, "-30", "USD"), "70", false},
		{"currency mismatch", mustMoney(t, "1", "USD"), mustMoney(t, "1", "EUR"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Add(tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Amount().String())
			assert.Equal(t, tt.a.Currency(), got.Currency())
		})
	}
}

func TestMoneySubtract(t *testing.T) {
	tests := []struct {
		name    string
		a, b    Money
		want    string
		wantErr bool
	}{
		{"paid minus allocated", mustMoney(t, "1000", "USD"), mustMoney(t, "400", "USD"), "600", false},
		{"below zero", mustMoney(t, "400", "USD"), mustMoney(t, "500", "USD"), "-100", false},
		{"currency mismatch", mustMoney(t, "1", "USD"), mustMoney(t, "1", "JPY"), "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.a.Subtract(tt.b)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Amount().String())
		})
	}
}

func TestMoneyMultiply(t *testing.T) {
	m := mustMoney(t, "100", USD)
	got := m.Multiply(decimal.NewFromFloat(1.5))
	assert.Equal(t, "150", got.Amount().String())
	assert.Equal(t, USD, got.Currency())
}

func TestMoneyRound(t *testing.T) {
	tests := []struct {
		name   string
		amount string
		places int32
		want   string
	}{
		{"round down", "400.0084", 3, "400.008"},
		{"round up", "400.0086", 3, "400.009"},
		{"two places", "99.955", 2, "99.96"},
		{"no-op", "100", 2, "100"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := mustMoney(t, tt.amount, USD)
			assert.Equal(t, tt.want, m.Round(tt.places).Amount().String())
		})
	}
}

func TestMoneyComparisons(t *testing.T) {
	a := mustMoney(t, "400", USD)
	b := mustMoney(t, "500", USD)

	assert.True(t, a.Equals(mustMoney(t, "400.00", USD)))
	assert.False(t, a.Equals(mustMoney(t, "400", EUR)))

	less, err := a.LessThan(b)
	require.NoError(t, err)
	assert.True(t, less)

	greater, err := b.GreaterThan(a)
	require.NoError(t, err)
	assert.True(t, greater)

	_, err = a.LessThan(mustMoney(t, "400", EUR))
	assert.Error(t, err)
	_, err = a.GreaterThan(mustMoney(t, "400", EUR))
	assert.Error(t, err)
}

func TestMoneyString(t *testing.T) {
	m := mustMoney(t, "400.008", USD)
	assert.Equal(t, "400.01 USD", m.String())
	assert.Equal(t, "400.008", m.StringFixed(3))
	assert.InDelta(t, 400.008, m.Float64(), 0.0001)
}

func TestMoneyJSONRoundTrip(t *testing.T) {
	m := mustMoney(t, "400.008", USD)

	data, err := json.Marshal(m)
	require.NoError(t, err)
	assert.JSONEq(t, `{"amount":"400.008","currency":"USD"}`, string(data))

	var back Money
	require.NoError(t, json.Unmarshal(data, &back))
	assert.True(t, m.Equals(back))

	assert.Error(t, json.Unmarshal([]byte(`{"amount":"bad","currency":"USD"}`), &back))
}

func TestMoneyValueAndScan(t *testing.T) {
	m := mustMoney(t, "123.45", USD)

	v, err := m.Value()
	require.NoError(t, err)
	assert.Equal(t, "123.45", v)

	var scanned Money
	require.NoError(t, scanned.Scan("123.45"))
	assert.Equal(t, "123.45", scanned.Amount().String())

	var fromNil Money
	require.NoError(t, fromNil.Scan(nil))
	assert.True(t, fromNil.Amount().IsZero())
}
