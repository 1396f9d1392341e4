package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	cases := []struct {
		in      string
		want    Amount
		wantErr bool
	}{
		{in: "50.25", want: 5025},
		{in: "50", want: 5000},
		{in: "50.2", want: 5020},
		{in: "0.05", want: 5},
		{in: "9600.00", want: 960000},
		{in: " 50.25 ", want: 5025},
		{in: "-50.25", want: -5025},
		{in: "50.", want: 5000},
		{in: ".25", want: 25},
		{in: "50.255", wantErr: true},
		{in: "", wantErr: true},
		{in: "abc", wantErr: true},
		{in: "1.2.3", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.in, func(t *testing.T) {
			got, err := ParseAmount(tc.in)
			if tc.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestAmountString(t *testing.T) {
	assert.Equal(t, "50.25", Amount(5025).String())
	assert.Equal(t, "50.05", Amount(5005).String())
	assert.Equal(t, "0.05", Amount(5).String())
	assert.Equal(t, "9600.00", Amount(960000).String())
}

func TestAmountJSON(t *testing.T) {
	t.Run("accepts decimal strings", func(t *testing.T) {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(`"50.25"`), &a))
		assert.Equal(t, Amount(5025), a)
	})

	t.Run("accepts numbers", func(t *testing.T) {
		var a Amount
		require.NoError(t, json.Unmarshal([]byte(`50.25`), &a))
		assert.Equal(t, Amount(5025), a)
	})

	t.Run("rejects sub-cent precision", func(t *testing.T) {
		var a Amount
		require.Error(t, json.Unmarshal([]byte(`"50.255"`), &a))
	})

	t.Run("marshals as decimal string", func(t *testing.T) {
		raw, err := json.Marshal(Amount(5025))
		require.NoError(t, err)
		assert.Equal(t, `"50.25"`, string(raw))
	})
}

func TestMonthKey(t *testing.T) {
	assert.True(t, MonthKey{Month: 1, Year: 2025}.Valid())
	assert.True(t, MonthKey{Month: 12, Year: 2025}.Valid())
	assert.False(t, MonthKey{Month: 0, Year: 2025}.Valid())
	assert.False(t, MonthKey{Month: 13, Year: 2025}.Valid())
	assert.False(t, MonthKey{Month: 6, Year: 1999}.Valid())
}

func TestCustomerStatus(t *testing.T) {
	for _, status := range []CustomerStatus{
		CustomerStatusPendingQuote,
		CustomerStatusPaymentRequired,
		CustomerStatusPendingVerification,
		CustomerStatusActivePaid,
	} {
		assert.True(t, status.Valid(), string(status))
		assert.True(t, status.CanSubmitPayment(), string(status))
	}
	assert.True(t, CustomerStatusSuspended.Valid())
	assert.False(t, CustomerStatusSuspended.CanSubmitPayment())
	assert.False(t, CustomerStatus("archived").Valid())
}
