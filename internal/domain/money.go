package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Currency enumerates accepted payment currencies.
type Currency string

const (
	CurrencyUSD Currency = "USD"
	CurrencyLRD Currency = "LRD"
)

// Valid reports whether the currency is one of the accepted values.
func (c Currency) Valid() bool {
	return c == CurrencyUSD || c == CurrencyLRD
}

// Amount is a currency amount in minor units (cents). Amounts are stored and
// compared as integers; two amounts are equal only when their minor-unit
// values are identical.
type Amount int64

// ParseAmount converts a decimal string such as "50" or "50.25" into minor
// units. More than two fractional digits is an error.
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	negative := false
	if strings.HasPrefix(s, "-") {
		negative = true
		s = s[1:]
	}
	whole, frac := s, ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		whole, frac = s[:idx], s[idx+1:]
	}
	if whole == "" {
		whole = "0"
	}
	if len(frac) > 2 {
		return 0, fmt.Errorf("amount %q has more than two fractional digits", s)
	}
	for len(frac) < 2 {
		frac += "0"
	}
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	cents, err := strconv.ParseInt(frac, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	total := units*100 + cents
	if negative {
		total = -total
	}
	return Amount(total), nil
}

// String renders the amount as a decimal string with two fractional digits.
func (a Amount) String() string {
	sign := ""
	v := int64(a)
	if v < 0 {
		sign = "-"
		v = -v
	}
	return fmt.Sprintf("%s%d.%02d", sign, v/100, v%100)
}

// MarshalJSON encodes the amount as a decimal string.
func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(a.String())
}

// UnmarshalJSON accepts either a decimal string or a JSON number.
func (a *Amount) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return err
		}
		s = n.String()
	}
	parsed, err := ParseAmount(s)
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}
