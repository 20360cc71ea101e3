package payroll

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestAmountInWords(t *testing.T) {
	tests := []struct {
		amount string
		want   string
	}{
		{"0", "Zero Rupees Only"},
		{"0.49", "Zero Rupees Only"},
		{"7", "Seven Rupees Only"},
		{"15", "Fifteen Rupees Only"},
		{"40", "Forty Rupees Only"},
		{"99", "Ninety Nine Rupees Only"},
		{"100", "One Hundred Rupees Only"},
		{"305", "Three Hundred Five Rupees Only"},
		{"1000", "One Thousand Rupees Only"},
		{"45250.50", "Forty Five Thousand Two Hundred Fifty One Rupees Only"},
		{"100000", "One Lakh Rupees Only"},
		{"120000", "One Lakh Twenty Thousand Rupees Only"},
		{"9999999", "Ninety Nine Lakh Ninety Nine Thousand Nine Hundred Ninety Nine Rupees Only"},
		{"12500000", "One Crore Twenty Five Lakh Rupees Only"},
		{"-1500", "Minus One Thousand Five Hundred Rupees Only"},
	}

	for _, tt := range tests {
		t.Run(tt.amount, func(t *testing.T) {
			assert.Equal(t, tt.want, AmountInWords(decimal.RequireFromString(tt.amount)))
		})
	}
}
