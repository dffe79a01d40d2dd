package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var now = time.Date(2026, time.June, 15, 0, 0, 0, 0, time.UTC)

func validCard() CardInput {
	return CardInput{
		Number:      "4242424242424242",
		CVC:         "123",
		HolderName:  "Jane Doe",
		ExpiryMonth: 12,
		ExpiryYear:  2030,
	}
}

func TestValidate_OK(t *testing.T) {
	require.NoError(t, validCard().Validate(now))

	// 格式化过的卡号也要能通过，校验前会剥离非数字字符
	card := validCard()
	card.Number = "4242 4242 4242 4242"
	require.NoError(t, card.Validate(now))
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CardInput)
	}{
		{"luhn failure", func(c *CardInput) { c.Number = "4242424242424241" }},
		{"number too short", func(c *CardInput) { c.Number = "42424242424" }},
		{"number too long", func(c *CardInput) { c.Number = "42424242424242424242" }},
		{"cvc too short", func(c *CardInput) { c.CVC = "12" }},
		{"cvc too long", func(c *CardInput) { c.CVC = "12345" }},
		{"cvc not digits", func(c *CardInput) { c.CVC = "12a" }},
		{"empty holder name", func(c *CardInput) { c.HolderName = "  " }},
		{"month zero", func(c *CardInput) { c.ExpiryMonth = 0 }},
		{"month thirteen", func(c *CardInput) { c.ExpiryMonth = 13 }},
		{"year in the past", func(c *CardInput) { c.ExpiryYear = 2025 }},
		{"expired this year", func(c *CardInput) { c.ExpiryMonth = 5; c.ExpiryYear = 2026 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			card := validCard()
			tt.mutate(&card)
			err := card.Validate(now)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidCard)
		})
	}
}

func TestValidate_CurrentMonthStillValid(t *testing.T) {
	card := validCard()
	card.ExpiryMonth = 6
	card.ExpiryYear = 2026
	require.NoError(t, card.Validate(now))
}

func TestBrand(t *testing.T) {
	tests := []struct {
		number string
		brand  string
	}{
		{"4242424242424242", "Visa"},
		{"5555555555554444", "Mastercard"},
		{"2223003122003222", "Mastercard"},
		{"378282246310005", "American Express"},
		{"6011111111111117", "Discover"},
		{"30569309025904", "Diners Club"},
		{"3530111333300000", "JCB"},
		{"9999999999999999", "Unknown"},
	}
	for _, tt := range tests {
		card := CardInput{Number: tt.number}
		assert.Equal(t, tt.brand, card.Brand(), "number %s", tt.number)
	}
}

func TestMaskedNumber(t *testing.T) {
	card := CardInput{Number: "4242 4242 4242 4242"}
	assert.Equal(t, "4242", card.MaskedNumber())
}

func TestParseExpiry(t *testing.T) {
	month, year, err := ParseExpiry("12/30")
	require.NoError(t, err)
	assert.Equal(t, 12, month)
	assert.Equal(t, 2030, year)

	month, year, err = ParseExpiry("03 / 2031")
	require.NoError(t, err)
	assert.Equal(t, 3, month)
	assert.Equal(t, 2031, year)

	_, _, err = ParseExpiry("1230")
	require.Error(t, err)

	_, _, err = ParseExpiry("ab/cd")
	require.Error(t, err)
}
