package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleOrder() Order {
	return Order{
		ID:               "order-1001",
		Currency:         "USD",
		Amount:           100.00,
		BillingEmail:     "jane@example.com",
		BillingFirstName: "Jane",
		BillingLastName:  "Doe",
		CustomerID:       "42",
	}
}

func captureConfig() GatewayConfig {
	return GatewayConfig{
		SecretKey:      "sk_test",
		PaymentAction:  PaymentActionCapture,
		OrderStatus:    OrderStatusProcessing,
		Mode:           ModeSandbox,
		RequestTimeout: 10 * time.Second,
	}
}

func TestMinorUnits(t *testing.T) {
	assert.Equal(t, int64(10000), MinorUnits(100.00, "USD"))
	assert.Equal(t, int64(1999), MinorUnits(19.99, "EUR"))
	// 无小数位货币金额本身就是最小单位
	assert.Equal(t, int64(1500), MinorUnits(1500, "JPY"))
	assert.Equal(t, int64(1), MinorUnits(0.005, "USD"))
}

func TestNewChargeRequest_NewCard(t *testing.T) {
	cfg := captureConfig()
	source := NewCardSource(validCard())

	req := NewChargeRequest(sampleOrder(), source, cfg, "key-1")

	assert.Equal(t, "order-1001", req.TrackID)
	assert.Equal(t, int64(10000), req.Value)
	assert.Equal(t, "USD", req.Currency)
	assert.Equal(t, "jane@example.com", req.Email)
	assert.Equal(t, "Jane Doe", req.CustomerName)
	assert.Equal(t, "Y", req.AutoCapture)
	assert.Equal(t, 0, req.AutoCapTime)
	assert.Equal(t, 1, req.ChargeMode)
	assert.Equal(t, 1, req.TransactionIndicator)
	assert.Equal(t, "key-1", req.IdempotencyKey)

	require.NotNil(t, req.Card)
	assert.Equal(t, "4242424242424242", req.Card.Number)
	assert.Equal(t, "123", req.Card.CVV)
	assert.Equal(t, 12, req.Card.ExpiryMonth)
	assert.Equal(t, 2030, req.Card.ExpiryYear)
	assert.Empty(t, req.CardToken)
}

func TestNewChargeRequest_SavedToken(t *testing.T) {
	cfg := captureConfig()
	cfg.PaymentAction = PaymentActionAuthorize

	req := NewChargeRequest(sampleOrder(), SavedTokenSource("card_tok_aaa"), cfg, "key-2")

	assert.Equal(t, "N", req.AutoCapture)
	assert.Equal(t, "card_tok_aaa", req.CardToken)
	assert.Nil(t, req.Card)
}

func TestNewChargeRequest_Deterministic(t *testing.T) {
	cfg := captureConfig()
	source := NewCardSource(validCard())

	first := NewChargeRequest(sampleOrder(), source, cfg, "key-3")
	second := NewChargeRequest(sampleOrder(), source, cfg, "key-3")
	assert.Equal(t, first, second)
}
