// internal/service/payment/infrastructure/adapter/checkout_http_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"paygate/internal/pkg/httpclient"
	"paygate/internal/service/payment/domain"

	"github.com/pkg/errors"
)

const (
	sandboxBaseURL = "https://sandbox.checkout.com/api2/v2"
	liveBaseURL    = "https://api2.checkout.com/v2"

	chargePath = "/charges/card"

	approvedResponseCode = "10000"
)

// CheckoutHTTPAdapter 是 port.ProcessorGateway 的 HTTP 实现。
// 对接处理方的扣款/退款接口，负责请求序列化与响应解读。
type CheckoutHTTPAdapter struct {
	client    *httpclient.Client
	baseURL   string
	secretKey string
}

// NewCheckoutHTTPAdapter 按网关配置选择 sandbox/live 端点
func NewCheckoutHTTPAdapter(client *httpclient.Client, cfg domain.GatewayConfig) *CheckoutHTTPAdapter {
	baseURL := sandboxBaseURL
	if cfg.Mode == domain.ModeLive {
		baseURL = liveBaseURL
	}
	return &CheckoutHTTPAdapter{
		client:    client,
		baseURL:   baseURL,
		secretKey: cfg.SecretKey,
	}
}

type cardBody struct {
	Number      string `json:"number"`
	CVV         string `json:"cvv"`
	Name        string `json:"name"`
	ExpiryMonth int    `json:"expiryMonth"`
	ExpiryYear  int    `json:"expiryYear"`
}

type chargeBody struct {
	TrackID              string    `json:"trackId"`
	Value                int64     `json:"value"`
	Currency             string    `json:"currency"`
	Email                string    `json:"email"`
	CustomerName         string    `json:"customerName,omitempty"`
	Description          string    `json:"description,omitempty"`
	AutoCapture          string    `json:"autoCapture"`
	AutoCapTime          int       `json:"autoCapTime"`
	ChargeMode           int       `json:"chargeMode"`
	TransactionIndicator int       `json:"transactionIndicator"`
	Card                 *cardBody `json:"card,omitempty"`
	CardID               string    `json:"cardId,omitempty"`
}

type chargeResponse struct {
	ID              string `json:"id"`
	Status          string `json:"status"`
	ResponseCode    string `json:"responseCode"`
	ResponseMessage string `json:"responseMessage"`
	RedirectURL     string `json:"redirectUrl"`
	Card            struct {
		ID            string `json:"id"`
		Last4         string `json:"last4"`
		PaymentMethod string `json:"paymentMethod"`
	} `json:"card"`

	// 错误响应的字段
	ErrorCode string `json:"errorCode"`
	Message   string `json:"message"`
}

// CreateCharge 提交一笔扣款并把处理方响应解读为 ChargeResult。
// 传输层失败返回 error（结果未知）；业务拒绝返回 Failed 结果。
func (a *CheckoutHTTPAdapter) CreateCharge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error) {
	body := chargeBody{
		TrackID:              req.TrackID,
		Value:                req.Value,
		Currency:             req.Currency,
		Email:                req.Email,
		CustomerName:         req.CustomerName,
		Description:          req.Description,
		AutoCapture:          req.AutoCapture,
		AutoCapTime:          req.AutoCapTime,
		ChargeMode:           req.ChargeMode,
		TransactionIndicator: req.TransactionIndicator,
		CardID:               req.CardToken,
	}
	if req.Card != nil {
		body.Card = &cardBody{
			Number:      req.Card.Number,
			CVV:         req.Card.CVV,
			Name:        req.Card.Name,
			ExpiryMonth: req.Card.ExpiryMonth,
			ExpiryYear:  req.Card.ExpiryYear,
		}
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return domain.ChargeResult{}, errors.Wrap(err, "marshal charge request")
	}

	headers := map[string]string{
		"Authorization":   a.secretKey,
		"Idempotency-Key": req.IdempotencyKey,
	}
	respBody, statusCode, err := a.client.PostJSON(ctx, a.baseURL+chargePath, headers, payload)
	if err != nil {
		return domain.ChargeResult{}, errors.Wrap(err, "submit charge")
	}

	return interpretChargeResponse(respBody, statusCode)
}

// interpretChargeResponse 把处理方响应归入三种结果之一。
// 既没有交易号也没有错误信息的响应按处理方错误处理，绝不当作成功。
func interpretChargeResponse(body []byte, statusCode int) (domain.ChargeResult, error) {
	var resp chargeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return domain.ChargeResult{}, errors.Wrap(err, "decode charge response")
	}

	if statusCode >= http.StatusBadRequest || resp.ErrorCode != "" {
		message := resp.Message
		if message == "" {
			message = resp.ResponseMessage
		}
		if message == "" {
			message = fmt.Sprintf("processor returned status %d", statusCode)
		}
		return domain.FailedResult(message), nil
	}

	if resp.ID == "" {
		return domain.ChargeResult{}, errors.New("processor response has neither transaction id nor error")
	}

	if resp.RedirectURL != "" {
		return domain.RedirectResult(resp.ID, resp.RedirectURL), nil
	}

	if resp.ResponseCode != "" && resp.ResponseCode != approvedResponseCode {
		message := resp.ResponseMessage
		if message == "" {
			message = fmt.Sprintf("charge declined (code %s)", resp.ResponseCode)
		}
		return domain.FailedResult(message), nil
	}

	result := domain.ApprovedResult(resp.ID)
	result.CardToken = resp.Card.ID
	result.CardLast4 = resp.Card.Last4
	result.CardBrand = resp.Card.PaymentMethod
	return result, nil
}

type refundBody struct {
	Value       int64  `json:"value"`
	Description string `json:"description,omitempty"`
}

// RefundCharge 对已请款的交易提交冲正
func (a *CheckoutHTTPAdapter) RefundCharge(ctx context.Context, transactionID string, value int64, reason string) (domain.RefundResult, error) {
	payload, err := json.Marshal(refundBody{Value: value, Description: reason})
	if err != nil {
		return domain.RefundResult{}, errors.Wrap(err, "marshal refund request")
	}

	headers := map[string]string{"Authorization": a.secretKey}
	refundURL := fmt.Sprintf("%s/charges/%s/refund", a.baseURL, transactionID)

	respBody, statusCode, err := a.client.PostJSON(ctx, refundURL, headers, payload)
	if err != nil {
		return domain.RefundResult{}, errors.Wrap(err, "submit refund")
	}

	var resp chargeResponse
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return domain.RefundResult{}, errors.Wrap(err, "decode refund response")
	}

	if statusCode >= http.StatusBadRequest || resp.ErrorCode != "" {
		message := resp.Message
		if message == "" {
			message = resp.ResponseMessage
		}
		if message == "" {
			message = fmt.Sprintf("processor returned status %d", statusCode)
		}
		return domain.RefundResult{OK: false, Message: message}, nil
	}

	if resp.ID == "" {
		return domain.RefundResult{}, errors.New("processor refund response has neither id nor error")
	}

	return domain.RefundResult{OK: true}, nil
}
