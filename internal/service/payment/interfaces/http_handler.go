// internal/service/payment/interfaces/http_handler.go
package interfaces

import (
	"encoding/json"
	"net/http"
	"strconv"

	"paygate/internal/service/payment/application"
	"paygate/internal/service/payment/domain"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

// PaymentHandler 封装了 payment 服务的 HTTP 处理器
type PaymentHandler struct {
	service *application.PaymentService
}

// NewPaymentHandler 创建一个新的 HTTP 处理器实例
func NewPaymentHandler(service *application.PaymentService) *PaymentHandler {
	return &PaymentHandler{service: service}
}

// RegisterRoutes 在 ServeMux 上注册所有路由
func (h *PaymentHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/process_payment", h.handleProcessPayment)
	mux.HandleFunc("/refund", h.handleRefund)
	mux.HandleFunc("/cards", h.handleListCards)
}

// paymentResponse 是 /process_payment 的响应体。
// Redirect 非空时买家需要先完成跳转认证。
type paymentResponse struct {
	Result        string `json:"result"`
	State         string `json:"state"`
	TransactionID string `json:"transaction_id,omitempty"`
	Redirect      string `json:"redirect,omitempty"`
	Message       string `json:"message,omitempty"`
}

func (h *PaymentHandler) handleProcessPayment(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	order, err := orderFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	submission := application.CheckoutSubmission{
		Selector: r.PostFormValue("saved-card"),
		SaveCard: r.PostFormValue("save-card-checkbox") != "",
	}

	// 新卡提交才携带原始卡片字段；有效期是表单里的 "MM/YY"
	if submission.Selector == domain.NewCardSentinel {
		card := domain.CardInput{
			Number:     r.PostFormValue("card-number"),
			CVC:        r.PostFormValue("card-cvc"),
			HolderName: r.PostFormValue("card-holder-name"),
		}
		if month, year, parseErr := domain.ParseExpiry(r.PostFormValue("card-expiry")); parseErr == nil {
			card.ExpiryMonth = month
			card.ExpiryYear = year
		}
		submission.Card = card
	}

	outcome, err := h.service.ProcessPayment(ctx, order, submission)
	if err != nil {
		writePaymentError(w, outcome, err)
		return
	}

	resp := paymentResponse{
		Result:        "success",
		State:         string(outcome.State),
		TransactionID: outcome.TransactionID,
		Redirect:      outcome.RedirectURL,
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// writePaymentError 根据错误类型返回不同的 HTTP 状态码
func writePaymentError(w http.ResponseWriter, outcome *application.PaymentOutcome, err error) {
	var processorErr *domain.ProcessorError

	statusCode := http.StatusInternalServerError
	switch {
	case errors.Is(err, domain.ErrInvalidCard), errors.Is(err, domain.ErrCardNotFound):
		statusCode = http.StatusBadRequest
	case errors.As(err, &processorErr):
		statusCode = http.StatusPaymentRequired
	}

	resp := paymentResponse{
		Result:  "failure",
		Message: err.Error(),
	}
	if outcome != nil {
		resp.State = string(outcome.State)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(resp)
}

type refundResponse struct {
	Result  string `json:"result"`
	Message string `json:"message,omitempty"`
}

func (h *PaymentHandler) handleRefund(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form data", http.StatusBadRequest)
		return
	}

	order, err := orderFromForm(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	order.TransactionID = r.PostFormValue("transaction_id")

	// amount 缺省表示全额退款
	var amount *float64
	if raw := r.PostFormValue("amount"); raw != "" {
		v, parseErr := strconv.ParseFloat(raw, 64)
		if parseErr != nil {
			http.Error(w, "invalid amount", http.StatusBadRequest)
			return
		}
		amount = &v
	}

	result, err := h.service.Refund(ctx, order, amount, r.PostFormValue("reason"))
	if err != nil {
		message := err.Error()
		if result.Message != "" {
			message = result.Message
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		json.NewEncoder(w).Encode(refundResponse{Result: "failure", Message: message})
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(refundResponse{Result: "success"})
}

func (h *PaymentHandler) handleListCards(w http.ResponseWriter, r *http.Request) {
	propagator := otel.GetTextMapPropagator()
	ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

	customerID := r.URL.Query().Get("customer_id")
	if customerID == "" {
		http.Error(w, "customer_id is required", http.StatusBadRequest)
		return
	}

	cards, err := h.service.ListSavedCards(ctx, customerID)
	if err != nil {
		http.Error(w, "failed to list cards", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(cards)
}

// orderFromForm 从协作方提交的表单里还原订单快照
func orderFromForm(r *http.Request) (domain.Order, error) {
	orderID := r.PostFormValue("order_id")
	if orderID == "" {
		return domain.Order{}, errors.New("order_id is required")
	}

	amount, err := strconv.ParseFloat(r.PostFormValue("order_amount"), 64)
	if err != nil || amount <= 0 {
		return domain.Order{}, errors.New("order_amount is invalid")
	}

	currency := r.PostFormValue("order_currency")
	if currency == "" {
		return domain.Order{}, errors.New("order_currency is required")
	}

	return domain.Order{
		ID:               orderID,
		Amount:           amount,
		Currency:         currency,
		BillingEmail:     r.PostFormValue("billing_email"),
		BillingFirstName: r.PostFormValue("billing_first_name"),
		BillingLastName:  r.PostFormValue("billing_last_name"),
		CustomerID:       r.PostFormValue("customer_id"),
	}, nil
}
