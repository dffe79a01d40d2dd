// internal/service/payment/application/flow/handler.go
package flow

import (
	"context"

	"paygate/internal/service/payment/domain"
	"paygate/internal/service/payment/port"

	"go.opentelemetry.io/otel/trace"
)

// PaymentContext 在支付责任链中传递上下文数据。
// 所有外部依赖都以抽象接口出现，便于在测试中替换。
type PaymentContext struct {
	Ctx    context.Context
	Tracer trace.Tracer
	Config domain.GatewayConfig

	Order    domain.Order
	Selector string
	Card     domain.CardInput
	SaveCard bool

	// 依赖出站端口
	Vault     VaultResolver
	Processor port.ProcessorGateway
	Orders    port.OrderService
	Pending   port.PendingTransactionStore
	Notifier  port.NotificationProducer

	// 流程推进过程中写入的结果
	State  domain.State
	Source domain.CardSource
	Result domain.ChargeResult
}

// VaultResolver 是责任链对卡库的最小依赖面
type VaultResolver interface {
	Resolve(ctx context.Context, selector, customerID string) (*domain.VaultEntry, error)
	SaveCard(ctx context.Context, result domain.ChargeResult, card *domain.CardInput, customerID string, optedIn bool)
}

// Handler 是支付责任链的处理器接口
type Handler interface {
	SetNext(handler Handler) Handler
	Handle(pctx *PaymentContext) error
}

type NextHandler struct {
	next Handler
}

func (h *NextHandler) SetNext(handler Handler) Handler {
	h.next = handler
	return handler
}

func (h *NextHandler) executeNext(pctx *PaymentContext) error {
	if h.next != nil {
		return h.next.Handle(pctx)
	}
	return nil
}
