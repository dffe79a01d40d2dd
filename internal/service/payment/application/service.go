// internal/service/payment/application/service.go
package application

import (
	"context"

	"paygate/internal/pkg/logger"
	"paygate/internal/service/payment/application/flow"
	"paygate/internal/service/payment/domain"
	"paygate/internal/service/payment/port"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PaymentService 只负责支付与退款的业务流程编排。
// 网关配置在构造时固化，依赖全部以出站端口注入。
type PaymentService struct {
	cfg    domain.GatewayConfig
	tracer trace.Tracer

	vault     *VaultService
	processor port.ProcessorGateway
	orders    port.OrderService
	pending   port.PendingTransactionStore
	notifier  port.NotificationProducer
}

func NewPaymentService(cfg domain.GatewayConfig, tracer trace.Tracer, vault *VaultService, processor port.ProcessorGateway, orders port.OrderService, pending port.PendingTransactionStore, notifier port.NotificationProducer) *PaymentService {
	return &PaymentService{
		cfg: cfg, tracer: tracer,
		vault: vault, processor: processor,
		orders: orders, pending: pending, notifier: notifier,
	}
}

// ProcessPayment 驱动一次结账提交的完整支付流程。
// 返回的 PaymentOutcome 总是携带最终状态；被拒绝时 err 说明原因。
func (s *PaymentService) ProcessPayment(ctx context.Context, order domain.Order, submission CheckoutSubmission) (*PaymentOutcome, error) {
	ctx, span := s.tracer.Start(ctx, "app.ProcessPayment")
	defer span.End()

	span.SetAttributes(
		attribute.String("order.id", order.ID),
		attribute.Bool("order.guest", order.IsGuest()),
	)

	pctx := &flow.PaymentContext{
		Ctx:    ctx,
		Tracer: s.tracer,
		Config: s.cfg,

		Order:    order,
		Selector: submission.Selector,
		Card:     submission.Card,
		SaveCard: submission.SaveCard,

		Vault:     s.vault,
		Processor: s.processor,
		Orders:    s.orders,
		Pending:   s.pending,
		Notifier:  s.notifier,

		State: domain.StateStarted,
	}

	if err := s.buildChain().Handle(pctx); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "payment flow rejected")
		logger.Ctx(ctx).Warn().Err(err).
			Str("order_id", order.ID).
			Str("state", string(pctx.State)).
			Msg("payment flow ended rejected")
		return &PaymentOutcome{State: pctx.State, Message: err.Error()}, err
	}

	outcome := &PaymentOutcome{
		State:         pctx.State,
		TransactionID: pctx.Result.TransactionID,
		RedirectURL:   pctx.Result.RedirectURL,
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Str("state", string(outcome.State)).
		Str("transaction_id", outcome.TransactionID).
		Msg("payment flow finished")
	return outcome, nil
}

// buildChain 构建支付责任链：来源确定 -> 提交扣款 -> 解读与收尾
func (s *PaymentService) buildChain() flow.Handler {
	chain := new(flow.SourceHandler)
	chain.
		SetNext(new(flow.SubmitHandler)).
		SetNext(new(flow.FinalizeHandler))
	return chain
}

// Refund 对已请款的订单提交冲正。
// amount 为 nil 表示按已请款金额全额退款。处理方的失败信息原样透传，
// 不在这里重试，也不改动订单状态（那是订单协作方的职责）。
func (s *PaymentService) Refund(ctx context.Context, order domain.Order, amount *float64, reason string) (domain.RefundResult, error) {
	ctx, span := s.tracer.Start(ctx, "app.Refund")
	defer span.End()

	span.SetAttributes(attribute.String("order.id", order.ID))

	if order.TransactionID == "" {
		span.SetStatus(codes.Error, "no transaction id on order")
		return domain.RefundResult{OK: false, Message: domain.ErrMissingTransactionID.Error()}, domain.ErrMissingTransactionID
	}

	refundAmount := order.Amount
	if amount != nil {
		refundAmount = *amount
	}
	value := domain.MinorUnits(refundAmount, order.Currency)
	span.SetAttributes(attribute.Int64("refund.value", value))

	refundCtx := ctx
	if s.cfg.RequestTimeout > 0 {
		var cancel context.CancelFunc
		refundCtx, cancel = context.WithTimeout(ctx, s.cfg.RequestTimeout)
		defer cancel()
	}

	result, err := s.processor.RefundCharge(refundCtx, order.TransactionID, value, reason)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "refund submission failed")
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("refund submission to processor failed")
		return domain.RefundResult{OK: false}, domain.NewProcessorError("")
	}
	if !result.OK {
		span.SetStatus(codes.Error, "refund declined by processor")
		return result, domain.NewProcessorError(result.Message)
	}

	if err := s.notifier.PaymentRefunded(ctx, order, value); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish payment.refunded event")
	}

	logger.Ctx(ctx).Info().
		Str("order_id", order.ID).
		Int64("refund_value", value).
		Msg("refund approved by processor")
	return result, nil
}

// ListSavedCards 返回客户在结账页上可选的已存卡展示数据
func (s *PaymentService) ListSavedCards(ctx context.Context, customerID string) ([]SavedCardView, error) {
	ctx, span := s.tracer.Start(ctx, "app.ListSavedCards")
	defer span.End()

	entries, err := s.vault.ListCards(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	views := make([]SavedCardView, 0, len(entries))
	for _, e := range entries {
		views = append(views, SavedCardView{
			Selector: e.Fingerprint(),
			Label:    e.DisplayLabel(),
		})
	}
	return views, nil
}
