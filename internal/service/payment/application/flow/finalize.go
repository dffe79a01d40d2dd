// internal/service/payment/application/flow/finalize.go
package flow

import (
	"fmt"

	"paygate/internal/pkg/logger"
	"paygate/internal/service/payment/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// FinalizeHandler 解读处理方的判定结果并执行订单侧副作用。
// 副作用严格按 状态流转 -> 库存/购物车 -> 交易号 -> 存卡 -> 通知 的顺序执行，
// 后面步骤的失败不会让订单状态悬空。
type FinalizeHandler struct {
	NextHandler
}

func (h *FinalizeHandler) Handle(pctx *PaymentContext) error {
	ctx, span := pctx.Tracer.Start(pctx.Ctx, "flow.Finalize")
	defer span.End()

	pctx.State = domain.StateInterpreting
	span.SetAttributes(attribute.String("charge.outcome", string(pctx.Result.Outcome)))

	switch pctx.Result.Outcome {
	case domain.OutcomeFailed:
		pctx.State = domain.StateRejected
		span.SetStatus(codes.Error, "charge declined by processor")
		return domain.NewProcessorError(pctx.Result.Message)

	case domain.OutcomeRedirect:
		// 跳转认证：只登记待确认交易号，订单状态由后续的确认步骤
		//（外部 webhook/return 协作方）驱动，这里不做任何订单变更。
		if err := pctx.Pending.Put(ctx, pctx.Order.ID, pctx.Result.TransactionID); err != nil {
			pctx.State = domain.StateRejected
			span.RecordError(err)
			span.SetStatus(codes.Error, "failed to record pending transaction")
			logger.Ctx(ctx).Error().Err(err).
				Str("order_id", pctx.Order.ID).
				Msg("cannot record pending transaction id, rejecting flow")
			return domain.NewProcessorError("")
		}
		pctx.State = domain.StateRedirectPending
		span.AddEvent("Pending transaction recorded, buyer will be redirected.")
		return h.executeNext(pctx)

	case domain.OutcomeApproved:
		return h.finalizeApproved(pctx)

	default:
		pctx.State = domain.StateRejected
		span.SetStatus(codes.Error, "processor returned no usable outcome")
		return domain.NewProcessorError("")
	}
}

func (h *FinalizeHandler) finalizeApproved(pctx *PaymentContext) error {
	ctx, span := pctx.Tracer.Start(pctx.Ctx, "flow.FinalizeApproved")
	defer span.End()

	order := pctx.Order
	transactionID := pctx.Result.TransactionID
	span.SetAttributes(attribute.String("charge.transaction_id", transactionID))

	// 1. 订单状态流转，备注里带上交易号
	note := fmt.Sprintf("Charge approved (Transaction ID - %s)", transactionID)
	if err := pctx.Orders.UpdateStatus(ctx, order, pctx.Config.OrderStatus, note); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", order.ID).
			Msg("failed to update order status after approved charge")
	}

	// 2. 扣库存、清空购物车
	if err := pctx.Orders.ReduceStock(ctx, order); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to reduce stock")
	}
	if err := pctx.Orders.EmptyCart(ctx, order); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).Str("order_id", order.ID).Msg("failed to empty cart")
	}

	// 3. 把交易号记到订单上，供退款引用
	if err := pctx.Orders.RecordTransactionID(ctx, order, transactionID); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", order.ID).
			Msg("failed to record transaction id on order")
	}

	// 4. 按需存卡：仅登录客户，且失败不影响已成功的扣款
	if !order.IsGuest() {
		var card *domain.CardInput
		if !pctx.Source.IsSaved() {
			card = &pctx.Card
		}
		pctx.Vault.SaveCard(ctx, pctx.Result, card, order.CustomerID, pctx.SaveCard)
	}

	// 5. 广播支付成功事件，失败只记日志
	if err := pctx.Notifier.PaymentApproved(ctx, order, transactionID); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Warn().Err(err).Str("order_id", order.ID).Msg("failed to publish payment.approved event")
	}

	pctx.State = domain.StateCompleted
	span.AddEvent("Charge approved and order side effects applied.")
	return h.executeNext(pctx)
}
