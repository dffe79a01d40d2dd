// internal/service/payment/application/flow/submit.go
package flow

import (
	"context"

	"paygate/internal/pkg/logger"
	"paygate/internal/service/payment/domain"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SubmitHandler 负责组装扣款请求并提交给处理方。
// 每次提交生成新的幂等键；超时或传输失败确定性地判为处理方错误，
// 订单保持原状，宁可报失败也不冒重复扣款的风险。
type SubmitHandler struct {
	NextHandler
}

func (h *SubmitHandler) Handle(pctx *PaymentContext) error {
	ctx, span := pctx.Tracer.Start(pctx.Ctx, "flow.SubmitCharge")
	defer span.End()

	pctx.State = domain.StateSubmitting

	idempotencyKey := uuid.New().String()
	req := domain.NewChargeRequest(pctx.Order, pctx.Source, pctx.Config, idempotencyKey)

	span.SetAttributes(
		attribute.String("order.id", pctx.Order.ID),
		attribute.Int64("charge.value", req.Value),
		attribute.String("charge.currency", req.Currency),
		attribute.String("charge.auto_capture", req.AutoCapture),
	)

	submitCtx := ctx
	if pctx.Config.RequestTimeout > 0 {
		var cancel context.CancelFunc
		submitCtx, cancel = context.WithTimeout(ctx, pctx.Config.RequestTimeout)
		defer cancel()
	}

	result, err := pctx.Processor.CreateCharge(submitCtx, req)
	if err != nil {
		pctx.State = domain.StateRejected
		span.RecordError(err)
		span.SetStatus(codes.Error, "charge submission failed")
		logger.Ctx(ctx).Error().Err(err).
			Str("order_id", pctx.Order.ID).
			Msg("charge submission to processor failed")
		// 结果未知时不触碰订单，统一按处理方错误上报
		return domain.NewProcessorError("")
	}

	pctx.Result = result
	return h.executeNext(pctx)
}
