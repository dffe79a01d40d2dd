// internal/service/payment/application/flow/source.go
package flow

import (
	"time"

	"paygate/internal/pkg/logger"
	"paygate/internal/service/payment/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// SourceHandler 负责确定本次扣款的卡片来源。
// 已存卡走卡库解析，新卡走字段校验；任何失败都在进入网络调用前拒绝。
type SourceHandler struct {
	NextHandler
}

func (h *SourceHandler) Handle(pctx *PaymentContext) error {
	ctx, span := pctx.Tracer.Start(pctx.Ctx, "flow.ValidateSource")
	defer span.End()

	pctx.State = domain.StateValidatingSource

	// 提交里必须带卡片来源选择器；缺失时给出与校验失败相同的笼统提示
	if pctx.Selector == "" {
		pctx.State = domain.StateRejected
		span.SetStatus(codes.Error, "card source selector missing")
		return domain.ErrInvalidCard
	}

	if pctx.Selector != domain.NewCardSentinel {
		span.SetAttributes(attribute.Bool("payment.saved_card", true))

		entry, err := pctx.Vault.Resolve(ctx, pctx.Selector, pctx.Order.CustomerID)
		if err != nil {
			pctx.State = domain.StateRejected
			span.RecordError(err)
			span.SetStatus(codes.Error, "vault lookup failed")
			return err
		}
		if entry == nil {
			// 选择器被伪造或指向的卡已不存在
			pctx.State = domain.StateRejected
			span.SetStatus(codes.Error, "saved card selector did not resolve")
			logger.Ctx(ctx).Warn().
				Str("order_id", pctx.Order.ID).
				Msg("saved card selector did not match any vault entry")
			return domain.ErrCardNotFound
		}
		pctx.Source = domain.SavedTokenSource(entry.CardToken)
		return h.executeNext(pctx)
	}

	span.SetAttributes(attribute.Bool("payment.saved_card", false))

	if err := pctx.Card.Validate(time.Now()); err != nil {
		pctx.State = domain.StateRejected
		span.RecordError(err)
		span.SetStatus(codes.Error, "card validation failed")
		return err
	}
	pctx.Source = domain.NewCardSource(pctx.Card)

	return h.executeNext(pctx)
}
