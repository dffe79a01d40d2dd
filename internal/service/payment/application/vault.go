// internal/service/payment/application/vault.go
package application

import (
	"context"

	"paygate/internal/pkg/logger"
	"paygate/internal/service/payment/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// VaultService 封装了已存卡的列举、解析与写入。
type VaultService struct {
	cardRepo domain.CardRepository
	tracer   trace.Tracer
}

// NewVaultService 创建一个新的卡库服务实例
func NewVaultService(cardRepo domain.CardRepository, tracer trace.Tracer) *VaultService {
	return &VaultService{cardRepo: cardRepo, tracer: tracer}
}

// ListCards 按插入顺序返回客户的已存卡，客户未知或没有存卡时返回空切片。
func (v *VaultService) ListCards(ctx context.Context, customerID string) ([]domain.VaultEntry, error) {
	ctx, span := v.tracer.Start(ctx, "vault.ListCards")
	defer span.End()

	if customerID == "" {
		return nil, nil
	}
	return v.cardRepo.ListByCustomer(ctx, customerID)
}

// Resolve 把客户端提交的选择器解析回对应的卡库记录。
// 只在该客户自己的记录上重新派生指纹比对，没有匹配时返回 nil。
func (v *VaultService) Resolve(ctx context.Context, selector, customerID string) (*domain.VaultEntry, error) {
	ctx, span := v.tracer.Start(ctx, "vault.Resolve")
	defer span.End()

	if customerID == "" {
		return nil, nil
	}

	entries, err := v.cardRepo.ListByCustomer(ctx, customerID)
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	entry := domain.ResolveSelector(entries, selector)
	span.SetAttributes(attribute.Bool("vault.selector_matched", entry != nil))
	return entry, nil
}

// SaveCard 在扣款成功后按需写入一条存卡记录。
// 客户未登录、未勾选保存、结果非成功时都静默跳过。
// 存卡失败不影响已成功的扣款，只记日志。
func (v *VaultService) SaveCard(ctx context.Context, result domain.ChargeResult, card *domain.CardInput, customerID string, optedIn bool) {
	ctx, span := v.tracer.Start(ctx, "vault.SaveCard")
	defer span.End()

	if !optedIn || customerID == "" || result.Outcome != domain.OutcomeApproved || result.CardToken == "" {
		return
	}

	entry := &domain.VaultEntry{
		CustomerID:   customerID,
		CardToken:    result.CardToken,
		MaskedNumber: result.CardLast4,
		Brand:        result.CardBrand,
	}
	// 处理方响应缺少展示信息时，从本次提交的卡数据推导
	if card != nil {
		if entry.MaskedNumber == "" {
			entry.MaskedNumber = card.MaskedNumber()
		}
		if entry.Brand == "" {
			entry.Brand = card.Brand()
		}
	}

	if err := v.cardRepo.Save(ctx, entry); err != nil {
		span.RecordError(err)
		logger.Ctx(ctx).Error().Err(err).
			Str("customer_id", customerID).
			Msg("failed to save card after approved charge, continuing")
	}
}
