// internal/service/payment/infrastructure/mapper.go
package infrastructure

import "paygate/internal/service/payment/domain"

// ToDomainVaultEntry 将数据库模型转换为领域模型
func ToDomainVaultEntry(m *CustomerCardModel) domain.VaultEntry {
	return domain.VaultEntry{
		ID:           int64(m.ID),
		CustomerID:   m.CustomerID,
		CardToken:    m.CardToken,
		MaskedNumber: m.MaskedNumber,
		Brand:        m.Brand,
		CreatedAt:    m.CreatedAt,
	}
}

// FromDomainVaultEntry 将领域模型转换为数据库模型
func FromDomainVaultEntry(e *domain.VaultEntry) *CustomerCardModel {
	return &CustomerCardModel{
		CustomerID:   e.CustomerID,
		CardToken:    e.CardToken,
		MaskedNumber: e.MaskedNumber,
		Brand:        e.Brand,
	}
}
