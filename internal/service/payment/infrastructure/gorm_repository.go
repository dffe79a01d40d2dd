// internal/service/payment/infrastructure/gorm_repository.go
package infrastructure

import (
	"context"

	"paygate/internal/service/payment/domain"

	"gorm.io/gorm"
)

// GormCardRepository 是 CardRepository 的 GORM 实现
type GormCardRepository struct {
	db *gorm.DB
}

// NewGormCardRepository 创建一个新的 GORM 仓储实例
func NewGormCardRepository(db *gorm.DB) *GormCardRepository {
	return &GormCardRepository{db: db}
}

// ListByCustomer 按插入顺序返回客户名下的全部存卡记录
func (r *GormCardRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.VaultEntry, error) {
	var models []CustomerCardModel
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("id asc").
		Find(&models).Error
	if err != nil {
		return nil, err
	}

	entries := make([]domain.VaultEntry, 0, len(models))
	for i := range models {
		entries = append(entries, ToDomainVaultEntry(&models[i]))
	}
	return entries, nil
}

// Save 追加一条存卡记录。重复的 token 不在这里去重，卡库允许重复存在。
func (r *GormCardRepository) Save(ctx context.Context, entry *domain.VaultEntry) error {
	model := FromDomainVaultEntry(entry)
	if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
		return err
	}
	entry.ID = int64(model.ID)
	entry.CreatedAt = model.CreatedAt
	return nil
}
