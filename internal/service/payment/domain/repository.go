// internal/service/payment/domain/repository.go
package domain

import "context"

// CardRepository 定义了已存卡数据的持久化接口。
// 它位于领域层，由基础设施层实现。
type CardRepository interface {
	// ListByCustomer 按插入顺序返回客户名下的全部已存卡，客户不存在时返回空切片。
	ListByCustomer(ctx context.Context, customerID string) ([]VaultEntry, error)

	// Save 追加一条已存卡记录。
	Save(ctx context.Context, entry *VaultEntry) error
}
