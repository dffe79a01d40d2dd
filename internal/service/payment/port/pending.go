// internal/service/payment/port/pending.go
package port

import "context"

// PendingTransactionStore 保存跳转认证流程中的待确认交易号。
// 以订单为键显式存储，后续的确认步骤（外部协作方）靠它做关联，
// 而不是依赖任何请求级的隐式状态。
type PendingTransactionStore interface {
	// Put 记录订单的待确认交易号。
	Put(ctx context.Context, orderID, transactionID string) error

	// Get 取出订单的待确认交易号，不存在时返回空串。
	Get(ctx context.Context, orderID string) (string, error)
}
