// internal/service/payment/port/orders.go
package port

import (
	"context"

	"paygate/internal/service/payment/domain"
)

// OrderService 是电商平台（订单协作方）的出站端口。
// 订单、库存、购物车的所有权都在平台侧，本服务只发起调用。
type OrderService interface {
	// UpdateStatus 请求将订单流转到新状态，note 会出现在订单备注里。
	UpdateStatus(ctx context.Context, order domain.Order, newStatus, note string) error

	// ReduceStock 请求扣减订单对应的库存。
	ReduceStock(ctx context.Context, order domain.Order) error

	// EmptyCart 请求清空买家当前的购物车。
	EmptyCart(ctx context.Context, order domain.Order) error

	// RecordTransactionID 把处理方交易号记到订单上，供后续退款引用。
	RecordTransactionID(ctx context.Context, order domain.Order, transactionID string) error
}
