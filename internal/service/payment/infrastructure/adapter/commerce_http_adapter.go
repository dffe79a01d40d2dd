// internal/service/payment/infrastructure/adapter/commerce_http_adapter.go
package adapter

import (
	"context"
	"net/url"
	"strconv"

	"paygate/internal/pkg/httpclient"
	"paygate/internal/service/payment/domain"
)

const (
	updateStatusPath      = "/internal/orders/update_status"
	reduceStockPath       = "/internal/orders/reduce_stock"
	emptyCartPath         = "/internal/carts/empty"
	recordTransactionPath = "/internal/orders/record_transaction"
)

// CommerceHTTPAdapter 是 port.OrderService 的 HTTP 实现。
// 订单、库存、购物车的变更都发给电商平台的内部接口执行。
type CommerceHTTPAdapter struct {
	client  *httpclient.Client
	baseURL string
}

// NewCommerceHTTPAdapter 创建一个新的订单协作方适配器
func NewCommerceHTTPAdapter(client *httpclient.Client, baseURL string) *CommerceHTTPAdapter {
	return &CommerceHTTPAdapter{client: client, baseURL: baseURL}
}

// UpdateStatus 请求将订单流转到新状态
func (a *CommerceHTTPAdapter) UpdateStatus(ctx context.Context, order domain.Order, newStatus, note string) error {
	params := url.Values{}
	params.Set("order_id", order.ID)
	params.Set("status", newStatus)
	params.Set("note", note)
	return a.client.Post(ctx, a.baseURL+updateStatusPath, params)
}

// ReduceStock 请求扣减订单对应的库存
func (a *CommerceHTTPAdapter) ReduceStock(ctx context.Context, order domain.Order) error {
	params := url.Values{}
	params.Set("order_id", order.ID)
	return a.client.Post(ctx, a.baseURL+reduceStockPath, params)
}

// EmptyCart 请求清空买家当前的购物车
func (a *CommerceHTTPAdapter) EmptyCart(ctx context.Context, order domain.Order) error {
	params := url.Values{}
	params.Set("order_id", order.ID)
	params.Set("customer_id", order.CustomerID)
	return a.client.Post(ctx, a.baseURL+emptyCartPath, params)
}

// RecordTransactionID 把处理方交易号记到订单上
func (a *CommerceHTTPAdapter) RecordTransactionID(ctx context.Context, order domain.Order, transactionID string) error {
	params := url.Values{}
	params.Set("order_id", order.ID)
	params.Set("transaction_id", transactionID)
	params.Set("amount", strconv.FormatFloat(order.Amount, 'f', -1, 64))
	return a.client.Post(ctx, a.baseURL+recordTransactionPath, params)
}
