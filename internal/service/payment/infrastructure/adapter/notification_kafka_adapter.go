// internal/service/payment/infrastructure/adapter/notification_kafka_adapter.go
package adapter

import (
	"context"
	"encoding/json"
	"time"

	"paygate/internal/pkg/mq"
	"paygate/internal/service/payment/domain"

	"github.com/pkg/errors"
	"github.com/segmentio/kafka-go"
)

const (
	EventPaymentApproved = "payment.approved"
	EventPaymentRefunded = "payment.refunded"
)

// PaymentEvent 是广播到消息总线上的支付事件
type PaymentEvent struct {
	Type          string    `json:"type"`
	OrderID       string    `json:"order_id"`
	CustomerID    string    `json:"customer_id,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Value         int64     `json:"value"`
	Currency      string    `json:"currency"`
	OccurredAt    time.Time `json:"occurred_at"`
}

// NotificationKafkaAdapter 实现了 port.NotificationProducer 接口。
type NotificationKafkaAdapter struct {
	writer *kafka.Writer
}

// NewNotificationKafkaAdapter 创建一个新的支付事件生产者适配器
func NewNotificationKafkaAdapter(writer *kafka.Writer) *NotificationKafkaAdapter {
	return &NotificationKafkaAdapter{writer: writer}
}

// PaymentApproved 广播一笔扣款成功事件
func (a *NotificationKafkaAdapter) PaymentApproved(ctx context.Context, order domain.Order, transactionID string) error {
	return a.publish(ctx, PaymentEvent{
		Type:          EventPaymentApproved,
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		TransactionID: transactionID,
		Value:         domain.MinorUnits(order.Amount, order.Currency),
		Currency:      order.Currency,
		OccurredAt:    time.Now(),
	})
}

// PaymentRefunded 广播一笔退款成功事件
func (a *NotificationKafkaAdapter) PaymentRefunded(ctx context.Context, order domain.Order, value int64) error {
	return a.publish(ctx, PaymentEvent{
		Type:          EventPaymentRefunded,
		OrderID:       order.ID,
		CustomerID:    order.CustomerID,
		TransactionID: order.TransactionID,
		Value:         value,
		Currency:      order.Currency,
		OccurredAt:    time.Now(),
	})
}

func (a *NotificationKafkaAdapter) publish(ctx context.Context, event PaymentEvent) error {
	eventBytes, err := json.Marshal(event)
	if err != nil {
		return errors.Wrap(err, "marshal payment event")
	}
	// mq.ProduceMessage 会自动注入追踪上下文
	return mq.ProduceMessage(ctx, a.writer, []byte(event.OrderID), eventBytes)
}

// Close 关闭底层的Kafka writer
func (a *NotificationKafkaAdapter) Close() error {
	return a.writer.Close()
}
