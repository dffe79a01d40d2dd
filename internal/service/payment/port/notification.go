// internal/service/payment/port/notification.go
package port

import (
	"context"

	"paygate/internal/service/payment/domain"
)

// NotificationProducer 是支付事件通知的出站端口。
// 发送失败不影响支付结果本身，由调用方记日志后继续。
type NotificationProducer interface {
	// PaymentApproved 广播一笔扣款成功事件。
	PaymentApproved(ctx context.Context, order domain.Order, transactionID string) error

	// PaymentRefunded 广播一笔退款成功事件。
	PaymentRefunded(ctx context.Context, order domain.Order, value int64) error
}
