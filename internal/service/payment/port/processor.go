// internal/service/payment/port/processor.go
package port

import (
	"context"

	"paygate/internal/service/payment/domain"
)

// ProcessorGateway 是支付处理方的出站端口。
// 它封装了所有与远端支付 API 通信的技术细节。
type ProcessorGateway interface {
	// CreateCharge 提交一笔扣款。传输失败或超时必须确定性地返回
	// Failed 结果或错误，绝不能表现为静默成功。
	CreateCharge(ctx context.Context, req domain.ChargeRequest) (domain.ChargeResult, error)

	// RefundCharge 对此前已请款的交易提交冲正。
	RefundCharge(ctx context.Context, transactionID string, value int64, reason string) (domain.RefundResult, error)
}
