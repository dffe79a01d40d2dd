// internal/service/payment/domain/errors.go
package domain

import "github.com/pkg/errors"

// 对买家可见的错误统一为一条笼统的提示，不泄露具体是哪个字段出了问题。
var (
	// ErrInvalidCard 表示卡片输入未通过校验
	ErrInvalidCard = errors.New("payment error: please check your card data")
	// ErrCardNotFound 表示已存卡选择器没有匹配到当前客户的任何卡片。
	// 对外表现与校验失败完全一致。
	ErrCardNotFound = errors.New("payment error: please check your card data")
	// ErrMissingTransactionID 表示订单上没有可用于退款的交易号
	ErrMissingTransactionID = errors.New("order has no recorded transaction id")
)

// ProcessorError 表示处理方侧的拒绝或传输失败。
// Message 在可用时原样透传给调用方。
type ProcessorError struct {
	Message string
}

func (e *ProcessorError) Error() string {
	return e.Message
}

// NewProcessorError 创建一个处理方错误；message 为空时退化为通用提示
func NewProcessorError(message string) *ProcessorError {
	if message == "" {
		message = "payment error: the payment could not be processed"
	}
	return &ProcessorError{Message: message}
}
