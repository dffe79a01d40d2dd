// internal/service/payment/application/dto.go
package application

import "paygate/internal/service/payment/domain"

// CheckoutSubmission 是一次结账提交的输入数据。
// Selector 要么是 "new_card" 哨兵值，要么是某张已存卡的指纹。
type CheckoutSubmission struct {
	Selector string
	Card     domain.CardInput
	SaveCard bool
}

// PaymentOutcome 是一次支付流程的输出
type PaymentOutcome struct {
	State         domain.State
	TransactionID string
	RedirectURL   string
	Message       string
}

// SavedCardView 是已存卡在结账页上的展示数据。
// 只暴露指纹和掩码文案，处理方 token 绝不出现在这里。
type SavedCardView struct {
	Selector string `json:"selector"`
	Label    string `json:"label"`
}
