// internal/service/payment/domain/charge.go
package domain

import (
	"math"
	"time"
)

const (
	PaymentActionAuthorize = "authorize"
	PaymentActionCapture   = "authorize_capture"

	ModeSandbox = "sandbox"
	ModeLive    = "live"

	// NewCardSentinel 是结账提交中表示"使用新卡"的选择器值
	NewCardSentinel = "new_card"

	chargeModeNot3D             = 1
	transactionIndicatorRegular = 1
	autoCaptureTime             = 0
)

// GatewayConfig 是网关设置在本服务内的不可变快照。
// 启动时从配置构造一次，之后注入编排器和请求构造逻辑，运行期不再变化。
type GatewayConfig struct {
	SecretKey       string
	PublicKey       string
	PaymentAction   string // authorize | authorize_capture
	OrderStatus     string // on-hold | processing
	Mode            string // sandbox | live
	VoidToCancelled bool
	RequestTimeout  time.Duration
}

// AutoCapture 返回扣款请求中的自动请款标记
func (c GatewayConfig) AutoCapture() string {
	if c.PaymentAction == PaymentActionCapture {
		return "Y"
	}
	return "N"
}

// CardSource 是扣款的卡片来源：新卡原始数据或已存卡的处理方 token，二选一。
type CardSource struct {
	Card  *CardInput
	Token string
}

// NewCardSource 用新卡数据构造卡片来源
func NewCardSource(card CardInput) CardSource {
	return CardSource{Card: &card}
}

// SavedTokenSource 用已解析出的处理方卡 token 构造卡片来源
func SavedTokenSource(token string) CardSource {
	return CardSource{Token: token}
}

// IsSaved 判断来源是否为已存卡
func (s CardSource) IsSaved() bool {
	return s.Token != ""
}

// CardPayload 是扣款请求中的新卡字段
type CardPayload struct {
	Number      string
	CVV         string
	Name        string
	ExpiryMonth int
	ExpiryYear  int
}

// ChargeRequest 是发往处理方的扣款请求。
// 由订单、卡片来源和网关配置纯函数式地构造，自身不做任何网络调用。
type ChargeRequest struct {
	TrackID      string // 订单号，用于处理方侧对账
	Value        int64  // 货币最小单位金额
	Currency     string
	Email        string
	CustomerName string
	Description  string

	AutoCapture          string
	AutoCapTime          int
	ChargeMode           int
	TransactionIndicator int

	// IdempotencyKey 每次结账尝试重新生成，防止重复提交造成重复扣款
	IdempotencyKey string

	// 新卡与已存卡互斥：Card 与 CardToken 恰有一个被填充
	Card      *CardPayload
	CardToken string
}

// NewChargeRequest 从订单、卡片来源和网关配置组装扣款请求。
// 纯转换，给定相同输入结果确定。
func NewChargeRequest(order Order, source CardSource, cfg GatewayConfig, idempotencyKey string) ChargeRequest {
	req := ChargeRequest{
		TrackID:              order.ID,
		Value:                MinorUnits(order.Amount, order.Currency),
		Currency:             order.Currency,
		Email:                order.BillingEmail,
		CustomerName:         order.CustomerName(),
		Description:          "Order " + order.ID,
		AutoCapture:          cfg.AutoCapture(),
		AutoCapTime:          autoCaptureTime,
		ChargeMode:           chargeModeNot3D,
		TransactionIndicator: transactionIndicatorRegular,
		IdempotencyKey:       idempotencyKey,
	}

	if source.IsSaved() {
		req.CardToken = source.Token
	} else if source.Card != nil {
		req.Card = &CardPayload{
			Number:      source.Card.Digits(),
			CVV:         source.Card.CVC,
			Name:        source.Card.HolderName,
			ExpiryMonth: source.Card.ExpiryMonth,
			ExpiryYear:  source.Card.ExpiryYear,
		}
	}

	return req
}

// zeroDecimalCurrencies 是没有小数位的货币，金额本身就是最小单位
var zeroDecimalCurrencies = map[string]struct{}{
	"BIF": {}, "CLP": {}, "DJF": {}, "GNF": {}, "JPY": {}, "KMF": {},
	"KRW": {}, "MGA": {}, "PYG": {}, "RWF": {}, "UGX": {}, "VND": {},
	"VUV": {}, "XAF": {}, "XOF": {}, "XPF": {},
}

// MinorUnits 将金额换算为对应货币的最小单位
func MinorUnits(amount float64, currency string) int64 {
	if _, ok := zeroDecimalCurrencies[currency]; ok {
		return int64(math.Round(amount))
	}
	return int64(math.Round(amount * 100))
}

// ChargeOutcome 区分处理方响应的三种结果
type ChargeOutcome string

const (
	OutcomeApproved ChargeOutcome = "APPROVED"
	OutcomeRedirect ChargeOutcome = "REDIRECT_REQUIRED"
	OutcomeFailed   ChargeOutcome = "FAILED"
)

// ChargeResult 是处理方对扣款请求的判定结果，恰有一个变体生效。
type ChargeResult struct {
	Outcome       ChargeOutcome
	TransactionID string
	RedirectURL   string
	Message       string

	// 扣款成功时处理方返回的卡实体信息，仅用于后续存卡
	CardToken string
	CardLast4 string
	CardBrand string
}

// ApprovedResult 构造扣款成功结果
func ApprovedResult(transactionID string) ChargeResult {
	return ChargeResult{Outcome: OutcomeApproved, TransactionID: transactionID}
}

// RedirectResult 构造需要跳转认证的结果
func RedirectResult(transactionID, redirectURL string) ChargeResult {
	return ChargeResult{Outcome: OutcomeRedirect, TransactionID: transactionID, RedirectURL: redirectURL}
}

// FailedResult 构造扣款失败结果
func FailedResult(message string) ChargeResult {
	return ChargeResult{Outcome: OutcomeFailed, Message: message}
}

// RefundResult 是处理方对退款请求的判定结果
type RefundResult struct {
	OK      bool
	Message string
}
