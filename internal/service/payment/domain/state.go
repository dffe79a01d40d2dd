// internal/service/payment/domain/state.go
package domain

// State 定义了一次支付流程的生命周期状态
type State string

const (
	StateStarted          State = "STARTED"           // 流程已开始，尚未确定卡片来源
	StateValidatingSource State = "VALIDATING_SOURCE" // 正在校验新卡数据或解析已存卡
	StateSubmitting       State = "SUBMITTING"        // 扣款请求已发往处理方
	StateInterpreting     State = "INTERPRETING"      // 正在解读处理方响应
	StateCompleted        State = "COMPLETED"         // 扣款成功，订单侧副作用已执行
	StateRedirectPending  State = "REDIRECT_PENDING"  // 需要跳转认证，等待外部确认步骤
	StateRejected         State = "REJECTED"          // 流程被拒绝（校验失败或处理方拒绝）
)
