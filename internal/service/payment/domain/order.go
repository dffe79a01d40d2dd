// internal/service/payment/domain/order.go
package domain

// 订单状态由电商平台持有，这里只定义本服务会请求流转到的几个值
const (
	OrderStatusOnHold     = "on-hold"
	OrderStatusProcessing = "processing"
	OrderStatusCancelled  = "cancelled"
)

// Order 是订单协作方侧订单的只读快照。
// 本服务只读取字段并请求状态流转，订单的所有权在电商平台。
type Order struct {
	ID       string
	Currency string
	Amount   float64

	BillingEmail     string
	BillingFirstName string
	BillingLastName  string

	Status string

	// CustomerID 为空表示游客结账
	CustomerID string

	// TransactionID 是此前扣款成功时记录的处理方交易号，退款时引用
	TransactionID string
}

// CustomerName 返回账单姓名，用于扣款请求
func (o Order) CustomerName() string {
	if o.BillingFirstName == "" {
		return o.BillingLastName
	}
	if o.BillingLastName == "" {
		return o.BillingFirstName
	}
	return o.BillingFirstName + " " + o.BillingLastName
}

// IsGuest 判断是否为游客结账
func (o Order) IsGuest() bool {
	return o.CustomerID == ""
}
