// internal/service/payment/infrastructure/gorm_model.go
package infrastructure

import (
	"gorm.io/gorm"
)

// CustomerCardModel 对应数据库中的 customer_card 表。
// 每行只保存处理方 token 和掩码展示信息，原始卡号/CVC 永远不会出现在这里。
type CustomerCardModel struct {
	gorm.Model
	CustomerID   string `gorm:"index;size:64"`
	CardToken    string `gorm:"size:128"`
	MaskedNumber string `gorm:"size:4"`
	Brand        string `gorm:"size:32"`
}

// TableName 指定 GORM 应该使用的表名
func (CustomerCardModel) TableName() string {
	return "customer_card"
}
