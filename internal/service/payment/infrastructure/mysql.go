// internal/service/payment/infrastructure/mysql.go
package infrastructure

import (
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// OpenDB 建立 MySQL 连接并迁移存卡表结构
func OpenDB(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&CustomerCardModel{}); err != nil {
		return nil, err
	}
	return db, nil
}
