// internal/service/payment/infrastructure/adapter/pending_redis_adapter.go
package adapter

import (
	"context"
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

// pendingTTL 限定待确认交易号的保留时长。
// 跳转认证超过这个窗口未回来就视为放弃，自然过期。
const pendingTTL = 2 * time.Hour

// PendingRedisAdapter 是 port.PendingTransactionStore 的 Redis 实现。
// 以订单号为键显式保存待确认交易号，供外部确认步骤查询关联。
type PendingRedisAdapter struct {
	redisClient *redis.Client
}

// NewPendingRedisAdapter 创建一个新的待确认交易存储实例
func NewPendingRedisAdapter(redisClient *redis.Client) *PendingRedisAdapter {
	return &PendingRedisAdapter{redisClient: redisClient}
}

func pendingKey(orderID string) string {
	return fmt.Sprintf("payment:pending_txn:{%s}", orderID)
}

// Put 记录订单的待确认交易号
func (a *PendingRedisAdapter) Put(ctx context.Context, orderID, transactionID string) error {
	if err := a.redisClient.Set(ctx, pendingKey(orderID), transactionID, pendingTTL).Err(); err != nil {
		return errors.Wrap(err, "store pending transaction")
	}
	return nil
}

// Get 取出订单的待确认交易号，不存在时返回空串
func (a *PendingRedisAdapter) Get(ctx context.Context, orderID string) (string, error) {
	val, err := a.redisClient.Get(ctx, pendingKey(orderID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", errors.Wrap(err, "load pending transaction")
	}
	return val, nil
}
