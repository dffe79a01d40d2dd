// internal/service/payment/domain/vault.go
package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"
)

// VaultEntry 是客户名下的一张已令牌化的卡。
// 只保存处理方侧的 token 和用于展示的掩码信息，绝不保存原始卡号/CVC。
type VaultEntry struct {
	ID           int64
	CustomerID   string
	CardToken    string
	MaskedNumber string
	Brand        string
	CreatedAt    time.Time
}

// Fingerprint 计算该卡对外展示用的选择器。
// 这是一个单向派生值：{处理方实体 id, 掩码卡号, 卡组织} 的摘要，
// 不能被还原，也绝不能被当作扣款凭证使用。
func (e VaultEntry) Fingerprint() string {
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s_%s_%s", e.CardToken, e.MaskedNumber, e.Brand)))
	return hex.EncodeToString(sum[:])
}

// DisplayLabel 返回卡片在结账页上的展示文案，例如 "xxxx-4242 Visa"
func (e VaultEntry) DisplayLabel() string {
	return fmt.Sprintf("xxxx-%s %s", e.MaskedNumber, e.Brand)
}

// ResolveSelector 在客户自己的卡片列表中重新派生指纹并逐一比对。
// 客户端提交的选择器永远不被直接信任；没有匹配项时返回 nil
// （选择器被伪造，或指向的卡已被删除）。
func ResolveSelector(entries []VaultEntry, selector string) *VaultEntry {
	if selector == "" {
		return nil
	}
	for i := range entries {
		if entries[i].Fingerprint() == selector {
			return &entries[i]
		}
	}
	return nil
}
