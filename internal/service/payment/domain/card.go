// internal/service/payment/domain/card.go
package domain

import (
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

const maxHolderNameLength = 100

// CardInput 是一次结账提交中的原始卡片数据。
// 只存在于内存中，提交结束后即丢弃，任何情况下都不允许落盘。
type CardInput struct {
	Number      string
	CVC         string
	HolderName  string
	ExpiryMonth int
	ExpiryYear  int
}

// Digits 返回剥离所有非数字字符后的卡号
func (c CardInput) Digits() string {
	var b strings.Builder
	for _, r := range c.Number {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// Validate 按固定顺序校验卡片数据，遇到第一个失败项立即返回。
// 校验顺序：卡号 -> CVC -> 持卡人姓名 -> 有效期。
func (c CardInput) Validate(now time.Time) error {
	number := c.Digits()
	if len(number) < 12 || len(number) > 19 || !luhnValid(number) {
		return errors.WithMessage(ErrInvalidCard, "invalid card number")
	}

	if !isDigits(c.CVC) || len(c.CVC) < 3 || len(c.CVC) > 4 {
		return errors.WithMessage(ErrInvalidCard, "invalid cvc")
	}

	name := strings.TrimSpace(c.HolderName)
	if name == "" || len([]rune(name)) > maxHolderNameLength {
		return errors.WithMessage(ErrInvalidCard, "invalid holder name")
	}

	if c.ExpiryMonth < 1 || c.ExpiryMonth > 12 {
		return errors.WithMessage(ErrInvalidCard, "invalid expiry month")
	}
	year, month := now.Year(), int(now.Month())
	if c.ExpiryYear < year || (c.ExpiryYear == year && c.ExpiryMonth < month) {
		return errors.WithMessage(ErrInvalidCard, "card expired")
	}

	return nil
}

// MaskedNumber 返回用于展示和入库的卡号末四位
func (c CardInput) MaskedNumber() string {
	digits := c.Digits()
	if len(digits) < 4 {
		return digits
	}
	return digits[len(digits)-4:]
}

// Brand 根据卡号前缀识别卡组织
func (c CardInput) Brand() string {
	number := c.Digits()
	switch {
	case strings.HasPrefix(number, "4"):
		return "Visa"
	case matchesPrefixRange(number, 51, 55) || matchesPrefixRange(number, 2221, 2720):
		return "Mastercard"
	case strings.HasPrefix(number, "34") || strings.HasPrefix(number, "37"):
		return "American Express"
	case strings.HasPrefix(number, "6011") || strings.HasPrefix(number, "65"):
		return "Discover"
	case matchesPrefixRange(number, 300, 305) || strings.HasPrefix(number, "36") || strings.HasPrefix(number, "38"):
		return "Diners Club"
	case matchesPrefixRange(number, 3528, 3589):
		return "JCB"
	default:
		return "Unknown"
	}
}

// ParseExpiry 解析结账表单里的 "MM/YY" 或 "MM / YYYY" 形式的有效期。
// 两位年份按 2000 年之后处理。
func ParseExpiry(raw string) (month, year int, err error) {
	parts := strings.SplitN(raw, "/", 2)
	if len(parts) != 2 {
		return 0, 0, errors.WithMessage(ErrInvalidCard, "invalid expiry format")
	}
	m := strings.TrimSpace(parts[0])
	y := strings.TrimSpace(parts[1])
	if !isDigits(m) || !isDigits(y) {
		return 0, 0, errors.WithMessage(ErrInvalidCard, "invalid expiry format")
	}

	month, _ = strconv.Atoi(m)
	year, _ = strconv.Atoi(y)
	if len(y) <= 2 {
		year += 2000
	}
	return month, year, nil
}

// luhnValid 对纯数字卡号执行 Luhn 校验
func luhnValid(number string) bool {
	sum := 0
	double := false
	for i := len(number) - 1; i >= 0; i-- {
		d := int(number[i] - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// matchesPrefixRange 判断卡号的前缀数值是否落在 [low, high] 区间内
func matchesPrefixRange(number string, low, high int) bool {
	width := len(strconv.Itoa(high))
	if len(number) < width {
		return false
	}
	prefix, err := strconv.Atoi(number[:width])
	if err != nil {
		return false
	}
	return prefix >= low && prefix <= high
}
