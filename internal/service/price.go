package service

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// 最多 8 位整数、2 位小数，与 decimal(10,2) 对齐
var priceRe = regexp.MustCompile(`^\d{1,8}(\.\d{1,2})?$`)

// ParsePrice 解析价格字符串，必须为正数
func ParsePrice(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if !priceRe.MatchString(s) {
		return decimal.Zero, newValidation(CodeBadPrice, "price", "价格格式不正确（例如 12.50），且必须大于 0")
	}
	price, err := decimal.NewFromString(s)
	if err != nil || !price.IsPositive() {
		return decimal.Zero, newValidation(CodeBadPrice, "price", "价格格式不正确（例如 12.50），且必须大于 0")
	}
	return price.Round(2), nil
}
