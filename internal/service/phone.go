package service

import (
	"strings"

	"github.com/ttacon/libphonenumber"
)

// 默认解析地区：马达加斯加
const defaultPhoneRegion = "MG"

// NormalizePhone 归一化电话号码为 E.164 格式
// 空串视为未填，直接放行；无法解析或号段非法返回 ErrInvalidPhone。
func NormalizePhone(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", nil
	}
	num, err := libphonenumber.Parse(raw, defaultPhoneRegion)
	if err != nil {
		return "", ErrInvalidPhone
	}
	if !libphonenumber.IsValidNumber(num) {
		return "", ErrInvalidPhone
	}
	return libphonenumber.Format(num, libphonenumber.E164), nil
}
