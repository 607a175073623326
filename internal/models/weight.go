package models

import (
	"database/sql/driver"
	"encoding/json"

	"github.com/shopspring/decimal"
)

// Weight 包裹重量类型（千克，保留 1 位小数）
type Weight struct {
	decimal.Decimal
}

// NewWeightFromDecimal 从 decimal 创建重量
func NewWeightFromDecimal(value decimal.Decimal) Weight {
	return Weight{Decimal: value.Round(1)}
}

// NewWeightFromFloat 从 float 创建重量
func NewWeightFromFloat(value float64) Weight {
	return Weight{Decimal: decimal.NewFromFloat(value).Round(1)}
}

// MarshalJSON 统一输出 1 位小数的字符串
func (w Weight) MarshalJSON() ([]byte, error) {
	return json.Marshal(w.Decimal.Round(1).StringFixed(1))
}

// UnmarshalJSON 解析重量（字符串或数字）
func (w *Weight) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		d, err := decimal.NewFromString(s)
		if err != nil {
			return err
		}
		w.Decimal = d.Round(1)
		return nil
	}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil {
		return err
	}
	w.Decimal = decimal.NewFromFloat(f).Round(1)
	return nil
}

// Value 用于数据库写入
func (w Weight) Value() (driver.Value, error) {
	return w.Decimal.Round(1).Value()
}

// Scan 用于数据库读取
func (w *Weight) Scan(value interface{}) error {
	if err := w.Decimal.Scan(value); err != nil {
		return err
	}
	w.Decimal = w.Decimal.Round(1)
	return nil
}

// String 返回 1 位小数格式
func (w Weight) String() string {
	return w.Decimal.Round(1).StringFixed(1)
}
