package pricing

import (
	"strings"

	"github.com/colis-next/internal/constants"

	"github.com/shopspring/decimal"
)

// Tariff 分区价目（MGA 整数）
// Light 覆盖 0-2kg，Heavy 为 2-5kg 的累加档，Express 为加急附加费。
type Tariff struct {
	Light   int64
	Heavy   int64
	Express int64
}

// 分区价目表
var tariffs = map[string]Tariff{
	constants.ZoneTana:  {Light: 3000, Heavy: 3000, Express: 2000},
	constants.ZonePeri:  {Light: 3000, Heavy: 4000, Express: 3000},
	constants.ZoneSuper: {Light: 4000, Heavy: 4000, Express: 6000},
}

// 超出 5kg 后每公斤（向上取整）的附加费
const perExtraKg = 1000

var (
	lightLimit = decimal.NewFromInt(2)
	heavyLimit = decimal.NewFromInt(5)
)

// NormalizeZone 归一化分区取值
// 未知分区静默回退到 tana，返回 false 供调用方记录告警；不视为错误。
func NormalizeZone(zone string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(zone))
	if _, ok := tariffs[normalized]; ok {
		return normalized, true
	}
	return constants.ZoneTana, false
}

// Compute 计算配送费
// 规则：≤2kg 取 Light 档；≤5kg 取 Light+Heavy 累加；超出部分按每公斤向上取整加价；
// 加急在此基础上叠加分区附加费。
func Compute(zone string, weightKg decimal.Decimal, express bool) int64 {
	normalized, _ := NormalizeZone(zone)
	tariff := tariffs[normalized]

	var price int64
	switch {
	case weightKg.LessThanOrEqual(lightLimit):
		price = tariff.Light
	case weightKg.LessThanOrEqual(heavyLimit):
		price = tariff.Light + tariff.Heavy
	default:
		extraKg := weightKg.Sub(heavyLimit).Ceil().IntPart()
		price = tariff.Light + tariff.Heavy + extraKg*perExtraKg
	}

	if express {
		price += tariff.Express
	}
	return price
}

// ExpressSurcharge 返回分区加急附加费
func ExpressSurcharge(zone string) int64 {
	normalized, _ := NormalizeZone(zone)
	return tariffs[normalized].Express
}
