package settlement

import (
	"time"

	"github.com/colis-next/internal/constants"
)

// TotalDue 收件时应向收件人收取的总额
// 货款已预付的单子只收运费（代收金额按 0 处理），否则运费与代收货款一并收取。
// deliveryFeePrepaid 不影响门口应收，只影响后续与客户的抵扣。
func TotalDue(isPrepaid bool, deliveryPrice int64, collectAmount *int64) int64 {
	if isPrepaid {
		return deliveryPrice
	}
	collect := int64(0)
	if collectAmount != nil {
		collect = *collectAmount
	}
	return deliveryPrice + collect
}

// CourierDue 骑手对单笔已收款单子应上缴的金额（全额上缴，不做内部抵扣）
func CourierDue(isPrepaid bool, deliveryPrice int64, collectAmount *int64) int64 {
	return TotalDue(isPrepaid, deliveryPrice, collectAmount)
}

// ClientAmount 单笔应结给客户的金额（带符号，负数表示向客户追收）
// PAID：按运费预收与货款代收的组合裁决；DELIVERED 未收款：仅在运费由我方垫付
// （isPrepaid 且运费未预收）时产生负项，其余为 0。
func ClientAmount(status string, isPrepaid, feePrepaid bool, deliveryPrice int64, collectAmount *int64) int64 {
	collect := int64(0)
	if collectAmount != nil {
		collect = *collectAmount
	}

	if status == constants.DeliveryStatusPaid {
		switch {
		case !isPrepaid && feePrepaid:
			return collect
		case !isPrepaid && !feePrepaid:
			return collect - deliveryPrice
		case isPrepaid && feePrepaid:
			return 0
		default: // isPrepaid && !feePrepaid
			return -deliveryPrice
		}
	}

	if status == constants.DeliveryStatusDelivered && isPrepaid && !feePrepaid {
		return -deliveryPrice
	}
	return 0
}

// Eligible 判断单子是否进入结算范围
// 条件：已送达或已收款，且计划日期不晚于截止日。
func Eligible(status string, plannedDate, cutoff time.Time) bool {
	if status != constants.DeliveryStatusDelivered && status != constants.DeliveryStatusPaid {
		return false
	}
	return !truncateDay(plannedDate).After(truncateDay(cutoff))
}

// Cutoff 计算结算截止日（J+cutoffDays 规则，默认 1 即只结到昨天）
func Cutoff(today time.Time, cutoffDays int) time.Time {
	if cutoffDays < 0 {
		cutoffDays = 0
	}
	return truncateDay(today).AddDate(0, 0, -cutoffDays)
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
