package service

import (
	"strings"

	"github.com/colis-next/internal/constants"
)

// 骑手可见的状态流转表。管理员不受该表约束，可直接写入任意已知状态。
var courierTransitions = map[string][]string{
	constants.DeliveryStatusCreated:   {constants.DeliveryStatusPickedUp, constants.DeliveryStatusCanceled},
	constants.DeliveryStatusPickedUp:  {constants.DeliveryStatusDelivered, constants.DeliveryStatusCanceled},
	constants.DeliveryStatusDelivered: {constants.DeliveryStatusPaid},
	constants.DeliveryStatusPaid:      {},
	constants.DeliveryStatusPostponed: {constants.DeliveryStatusPickedUp, constants.DeliveryStatusCanceled},
	constants.DeliveryStatusCanceled:  {},
}

// IsKnownStatus 判断状态取值是否合法
func IsKnownStatus(status string) bool {
	for _, known := range constants.AllDeliveryStatuses {
		if status == known {
			return true
		}
	}
	return false
}

// NextStatuses 返回指定角色从当前状态出发的可达状态集合
// 管理员不受限，返回全量状态；骑手按流转表裁剪。
func NextStatuses(current, role string) []string {
	current = normalizeStatus(current)
	if role == constants.RoleAdmin {
		return append([]string(nil), constants.AllDeliveryStatuses...)
	}
	allowed, ok := courierTransitions[current]
	if !ok {
		return nil
	}
	return append([]string(nil), allowed...)
}

// CanTransition 校验状态流转是否允许
// 管理员对任意合法目标状态直接放行；骑手走流转表。
func CanTransition(current, target, role string) bool {
	current = normalizeStatus(current)
	target = normalizeStatus(target)
	if !IsKnownStatus(target) {
		return false
	}
	if role == constants.RoleAdmin {
		return true
	}
	for _, allowed := range courierTransitions[current] {
		if allowed == target {
			return true
		}
	}
	return false
}

// CanPostpone 改期只允许尚未出库的单子（CREATED/PICKED_UP）
func CanPostpone(current string) bool {
	current = normalizeStatus(current)
	return current == constants.DeliveryStatusCreated || current == constants.DeliveryStatusPickedUp
}

// CanTransfer 转派前置校验
// 管理员任意状态可转派；骑手只能在 CREATED 状态转走自己名下的单子。
func CanTransfer(status, role string, fromCourierID *uint, actorID uint) bool {
	if role == constants.RoleAdmin {
		return true
	}
	if fromCourierID == nil || *fromCourierID != actorID {
		return false
	}
	return normalizeStatus(status) == constants.DeliveryStatusCreated
}

// CanDelete 删除只允许未进入资金链路的状态
func CanDelete(current string) bool {
	switch normalizeStatus(current) {
	case constants.DeliveryStatusCreated, constants.DeliveryStatusPostponed, constants.DeliveryStatusCanceled:
		return true
	default:
		return false
	}
}

func normalizeStatus(status string) string {
	return strings.ToLower(strings.TrimSpace(status))
}
