package queue

import (
	"encoding/json"
	"time"

	"github.com/colis-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskDeliveryStatusNotify 配送状态变更通知任务
	TaskDeliveryStatusNotify = constants.TaskDeliveryStatusNotify
	// TaskSettlementReminder 每日结算提醒任务
	TaskSettlementReminder = constants.TaskSettlementReminder
)

// DeliveryStatusNotifyPayload 状态变更通知任务载荷
type DeliveryStatusNotifyPayload struct {
	DeliveryID uint   `json:"delivery_id"`
	TrackingNo string `json:"tracking_no"`
	FromStatus string `json:"from_status"`
	ToStatus   string `json:"to_status"`
	ActorID    uint   `json:"actor_id"`
}

// SettlementReminderPayload 结算提醒任务载荷
type SettlementReminderPayload struct {
	Cutoff time.Time `json:"cutoff"`
}

// NewDeliveryStatusNotifyTask 创建状态变更通知任务
func NewDeliveryStatusNotifyTask(payload DeliveryStatusNotifyPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskDeliveryStatusNotify, body), nil
}

// NewSettlementReminderTask 创建结算提醒任务
func NewSettlementReminderTask(payload SettlementReminderPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSettlementReminder, body), nil
}
