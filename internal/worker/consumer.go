package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/colis-next/internal/logger"
	"github.com/colis-next/internal/provider"
	"github.com/colis-next/internal/queue"
	"github.com/colis-next/internal/service"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskDeliveryStatusNotify, c.handleDeliveryStatusNotify)
	mux.HandleFunc(queue.TaskSettlementReminder, c.handleSettlementReminder)
}

// handleDeliveryStatusNotify 状态变更通知
// 当前通知通道为结构化日志（后台轮询该事件流推送给客户端），短信网关接入前保持此形态。
func (c *Consumer) handleDeliveryStatusNotify(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_status_notify_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.DeliveryStatusNotifyPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_status_notify_unmarshal_failed", "error", err)
		return err
	}
	if payload.DeliveryID == 0 {
		logger.Debugw("worker_status_notify_skip_invalid_payload", "delivery_id", payload.DeliveryID)
		return nil
	}

	delivery, err := c.DeliveryRepo.GetByID(payload.DeliveryID)
	if err != nil {
		logger.Warnw("worker_status_notify_fetch_failed", "delivery_id", payload.DeliveryID, "error", err)
		return err
	}
	if delivery == nil {
		logger.Debugw("worker_status_notify_skip_delivery_not_found", "delivery_id", payload.DeliveryID)
		return nil
	}

	senderName := ""
	senderPhone := ""
	if delivery.Sender != nil {
		senderName = delivery.Sender.Name
		senderPhone = delivery.Sender.Phone
	}

	logger.Infow("delivery_status_notification",
		"delivery_id", delivery.ID,
		"tracking_no", delivery.TrackingNo,
		"from_status", payload.FromStatus,
		"to_status", payload.ToStatus,
		"sender_name", senderName,
		"sender_phone", senderPhone,
		"receiver_phone", delivery.ReceiverPhone,
		"actor_id", payload.ActorID,
	)
	return nil
}

// handleSettlementReminder 每日结算提醒
// 汇总 J+1 待结算客户并记录告警，运营据此发起当日结算。
func (c *Consumer) handleSettlementReminder(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_settlement_reminder_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SettlementReminderPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_settlement_reminder_unmarshal_failed", "error", err)
		return err
	}
	if c.SettlementService == nil {
		logger.Warnw("worker_settlement_reminder_skip_service_nil")
		return nil
	}

	pending, err := c.SettlementService.PendingClientSettlements(payload.Cutoff.AddDate(0, 0, 1))
	if err != nil {
		if errors.Is(err, service.ErrClientNotFound) {
			return nil
		}
		logger.Warnw("worker_settlement_reminder_compute_failed", "error", err)
		return err
	}

	var totalDue int64
	var lineCount int
	for _, group := range pending {
		totalDue += group.AmountDue
		lineCount += len(group.Lines)
	}
	logger.Infow("settlement_reminder",
		"cutoff", payload.Cutoff.Format("2006-01-02"),
		"client_count", len(pending),
		"delivery_count", lineCount,
		"total_amount_due", totalDue,
	)
	return nil
}
