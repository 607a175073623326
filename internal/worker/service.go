package worker

import (
	"context"
	"errors"
	"time"

	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/logger"
	"github.com/colis-next/internal/queue"

	"github.com/hibiken/asynq"
)

const reminderCheckInterval = time.Minute

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.SettlementService != nil {
		go s.runSettlementReminderLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runSettlementReminderLoop 每天在配置的小时投递一次结算提醒任务
func (s *Service) runSettlementReminderLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.Config == nil {
		return
	}
	reminderHour := s.consumer.Config.Settlement.ReminderHour
	if reminderHour < 0 || reminderHour > 23 {
		reminderHour = 7
	}

	var lastFired string
	ticker := time.NewTicker(reminderCheckInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if now.Hour() != reminderHour {
				continue
			}
			day := now.Format("2006-01-02")
			if day == lastFired {
				continue
			}
			lastFired = day
			cutoff := s.consumer.SettlementService.CutoffDate(now)
			if err := s.consumer.QueueClient.EnqueueSettlementReminder(queue.SettlementReminderPayload{Cutoff: cutoff}, 0); err != nil {
				logger.Warnw("worker_settlement_reminder_enqueue_failed", "error", err)
			}
		}
	}
}
