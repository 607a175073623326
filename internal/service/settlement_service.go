package service

import (
	"time"

	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/repository"
	"github.com/colis-next/internal/settlement"
)

// SettlementService 结算服务
// 所有金额分支统一走 settlement 包，报表与确认共用同一套口径。
type SettlementService struct {
	cfg          *config.Config
	deliveryRepo repository.DeliveryRepository
	clientRepo   repository.ClientRepository
	userRepo     repository.UserRepository
}

// NewSettlementService 创建结算服务实例
func NewSettlementService(
	cfg *config.Config,
	deliveryRepo repository.DeliveryRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
) *SettlementService {
	return &SettlementService{
		cfg:          cfg,
		deliveryRepo: deliveryRepo,
		clientRepo:   clientRepo,
		userRepo:     userRepo,
	}
}

// SettlementLine 单笔配送单的结算口径
type SettlementLine struct {
	Delivery     models.Delivery `json:"delivery"`
	TotalDue     int64           `json:"total_due"`     // 收件人应付总额
	ClientAmount int64           `json:"client_amount"` // 应结客户金额（带符号）
}

// ClientSettlementSummary 客户结算汇总（compte rendu）
type ClientSettlementSummary struct {
	Client       models.Client    `json:"client"`
	Lines        []SettlementLine `json:"lines"`
	TotalFees    int64            `json:"total_fees"`    // 配送费合计
	TotalCollect int64            `json:"total_collect"` // 代收货款合计
	AmountDue    int64            `json:"amount_due"`    // 应结客户净额（负数为客户欠款）
}

// CourierSettlementSummary 骑手上缴汇总
type CourierSettlementSummary struct {
	Courier   models.User      `json:"courier"`
	Lines     []SettlementLine `json:"lines"`
	AmountDue int64            `json:"amount_due"` // 应上缴门店总额（全额，不抵扣）
}

// CutoffDate 当前配置下的结算截止日
func (s *SettlementService) CutoffDate(today time.Time) time.Time {
	cutoffDays := 1
	if s.cfg != nil && s.cfg.Settlement.CutoffDays >= 0 {
		cutoffDays = s.cfg.Settlement.CutoffDays
	}
	return settlement.Cutoff(today, cutoffDays)
}

func buildLine(delivery models.Delivery) SettlementLine {
	return SettlementLine{
		Delivery: delivery,
		TotalDue: settlement.TotalDue(delivery.IsPrepaid, delivery.DeliveryPrice, delivery.CollectAmount),
		ClientAmount: settlement.ClientAmount(
			delivery.Status,
			delivery.IsPrepaid,
			delivery.DeliveryFeePrepaid,
			delivery.DeliveryPrice,
			delivery.CollectAmount,
		),
	}
}

// ClientReport 客户对账报表
// 日期区间同时匹配计划日期与原计划日期（改期单不丢行）。
func (s *SettlementService) ClientReport(clientID uint, dateFrom, dateTo *time.Time) (*ClientSettlementSummary, error) {
	client, err := s.clientRepo.GetByID(clientID)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrClientNotFound
	}

	deliveries, err := s.deliveryRepo.ListAll(repository.DeliveryListFilter{
		SenderID:    clientID,
		Statuses:    []string{constants.DeliveryStatusDelivered, constants.DeliveryStatusPaid},
		DateFrom:    dateFrom,
		DateTo:      dateTo,
		WithCourier: true,
	})
	if err != nil {
		return nil, err
	}

	summary := &ClientSettlementSummary{Client: *client, Lines: make([]SettlementLine, 0, len(deliveries))}
	for _, delivery := range deliveries {
		line := buildLine(delivery)
		summary.Lines = append(summary.Lines, line)
		summary.TotalFees += delivery.DeliveryPrice
		if !delivery.IsPrepaid && delivery.CollectAmount != nil && delivery.Status == constants.DeliveryStatusPaid {
			summary.TotalCollect += *delivery.CollectAmount
		}
		summary.AmountDue += line.ClientAmount
	}
	return summary, nil
}

// PendingClientSettlements J+1 待结算列表，按客户分组
// 只纳入 DELIVERED/PAID、计划日期 ≤ 截止日且尚未结算的单子。
func (s *SettlementService) PendingClientSettlements(today time.Time) ([]ClientSettlementSummary, error) {
	cutoff := s.CutoffDate(today)
	deliveries, err := s.deliveryRepo.ListAll(repository.DeliveryListFilter{
		Statuses:      []string{constants.DeliveryStatusDelivered, constants.DeliveryStatusPaid},
		DateTo:        &cutoff,
		OnlyUnsettled: true,
		WithSender:    true,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[uint]*ClientSettlementSummary)
	order := make([]uint, 0)
	for _, delivery := range deliveries {
		if !settlement.Eligible(delivery.Status, delivery.PlannedDate, cutoff) {
			continue
		}
		summary, ok := grouped[delivery.SenderID]
		if !ok {
			summary = &ClientSettlementSummary{}
			if delivery.Sender != nil {
				summary.Client = *delivery.Sender
			}
			grouped[delivery.SenderID] = summary
			order = append(order, delivery.SenderID)
		}
		line := buildLine(delivery)
		summary.Lines = append(summary.Lines, line)
		summary.TotalFees += delivery.DeliveryPrice
		if !delivery.IsPrepaid && delivery.CollectAmount != nil && delivery.Status == constants.DeliveryStatusPaid {
			summary.TotalCollect += *delivery.CollectAmount
		}
		summary.AmountDue += line.ClientAmount
	}

	result := make([]ClientSettlementSummary, 0, len(order))
	for _, clientID := range order {
		result = append(result, *grouped[clientID])
	}
	return result, nil
}

// CourierReport 骑手上缴报表
// 只统计 PAID 单，金额为收件人实付的全额。
func (s *SettlementService) CourierReport(courierID uint, dateFrom, dateTo *time.Time) (*CourierSettlementSummary, error) {
	courier, err := s.userRepo.GetByID(courierID)
	if err != nil {
		return nil, err
	}
	if courier == nil || courier.Role != constants.RoleCourier {
		return nil, ErrUserNotFound
	}

	deliveries, err := s.deliveryRepo.ListAll(repository.DeliveryListFilter{
		CourierID:  courierID,
		Status:     constants.DeliveryStatusPaid,
		DateFrom:   dateFrom,
		DateTo:     dateTo,
		WithSender: true,
	})
	if err != nil {
		return nil, err
	}

	summary := &CourierSettlementSummary{Courier: *courier, Lines: make([]SettlementLine, 0, len(deliveries))}
	for _, delivery := range deliveries {
		line := buildLine(delivery)
		summary.Lines = append(summary.Lines, line)
		summary.AmountDue += line.TotalDue
	}
	return summary, nil
}

// PendingCourierSettlements 骑手未上缴单子，按骑手分组
func (s *SettlementService) PendingCourierSettlements() ([]CourierSettlementSummary, error) {
	deliveries, err := s.deliveryRepo.ListAll(repository.DeliveryListFilter{
		Status:         constants.DeliveryStatusPaid,
		CourierPending: true,
		WithCourier:    true,
	})
	if err != nil {
		return nil, err
	}

	grouped := make(map[uint]*CourierSettlementSummary)
	order := make([]uint, 0)
	for _, delivery := range deliveries {
		if delivery.CourierID == nil {
			continue
		}
		summary, ok := grouped[*delivery.CourierID]
		if !ok {
			summary = &CourierSettlementSummary{}
			if delivery.Courier != nil {
				summary.Courier = *delivery.Courier
			}
			grouped[*delivery.CourierID] = summary
			order = append(order, *delivery.CourierID)
		}
		line := buildLine(delivery)
		summary.Lines = append(summary.Lines, line)
		summary.AmountDue += line.TotalDue
	}

	result := make([]CourierSettlementSummary, 0, len(order))
	for _, courierID := range order {
		result = append(result, *grouped[courierID])
	}
	return result, nil
}

func validSettlementType(settlementType string) bool {
	switch settlementType {
	case constants.SettlementTypeCashCourier, constants.SettlementTypeMobileMoney, constants.SettlementTypeOfficePickup:
		return true
	default:
		return false
	}
}

// ConfirmClientSettlement 批量确认客户结算
// 单向幂等：已结算或非 PAID 的行静默跳过；空列表拒绝。返回实际命中的行数。
func (s *SettlementService) ConfirmClientSettlement(ids []uint, settlementType string, actorID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrSettlementEmpty
	}
	if !validSettlementType(settlementType) {
		return 0, ErrInvalidParameter
	}
	return s.deliveryRepo.MarkClientSettled(ids, settlementType, actorID, time.Now())
}

// ConfirmCourierSettlement 批量确认骑手上缴，与客户结算互相独立
func (s *SettlementService) ConfirmCourierSettlement(ids []uint, actorID uint) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrSettlementEmpty
	}
	return s.deliveryRepo.MarkCourierSettled(ids, actorID, time.Now())
}
