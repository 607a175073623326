package service

import (
	"strings"
	"time"

	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/logger"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/pricing"
	"github.com/colis-next/internal/queue"
	"github.com/colis-next/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DeliveryService 配送单服务
type DeliveryService struct {
	cfg          *config.Config
	deliveryRepo repository.DeliveryRepository
	clientRepo   repository.ClientRepository
	userRepo     repository.UserRepository
	queueClient  *queue.Client
}

// NewDeliveryService 创建配送单服务实例
func NewDeliveryService(
	cfg *config.Config,
	deliveryRepo repository.DeliveryRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
) *DeliveryService {
	return &DeliveryService{
		cfg:          cfg,
		deliveryRepo: deliveryRepo,
		clientRepo:   clientRepo,
		userRepo:     userRepo,
		queueClient:  queueClient,
	}
}

// CreateDeliveryInput 创建配送单入参
type CreateDeliveryInput struct {
	SenderID           uint
	CourierID          *uint
	PlannedDate        time.Time
	ReceiverName       string
	ReceiverPhone      string
	ReceiverAddress    string
	ParcelCount        int
	WeightKg           decimal.Decimal
	Description        string
	Zone               string
	IsExpress          bool
	PriceOverride      *int64
	CollectAmount      *int64
	IsPrepaid          bool
	DeliveryFeePrepaid bool
}

var minWeight = decimal.NewFromFloat(0.1)

// newTrackingNo 生成运单号
func newTrackingNo() string {
	return "CX-" + strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:12])
}

// Create 创建配送单
// 分区取值非法时静默回退 tana 并记录告警，不拒单。
func (s *DeliveryService) Create(input CreateDeliveryInput) (*models.Delivery, error) {
	sender, err := s.clientRepo.GetByID(input.SenderID)
	if err != nil {
		return nil, err
	}
	if sender == nil {
		return nil, ErrClientNotFound
	}

	if input.CourierID != nil {
		courier, err := s.userRepo.GetByID(*input.CourierID)
		if err != nil {
			return nil, err
		}
		if courier == nil || courier.Role != constants.RoleCourier {
			return nil, ErrUserNotFound
		}
	}

	if strings.TrimSpace(input.ReceiverName) == "" {
		return nil, ErrInvalidParameter
	}
	if input.ParcelCount < 1 {
		input.ParcelCount = 1
	}
	if input.WeightKg.LessThan(minWeight) {
		return nil, ErrInvalidParameter
	}
	if input.CollectAmount != nil && *input.CollectAmount < 0 {
		return nil, ErrInvalidParameter
	}
	if input.PlannedDate.IsZero() {
		return nil, ErrInvalidParameter
	}

	receiverPhone, err := NormalizePhone(input.ReceiverPhone)
	if err != nil {
		return nil, err
	}

	zone, known := pricing.NormalizeZone(input.Zone)
	if !known {
		logger.Warnw("delivery_zone_fallback",
			"input_zone", input.Zone,
			"fallback", zone,
			"sender_id", input.SenderID,
		)
	}

	price := pricing.Compute(zone, input.WeightKg, input.IsExpress)
	override := false
	if input.PriceOverride != nil {
		if *input.PriceOverride < 0 {
			return nil, ErrInvalidParameter
		}
		price = *input.PriceOverride
		override = true
	}

	delivery := &models.Delivery{
		TrackingNo:         newTrackingNo(),
		PlannedDate:        truncateToDay(input.PlannedDate),
		SenderID:           input.SenderID,
		CourierID:          input.CourierID,
		ReceiverName:       strings.TrimSpace(input.ReceiverName),
		ReceiverPhone:      receiverPhone,
		ReceiverAddress:    strings.TrimSpace(input.ReceiverAddress),
		ParcelCount:        input.ParcelCount,
		WeightKg:           models.NewWeightFromDecimal(input.WeightKg),
		Description:        strings.TrimSpace(input.Description),
		Zone:               zone,
		IsExpress:          input.IsExpress,
		DeliveryPrice:      price,
		CollectAmount:      input.CollectAmount,
		PriceOverride:      override,
		IsPrepaid:          input.IsPrepaid,
		DeliveryFeePrepaid: input.DeliveryFeePrepaid,
		Status:             constants.DeliveryStatusCreated,
	}
	if err := s.deliveryRepo.Create(delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

// Get 获取配送单详情
func (s *DeliveryService) Get(id uint) (*models.Delivery, error) {
	delivery, err := s.deliveryRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if delivery == nil {
		return nil, ErrDeliveryNotFound
	}
	return delivery, nil
}

// GetForCourier 获取骑手名下的配送单
func (s *DeliveryService) GetForCourier(id, courierID uint) (*models.Delivery, error) {
	delivery, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if delivery.CourierID == nil || *delivery.CourierID != courierID {
		return nil, ErrNotAssignedCourier
	}
	return delivery, nil
}

// List 配送单列表
func (s *DeliveryService) List(filter repository.DeliveryListFilter) ([]models.Delivery, int64, error) {
	return s.deliveryRepo.List(filter)
}

// UpdateDeliveryInput 更新配送单入参，nil 字段保持原值
type UpdateDeliveryInput struct {
	CourierID          *uint
	PlannedDate        *time.Time
	ReceiverName       *string
	ReceiverPhone      *string
	ReceiverAddress    *string
	ParcelCount        *int
	WeightKg           *decimal.Decimal
	Description        *string
	Zone               *string
	IsExpress          *bool
	PriceOverride      *int64
	CollectAmount      *int64
	ClearCollectAmount bool
	IsPrepaid          *bool
	DeliveryFeePrepaid *bool
}

// Update 更新配送单（仅管理员入口）
// 计价要素变动且无手工定价时重新计算配送费。
func (s *DeliveryService) Update(id uint, input UpdateDeliveryInput) (*models.Delivery, error) {
	delivery, err := s.Get(id)
	if err != nil {
		return nil, err
	}

	repriceNeeded := false

	if input.CourierID != nil {
		courier, err := s.userRepo.GetByID(*input.CourierID)
		if err != nil {
			return nil, err
		}
		if courier == nil || courier.Role != constants.RoleCourier {
			return nil, ErrUserNotFound
		}
		delivery.CourierID = input.CourierID
	}
	if input.PlannedDate != nil {
		delivery.PlannedDate = truncateToDay(*input.PlannedDate)
	}
	if input.ReceiverName != nil {
		name := strings.TrimSpace(*input.ReceiverName)
		if name == "" {
			return nil, ErrInvalidParameter
		}
		delivery.ReceiverName = name
	}
	if input.ReceiverPhone != nil {
		phone, err := NormalizePhone(*input.ReceiverPhone)
		if err != nil {
			return nil, err
		}
		delivery.ReceiverPhone = phone
	}
	if input.ReceiverAddress != nil {
		delivery.ReceiverAddress = strings.TrimSpace(*input.ReceiverAddress)
	}
	if input.ParcelCount != nil {
		if *input.ParcelCount < 1 {
			return nil, ErrInvalidParameter
		}
		delivery.ParcelCount = *input.ParcelCount
	}
	if input.WeightKg != nil {
		if input.WeightKg.LessThan(minWeight) {
			return nil, ErrInvalidParameter
		}
		delivery.WeightKg = models.NewWeightFromDecimal(*input.WeightKg)
		repriceNeeded = true
	}
	if input.Description != nil {
		delivery.Description = strings.TrimSpace(*input.Description)
	}
	if input.Zone != nil {
		zone, known := pricing.NormalizeZone(*input.Zone)
		if !known {
			logger.Warnw("delivery_zone_fallback",
				"input_zone", *input.Zone,
				"fallback", zone,
				"delivery_id", delivery.ID,
			)
		}
		delivery.Zone = zone
		repriceNeeded = true
	}
	if input.IsExpress != nil {
		delivery.IsExpress = *input.IsExpress
		repriceNeeded = true
	}
	if input.PriceOverride != nil {
		if *input.PriceOverride < 0 {
			return nil, ErrInvalidParameter
		}
		delivery.DeliveryPrice = *input.PriceOverride
		delivery.PriceOverride = true
		repriceNeeded = false
	}
	if input.ClearCollectAmount {
		delivery.CollectAmount = nil
	} else if input.CollectAmount != nil {
		if *input.CollectAmount < 0 {
			return nil, ErrInvalidParameter
		}
		delivery.CollectAmount = input.CollectAmount
	}
	if input.IsPrepaid != nil {
		delivery.IsPrepaid = *input.IsPrepaid
	}
	if input.DeliveryFeePrepaid != nil {
		delivery.DeliveryFeePrepaid = *input.DeliveryFeePrepaid
	}

	if repriceNeeded && !delivery.PriceOverride {
		delivery.DeliveryPrice = pricing.Compute(delivery.Zone, delivery.WeightKg.Decimal, delivery.IsExpress)
	}

	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

// Delete 删除配送单
// 已进入配送或资金链路的单子不可删除。
func (s *DeliveryService) Delete(id uint) error {
	delivery, err := s.Get(id)
	if err != nil {
		return err
	}
	if !CanDelete(delivery.Status) {
		return ErrDeliveryNotDeletable
	}
	return s.deliveryRepo.Delete(delivery.ID)
}

// UpdateStatus 状态流转
// 管理员可直接写入任意合法状态，骑手只能操作名下单子并走流转表。
func (s *DeliveryService) UpdateStatus(id uint, target string, actor *models.User) (*models.Delivery, error) {
	delivery, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrInvalidCredentials
	}
	if actor.Role == constants.RoleCourier {
		if delivery.CourierID == nil || *delivery.CourierID != actor.ID {
			return nil, ErrNotAssignedCourier
		}
	}
	target = strings.ToLower(strings.TrimSpace(target))
	if !CanTransition(delivery.Status, target, actor.Role) {
		return nil, ErrInvalidTransition
	}

	fromStatus := delivery.Status
	delivery.Status = target
	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueDeliveryStatusNotify(queue.DeliveryStatusNotifyPayload{
		DeliveryID: delivery.ID,
		TrackingNo: delivery.TrackingNo,
		FromStatus: fromStatus,
		ToStatus:   target,
		ActorID:    actor.ID,
	}); err != nil {
		logger.Warnw("delivery_status_notify_enqueue_failed",
			"delivery_id", delivery.ID,
			"error", err,
		)
	}
	return delivery, nil
}

// Postpone 改期
// 仅 CREATED/PICKED_UP 可改，目标日期不得早于明天；首次改期保留原计划日期供报表回溯。
func (s *DeliveryService) Postpone(id uint, postponedTo time.Time, actor *models.User, today time.Time) (*models.Delivery, error) {
	delivery, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrInvalidCredentials
	}
	if actor.Role == constants.RoleCourier {
		if delivery.CourierID == nil || *delivery.CourierID != actor.ID {
			return nil, ErrNotAssignedCourier
		}
	}
	if !CanPostpone(delivery.Status) {
		return nil, ErrPostponeNotAllowed
	}

	target := truncateToDay(postponedTo)
	tomorrow := truncateToDay(today).AddDate(0, 0, 1)
	if target.Before(tomorrow) {
		return nil, ErrPostponeDateInvalid
	}

	if delivery.OriginalPlannedDate == nil {
		original := delivery.PlannedDate
		delivery.OriginalPlannedDate = &original
	}
	delivery.PlannedDate = target
	delivery.PostponedTo = &target
	fromStatus := delivery.Status
	delivery.Status = constants.DeliveryStatusPostponed

	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}

	if err := s.queueClient.EnqueueDeliveryStatusNotify(queue.DeliveryStatusNotifyPayload{
		DeliveryID: delivery.ID,
		TrackingNo: delivery.TrackingNo,
		FromStatus: fromStatus,
		ToStatus:   constants.DeliveryStatusPostponed,
		ActorID:    actor.ID,
	}); err != nil {
		logger.Warnw("delivery_status_notify_enqueue_failed",
			"delivery_id", delivery.ID,
			"error", err,
		)
	}
	return delivery, nil
}

// Transfer 转派骑手
// 管理员任意状态可转派；骑手只能在 CREATED 状态转走自己名下的单子。
func (s *DeliveryService) Transfer(id, targetCourierID uint, actor *models.User) (*models.Delivery, error) {
	delivery, err := s.Get(id)
	if err != nil {
		return nil, err
	}
	if actor == nil {
		return nil, ErrInvalidCredentials
	}
	if actor.Role == constants.RoleCourier {
		if delivery.CourierID == nil || *delivery.CourierID != actor.ID {
			return nil, ErrNotAssignedCourier
		}
		if targetCourierID == actor.ID {
			return nil, ErrTransferInvalid
		}
	}
	if !CanTransfer(delivery.Status, actor.Role, delivery.CourierID, actor.ID) {
		return nil, ErrTransferInvalid
	}
	if delivery.CourierID != nil && *delivery.CourierID == targetCourierID {
		return nil, ErrTransferInvalid
	}

	target, err := s.userRepo.GetByID(targetCourierID)
	if err != nil {
		return nil, err
	}
	if target == nil || target.Role != constants.RoleCourier {
		return nil, ErrTransferInvalid
	}

	delivery.CourierID = &target.ID
	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

// UpdateRemarks 骑手填写配送备注
func (s *DeliveryService) UpdateRemarks(id uint, remarks string, courierID uint) (*models.Delivery, error) {
	delivery, err := s.GetForCourier(id, courierID)
	if err != nil {
		return nil, err
	}
	delivery.CourierRemarks = strings.TrimSpace(remarks)
	if err := s.deliveryRepo.Update(delivery); err != nil {
		return nil, err
	}
	return delivery, nil
}

func truncateToDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
