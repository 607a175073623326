package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"

	"gorm.io/gorm"
)

// DeliveryRepository 配送单数据访问接口
type DeliveryRepository interface {
	Create(delivery *models.Delivery) error
	GetByID(id uint) (*models.Delivery, error)
	GetByTrackingNo(trackingNo string) (*models.Delivery, error)
	List(filter DeliveryListFilter) ([]models.Delivery, int64, error)
	ListAll(filter DeliveryListFilter) ([]models.Delivery, error)
	Update(delivery *models.Delivery) error
	UpdateFields(id uint, updates map[string]interface{}) error
	Delete(id uint) error
	CountBySender(senderID uint) (int64, error)
	CountByCourier(courierID uint) (int64, error)
	CountByStatus(statuses []string, dateFrom, dateTo *time.Time) (int64, error)
	MarkClientSettled(ids []uint, settlementType string, settledBy uint, at time.Time) (int64, error)
	MarkCourierSettled(ids []uint, settledBy uint, at time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormDeliveryRepository
}

// GormDeliveryRepository GORM 实现
type GormDeliveryRepository struct {
	db *gorm.DB
}

// NewDeliveryRepository 创建配送单仓库
func NewDeliveryRepository(db *gorm.DB) *GormDeliveryRepository {
	return &GormDeliveryRepository{db: db}
}

// WithTx 绑定事务
func (r *GormDeliveryRepository) WithTx(tx *gorm.DB) *GormDeliveryRepository {
	if tx == nil {
		return r
	}
	return &GormDeliveryRepository{db: tx}
}

// Create 创建配送单
func (r *GormDeliveryRepository) Create(delivery *models.Delivery) error {
	return r.db.Create(delivery).Error
}

// GetByID 根据 ID 获取配送单（带发件客户与骑手）
func (r *GormDeliveryRepository) GetByID(id uint) (*models.Delivery, error) {
	var delivery models.Delivery
	if err := r.db.Preload("Sender").Preload("Courier").First(&delivery, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}

// GetByTrackingNo 根据运单号获取配送单
func (r *GormDeliveryRepository) GetByTrackingNo(trackingNo string) (*models.Delivery, error) {
	trackingNo = strings.TrimSpace(trackingNo)
	if trackingNo == "" {
		return nil, nil
	}
	var delivery models.Delivery
	if err := r.db.Preload("Sender").Preload("Courier").
		Where("tracking_no = ?", trackingNo).First(&delivery).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &delivery, nil
}

func (r *GormDeliveryRepository) applyFilter(filter DeliveryListFilter) *gorm.DB {
	query := r.db.Model(&models.Delivery{})
	if filter.SenderID != 0 {
		query = query.Where("sender_id = ?", filter.SenderID)
	}
	if filter.CourierID != 0 {
		query = query.Where("courier_id = ?", filter.CourierID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if len(filter.Statuses) > 0 {
		query = query.Where("status IN ?", filter.Statuses)
	}
	if filter.Zone != "" {
		query = query.Where("zone = ?", filter.Zone)
	}
	if filter.TrackingNo != "" {
		query = query.Where("tracking_no = ?", strings.TrimSpace(filter.TrackingNo))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		query = query.Where("tracking_no LIKE ? OR receiver_name LIKE ? OR receiver_phone LIKE ?", like, like, like)
	}
	// 改期单按原计划日期仍属于原区间，两列取或。
	if filter.DateFrom != nil {
		query = query.Where(
			"planned_date >= ? OR (original_planned_date IS NOT NULL AND original_planned_date >= ?)",
			*filter.DateFrom, *filter.DateFrom,
		)
	}
	if filter.DateTo != nil {
		query = query.Where(
			"planned_date <= ? OR (original_planned_date IS NOT NULL AND original_planned_date <= ?)",
			*filter.DateTo, *filter.DateTo,
		)
	}
	if filter.OnlyUnsettled {
		query = query.Where("is_settled = ?", false)
	}
	if filter.CourierPending {
		query = query.Where("courier_settled = ?", false)
	}
	if filter.WithSender {
		query = query.Preload("Sender")
	}
	if filter.WithCourier {
		query = query.Preload("Courier")
	}
	return query
}

// List 配送单分页列表
func (r *GormDeliveryRepository) List(filter DeliveryListFilter) ([]models.Delivery, int64, error) {
	query := r.applyFilter(filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var deliveries []models.Delivery
	if err := applyPagination(query.Order("planned_date DESC, id DESC"), filter.Page, filter.PageSize).
		Find(&deliveries).Error; err != nil {
		return nil, 0, err
	}
	return deliveries, total, nil
}

// ListAll 不分页取全量，供报表与结算聚合使用
func (r *GormDeliveryRepository) ListAll(filter DeliveryListFilter) ([]models.Delivery, error) {
	var deliveries []models.Delivery
	if err := r.applyFilter(filter).Order("planned_date ASC, id ASC").Find(&deliveries).Error; err != nil {
		return nil, err
	}
	return deliveries, nil
}

// Update 更新配送单
func (r *GormDeliveryRepository) Update(delivery *models.Delivery) error {
	return r.db.Save(delivery).Error
}

// UpdateFields 按字段更新配送单
func (r *GormDeliveryRepository) UpdateFields(id uint, updates map[string]interface{}) error {
	return r.db.Model(&models.Delivery{}).Where("id = ?", id).Updates(updates).Error
}

// Delete 删除配送单（软删除）
func (r *GormDeliveryRepository) Delete(id uint) error {
	return r.db.Delete(&models.Delivery{}, id).Error
}

// CountBySender 客户名下配送单数量
func (r *GormDeliveryRepository) CountBySender(senderID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Delivery{}).Where("sender_id = ?", senderID).Count(&count).Error
	return count, err
}

// CountByCourier 骑手名下配送单数量
func (r *GormDeliveryRepository) CountByCourier(courierID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Delivery{}).Where("courier_id = ?", courierID).Count(&count).Error
	return count, err
}

// CountByStatus 按状态与日期区间统计
func (r *GormDeliveryRepository) CountByStatus(statuses []string, dateFrom, dateTo *time.Time) (int64, error) {
	query := r.db.Model(&models.Delivery{})
	if len(statuses) > 0 {
		query = query.Where("status IN ?", statuses)
	}
	if dateFrom != nil {
		query = query.Where("planned_date >= ?", *dateFrom)
	}
	if dateTo != nil {
		query = query.Where("planned_date <= ?", *dateTo)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}

// MarkClientSettled 批量确认客户结算
// 条件更新：只命中 status=paid 且未结算的行，重复提交为空操作。返回受影响行数。
func (r *GormDeliveryRepository) MarkClientSettled(ids []uint, settlementType string, settledBy uint, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Delivery{}).
		Where("id IN ? AND status = ? AND is_settled = ?", ids, constants.DeliveryStatusPaid, false).
		Updates(map[string]interface{}{
			"is_settled":      true,
			"settled_at":      at,
			"settled_by":      settledBy,
			"settlement_type": settlementType,
		})
	return result.RowsAffected, result.Error
}

// MarkCourierSettled 批量确认骑手上缴
// 与客户结算互相独立，条件与幂等语义相同。
func (r *GormDeliveryRepository) MarkCourierSettled(ids []uint, settledBy uint, at time.Time) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	result := r.db.Model(&models.Delivery{}).
		Where("id IN ? AND status = ? AND courier_settled = ?", ids, constants.DeliveryStatusPaid, false).
		Updates(map[string]interface{}{
			"courier_settled":    true,
			"courier_settled_at": at,
			"courier_settled_by": settledBy,
		})
	return result.RowsAffected, result.Error
}
