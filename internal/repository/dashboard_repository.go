package repository

import (
	"time"

	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"

	"gorm.io/gorm"
)

// DashboardRepository 运营总览聚合查询接口
// 说明：仅聚合统计数据，不承载业务规则。
type DashboardRepository interface {
	GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error)
	GetDeliveryTrends(startAt, endAt time.Time) ([]DashboardDeliveryTrendRow, error)
	GetTopCouriers(startAt, endAt time.Time, limit int) ([]DashboardCourierRankingRow, error)
	GetTopClients(startAt, endAt time.Time, limit int) ([]DashboardClientRankingRow, error)
}

// DashboardOverviewRow 总览原始统计结果
type DashboardOverviewRow struct {
	DeliveriesTotal     int64
	CreatedDeliveries   int64
	InTransitDeliveries int64
	DeliveredDeliveries int64
	PaidDeliveries      int64
	CanceledDeliveries  int64
	PostponedDeliveries int64
	FeesPaid            int64
	CollectPaid         int64
	PendingSettlement   int64
	ActiveCouriers      int64
	NewClients          int64
	Currency            string
}

// DashboardDeliveryTrendRow 配送量趋势统计
type DashboardDeliveryTrendRow struct {
	Day             string
	DeliveriesTotal int64
	DeliveriesPaid  int64
}

// DashboardCourierRankingRow 骑手排行原始行
type DashboardCourierRankingRow struct {
	CourierID     uint
	CourierName   string
	PaidCount     int64
	FeesCollected int64
	CashCollected int64
}

// DashboardClientRankingRow 客户排行原始行
type DashboardClientRankingRow struct {
	ClientID      uint
	ClientName    string
	DeliveryCount int64
	FeesBilled    int64
}

// GormDashboardRepository GORM 聚合实现
type GormDashboardRepository struct {
	db *gorm.DB
}

// NewDashboardRepository 创建总览仓库
func NewDashboardRepository(db *gorm.DB) *GormDashboardRepository {
	return &GormDashboardRepository{db: db}
}

func (r *GormDashboardRepository) deliveryBase(startAt, endAt time.Time) *gorm.DB {
	return r.db.Model(&models.Delivery{}).
		Where("planned_date >= ? AND planned_date < ?", startAt, endAt)
}

// GetOverview 获取总览统计
func (r *GormDashboardRepository) GetOverview(startAt, endAt time.Time) (DashboardOverviewRow, error) {
	result := DashboardOverviewRow{Currency: constants.SiteCurrencyDefault}

	if err := r.deliveryBase(startAt, endAt).Count(&result.DeliveriesTotal).Error; err != nil {
		return result, err
	}

	statusCounts := []struct {
		status string
		target *int64
	}{
		{constants.DeliveryStatusCreated, &result.CreatedDeliveries},
		{constants.DeliveryStatusPickedUp, &result.InTransitDeliveries},
		{constants.DeliveryStatusDelivered, &result.DeliveredDeliveries},
		{constants.DeliveryStatusPaid, &result.PaidDeliveries},
		{constants.DeliveryStatusCanceled, &result.CanceledDeliveries},
		{constants.DeliveryStatusPostponed, &result.PostponedDeliveries},
	}
	for _, sc := range statusCounts {
		if err := r.deliveryBase(startAt, endAt).Where("status = ?", sc.status).Count(sc.target).Error; err != nil {
			return result, err
		}
	}

	var sums struct {
		Fees    int64
		Collect int64
	}
	if err := r.deliveryBase(startAt, endAt).
		Where("status = ?", constants.DeliveryStatusPaid).
		Select("COALESCE(SUM(delivery_price), 0) AS fees, " +
			"COALESCE(SUM(CASE WHEN is_prepaid THEN 0 ELSE collect_amount END), 0) AS collect").
		Scan(&sums).Error; err != nil {
		return result, err
	}
	result.FeesPaid = sums.Fees
	result.CollectPaid = sums.Collect

	if err := r.deliveryBase(startAt, endAt).
		Where("status = ? AND is_settled = ?", constants.DeliveryStatusPaid, false).
		Count(&result.PendingSettlement).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.User{}).
		Where("role = ? AND status = ?", constants.RoleCourier, constants.UserStatusActive).
		Count(&result.ActiveCouriers).Error; err != nil {
		return result, err
	}

	if err := r.db.Model(&models.Client{}).
		Where("created_at >= ? AND created_at < ?", startAt, endAt).
		Count(&result.NewClients).Error; err != nil {
		return result, err
	}

	return result, nil
}

// GetDeliveryTrends 按天统计配送量
func (r *GormDashboardRepository) GetDeliveryTrends(startAt, endAt time.Time) ([]DashboardDeliveryTrendRow, error) {
	dayExpr := sqlDateExpr(r.db, "planned_date")
	var rows []DashboardDeliveryTrendRow
	err := r.deliveryBase(startAt, endAt).
		Select(dayExpr + " AS day, COUNT(*) AS deliveries_total, " +
			"SUM(CASE WHEN status = '" + constants.DeliveryStatusPaid + "' THEN 1 ELSE 0 END) AS deliveries_paid").
		Group("day").Order("day ASC").
		Scan(&rows).Error
	return rows, err
}

// GetTopCouriers 骑手完成量排行
func (r *GormDashboardRepository) GetTopCouriers(startAt, endAt time.Time, limit int) ([]DashboardCourierRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []DashboardCourierRankingRow
	err := r.deliveryBase(startAt, endAt).
		Joins("JOIN users ON users.id = deliveries.courier_id").
		Where("deliveries.status = ?", constants.DeliveryStatusPaid).
		Select("deliveries.courier_id AS courier_id, users.name AS courier_name, COUNT(*) AS paid_count, " +
			"COALESCE(SUM(deliveries.delivery_price), 0) AS fees_collected, " +
			"COALESCE(SUM(CASE WHEN deliveries.is_prepaid THEN 0 ELSE deliveries.collect_amount END), 0) AS cash_collected").
		Group("deliveries.courier_id, users.name").
		Order("paid_count DESC").Limit(limit).
		Scan(&rows).Error
	return rows, err
}

// GetTopClients 客户发单量排行
func (r *GormDashboardRepository) GetTopClients(startAt, endAt time.Time, limit int) ([]DashboardClientRankingRow, error) {
	if limit <= 0 {
		limit = 5
	}
	var rows []DashboardClientRankingRow
	err := r.deliveryBase(startAt, endAt).
		Joins("JOIN clients ON clients.id = deliveries.sender_id").
		Select("deliveries.sender_id AS client_id, clients.name AS client_name, COUNT(*) AS delivery_count, " +
			"COALESCE(SUM(deliveries.delivery_price), 0) AS fees_billed").
		Group("deliveries.sender_id, clients.name").
		Order("delivery_count DESC").Limit(limit).
		Scan(&rows).Error
	return rows, err
}
