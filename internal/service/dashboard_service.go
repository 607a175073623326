package service

import (
	"time"

	"github.com/colis-next/internal/repository"
)

// DashboardService 运营总览服务
type DashboardService struct {
	dashboardRepo repository.DashboardRepository
}

// NewDashboardService 创建总览服务实例
func NewDashboardService(dashboardRepo repository.DashboardRepository) *DashboardService {
	return &DashboardService{dashboardRepo: dashboardRepo}
}

// DashboardOverview 总览响应
type DashboardOverview struct {
	Range    DashboardRange                          `json:"range"`
	Overview repository.DashboardOverviewRow         `json:"overview"`
	Trends   []repository.DashboardDeliveryTrendRow  `json:"trends"`
	Couriers []repository.DashboardCourierRankingRow `json:"top_couriers"`
	Clients  []repository.DashboardClientRankingRow  `json:"top_clients"`
}

// DashboardRange 统计区间
type DashboardRange struct {
	StartAt time.Time `json:"start_at"`
	EndAt   time.Time `json:"end_at"`
}

// Overview 聚合总览数据
// days ≤ 0 时默认统计最近 7 天。
func (s *DashboardService) Overview(now time.Time, days, rankLimit int) (*DashboardOverview, error) {
	if days <= 0 {
		days = 7
	}
	endAt := truncateToDay(now).AddDate(0, 0, 1)
	startAt := endAt.AddDate(0, 0, -days)

	overview, err := s.dashboardRepo.GetOverview(startAt, endAt)
	if err != nil {
		return nil, err
	}
	trends, err := s.dashboardRepo.GetDeliveryTrends(startAt, endAt)
	if err != nil {
		return nil, err
	}
	couriers, err := s.dashboardRepo.GetTopCouriers(startAt, endAt, rankLimit)
	if err != nil {
		return nil, err
	}
	clients, err := s.dashboardRepo.GetTopClients(startAt, endAt, rankLimit)
	if err != nil {
		return nil, err
	}

	return &DashboardOverview{
		Range:    DashboardRange{StartAt: startAt, EndAt: endAt},
		Overview: overview,
		Trends:   trends,
		Couriers: couriers,
		Clients:  clients,
	}, nil
}
