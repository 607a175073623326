package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupDashboardRepositoryTest(t *testing.T) (*GormDashboardRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:dashboard_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Delivery{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewDashboardRepository(db), db
}

func seedDashboardDelivery(t *testing.T, db *gorm.DB, senderID uint, courierID *uint, status string, planned time.Time, price int64, collect *int64, settled bool) {
	t.Helper()
	delivery := models.Delivery{
		TrackingNo:    fmt.Sprintf("CX-DASH-%d", time.Now().UnixNano()),
		PlannedDate:   planned,
		SenderID:      senderID,
		CourierID:     courierID,
		ReceiverName:  "Rasoa",
		ParcelCount:   1,
		WeightKg:      models.NewWeightFromDecimal(decimal.NewFromInt(2)),
		Zone:          constants.ZoneTana,
		DeliveryPrice: price,
		CollectAmount: collect,
		Status:        status,
		IsSettled:     settled,
	}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery failed: %v", err)
	}
}

func TestGetOverviewCountsAndSums(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)

	courier := models.User{Name: "Hery", Email: "hery@test.local", PasswordHash: "x", Role: constants.RoleCourier, Status: constants.UserStatusActive}
	if err := db.Create(&courier).Error; err != nil {
		t.Fatalf("create courier failed: %v", err)
	}
	client := models.Client{Name: "Boutique", PickupZone: constants.PickupZoneTanaVille}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}

	planned := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	collect := int64(40000)
	seedDashboardDelivery(t, db, client.ID, &courier.ID, constants.DeliveryStatusPaid, planned, 3000, &collect, false)
	seedDashboardDelivery(t, db, client.ID, &courier.ID, constants.DeliveryStatusPaid, planned, 4000, nil, true)
	seedDashboardDelivery(t, db, client.ID, nil, constants.DeliveryStatusCreated, planned, 3000, nil, false)
	seedDashboardDelivery(t, db, client.ID, nil, constants.DeliveryStatusCanceled, planned, 0, nil, false)
	// 窗口之外的单不计入
	seedDashboardDelivery(t, db, client.ID, nil, constants.DeliveryStatusPaid, planned.AddDate(0, 0, -10), 9000, nil, false)
	// 货款已预付：残留代收金额不计入现金口径。
	staleCollect := int64(25000)
	prepaid := models.Delivery{
		TrackingNo:    "CX-DASH-PREPAID",
		PlannedDate:   planned,
		SenderID:      client.ID,
		ReceiverName:  "Rasoa",
		ParcelCount:   1,
		WeightKg:      models.NewWeightFromDecimal(decimal.NewFromInt(2)),
		Zone:          constants.ZoneTana,
		DeliveryPrice: 3000,
		CollectAmount: &staleCollect,
		IsPrepaid:     true,
		Status:        constants.DeliveryStatusPaid,
	}
	if err := db.Create(&prepaid).Error; err != nil {
		t.Fatalf("create prepaid delivery failed: %v", err)
	}

	start := planned.AddDate(0, 0, -7)
	end := planned.AddDate(0, 0, 1)
	overview, err := repo.GetOverview(start, end)
	if err != nil {
		t.Fatalf("GetOverview failed: %v", err)
	}

	if overview.DeliveriesTotal != 5 {
		t.Fatalf("total want 5 got %d", overview.DeliveriesTotal)
	}
	if overview.PaidDeliveries != 3 {
		t.Fatalf("paid want 3 got %d", overview.PaidDeliveries)
	}
	if overview.CreatedDeliveries != 1 {
		t.Fatalf("created want 1 got %d", overview.CreatedDeliveries)
	}
	if overview.CanceledDeliveries != 1 {
		t.Fatalf("canceled want 1 got %d", overview.CanceledDeliveries)
	}
	if overview.FeesPaid != 10000 {
		t.Fatalf("fees want 10000 got %d", overview.FeesPaid)
	}
	if overview.CollectPaid != 40000 {
		t.Fatalf("prepaid collect must not count, want 40000 got %d", overview.CollectPaid)
	}
	if overview.PendingSettlement != 2 {
		t.Fatalf("pending settlement want 2 got %d", overview.PendingSettlement)
	}
	if overview.ActiveCouriers != 1 {
		t.Fatalf("active couriers want 1 got %d", overview.ActiveCouriers)
	}
	if overview.Currency != constants.SiteCurrencyDefault {
		t.Fatalf("currency want %s got %s", constants.SiteCurrencyDefault, overview.Currency)
	}
}

func TestGetTopCouriersRanksByPaidCount(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)

	first := models.User{Name: "Hery", Email: "hery@test.local", PasswordHash: "x", Role: constants.RoleCourier, Status: constants.UserStatusActive}
	second := models.User{Name: "Naina", Email: "naina@test.local", PasswordHash: "x", Role: constants.RoleCourier, Status: constants.UserStatusActive}
	if err := db.Create(&first).Error; err != nil {
		t.Fatalf("create courier failed: %v", err)
	}
	if err := db.Create(&second).Error; err != nil {
		t.Fatalf("create courier failed: %v", err)
	}
	client := models.Client{Name: "Boutique", PickupZone: constants.PickupZoneTanaVille}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}

	planned := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	collect := int64(20000)
	seedDashboardDelivery(t, db, client.ID, &first.ID, constants.DeliveryStatusPaid, planned, 3000, &collect, false)
	seedDashboardDelivery(t, db, client.ID, &first.ID, constants.DeliveryStatusPaid, planned, 4000, nil, false)
	seedDashboardDelivery(t, db, client.ID, &second.ID, constants.DeliveryStatusPaid, planned, 3000, nil, false)
	seedDashboardDelivery(t, db, client.ID, &second.ID, constants.DeliveryStatusPickedUp, planned, 3000, nil, false)

	rows, err := repo.GetTopCouriers(planned.AddDate(0, 0, -1), planned.AddDate(0, 0, 1), 5)
	if err != nil {
		t.Fatalf("GetTopCouriers failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows len want 2 got %d", len(rows))
	}
	if rows[0].CourierID != first.ID || rows[0].PaidCount != 2 {
		t.Fatalf("first rank want courier %d with 2 paid, got %+v", first.ID, rows[0])
	}
	if rows[0].FeesCollected != 7000 {
		t.Fatalf("fees collected want 7000 got %d", rows[0].FeesCollected)
	}
	if rows[0].CashCollected != 20000 {
		t.Fatalf("cash collected want 20000 got %d", rows[0].CashCollected)
	}
}

func TestGetTopClientsRanksByDeliveryCount(t *testing.T) {
	repo, db := setupDashboardRepositoryTest(t)

	busy := models.Client{Name: "Boutique", PickupZone: constants.PickupZoneTanaVille}
	quiet := models.Client{Name: "Épicerie", PickupZone: constants.PickupZonePeripherie}
	if err := db.Create(&busy).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	if err := db.Create(&quiet).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}

	planned := time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	seedDashboardDelivery(t, db, busy.ID, nil, constants.DeliveryStatusCreated, planned, 3000, nil, false)
	seedDashboardDelivery(t, db, busy.ID, nil, constants.DeliveryStatusPaid, planned, 4000, nil, false)
	seedDashboardDelivery(t, db, quiet.ID, nil, constants.DeliveryStatusCreated, planned, 3000, nil, false)

	rows, err := repo.GetTopClients(planned.AddDate(0, 0, -1), planned.AddDate(0, 0, 1), 5)
	if err != nil {
		t.Fatalf("GetTopClients failed: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows len want 2 got %d", len(rows))
	}
	if rows[0].ClientID != busy.ID || rows[0].DeliveryCount != 2 {
		t.Fatalf("first rank want client %d with 2 deliveries, got %+v", busy.ID, rows[0])
	}
	if rows[0].FeesBilled != 7000 {
		t.Fatalf("fees billed want 7000 got %d", rows[0].FeesBilled)
	}
}
