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

func setupDeliveryRepositoryTest(t *testing.T) (*GormDeliveryRepository, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:delivery_repo_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Delivery{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	return NewDeliveryRepository(db), db
}

func seedDelivery(t *testing.T, db *gorm.DB, mutate func(*models.Delivery)) *models.Delivery {
	t.Helper()
	planned := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	delivery := models.Delivery{
		TrackingNo:    fmt.Sprintf("CX-%d", time.Now().UnixNano()),
		PlannedDate:   planned,
		SenderID:      1,
		ReceiverName:  "Rakoto",
		ReceiverPhone: "+261340000001",
		ParcelCount:   1,
		WeightKg:      models.NewWeightFromDecimal(decimal.NewFromInt(2)),
		Zone:          constants.ZoneTana,
		DeliveryPrice: 3000,
		Status:        constants.DeliveryStatusCreated,
	}
	if mutate != nil {
		mutate(&delivery)
	}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery failed: %v", err)
	}
	return &delivery
}

func TestMarkClientSettledIdempotent(t *testing.T) {
	repo, db := setupDeliveryRepositoryTest(t)

	collect := int64(10000)
	paid := seedDelivery(t, db, func(d *models.Delivery) {
		d.Status = constants.DeliveryStatusPaid
		d.CollectAmount = &collect
	})
	delivered := seedDelivery(t, db, func(d *models.Delivery) {
		d.Status = constants.DeliveryStatusDelivered
	})

	now := time.Now().UTC().Truncate(time.Second)
	ids := []uint{paid.ID, delivered.ID, 99999}

	affected, err := repo.MarkClientSettled(ids, constants.SettlementTypeMobileMoney, 7, now)
	if err != nil {
		t.Fatalf("mark settled failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1 (only the paid row matches)", affected)
	}

	var reloaded models.Delivery
	if err := db.First(&reloaded, paid.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.IsSettled || reloaded.SettlementType != constants.SettlementTypeMobileMoney {
		t.Fatalf("paid row not settled: %+v", reloaded)
	}
	if reloaded.SettledBy == nil || *reloaded.SettledBy != 7 {
		t.Fatalf("settled_by = %v, want 7", reloaded.SettledBy)
	}
	firstSettledAt := reloaded.SettledAt

	var untouched models.Delivery
	if err := db.First(&untouched, delivered.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if untouched.IsSettled {
		t.Fatal("delivered-but-unpaid row must be skipped silently")
	}

	// 重复提交：空操作，settled_at 不变。
	affected, err = repo.MarkClientSettled(ids, constants.SettlementTypeCashCourier, 8, now.Add(time.Hour))
	if err != nil {
		t.Fatalf("second mark failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("second confirm affected = %d, want 0", affected)
	}
	if err := db.First(&reloaded, paid.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.SettledAt.Equal(*firstSettledAt) {
		t.Fatalf("settled_at changed on re-confirm: %v -> %v", firstSettledAt, reloaded.SettledAt)
	}
	if reloaded.SettlementType != constants.SettlementTypeMobileMoney {
		t.Fatalf("settlement_type changed on re-confirm: %s", reloaded.SettlementType)
	}
}

func TestMarkCourierSettledIndependentOfClientTrack(t *testing.T) {
	repo, db := setupDeliveryRepositoryTest(t)

	courierID := uint(3)
	paid := seedDelivery(t, db, func(d *models.Delivery) {
		d.Status = constants.DeliveryStatusPaid
		d.CourierID = &courierID
	})

	now := time.Now().UTC().Truncate(time.Second)
	affected, err := repo.MarkCourierSettled([]uint{paid.ID}, 1, now)
	if err != nil {
		t.Fatalf("mark courier settled failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}

	var reloaded models.Delivery
	if err := db.First(&reloaded, paid.ID).Error; err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if !reloaded.CourierSettled {
		t.Fatal("courier_settled not set")
	}
	if reloaded.IsSettled {
		t.Fatal("client settlement must stay untouched by courier confirmation")
	}
}

func TestListDateRangeMatchesOriginalPlannedDate(t *testing.T) {
	repo, db := setupDeliveryRepositoryTest(t)

	from := time.Date(2026, 8, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 8, 12, 0, 0, 0, 0, time.UTC)

	inRange := seedDelivery(t, db, func(d *models.Delivery) {
		d.PlannedDate = time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC)
	})
	// 改期到区间之外，原计划日期仍在区间内。
	original := time.Date(2026, 8, 11, 0, 0, 0, 0, time.UTC)
	postponed := seedDelivery(t, db, func(d *models.Delivery) {
		d.PlannedDate = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
		d.OriginalPlannedDate = &original
		d.Status = constants.DeliveryStatusPostponed
	})
	seedDelivery(t, db, func(d *models.Delivery) {
		d.PlannedDate = time.Date(2026, 8, 25, 0, 0, 0, 0, time.UTC)
	})

	rows, total, err := repo.List(DeliveryListFilter{Page: 1, PageSize: 20, DateFrom: &from, DateTo: &to})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 {
		t.Fatalf("total = %d, want 2", total)
	}
	found := map[uint]bool{}
	for _, row := range rows {
		found[row.ID] = true
	}
	if !found[inRange.ID] || !found[postponed.ID] {
		t.Fatalf("expected ids %d and %d, got %v", inRange.ID, postponed.ID, found)
	}
}

func TestListFiltersByCourierAndStatuses(t *testing.T) {
	repo, db := setupDeliveryRepositoryTest(t)

	courierID := uint(5)
	mine := seedDelivery(t, db, func(d *models.Delivery) {
		d.CourierID = &courierID
		d.Status = constants.DeliveryStatusPickedUp
	})
	seedDelivery(t, db, func(d *models.Delivery) {
		other := uint(6)
		d.CourierID = &other
		d.Status = constants.DeliveryStatusPickedUp
	})
	seedDelivery(t, db, func(d *models.Delivery) {
		d.CourierID = &courierID
		d.Status = constants.DeliveryStatusCanceled
	})

	rows, total, err := repo.List(DeliveryListFilter{
		Page:      1,
		PageSize:  20,
		CourierID: courierID,
		Statuses:  []string{constants.DeliveryStatusCreated, constants.DeliveryStatusPickedUp},
	})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 1 || len(rows) != 1 || rows[0].ID != mine.ID {
		t.Fatalf("unexpected result: total=%d rows=%v", total, rows)
	}
}

func TestCountBySenderAndCourier(t *testing.T) {
	repo, db := setupDeliveryRepositoryTest(t)

	courierID := uint(9)
	seedDelivery(t, db, func(d *models.Delivery) { d.SenderID = 2 })
	seedDelivery(t, db, func(d *models.Delivery) {
		d.SenderID = 2
		d.CourierID = &courierID
	})
	seedDelivery(t, db, func(d *models.Delivery) { d.SenderID = 3 })

	bySender, err := repo.CountBySender(2)
	if err != nil {
		t.Fatalf("count by sender failed: %v", err)
	}
	if bySender != 2 {
		t.Fatalf("sender count = %d, want 2", bySender)
	}
	byCourier, err := repo.CountByCourier(courierID)
	if err != nil {
		t.Fatalf("count by courier failed: %v", err)
	}
	if byCourier != 1 {
		t.Fatalf("courier count = %d, want 1", byCourier)
	}
}
