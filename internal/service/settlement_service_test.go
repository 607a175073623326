package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupSettlementServiceTest(t *testing.T) (*SettlementService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:settlement_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Delivery{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Settlement.CutoffDays = 1

	svc := NewSettlementService(
		cfg,
		repository.NewDeliveryRepository(db),
		repository.NewClientRepository(db),
		repository.NewUserRepository(db),
	)
	return svc, db
}

func seedSettlementDelivery(t *testing.T, db *gorm.DB, mutate func(*models.Delivery)) *models.Delivery {
	t.Helper()
	delivery := models.Delivery{
		TrackingNo:    fmt.Sprintf("CX-%d", time.Now().UnixNano()),
		PlannedDate:   time.Date(2026, 8, 28, 0, 0, 0, 0, time.UTC),
		SenderID:      1,
		ReceiverName:  "Rasoa",
		ParcelCount:   1,
		WeightKg:      models.NewWeightFromDecimal(decimal.NewFromInt(3)),
		Zone:          constants.ZonePeri,
		DeliveryPrice: 7000,
		Status:        constants.DeliveryStatusPaid,
	}
	if mutate != nil {
		mutate(&delivery)
	}
	if err := db.Create(&delivery).Error; err != nil {
		t.Fatalf("create delivery failed: %v", err)
	}
	return &delivery
}

func TestClientReportAggregation(t *testing.T) {
	svc, db := setupSettlementServiceTest(t)

	client := models.Client{Name: "Boutique Behoririka"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}

	collect := int64(15000)
	seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.SenderID = client.ID
		d.CollectAmount = &collect
	})
	// 未完成单不进入对账。
	seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.SenderID = client.ID
		d.Status = constants.DeliveryStatusCreated
	})
	// 货款预付、运费未预付：对账产生负项；残留的代收金额不计入已收货款。
	staleCollect := int64(9000)
	seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.SenderID = client.ID
		d.IsPrepaid = true
		d.DeliveryPrice = 3000
		d.CollectAmount = &staleCollect
	})

	summary, err := svc.ClientReport(client.ID, nil, nil)
	if err != nil {
		t.Fatalf("client report failed: %v", err)
	}
	if len(summary.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(summary.Lines))
	}
	// 第一单：15000 - 7000 = 8000；第三单：-3000。
	if summary.AmountDue != 5000 {
		t.Fatalf("amount due = %d, want 5000", summary.AmountDue)
	}
	if summary.TotalCollect != 15000 {
		t.Fatalf("total collect = %d, want 15000", summary.TotalCollect)
	}
	if summary.TotalFees != 10000 {
		t.Fatalf("total fees = %d, want 10000", summary.TotalFees)
	}
}

func TestPendingClientSettlementsCutoff(t *testing.T) {
	svc, db := setupSettlementServiceTest(t)

	client := models.Client{Name: "Epicerie Isotry"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}

	today := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	collect := int64(10000)

	eligible := seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.SenderID = client.ID
		d.PlannedDate = time.Date(2026, 8, 30, 0, 0, 0, 0, time.UTC) // 昨天
		d.CollectAmount = &collect
	})
	// 计划日期为今天：J+1 之前不出现。
	seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.SenderID = client.ID
		d.PlannedDate = time.Date(2026, 8, 31, 0, 0, 0, 0, time.UTC)
		d.CollectAmount = &collect
	})
	// 已结算不再出现。
	seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.SenderID = client.ID
		d.PlannedDate = time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
		d.IsSettled = true
	})

	pending, err := svc.PendingClientSettlements(today)
	if err != nil {
		t.Fatalf("pending failed: %v", err)
	}
	if len(pending) != 1 {
		t.Fatalf("groups = %d, want 1", len(pending))
	}
	group := pending[0]
	if len(group.Lines) != 1 || group.Lines[0].Delivery.ID != eligible.ID {
		t.Fatalf("unexpected pending lines: %+v", group.Lines)
	}
	if group.AmountDue != 3000 {
		t.Fatalf("amount due = %d, want 10000-7000=3000", group.AmountDue)
	}
}

func TestConfirmClientSettlementValidation(t *testing.T) {
	svc, db := setupSettlementServiceTest(t)

	if _, err := svc.ConfirmClientSettlement(nil, constants.SettlementTypeCashCourier, 1); err != ErrSettlementEmpty {
		t.Fatalf("empty id list must be rejected, got %v", err)
	}
	if _, err := svc.ConfirmClientSettlement([]uint{1}, "cheque", 1); err != ErrInvalidParameter {
		t.Fatalf("unknown settlement type must be rejected, got %v", err)
	}

	delivery := seedSettlementDelivery(t, db, nil)
	affected, err := svc.ConfirmClientSettlement([]uint{delivery.ID}, constants.SettlementTypeOfficePickup, 1)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if affected != 1 {
		t.Fatalf("affected = %d, want 1", affected)
	}
	affected, err = svc.ConfirmClientSettlement([]uint{delivery.ID}, constants.SettlementTypeOfficePickup, 1)
	if err != nil {
		t.Fatalf("re-confirm failed: %v", err)
	}
	if affected != 0 {
		t.Fatalf("re-confirm affected = %d, want 0 (idempotent)", affected)
	}
}

func TestCourierReportRemitsGross(t *testing.T) {
	svc, db := setupSettlementServiceTest(t)

	courier := models.User{
		Name:         "Naina",
		Email:        "naina@colis.local",
		PasswordHash: "hash",
		Role:         constants.RoleCourier,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&courier).Error; err != nil {
		t.Fatalf("create courier failed: %v", err)
	}

	collect := int64(15000)
	seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.CourierID = &courier.ID
		d.CollectAmount = &collect
	})
	// 已送达未收款：不进入骑手上缴。
	seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.CourierID = &courier.ID
		d.Status = constants.DeliveryStatusDelivered
	})
	// 货款已预付：门口只收运费，残留代收金额不计。
	staleCollect := int64(9000)
	seedSettlementDelivery(t, db, func(d *models.Delivery) {
		d.CourierID = &courier.ID
		d.IsPrepaid = true
		d.DeliveryPrice = 4000
		d.CollectAmount = &staleCollect
	})

	summary, err := svc.CourierReport(courier.ID, nil, nil)
	if err != nil {
		t.Fatalf("courier report failed: %v", err)
	}
	if len(summary.Lines) != 2 {
		t.Fatalf("lines = %d, want 2", len(summary.Lines))
	}
	// 全额上缴：(7000 + 15000) + 4000。
	if summary.AmountDue != 26000 {
		t.Fatalf("amount due = %d, want 26000", summary.AmountDue)
	}
}
