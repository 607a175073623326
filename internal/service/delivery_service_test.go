package service

import (
	"fmt"
	"testing"
	"time"

	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/queue"
	"github.com/colis-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func setupDeliveryServiceTest(t *testing.T) (*DeliveryService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:delivery_svc_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Delivery{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	queueClient, err := queue.NewClient(&config.QueueConfig{Enabled: false})
	if err != nil {
		t.Fatalf("queue client failed: %v", err)
	}

	svc := NewDeliveryService(
		cfg,
		repository.NewDeliveryRepository(db),
		repository.NewClientRepository(db),
		repository.NewUserRepository(db),
		queueClient,
	)
	return svc, db
}

func seedClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()
	client := models.Client{Name: "Boutique Analakely", Phone: "+261341234567"}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	return &client
}

func seedCourier(t *testing.T, db *gorm.DB, name string) *models.User {
	t.Helper()
	courier := models.User{
		Name:         name,
		Email:        fmt.Sprintf("%s_%d@colis.local", name, time.Now().UnixNano()),
		PasswordHash: "hash",
		Role:         constants.RoleCourier,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&courier).Error; err != nil {
		t.Fatalf("create courier failed: %v", err)
	}
	return &courier
}

func seedAdmin(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	admin := models.User{
		Name:         "Admin",
		Email:        fmt.Sprintf("admin_%d@colis.local", time.Now().UnixNano()),
		PasswordHash: "hash",
		Role:         constants.RoleAdmin,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(&admin).Error; err != nil {
		t.Fatalf("create admin failed: %v", err)
	}
	return &admin
}

func baseCreateInput(clientID uint) CreateDeliveryInput {
	return CreateDeliveryInput{
		SenderID:      clientID,
		PlannedDate:   time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		ReceiverName:  "Rasoa",
		ReceiverPhone: "0341234567",
		ParcelCount:   1,
		WeightKg:      decimal.NewFromInt(3),
		Zone:          constants.ZonePeri,
	}
}

func TestCreateDeliveryComputesPrice(t *testing.T) {
	svc, db := setupDeliveryServiceTest(t)
	client := seedClient(t, db)

	delivery, err := svc.Create(baseCreateInput(client.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if delivery.DeliveryPrice != 7000 {
		t.Fatalf("price = %d, want 7000 (peri 3kg)", delivery.DeliveryPrice)
	}
	if delivery.Status != constants.DeliveryStatusCreated {
		t.Fatalf("status = %s, want created", delivery.Status)
	}
	if delivery.TrackingNo == "" {
		t.Fatal("tracking number must be generated")
	}
	if delivery.ReceiverPhone != "+261341234567" {
		t.Fatalf("phone = %s, want E.164 normalized", delivery.ReceiverPhone)
	}
}

func TestCreateDeliveryUnknownZoneFallsBackToTana(t *testing.T) {
	svc, db := setupDeliveryServiceTest(t)
	client := seedClient(t, db)

	input := baseCreateInput(client.ID)
	input.Zone = "ambositra"
	input.WeightKg = decimal.NewFromInt(1)

	delivery, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if delivery.Zone != constants.ZoneTana {
		t.Fatalf("zone = %s, want tana fallback", delivery.Zone)
	}
	if delivery.DeliveryPrice != 3000 {
		t.Fatalf("price = %d, want tana light 3000", delivery.DeliveryPrice)
	}
}

func TestCreateDeliveryPriceOverride(t *testing.T) {
	svc, db := setupDeliveryServiceTest(t)
	client := seedClient(t, db)

	override := int64(12000)
	input := baseCreateInput(client.ID)
	input.PriceOverride = &override

	delivery, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}
	if delivery.DeliveryPrice != 12000 || !delivery.PriceOverride {
		t.Fatalf("override not applied: price=%d override=%v", delivery.DeliveryPrice, delivery.PriceOverride)
	}
}

func TestUpdateStatusCourierGating(t *testing.T) {
	svc, db := setupDeliveryServiceTest(t)
	client := seedClient(t, db)
	courier := seedCourier(t, db, "Naina")
	other := seedCourier(t, db, "Hery")

	input := baseCreateInput(client.ID)
	input.CourierID = &courier.ID
	delivery, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdateStatus(delivery.ID, constants.DeliveryStatusDelivered, courier); err != ErrInvalidTransition {
		t.Fatalf("created -> delivered must be rejected for courier, got %v", err)
	}
	if _, err := svc.UpdateStatus(delivery.ID, constants.DeliveryStatusPickedUp, other); err != ErrNotAssignedCourier {
		t.Fatalf("foreign courier must be rejected, got %v", err)
	}

	updated, err := svc.UpdateStatus(delivery.ID, constants.DeliveryStatusPickedUp, courier)
	if err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if updated.Status != constants.DeliveryStatusPickedUp {
		t.Fatalf("status = %s, want picked_up", updated.Status)
	}
}

func TestUpdateStatusAdminBypass(t *testing.T) {
	svc, db := setupDeliveryServiceTest(t)
	client := seedClient(t, db)
	admin := seedAdmin(t, db)

	delivery, err := svc.Create(baseCreateInput(client.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	updated, err := svc.UpdateStatus(delivery.ID, constants.DeliveryStatusPaid, admin)
	if err != nil {
		t.Fatalf("admin direct paid failed: %v", err)
	}
	if updated.Status != constants.DeliveryStatusPaid {
		t.Fatalf("status = %s, want paid", updated.Status)
	}
	if _, err := svc.UpdateStatus(delivery.ID, "archived", admin); err != ErrInvalidTransition {
		t.Fatalf("unknown status must fail even for admin, got %v", err)
	}
}

func TestPostponeRules(t *testing.T) {
	svc, db := setupDeliveryServiceTest(t)
	client := seedClient(t, db)
	admin := seedAdmin(t, db)

	delivery, err := svc.Create(baseCreateInput(client.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	today := time.Date(2026, 8, 31, 10, 0, 0, 0, time.UTC)
	if _, err := svc.Postpone(delivery.ID, today, admin, today); err != ErrPostponeDateInvalid {
		t.Fatalf("postpone to today must be rejected, got %v", err)
	}

	target := today.AddDate(0, 0, 2)
	updated, err := svc.Postpone(delivery.ID, target, admin, today)
	if err != nil {
		t.Fatalf("postpone failed: %v", err)
	}
	if updated.Status != constants.DeliveryStatusPostponed {
		t.Fatalf("status = %s, want postponed", updated.Status)
	}
	if updated.OriginalPlannedDate == nil || !updated.OriginalPlannedDate.Equal(time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("original planned date not preserved: %v", updated.OriginalPlannedDate)
	}
	if !updated.PlannedDate.Equal(time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("planned date not rewritten: %v", updated.PlannedDate)
	}

	// 已改期的单子不再允许继续改期。
	if _, err := svc.Postpone(delivery.ID, target.AddDate(0, 0, 3), admin, today); err != ErrPostponeNotAllowed {
		t.Fatalf("postpone from postponed must be rejected, got %v", err)
	}
}

func TestTransferRules(t *testing.T) {
	svc, db := setupDeliveryServiceTest(t)
	client := seedClient(t, db)
	admin := seedAdmin(t, db)
	courier := seedCourier(t, db, "Naina")
	target := seedCourier(t, db, "Hery")

	input := baseCreateInput(client.ID)
	input.CourierID = &courier.ID
	delivery, err := svc.Create(input)
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.Transfer(delivery.ID, courier.ID, courier); err != ErrTransferInvalid {
		t.Fatalf("self transfer must fail, got %v", err)
	}
	if _, err := svc.Transfer(delivery.ID, 99999, courier); err != ErrTransferInvalid {
		t.Fatalf("missing target must fail, got %v", err)
	}
	if _, err := svc.Transfer(delivery.ID, admin.ID, courier); err != ErrTransferInvalid {
		t.Fatalf("non-courier target must fail, got %v", err)
	}

	updated, err := svc.Transfer(delivery.ID, target.ID, courier)
	if err != nil {
		t.Fatalf("courier transfer while created failed: %v", err)
	}
	if updated.CourierID == nil || *updated.CourierID != target.ID {
		t.Fatalf("courier not transferred: %v", updated.CourierID)
	}

	// 出库后骑手不能再转派，管理员仍可。
	if _, err := svc.UpdateStatus(delivery.ID, constants.DeliveryStatusPickedUp, target); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if _, err := svc.Transfer(delivery.ID, courier.ID, target); err != ErrTransferInvalid {
		t.Fatalf("courier transfer after pickup must fail, got %v", err)
	}
	if _, err := svc.Transfer(delivery.ID, courier.ID, admin); err != nil {
		t.Fatalf("admin transfer after pickup failed: %v", err)
	}
}

func TestDeleteDeliveryGuard(t *testing.T) {
	svc, db := setupDeliveryServiceTest(t)
	client := seedClient(t, db)
	admin := seedAdmin(t, db)

	delivery, err := svc.Create(baseCreateInput(client.ID))
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	if _, err := svc.UpdateStatus(delivery.ID, constants.DeliveryStatusPickedUp, admin); err != nil {
		t.Fatalf("pickup failed: %v", err)
	}
	if err := svc.Delete(delivery.ID); err != ErrDeliveryNotDeletable {
		t.Fatalf("delete while picked_up must fail, got %v", err)
	}

	if _, err := svc.UpdateStatus(delivery.ID, constants.DeliveryStatusCanceled, admin); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if err := svc.Delete(delivery.ID); err != nil {
		t.Fatalf("delete canceled failed: %v", err)
	}
	if _, err := svc.Get(delivery.ID); err != ErrDeliveryNotFound {
		t.Fatalf("deleted delivery still readable, got %v", err)
	}
}
