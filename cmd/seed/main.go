package main

import (
	"fmt"
	"time"

	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/logger"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/pricing"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// 演示数据种子：客户、骑手、配送单。重复执行不产生重复记录。
func main() {
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	// 客户
	clients := []models.Client{
		{
			Name:          "Boutique Analakely",
			Phone:         "+261340000001",
			PickupAddress: "Lot II A 45, Analakely, Antananarivo",
			PickupZone:    constants.PickupZoneTanaVille,
		},
		{
			Name:          "Épicerie Ivato",
			Phone:         "+261330000002",
			PickupAddress: "Route de l'aéroport, Ivato",
			PickupZone:    constants.PickupZonePeripherie,
		},
		{
			Name:          "Artisanat Ambatolampy",
			Phone:         "+261320000003",
			PickupAddress: "Marché communal, Ambatolampy",
			PickupZone:    constants.PickupZoneSuperPeripherie,
			Note:          "Ramassage le matin uniquement",
		},
	}
	for _, cl := range clients {
		var existing models.Client
		if err := models.DB.Where("name = ?", cl.Name).First(&existing).Error; err != nil {
			if err := models.DB.Create(&cl).Error; err != nil {
				stdLog.Printf("Failed to create client %s: %v", cl.Name, err)
			} else {
				stdLog.Printf("Created client: %s", cl.Name)
			}
		} else {
			stdLog.Printf("Client already exists: %s", cl.Name)
		}
	}

	// 骑手（密码统一 demo 值，仅用于本地环境）
	couriers := []struct {
		Name  string
		Email string
		Phone string
	}{
		{Name: "Hery Rakoto", Email: "hery@colis.local", Phone: "+261341111001"},
		{Name: "Naina Rabe", Email: "naina@colis.local", Phone: "+261331111002"},
	}
	for _, co := range couriers {
		var existing models.User
		if err := models.DB.Where("email = ?", co.Email).First(&existing).Error; err != nil {
			hash, err := bcrypt.GenerateFromPassword([]byte("courier123"), bcrypt.DefaultCost)
			if err != nil {
				stdLog.Fatalf("Failed to hash courier password: %v", err)
			}
			user := models.User{
				Name:         co.Name,
				Email:        co.Email,
				Phone:        co.Phone,
				PasswordHash: string(hash),
				Role:         constants.RoleCourier,
				Status:       constants.UserStatusActive,
			}
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create courier %s: %v", co.Email, err)
			} else {
				stdLog.Printf("Created courier: %s", co.Email)
			}
		} else {
			stdLog.Printf("Courier already exists: %s", co.Email)
		}
	}

	// 回查 ID
	clientIDs := map[string]uint{}
	var clientList []models.Client
	if err := models.DB.Find(&clientList).Error; err != nil {
		stdLog.Fatalf("Failed to load clients: %v", err)
	}
	for _, cl := range clientList {
		clientIDs[cl.Name] = cl.ID
	}
	courierIDs := map[string]uint{}
	var courierList []models.User
	if err := models.DB.Where("role = ?", constants.RoleCourier).Find(&courierList).Error; err != nil {
		stdLog.Fatalf("Failed to load couriers: %v", err)
	}
	for _, co := range courierList {
		courierIDs[co.Email] = co.ID
	}

	today := time.Now().Truncate(24 * time.Hour)
	yesterday := today.AddDate(0, 0, -1)
	tomorrow := today.AddDate(0, 0, 1)

	collect := func(v int64) *int64 { return &v }
	courier := func(email string) *uint {
		if id, ok := courierIDs[email]; ok {
			return &id
		}
		return nil
	}

	type deliverySeed struct {
		TrackingNo    string
		Client        string
		Courier       string
		PlannedDate   time.Time
		ReceiverName  string
		ReceiverPhone string
		Address       string
		WeightKg      float64
		Zone          string
		IsExpress     bool
		CollectAmount *int64
		IsPrepaid     bool
		FeePrepaid    bool
		Status        string
	}
	seeds := []deliverySeed{
		{
			TrackingNo: "CX-DEMO-0001", Client: "Boutique Analakely", Courier: "hery@colis.local",
			PlannedDate: today, ReceiverName: "Mme Razafy", ReceiverPhone: "+261341234001",
			Address: "Ambohijatovo, Antananarivo", WeightKg: 1.5, Zone: constants.ZoneTana,
			CollectAmount: collect(45000), Status: constants.DeliveryStatusCreated,
		},
		{
			TrackingNo: "CX-DEMO-0002", Client: "Boutique Analakely", Courier: "hery@colis.local",
			PlannedDate: today, ReceiverName: "M. Andry", ReceiverPhone: "+261331234002",
			Address: "Itaosy, Antananarivo", WeightKg: 4.0, Zone: constants.ZonePeri,
			IsExpress: true, CollectAmount: collect(120000), Status: constants.DeliveryStatusPickedUp,
		},
		{
			TrackingNo: "CX-DEMO-0003", Client: "Épicerie Ivato", Courier: "naina@colis.local",
			PlannedDate: yesterday, ReceiverName: "Mme Hanta", ReceiverPhone: "+261321234003",
			Address: "Talatamaty", WeightKg: 7.2, Zone: constants.ZonePeri,
			CollectAmount: collect(80000), Status: constants.DeliveryStatusDelivered,
		},
		{
			TrackingNo: "CX-DEMO-0004", Client: "Épicerie Ivato", Courier: "naina@colis.local",
			PlannedDate: yesterday, ReceiverName: "M. Tovo", ReceiverPhone: "+261341234004",
			Address: "Ambohidratrimo", WeightKg: 2.0, Zone: constants.ZoneSuper,
			IsPrepaid: true, Status: constants.DeliveryStatusPaid,
		},
		{
			TrackingNo: "CX-DEMO-0005", Client: "Artisanat Ambatolampy", Courier: "hery@colis.local",
			PlannedDate: tomorrow, ReceiverName: "Mme Voahangy", ReceiverPhone: "+261331234005",
			Address: "Anosy, Antananarivo", WeightKg: 12.5, Zone: constants.ZoneTana,
			FeePrepaid: true, CollectAmount: collect(250000), Status: constants.DeliveryStatusPostponed,
		},
		{
			TrackingNo: "CX-DEMO-0006", Client: "Artisanat Ambatolampy",
			PlannedDate: today, ReceiverName: "M. Solo", ReceiverPhone: "+261321234006",
			Address: "67 Ha, Antananarivo", WeightKg: 0.8, Zone: constants.ZoneTana,
			Status: constants.DeliveryStatusCanceled,
		},
	}

	for _, sd := range seeds {
		var existing models.Delivery
		if err := models.DB.Where("tracking_no = ?", sd.TrackingNo).First(&existing).Error; err == nil {
			stdLog.Printf("Delivery already exists: %s", sd.TrackingNo)
			continue
		}
		senderID, ok := clientIDs[sd.Client]
		if !ok {
			stdLog.Printf("Skip delivery %s: client %s missing", sd.TrackingNo, sd.Client)
			continue
		}
		weight := decimal.NewFromFloat(sd.WeightKg)
		delivery := models.Delivery{
			TrackingNo:         sd.TrackingNo,
			PlannedDate:        sd.PlannedDate,
			SenderID:           senderID,
			CourierID:          courier(sd.Courier),
			ReceiverName:       sd.ReceiverName,
			ReceiverPhone:      sd.ReceiverPhone,
			ReceiverAddress:    sd.Address,
			ParcelCount:        1,
			WeightKg:           models.NewWeightFromDecimal(weight),
			Zone:               sd.Zone,
			IsExpress:          sd.IsExpress,
			DeliveryPrice:      pricing.Compute(sd.Zone, weight, sd.IsExpress),
			CollectAmount:      sd.CollectAmount,
			IsPrepaid:          sd.IsPrepaid,
			DeliveryFeePrepaid: sd.FeePrepaid,
			Status:             sd.Status,
		}
		if sd.Status == constants.DeliveryStatusPostponed {
			original := sd.PlannedDate.AddDate(0, 0, -1)
			delivery.OriginalPlannedDate = &original
			delivery.PostponedTo = &sd.PlannedDate
		}
		if err := models.DB.Create(&delivery).Error; err != nil {
			stdLog.Printf("Failed to create delivery %s: %v", sd.TrackingNo, err)
		} else {
			stdLog.Printf("Created delivery: %s (%s, %d MGA)", sd.TrackingNo, sd.Zone, delivery.DeliveryPrice)
		}
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 3 Clients (tana_ville / peripherie / super_peripherie)")
	fmt.Println("- 2 Couriers (password: courier123)")
	fmt.Println("- 6 Deliveries across zones and statuses")
}
