package admin

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/colis-next/internal/config"
	"github.com/colis-next/internal/constants"
	"github.com/colis-next/internal/models"
	"github.com/colis-next/internal/provider"
	"github.com/colis-next/internal/repository"
	"github.com/colis-next/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
)

func setupAdminDeliveryHandlerTest(t *testing.T) (*Handler, *gorm.DB) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:admin_delivery_handler_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Client{}, &models.Delivery{}); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}

	cfg := &config.Config{}
	userRepo := repository.NewUserRepository(db)
	clientRepo := repository.NewClientRepository(db)
	deliveryRepo := repository.NewDeliveryRepository(db)

	h := &Handler{Container: &provider.Container{
		Config:            cfg,
		UserRepo:          userRepo,
		ClientRepo:        clientRepo,
		DeliveryRepo:      deliveryRepo,
		DeliveryService:   service.NewDeliveryService(cfg, deliveryRepo, clientRepo, userRepo, nil),
		SettlementService: service.NewSettlementService(cfg, deliveryRepo, clientRepo, userRepo),
	}}
	return h, db
}

func seedAdminHandlerClient(t *testing.T, db *gorm.DB) *models.Client {
	t.Helper()
	client := models.Client{Name: "Boutique Analakely", PickupZone: constants.PickupZoneTanaVille}
	if err := db.Create(&client).Error; err != nil {
		t.Fatalf("create client failed: %v", err)
	}
	return &client
}

func postJSON(t *testing.T, handler gin.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/admin/deliveries", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Set("current_user_id", uint(1))
	handler(c)
	return w
}

func decodeEnvelope(t *testing.T, w *httptest.ResponseRecorder) (int, map[string]interface{}) {
	t.Helper()
	var resp struct {
		StatusCode int                    `json:"status_code"`
		Data       map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal response failed: %v", err)
	}
	return resp.StatusCode, resp.Data
}

func TestAdminCreateDeliveryComputesPrice(t *testing.T) {
	h, db := setupAdminDeliveryHandlerTest(t)
	client := seedAdminHandlerClient(t, db)

	body := fmt.Sprintf(`{
		"sender_id": %d,
		"planned_date": "2026-09-02",
		"receiver_name": "Mme Razafy",
		"weight_kg": "7.0",
		"zone": "peri",
		"is_express": true,
		"collect_amount": 50000
	}`, client.ID)

	w := postJSON(t, h.AdminCreateDelivery, body)
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d, body %s", code, w.Body.String())
	}
	// peri 7kg: 3000+4000 + ceil(2)*1000 + 3000 加急
	if got := data["delivery_price"].(float64); got != 12000 {
		t.Fatalf("delivery_price want 12000 got %v", got)
	}
	if data["tracking_no"] == "" {
		t.Fatalf("tracking_no should be generated")
	}
	if data["status"] != constants.DeliveryStatusCreated {
		t.Fatalf("status want created got %v", data["status"])
	}
}

func TestAdminCreateDeliveryInvalidZoneFallsBack(t *testing.T) {
	h, db := setupAdminDeliveryHandlerTest(t)
	client := seedAdminHandlerClient(t, db)

	body := fmt.Sprintf(`{
		"sender_id": %d,
		"planned_date": "2026-09-02",
		"receiver_name": "M. Andry",
		"weight_kg": "1.0",
		"zone": "antsirabe"
	}`, client.ID)

	w := postJSON(t, h.AdminCreateDelivery, body)
	code, data := decodeEnvelope(t, w)
	if code != 0 {
		t.Fatalf("status_code want 0 got %d, body %s", code, w.Body.String())
	}
	if data["zone"] != constants.ZoneTana {
		t.Fatalf("invalid zone should fall back to tana, got %v", data["zone"])
	}
	if got := data["delivery_price"].(float64); got != 3000 {
		t.Fatalf("delivery_price want 3000 got %v", got)
	}
}

func TestAdminConfirmClientSettlementEmptyList(t *testing.T) {
	h, _ := setupAdminDeliveryHandlerTest(t)

	body := `{"delivery_ids": [], "settlement_type": "cash_courier"}`
	w := postJSON(t, h.AdminConfirmClientSettlement, body)
	code, _ := decodeEnvelope(t, w)
	if code != 400 {
		t.Fatalf("empty settlement batch should be rejected, status_code got %d body %s", code, w.Body.String())
	}
}
